package texts

import (
	"embed"
	"fmt"
	"html"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_texts.go -package mocks org_relay/texts ITexts

//go:embed snippets
var fs embed.FS

// Snippet IDs for the RSS export's channel header.
const (
	RssAllTitle        = "rss-all-title.txt"
	RssAllDescription  = "rss-all-description.txt"
	RssTagTitle        = "rss-tag-title.txt"
	RssTagDescription  = "rss-tag-description.txt"
	RssFeedTitle       = "rss-feed-title.txt"
	RssFeedDescription = "rss-feed-description.txt"
)

type ITexts interface {
	Get(id string) string
	WithVals(id string, vals map[string]string) string
}

func NewTexts() ITexts {
	return &texts{}
}

type texts struct {
}

func (t *texts) Get(id string) string {
	fn := fmt.Sprintf("snippets/%s", id)
	bytes, err := fs.ReadFile(fn)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bytes))
}

// WithVals substitutes {{name}} placeholders; values are HTML-escaped in .html snippets.
func (t *texts) WithVals(id string, vals map[string]string) string {
	res := t.Get(id)
	isHtml := strings.HasSuffix(id, ".html")
	for ph, val := range vals {
		if isHtml {
			val = html.EscapeString(val)
		}
		res = strings.ReplaceAll(res, "{{"+ph+"}}", val)
	}
	return res
}
