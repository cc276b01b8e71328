package server

import (
	"github.com/gorilla/feeds"
	"github.com/microcosm-cc/bluemonday"
	"html"
	"net/http"
	"net/url"
	"org_relay/index"
	"org_relay/shared"
	"org_relay/texts"
	"strings"
)

const rssTitleLen = 80

type rssHandlerGroup struct {
	cfg      *shared.Config
	logger   shared.ILogger
	indexMgr index.IIndexManager
	txt      texts.ITexts
	ugc      *bluemonday.Policy
}

func NewRssHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	indexMgr index.IIndexManager,
	txt texts.ITexts,
) IHandlerGroup {
	res := rssHandlerGroup{
		cfg:      cfg,
		logger:   logger,
		indexMgr: indexMgr,
		txt:      txt,
		ugc:      bluemonday.UGCPolicy(),
	}
	return &res
}

func (hg *rssHandlerGroup) Prefix() string {
	return "/"
}

func (hg *rssHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/rss.xml", func(w http.ResponseWriter, r *http.Request) { hg.getRss(w, r) }},
	}
}

func (hg *rssHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return emptyMW
}

func (hg *rssHandlerGroup) getRss(w http.ResponseWriter, r *http.Request) {

	snap := hg.indexMgr.Current()
	if writeCacheHeaders(w, r, snap) {
		return
	}
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	feedUrl := ""
	if tag == "" {
		feedUrl = strings.TrimSpace(r.URL.Query().Get("feed"))
	}

	rss, err := hg.buildFeed(snap, tag, feedUrl)
	if err != nil {
		hg.logger.Errorf("Failed to render RSS: %v", err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err = w.Write([]byte(rss)); err != nil {
		hg.logger.Warnf("Failed to write RSS response: %v", err)
	}
}

func (hg *rssHandlerGroup) buildFeed(snap *index.Snapshot, tag, feedUrl string) (string, error) {

	idb := shared.IdBuilder{Host: hg.cfg.Host}
	feed := &feeds.Feed{
		Title:       hg.txt.Get(texts.RssAllTitle),
		Link:        &feeds.Link{Href: idb.RssUrl()},
		Description: hg.txt.Get(texts.RssAllDescription),
		Created:     snap.LastModified,
	}
	if tag != "" {
		vals := map[string]string{"tag": tag}
		feed.Title = hg.txt.WithVals(texts.RssTagTitle, vals)
		feed.Link.Href = idb.RssUrl() + "?tag=" + url.QueryEscape(tag)
		feed.Description = hg.txt.WithVals(texts.RssTagDescription, vals)
	} else if feedUrl != "" {
		vals := map[string]string{"feed": feedUrl}
		feed.Title = hg.txt.WithVals(texts.RssFeedTitle, vals)
		feed.Link.Href = idb.RssUrl() + "?feed=" + url.QueryEscape(feedUrl)
		feed.Description = hg.txt.WithVals(texts.RssFeedDescription, vals)
	}

	for _, post := range snap.LatestPosts(tag, feedUrl, hg.cfg.RssMaxItems) {
		author := post.FeedUrl
		if prof, ok := snap.Profile(post.FeedUrl); ok && prof.Nick != "" {
			author = prof.Nick
		}
		content := strings.TrimSpace(post.Content)
		title := shared.TruncateWithEllipsis(firstLine(content), rssTitleLen)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          post.Url(),
			Title:       title,
			Link:        &feeds.Link{Href: post.Url()},
			Author:      &feeds.Author{Name: author},
			Description: hg.ugc.Sanitize(orgToHtml(content)),
			Created:     post.Timestamp,
		})
	}
	return feed.ToRss()
}

func firstLine(text string) string {
	if ix := strings.IndexByte(text, '\n'); ix >= 0 {
		return strings.TrimSpace(text[:ix])
	}
	return text
}

// orgToHtml escapes the body and keeps its paragraph breaks; the result still goes through the sanitizer.
func orgToHtml(text string) string {
	var sb strings.Builder
	for i, para := range strings.Split(text, "\n\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(html.EscapeString(strings.TrimSpace(para)), "\n", "<br/>"))
		sb.WriteString("</p>")
	}
	return sb.String()
}
