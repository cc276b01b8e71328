package shared

import (
	"fmt"
	"net/url"
)

// IdBuilder produces the relay's own absolute links, as returned in "_links".
type IdBuilder struct {
	Host string
}

func (idb *IdBuilder) RssUrl() string {
	return fmt.Sprintf("https://%s/rss.xml", idb.Host)
}

func (idb *IdBuilder) Group(slug string) string {
	return fmt.Sprintf("/groups/%s/", url.PathEscape(slug))
}
