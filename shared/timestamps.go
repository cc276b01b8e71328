package shared

import (
	"fmt"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02T15:04Z07:00",
}

// ParseTimestamp parses a post ID or POLL_END value: ISO-8601 with an offset
// written as 'Z', '+hh:mm' or '+hhmm'.
func ParseTimestamp(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp '%s'", str)
}

// NormalizePostId rewrites a timestamp ID in one canonical form, so the same ID written
// with '+hhmm' or '+hh:mm' names the same post. The offset itself is kept.
// Anything that is not a timestamp is returned unchanged.
func NormalizePostId(id string) string {
	ts, err := ParseTimestamp(id)
	if err != nil {
		return id
	}
	return ts.Format(time.RFC3339Nano)
}

// NormalizePostUrl applies NormalizePostId to the ID part of a post URL.
func NormalizePostUrl(postUrl string) string {
	feedUrl, postId, ok := SplitPostUrl(strings.TrimSpace(postUrl))
	if !ok {
		return postUrl
	}
	return MakePostUrl(feedUrl, NormalizePostId(postId))
}
