package shared

import (
	"fmt"
	"github.com/gosimple/slug"
	"net/url"
	"strings"
	"unicode"
)

const postUrlSep = "#"

func GetHostName(feedUrl string) (string, error) {
	var parsedUrl *url.URL
	var urlError error
	parsedUrl, urlError = url.Parse(feedUrl)
	if urlError != nil {
		return "", fmt.Errorf("failed to parse URL '%s': %v", feedUrl, urlError)
	}
	return parsedUrl.Hostname(), nil
}

// IsHttpUrl tells if str is an absolute http(s) URL with a host.
func IsHttpUrl(str string) bool {
	if !strings.HasPrefix(str, "http://") && !strings.HasPrefix(str, "https://") {
		return false
	}
	parsedUrl, err := url.Parse(str)
	if err != nil {
		return false
	}
	return parsedUrl.Host != ""
}

// MakePostUrl returns the canonical identity of a post: feed URL, '#', post ID.
func MakePostUrl(feedUrl, postId string) string {
	return feedUrl + postUrlSep + postId
}

// SplitPostUrl is the inverse of MakePostUrl. The split happens at the last '#'.
func SplitPostUrl(postUrl string) (feedUrl, postId string, ok bool) {
	ix := strings.LastIndex(postUrl, postUrlSep)
	if ix <= 0 || ix == len(postUrl)-1 {
		return "", "", false
	}
	return postUrl[:ix], postUrl[ix+1:], true
}

// FeedOfPost returns the feed part of a post URL, or "" if it is malformed.
func FeedOfPost(postUrl string) string {
	feedUrl, _, ok := SplitPostUrl(postUrl)
	if !ok {
		return ""
	}
	return feedUrl
}

// SlugifyGroup turns a group display name into its slug ("Org Social" => "org-social").
func SlugifyGroup(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// NormalizeHost strips scheme and slashes so relay node addresses can be compared.
func NormalizeHost(str string) string {
	str = strings.TrimSpace(strings.ToLower(str))
	str = strings.TrimPrefix(str, "http://")
	str = strings.TrimPrefix(str, "https://")
	return strings.Trim(str, "/")
}

func TruncateWithEllipsis(text string, maxLen int) string {
	// https://stackoverflow.com/a/73939904/7479498
	lastSpaceIx := maxLen
	len := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			lastSpaceIx = i
		}
		len++
		if len > maxLen {
			return text[:lastSpaceIx] + "…"
		}
	}
	// If here, string is shorter or equal to maxLen
	return text
}
