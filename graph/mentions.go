package graph

import (
	"org_relay/dal"
	"org_relay/shared"
	"regexp"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_mention_matcher.go -package mocks org_relay/graph MentionMatcher

// MentionMatcher finds the known feeds a post's body refers to.
type MentionMatcher interface {
	// Match returns each mentioned feed once, in order of first appearance.
	Match(post *dal.Post, knownFeeds map[string]bool) []string
}

var reOrgLink = regexp.MustCompile(`\[\[org-social:([^\]]+)\]\[([^\]]*)\]\]`)

// OrgLinkMatcher only accepts explicit [[org-social:URL][nick]] links.
type OrgLinkMatcher struct{}

func (OrgLinkMatcher) Match(post *dal.Post, knownFeeds map[string]bool) []string {
	var res []string
	seen := make(map[string]bool)
	for _, groups := range reOrgLink.FindAllStringSubmatch(post.Content, -1) {
		feed := strings.TrimSpace(groups[1])
		if knownFeeds[feed] && !seen[feed] {
			seen[feed] = true
			res = append(res, feed)
		}
	}
	return res
}

var reBareUrl = regexp.MustCompile(`https?://[^\s\[\]<>"']+`)

// SubstringMatcher accepts any occurrence of a feed's canonical URL in the body.
// A link to one of the feed's posts (feed URL plus '#') counts too.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(post *dal.Post, knownFeeds map[string]bool) []string {
	var res []string
	seen := make(map[string]bool)
	for _, candidate := range reBareUrl.FindAllString(post.Content, -1) {
		candidate = strings.TrimRight(candidate, ".,;:!?)")
		if ix := strings.Index(candidate, "#"); ix > 0 {
			candidate = candidate[:ix]
		}
		if knownFeeds[candidate] && !seen[candidate] {
			seen[candidate] = true
			res = append(res, candidate)
		}
	}
	return res
}

// NewMentionMatcher maps a configured matcher name to its implementation.
func NewMentionMatcher(name string) MentionMatcher {
	if name == shared.MatcherSubstring {
		return SubstringMatcher{}
	}
	return OrgLinkMatcher{}
}
