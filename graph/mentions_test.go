package graph_test

import (
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"org_relay/dal"
	"org_relay/graph"
	"org_relay/test/mocks"
	"testing"
	"time"
)

func TestBuildUsesConfiguredMatcher(t *testing.T) {
	const (
		feedA = "https://a.example/social.org"
		feedB = "https://b.example/social.org"
	)
	ts := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	p := &dal.Post{FeedUrl: feedA, PostId: ts.Format(time.RFC3339), Timestamp: ts, Content: "hi b, hi me"}

	ctrl := gomock.NewController(t)
	matcher := mocks.NewMockMentionMatcher(ctrl)
	known := map[string]bool{feedA: true, feedB: true}
	matcher.EXPECT().Match(p, known).Return([]string{feedB, feedA})

	g := graph.Build([]*dal.Post{p}, []string{feedB, feedA}, graph.Options{Matcher: matcher})

	assert.Equal(t, []*dal.Post{p}, g.Mentions(feedB))
	assert.Empty(t, g.Mentions(feedA))
	assert.Equal(t, 1, g.Diag.SelfMentions)
}
