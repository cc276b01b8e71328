package graph

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"org_relay/dal"
	"testing"
	"time"
)

const (
	feedA = "https://a.example/social.org"
	feedB = "https://b.example/social.org"
	feedC = "https://c.example/social.org"
)

var t0 = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func at(minutes int) (string, time.Time) {
	ts := t0.Add(time.Duration(minutes) * time.Minute)
	return ts.Format(time.RFC3339), ts
}

type postOpt func(p *dal.Post)

func replyTo(url string) postOpt { return func(p *dal.Post) { p.ReplyTo = url } }
func mood(emoji string) postOpt { return func(p *dal.Post) { p.Mood = emoji } }
func vote(option string) postOpt { return func(p *dal.Post) { p.PollOption = option } }
func include(url string) postOpt { return func(p *dal.Post) { p.Include = url } }
func content(text string) postOpt { return func(p *dal.Post) { p.Content = text } }
func poll(options ...string) postOpt {
	return func(p *dal.Post) {
		end := p.Timestamp.Add(72 * time.Hour)
		p.PollEnd = &end
		p.PollOptions = options
	}
}

func mkPost(feed string, minutes int, opts ...postOpt) *dal.Post {
	id, ts := at(minutes)
	p := &dal.Post{FeedUrl: feed, PostId: id, Timestamp: ts}
	for _, opt := range opts {
		opt(p)
	}
	p.Kind = dal.Classify(p)
	return p
}

func TestPollVotesScenario(t *testing.T) {
	pollPost := mkPost(feedA, 1, poll("Cat", "Dog"))
	vb := mkPost(feedB, 2, replyTo(pollPost.Url()), vote("Cat"))
	vc := mkPost(feedC, 3, replyTo(pollPost.Url()), vote("Fish"))
	g := Build([]*dal.Post{pollPost, vb, vc}, []string{feedA, feedB, feedC}, Options{})

	tally, ok := g.PollVotes(pollPost.Url())
	require.True(t, ok)
	require.Len(t, tally.Options, 2)
	assert.Equal(t, "Cat", tally.Options[0].Option)
	assert.Equal(t, []*dal.Post{vb}, tally.Options[0].Votes)
	assert.Equal(t, "Dog", tally.Options[1].Option)
	assert.Empty(t, tally.Options[1].Votes)
	assert.Equal(t, 1, tally.Total)
	assert.Equal(t, 1, g.Diag.DroppedVotes)
	assert.Equal(t, []*dal.Post{pollPost}, g.Polls())

	// Votes are not thread replies
	assert.Empty(t, g.Children(pollPost.Url()))
}

func TestVoteOnNonPollIsDropped(t *testing.T) {
	plain := mkPost(feedA, 1)
	v := mkPost(feedB, 2, replyTo(plain.Url()), vote("Cat"))
	g := Build([]*dal.Post{plain, v}, nil, Options{})
	_, ok := g.PollVotes(plain.Url())
	assert.False(t, ok)
	assert.Equal(t, 1, g.Diag.DroppedVotes)
}

func TestReplyTreeWithMoods(t *testing.T) {
	x := mkPost(feedA, 1)
	y := mkPost(feedB, 2, replyTo(x.Url()))
	z := mkPost(feedC, 3, replyTo(x.Url()), mood("❤"))
	g := Build([]*dal.Post{x, y, z}, nil, Options{})

	tree, ok := g.ReplyTree(x.Url())
	require.True(t, ok)
	assert.Equal(t, x, tree.Post)
	assert.Empty(t, tree.ParentChain)
	require.Len(t, tree.Moods, 1)
	assert.Equal(t, "❤", tree.Moods[0].Emoji)
	assert.Equal(t, []*dal.Post{z}, tree.Moods[0].Posts)

	require.Len(t, tree.Children, 1)
	child := tree.Children[0]
	assert.Equal(t, y, child.Post)
	assert.Empty(t, child.Moods)
	assert.Equal(t, []string{x.Url()}, child.ParentChain)
	assert.Empty(t, child.Children)

	_, ok = g.ReplyTree(feedA + "#nope")
	assert.False(t, ok)
}

func TestReactionGrouping(t *testing.T) {
	x := mkPost(feedA, 1)
	r1 := mkPost(feedB, 2, replyTo(x.Url()), mood("👍"))
	r2 := mkPost(feedC, 3, replyTo(x.Url()), mood("❤"))
	r3 := mkPost(feedA, 4, replyTo(x.Url()), mood("👍"))
	g := Build([]*dal.Post{r1, x, r3, r2}, nil, Options{})

	groups := g.Reactions(x.Url())
	require.Len(t, groups, 2)
	assert.Equal(t, "👍", groups[0].Emoji)
	assert.Equal(t, []*dal.Post{r3, r1}, groups[0].Posts)
	assert.Equal(t, "❤", groups[1].Emoji)
	assert.Equal(t, []*dal.Post{r2}, groups[1].Posts)
}

func TestParentChainRootFirst(t *testing.T) {
	p1 := mkPost(feedA, 1)
	p2 := mkPost(feedB, 2, replyTo(p1.Url()))
	p3 := mkPost(feedC, 3, replyTo(p2.Url()))
	p4 := mkPost(feedA, 4, replyTo(p3.Url()))
	g := Build([]*dal.Post{p4, p3, p2, p1}, nil, Options{})

	chain := g.ParentChain(p4.Url())
	assert.False(t, chain.Broken)
	assert.Equal(t, []string{p1.Url(), p2.Url(), p3.Url()}, chain.Posts)
	assert.Empty(t, g.ParentChain(p1.Url()).Posts)
	assert.Equal(t, 0, g.Diag.BrokenChains)
}

func TestParentChainCycleIsTruncated(t *testing.T) {
	idA, tsA := at(1)
	idB, tsB := at(2)
	urlA := feedA + "#" + idA
	urlB := feedB + "#" + idB
	a := &dal.Post{FeedUrl: feedA, PostId: idA, Timestamp: tsA, ReplyTo: urlB, Kind: dal.KindReply}
	b := &dal.Post{FeedUrl: feedB, PostId: idB, Timestamp: tsB, ReplyTo: urlA, Kind: dal.KindReply}
	g := Build([]*dal.Post{a, b}, nil, Options{})

	chainA := g.ParentChain(urlA)
	assert.True(t, chainA.Broken)
	assert.Equal(t, []string{urlB}, chainA.Posts)
	chainB := g.ParentChain(urlB)
	assert.True(t, chainB.Broken)
	assert.Equal(t, []string{urlA}, chainB.Posts)
	assert.Equal(t, 2, g.Diag.BrokenChains)

	// B is A's ancestor, so it must not show up again below A
	tree, ok := g.ReplyTree(urlA)
	require.True(t, ok)
	assert.Equal(t, []string{urlB}, tree.ParentChain)
	assert.Empty(t, tree.Children)
	assertChainsCycleFree(t, tree)

	// Reply to the cycle from outside: its subtree stays cycle-free too
	idC, tsC := at(3)
	c := &dal.Post{FeedUrl: feedC, PostId: idC, Timestamp: tsC, ReplyTo: urlA, Kind: dal.KindReply}
	g = Build([]*dal.Post{a, b, c}, nil, Options{})
	tree, ok = g.ReplyTree(urlB)
	require.True(t, ok)
	require.Len(t, tree.Children, 0)
	tree, ok = g.ReplyTree(c.Url())
	require.True(t, ok)
	assert.NotContains(t, tree.ParentChain, c.Url())
	assertChainsCycleFree(t, tree)
}

func assertChainsCycleFree(t *testing.T, node *TreeNode) {
	t.Helper()
	stack := []*TreeNode{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen := map[string]bool{n.Post.Url(): true}
		for _, url := range n.ParentChain {
			assert.False(t, seen[url], "%s repeats in the chain of %s", url, n.Post.Url())
			seen[url] = true
		}
		stack = append(stack, n.Children...)
	}
}

func TestParentChainDanglingParent(t *testing.T) {
	missing := feedB + "#2020-01-01T00:00:00Z"
	p := mkPost(feedA, 1, replyTo(missing))
	q := mkPost(feedC, 2, replyTo(p.Url()))
	g := Build([]*dal.Post{p, q}, nil, Options{})

	assert.Equal(t, []string{missing}, g.ParentChain(p.Url()).Posts)
	assert.Equal(t, []string{missing, p.Url()}, g.ParentChain(q.Url()).Posts)
	assert.False(t, g.ParentChain(q.Url()).Broken)
	assert.Equal(t, 1, g.Diag.DanglingReplies)
}

func TestDepthCap(t *testing.T) {
	var posts []*dal.Post
	prev := ""
	for i := 0; i < 10; i++ {
		var p *dal.Post
		if prev == "" {
			p = mkPost(feedA, i)
		} else {
			p = mkPost(feedA, i, replyTo(prev))
		}
		posts = append(posts, p)
		prev = p.Url()
	}
	g := Build(posts, nil, Options{MaxDepth: 3})

	chain := g.ParentChain(posts[9].Url())
	assert.True(t, chain.Broken)
	assert.Len(t, chain.Posts, 3)
	assert.Equal(t, posts[6].Url(), chain.Posts[0])

	tree, _ := g.ReplyTree(posts[0].Url())
	depth := 0
	node := tree
	for len(node.Children) > 0 {
		node = node.Children[0]
		depth += 1
	}
	assert.Equal(t, 3, depth)
	assert.True(t, node.Truncated)
}

func TestBoosts(t *testing.T) {
	x := mkPost(feedA, 1)
	b1 := mkPost(feedB, 2, include(x.Url()))
	b2 := mkPost(feedC, 3, include(x.Url()))
	dangling := mkPost(feedC, 4, include(feedB+"#gone"))
	g := Build([]*dal.Post{x, b1, b2, dangling}, nil, Options{})
	assert.Equal(t, []*dal.Post{b2, b1}, g.Boosts(x.Url()))
	assert.Equal(t, 1, g.Diag.DanglingBoosts)
}

func TestMentionMatchers(t *testing.T) {
	known := map[string]bool{feedA: true, feedB: true}
	p := &dal.Post{Content: fmt.Sprintf(
		"Hi [[org-social:%s][a]] and [[org-social:%s][a again]], see %s#2025 and %s.",
		feedA, feedA, feedB, feedC)}

	assert.Equal(t, []string{feedA}, OrgLinkMatcher{}.Match(p, known))
	assert.Equal(t, []string{feedA, feedB}, SubstringMatcher{}.Match(p, known))
	assert.IsType(t, SubstringMatcher{}, NewMentionMatcher("substring"))
	assert.IsType(t, OrgLinkMatcher{}, NewMentionMatcher(""))
}

func TestSelfMentionIsNotAMention(t *testing.T) {
	self := mkPost(feedA, 1, content("Note to [[org-social:"+feedA+"][me]]"))
	both := mkPost(feedA, 2, content("[[org-social:"+feedA+"][me]] and [[org-social:"+feedB+"][b]]"))
	g := Build([]*dal.Post{self, both}, []string{feedA, feedB}, Options{})

	assert.Empty(t, g.Mentions(feedA))
	assert.Equal(t, []*dal.Post{both}, g.Mentions(feedB))
	assert.Equal(t, 2, g.Diag.SelfMentions)
	assert.Empty(t, g.Notifications(feedA))
}

func TestNotifications(t *testing.T) {
	x := mkPost(feedA, 1)
	mention := mkPost(feedB, 2, content("Hey [[org-social:"+feedA+"][a]]"))
	reply := mkPost(feedC, 3, replyTo(x.Url()))
	reaction := mkPost(feedB, 4, replyTo(x.Url()), mood("🎉"))
	boost := mkPost(feedC, 5, include(x.Url()))
	pollPost := mkPost(feedA, 6, poll("Yes", "No"))
	v := mkPost(feedB, 7, replyTo(pollPost.Url()), vote("Yes"))
	other := mkPost(feedB, 8, replyTo(feedC+"#elsewhere"))
	posts := []*dal.Post{x, mention, reply, reaction, boost, pollPost, v, other}
	g := Build(posts, []string{feedA, feedB, feedC}, Options{})

	items := g.Notifications(feedA)
	require.Len(t, items, 4)
	assert.Equal(t, NotifBoost, items[0].Kind)
	assert.Equal(t, NotifReaction, items[1].Kind)
	assert.Equal(t, "🎉", items[1].Emoji)
	assert.Equal(t, NotifReply, items[2].Kind)
	assert.Equal(t, x.Url(), items[2].Parent)
	assert.Equal(t, NotifMention, items[3].Kind)

	counts := CountByKind(items)
	sum := 0
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, len(items), sum)
	assert.Equal(t, 1, counts[NotifMention])

	assert.Empty(t, g.Notifications(feedC))
}

func TestParseNotificationKind(t *testing.T) {
	k, ok := ParseNotificationKind("boost")
	assert.True(t, ok)
	assert.Equal(t, NotifBoost, k)
	_, ok = ParseNotificationKind("vote")
	assert.False(t, ok)
}
