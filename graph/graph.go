package graph

import (
	"org_relay/dal"
	"org_relay/shared"
	"sort"
)

const defaultMaxDepth = 100

type Options struct {
	MaxDepth int            // cap on parent chains and reply trees
	Matcher  MentionMatcher // nil means OrgLinkMatcher
}

// Chain is the ancestry of a post, thread root first, immediate parent last.
type Chain struct {
	Posts  []string
	Broken bool // a cycle was found or the depth cap was hit
}

type ReactionGroup struct {
	Emoji string
	Posts []*dal.Post // newest first
}

type OptionVotes struct {
	Option string
	Votes  []*dal.Post // newest first
}

type PollTally struct {
	Poll    *dal.Post
	Options []*OptionVotes // in declaration order
	Total   int
}

type TreeNode struct {
	Post        *dal.Post
	ParentChain []string
	Children    []*TreeNode
	Moods       []*ReactionGroup
	Truncated   bool // children beyond the depth cap were left out
}

type Diagnostics struct {
	DanglingReplies int // reply_to points at a post we don't have
	BrokenChains    int
	DroppedVotes    int
	DanglingBoosts  int
	SelfMentions    int // a post linking to its own feed; not a mention
}

// Graph holds every derived relationship between the posts of one snapshot.
// It is never modified after Build returns.
type Graph struct {
	maxDepth  int
	feeds     []string
	posts     map[string]*dal.Post
	ordered   []*dal.Post
	chains    map[string]Chain
	children  map[string][]*dal.Post
	reactions map[string][]*ReactionGroup
	boosts    map[string][]*dal.Post
	tallies   map[string]*PollTally
	polls     []*dal.Post
	mentions  map[string][]*dal.Post
	votesBy   map[string][]*dal.Post
	Diag      Diagnostics
}

// NewestFirst orders posts by timestamp descending, then by post URL.
func NewestFirst(a, b *dal.Post) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.Url() < b.Url()
}

func OldestFirst(a, b *dal.Post) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.Url() < b.Url()
}

func sortPosts(posts []*dal.Post, less func(a, b *dal.Post) bool) {
	sort.SliceStable(posts, func(i, j int) bool { return less(posts[i], posts[j]) })
}

// Build derives the graph from the full post set. Posts of feeds not in feeds
// are still indexed; feeds only bounds who can be mentioned.
func Build(posts []*dal.Post, feeds []string, opts Options) *Graph {

	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if opts.Matcher == nil {
		opts.Matcher = OrgLinkMatcher{}
	}

	g := &Graph{
		maxDepth:  opts.MaxDepth,
		feeds:     append([]string(nil), feeds...),
		posts:     make(map[string]*dal.Post, len(posts)),
		chains:    make(map[string]Chain),
		children:  make(map[string][]*dal.Post),
		reactions: make(map[string][]*ReactionGroup),
		boosts:    make(map[string][]*dal.Post),
		tallies:   make(map[string]*PollTally),
		mentions:  make(map[string][]*dal.Post),
		votesBy:   make(map[string][]*dal.Post),
	}
	sort.Strings(g.feeds)

	for _, p := range posts {
		g.posts[p.Url()] = p
	}
	g.ordered = make([]*dal.Post, 0, len(g.posts))
	for _, p := range g.posts {
		g.ordered = append(g.ordered, p)
	}
	sortPosts(g.ordered, NewestFirst)

	g.buildPolls()
	reactionsByParent := make(map[string][]*dal.Post)
	for _, p := range g.ordered {
		if p.ReplyTo != "" {
			g.buildChain(p)
		}
		switch p.Kind {
		case dal.KindReaction:
			reactionsByParent[p.ReplyTo] = append(reactionsByParent[p.ReplyTo], p)
		case dal.KindVote:
			g.addVote(p)
		case dal.KindBoost:
			if _, ok := g.posts[p.Include]; !ok {
				g.Diag.DanglingBoosts += 1
			}
			g.boosts[p.Include] = append(g.boosts[p.Include], p)
		}
		if p.IsThreadReply() {
			g.children[p.ReplyTo] = append(g.children[p.ReplyTo], p)
		}
	}
	for parent, kids := range g.children {
		sortPosts(kids, OldestFirst)
		g.children[parent] = kids
	}
	for parent, reactions := range reactionsByParent {
		g.reactions[parent] = groupReactions(reactions)
	}

	known := make(map[string]bool, len(g.feeds))
	for _, f := range g.feeds {
		known[f] = true
	}
	for _, p := range g.ordered {
		for _, feed := range opts.Matcher.Match(p, known) {
			if feed == p.FeedUrl {
				g.Diag.SelfMentions += 1
				continue
			}
			g.mentions[feed] = append(g.mentions[feed], p)
		}
	}
	return g
}

// buildChain walks reply_to upwards with a visited set and the depth cap.
func (g *Graph) buildChain(p *dal.Post) {

	var chain Chain
	visited := map[string]bool{p.Url(): true}
	cur := p.ReplyTo
	for cur != "" {
		if visited[cur] || len(chain.Posts) >= g.maxDepth {
			chain.Broken = true
			break
		}
		visited[cur] = true
		chain.Posts = append(chain.Posts, cur)
		parent, ok := g.posts[cur]
		if !ok {
			if len(chain.Posts) == 1 {
				g.Diag.DanglingReplies += 1
			}
			break
		}
		cur = parent.ReplyTo
	}
	if chain.Broken {
		g.Diag.BrokenChains += 1
	}
	for i, j := 0, len(chain.Posts)-1; i < j; i, j = i+1, j-1 {
		chain.Posts[i], chain.Posts[j] = chain.Posts[j], chain.Posts[i]
	}
	g.chains[p.Url()] = chain
}

func (g *Graph) buildPolls() {
	for _, p := range g.ordered {
		if p.Kind != dal.KindPollDefinition {
			continue
		}
		tally := &PollTally{Poll: p}
		for _, opt := range p.PollOptions {
			tally.Options = append(tally.Options, &OptionVotes{Option: opt})
		}
		g.tallies[p.Url()] = tally
		g.polls = append(g.polls, p)
	}
}

// addVote is called in newest-first order, so option lists stay newest first.
func (g *Graph) addVote(p *dal.Post) {
	tally, ok := g.tallies[p.ReplyTo]
	if !ok {
		g.Diag.DroppedVotes += 1
		return
	}
	for _, opt := range tally.Options {
		if opt.Option == p.PollOption {
			opt.Votes = append(opt.Votes, p)
			tally.Total += 1
			g.votesBy[p.FeedUrl] = append(g.votesBy[p.FeedUrl], p)
			return
		}
	}
	g.Diag.DroppedVotes += 1
}

// groupReactions expects reactions newest first.
func groupReactions(reactions []*dal.Post) []*ReactionGroup {
	var groups []*ReactionGroup
	byEmoji := make(map[string]*ReactionGroup)
	for _, r := range reactions {
		grp, ok := byEmoji[r.Mood]
		if !ok {
			grp = &ReactionGroup{Emoji: r.Mood}
			byEmoji[r.Mood] = grp
			groups = append(groups, grp)
		}
		grp.Posts = append(grp.Posts, r)
	}
	return groups
}

func (g *Graph) Feeds() []string {
	return g.feeds
}

func (g *Graph) Post(postUrl string) (*dal.Post, bool) {
	p, ok := g.posts[postUrl]
	return p, ok
}

// Posts returns all posts, newest first.
func (g *Graph) Posts() []*dal.Post {
	return g.ordered
}

func (g *Graph) ParentChain(postUrl string) Chain {
	return g.chains[postUrl]
}

// Children returns the thread replies to a post, oldest first.
func (g *Graph) Children(postUrl string) []*dal.Post {
	return g.children[postUrl]
}

func (g *Graph) Reactions(postUrl string) []*ReactionGroup {
	return g.reactions[postUrl]
}

// Boosts returns the posts including postUrl, newest first.
func (g *Graph) Boosts(postUrl string) []*dal.Post {
	return g.boosts[postUrl]
}

func (g *Graph) Polls() []*dal.Post {
	return g.polls
}

func (g *Graph) PollVotes(postUrl string) (*PollTally, bool) {
	tally, ok := g.tallies[postUrl]
	return tally, ok
}

// VotesBy returns the valid votes a feed cast, newest first.
func (g *Graph) VotesBy(feedUrl string) []*dal.Post {
	return g.votesBy[feedUrl]
}

// Mentions returns the posts mentioning a feed, newest first.
func (g *Graph) Mentions(feedUrl string) []*dal.Post {
	return g.mentions[feedUrl]
}

func (g *Graph) isAuthoredBy(postUrl, feedUrl string) bool {
	if _, ok := g.posts[postUrl]; !ok {
		return false
	}
	return shared.FeedOfPost(postUrl) == feedUrl
}
