package index

import (
	"org_relay/dal"
	"org_relay/graph"
	"strings"
	"time"
)

type FeedsResult struct {
	Feeds   []string
	Version string
}

type PostsResult struct {
	Posts   []string
	Version string
}

type ReactionItem struct {
	Post   string `json:"post"`
	Emoji  string `json:"emoji"`
	Parent string `json:"parent"`
}

type ReactionsResult struct {
	Items   []ReactionItem
	Version string
}

type ReplyToItem struct {
	Post        string   `json:"post"`
	Parent      string   `json:"parent"`
	ParentChain []string `json:"parent_chain"`
}

type RepliesToResult struct {
	Items   []ReplyToItem
	Version string
}

type NotificationItem struct {
	Kind   string `json:"type"`
	Post   string `json:"post"`
	Parent string `json:"parent,omitempty"`
	Emoji  string `json:"emoji,omitempty"`
}

type NotificationsResult struct {
	Items   []NotificationItem
	Total   int
	ByType  map[string]int
	Version string
}

type Mood struct {
	Emoji string   `json:"emoji"`
	Posts []string `json:"posts"`
}

type ReplyNode struct {
	Post        string       `json:"post"`
	ParentChain []string     `json:"parent_chain"`
	Children    []*ReplyNode `json:"children"`
	Moods       []Mood       `json:"moods"`
	Truncated   bool         `json:"truncated,omitempty"`
}

type RepliesResult struct {
	Root    *ReplyNode
	Version string
}

type InteractionsResult struct {
	Post      string
	Reactions []ReactionItem
	Replies   []string
	Boosts    []string
	Version   string
}

type GroupsResult struct {
	Groups  []Group
	Version string
}

type GroupMessage struct {
	Post     string          `json:"post"`
	Children []*GroupMessage `json:"children"`
}

type GroupMessagesResult struct {
	Group    Group
	Messages []*GroupMessage
	Members  []string
	Version  string
}

type PollInfo struct {
	Post    string    `json:"id"`
	Feed    string    `json:"feed"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	PollEnd time.Time `json:"poll_end"`
	Options []string  `json:"options"`
}

type PollsResult struct {
	Polls   []PollInfo
	Version string
}

type VoteInfo struct {
	Vote        string    `json:"vote_post_id"`
	Poll        string    `json:"poll_id"`
	PollAuthor  string    `json:"poll_author"`
	PollContent string    `json:"poll_content"`
	Option      string    `json:"selected_option"`
	VotedAt     time.Time `json:"voted_at"`
}

type VotesResult struct {
	Votes   []VoteInfo
	Version string
}

type OptionTally struct {
	Option string   `json:"option"`
	Votes  []string `json:"votes"`
	Count  int      `json:"count"`
}

type PollVotesResult struct {
	Poll       string
	Options    []OptionTally
	TotalVotes int
	Version    string
}

func urls(posts []*dal.Post) []string {
	res := make([]string, len(posts))
	for i, p := range posts {
		res[i] = p.Url()
	}
	return res
}

func (s *Snapshot) Feeds() *FeedsResult {
	return &FeedsResult{Feeds: s.feeds, Version: versionOf("feeds", s.feeds)}
}

// Mentions returns the posts mentioning a feed, newest first.
func (s *Snapshot) Mentions(feedUrl string) (*PostsResult, bool) {
	if !s.known[feedUrl] {
		return nil, false
	}
	posts := urls(s.graph.Mentions(feedUrl))
	return &PostsResult{Posts: posts, Version: versionOf("mentions", feedUrl, posts)}, true
}

// Reactions returns reactions to the feed's posts, newest first.
func (s *Snapshot) Reactions(feedUrl string) (*ReactionsResult, bool) {
	if !s.known[feedUrl] {
		return nil, false
	}
	items := []ReactionItem{}
	for _, n := range s.graph.Notifications(feedUrl) {
		if n.Kind == graph.NotifReaction {
			items = append(items, ReactionItem{Post: n.Post.Url(), Emoji: n.Emoji, Parent: n.Parent})
		}
	}
	return &ReactionsResult{Items: items, Version: versionOf("reactions", feedUrl, items)}, true
}

// RepliesTo returns thread replies to the feed's posts, newest first.
func (s *Snapshot) RepliesTo(feedUrl string) (*RepliesToResult, bool) {
	if !s.known[feedUrl] {
		return nil, false
	}
	items := []ReplyToItem{}
	for _, n := range s.graph.Notifications(feedUrl) {
		if n.Kind == graph.NotifReply {
			postUrl := n.Post.Url()
			items = append(items, ReplyToItem{
				Post:        postUrl,
				Parent:      n.Parent,
				ParentChain: s.parentChain(postUrl),
			})
		}
	}
	return &RepliesToResult{Items: items, Version: versionOf("replies-to", feedUrl, items)}, true
}

func (s *Snapshot) parentChain(postUrl string) []string {
	chain := s.graph.ParentChain(postUrl).Posts
	if chain == nil {
		return []string{}
	}
	return chain
}

// Notifications merges mentions, reactions, replies and boosts addressed to a feed.
// An empty kind means all kinds; counts always cover the returned items.
func (s *Snapshot) Notifications(feedUrl string, kind graph.NotificationKind) (*NotificationsResult, bool) {
	if !s.known[feedUrl] {
		return nil, false
	}
	var selected []*graph.Notification
	for _, n := range s.graph.Notifications(feedUrl) {
		if kind == "" || n.Kind == kind {
			selected = append(selected, n)
		}
	}
	res := &NotificationsResult{
		Items:  make([]NotificationItem, 0, len(selected)),
		Total:  len(selected),
		ByType: make(map[string]int),
	}
	for k, count := range graph.CountByKind(selected) {
		res.ByType[string(k)] = count
	}
	for _, n := range selected {
		res.Items = append(res.Items, NotificationItem{
			Kind:   string(n.Kind),
			Post:   n.Post.Url(),
			Parent: n.Parent,
			Emoji:  n.Emoji,
		})
	}
	res.Version = versionOf("notifications", feedUrl, kind, res.Items)
	return res, true
}

// Boosts returns the posts boosting a post, newest first.
func (s *Snapshot) Boosts(postUrl string) (*PostsResult, bool) {
	if _, ok := s.graph.Post(postUrl); !ok {
		return nil, false
	}
	posts := urls(s.graph.Boosts(postUrl))
	return &PostsResult{Posts: posts, Version: versionOf("boosts", postUrl, posts)}, true
}

func toMoods(groups []*graph.ReactionGroup) []Mood {
	res := make([]Mood, 0, len(groups))
	for _, grp := range groups {
		res = append(res, Mood{Emoji: grp.Emoji, Posts: urls(grp.Posts)})
	}
	return res
}

func toReplyNode(node *graph.TreeNode) *ReplyNode {
	root := &ReplyNode{}
	type pair struct {
		src *graph.TreeNode
		dst *ReplyNode
	}
	stack := []pair{{node, root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		top.dst.Post = top.src.Post.Url()
		top.dst.ParentChain = top.src.ParentChain
		if top.dst.ParentChain == nil {
			top.dst.ParentChain = []string{}
		}
		top.dst.Moods = toMoods(top.src.Moods)
		top.dst.Truncated = top.src.Truncated
		top.dst.Children = make([]*ReplyNode, len(top.src.Children))
		for i, kid := range top.src.Children {
			top.dst.Children[i] = &ReplyNode{}
			stack = append(stack, pair{kid, top.dst.Children[i]})
		}
	}
	return root
}

// Replies returns the reply tree under a post, with the post itself at the root.
func (s *Snapshot) Replies(postUrl string) (*RepliesResult, bool) {
	tree, ok := s.graph.ReplyTree(postUrl)
	if !ok {
		return nil, false
	}
	root := toReplyNode(tree)
	return &RepliesResult{Root: root, Version: versionOf("replies", root)}, true
}

// Interactions collects the direct reactions, replies and boosts of one post.
func (s *Snapshot) Interactions(postUrl string) (*InteractionsResult, bool) {
	if _, ok := s.graph.Post(postUrl); !ok {
		return nil, false
	}
	res := &InteractionsResult{
		Post:      postUrl,
		Reactions: []ReactionItem{},
		Replies:   urls(s.graph.Children(postUrl)),
		Boosts:    urls(s.graph.Boosts(postUrl)),
	}
	for _, grp := range s.graph.Reactions(postUrl) {
		for _, r := range grp.Posts {
			res.Reactions = append(res.Reactions, ReactionItem{Post: r.Url(), Emoji: r.Mood, Parent: postUrl})
		}
	}
	res.Version = versionOf("interactions", res.Post, res.Reactions, res.Replies, res.Boosts)
	return res, true
}

func (s *Snapshot) Groups() *GroupsResult {
	groups := s.groups
	if groups == nil {
		groups = []Group{}
	}
	return &GroupsResult{Groups: groups, Version: versionOf("groups", groups)}
}

func (s *Snapshot) Group(slug string) (Group, bool) {
	for _, grp := range s.groups {
		if grp.Slug == slug {
			return grp, true
		}
	}
	return Group{}, false
}

// GroupMessages threads the posts addressed to a group. A post whose parent is not
// itself in the group starts a thread; members are the feeds that posted.
func (s *Snapshot) GroupMessages(slug string) (*GroupMessagesResult, bool) {

	grp, ok := s.Group(slug)
	if !ok {
		return nil, false
	}

	var posts []*dal.Post
	inGroup := make(map[string]bool)
	for _, p := range s.graph.Posts() {
		if p.Group == slug {
			posts = append(posts, p)
			inGroup[p.Url()] = true
		}
	}

	nodes := make(map[string]*GroupMessage, len(posts))
	for _, p := range posts {
		nodes[p.Url()] = &GroupMessage{Post: p.Url(), Children: []*GroupMessage{}}
	}
	res := &GroupMessagesResult{Group: grp, Messages: []*GroupMessage{}, Members: []string{}}
	var roots []*dal.Post
	// Oldest first so children read in conversation order
	for i := len(posts) - 1; i >= 0; i-- {
		p := posts[i]
		if p.ReplyTo != "" && inGroup[p.ReplyTo] && p.ReplyTo != p.Url() {
			parent := nodes[p.ReplyTo]
			parent.Children = append(parent.Children, nodes[p.Url()])
		} else {
			roots = append(roots, p)
		}
	}
	// Threads newest first; anything only reachable through a reply cycle becomes a thread too
	attached := make(map[string]bool)
	for i := len(roots) - 1; i >= 0; i-- {
		res.Messages = append(res.Messages, nodes[roots[i].Url()])
		markAttached(nodes[roots[i].Url()], attached)
	}
	for _, p := range posts {
		if !attached[p.Url()] {
			node := nodes[p.Url()]
			node.Children = []*GroupMessage{}
			res.Messages = append(res.Messages, node)
			attached[p.Url()] = true
		}
	}

	seenMember := make(map[string]bool)
	for _, p := range posts {
		if !seenMember[p.FeedUrl] {
			seenMember[p.FeedUrl] = true
			res.Members = append(res.Members, p.FeedUrl)
		}
	}
	res.Version = versionOf("group", grp, res.Messages, res.Members)
	return res, true
}

func markAttached(root *GroupMessage, attached map[string]bool) {
	stack := []*GroupMessage{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		attached[top.Post] = true
		stack = append(stack, top.Children...)
	}
}

func (s *Snapshot) pollInfo(p *dal.Post) PollInfo {
	info := PollInfo{
		Post:    p.Url(),
		Feed:    p.FeedUrl,
		Content: p.Content,
		Options: p.PollOptions,
	}
	if p.PollEnd != nil {
		info.PollEnd = p.PollEnd.UTC()
	}
	if prof, ok := s.profiles[p.FeedUrl]; ok {
		info.Author = prof.Nick
	}
	if info.Options == nil {
		info.Options = []string{}
	}
	return info
}

// Polls lists one feed's poll definitions, newest first.
func (s *Snapshot) Polls(feedUrl string) *PollsResult {
	polls := []PollInfo{}
	for _, p := range s.graph.Polls() {
		if p.FeedUrl == feedUrl {
			polls = append(polls, s.pollInfo(p))
		}
	}
	return &PollsResult{Polls: polls, Version: versionOf("polls", feedUrl, polls)}
}

// ActivePolls lists the polls of all feeds still open at now, newest first.
// A poll without an end is never active.
func (s *Snapshot) ActivePolls(now time.Time) *PollsResult {
	polls := []PollInfo{}
	for _, p := range s.graph.Polls() {
		if p.PollEnd != nil && p.PollEnd.After(now) {
			polls = append(polls, s.pollInfo(p))
		}
	}
	return &PollsResult{Polls: polls, Version: versionOf("active-polls", polls)}
}

// PollInfo describes one poll definition.
func (s *Snapshot) PollInfo(postUrl string) (PollInfo, bool) {
	if _, ok := s.graph.PollVotes(postUrl); !ok {
		return PollInfo{}, false
	}
	p, _ := s.graph.Post(postUrl)
	return s.pollInfo(p), true
}

// PollsVotedBy lists the valid votes a feed cast, newest first, with the poll each one answers.
func (s *Snapshot) PollsVotedBy(feedUrl string) *VotesResult {
	votes := []VoteInfo{}
	for _, v := range s.graph.VotesBy(feedUrl) {
		poll, _ := s.graph.Post(v.ReplyTo)
		info := VoteInfo{
			Vote:        v.Url(),
			Poll:        v.ReplyTo,
			PollContent: poll.Content,
			Option:      v.PollOption,
			VotedAt:     v.Timestamp.UTC(),
		}
		if prof, ok := s.profiles[poll.FeedUrl]; ok {
			info.PollAuthor = prof.Nick
		}
		votes = append(votes, info)
	}
	return &VotesResult{Votes: votes, Version: versionOf("votes-by", feedUrl, votes)}
}

// PollVotes tallies valid votes per declared option.
func (s *Snapshot) PollVotes(postUrl string) (*PollVotesResult, bool) {
	tally, ok := s.graph.PollVotes(postUrl)
	if !ok {
		return nil, false
	}
	res := &PollVotesResult{Poll: postUrl, Options: []OptionTally{}, TotalVotes: tally.Total}
	for _, opt := range tally.Options {
		res.Options = append(res.Options, OptionTally{
			Option: opt.Option,
			Votes:  urls(opt.Votes),
			Count:  len(opt.Votes),
		})
	}
	res.Version = versionOf("poll-votes", res.Poll, res.Options, res.TotalVotes)
	return res, true
}

// LatestPosts returns up to limit posts, newest first, optionally narrowed to a tag or a feed.
// Posts without a body (bare reactions and votes) are left out.
func (s *Snapshot) LatestPosts(tag, feedUrl string, limit int) []*dal.Post {
	var res []*dal.Post
	for _, p := range s.graph.Posts() {
		if limit > 0 && len(res) >= limit {
			break
		}
		if strings.TrimSpace(p.Content) == "" {
			continue
		}
		if feedUrl != "" && p.FeedUrl != feedUrl {
			continue
		}
		if tag != "" && !hasTag(p, tag) {
			continue
		}
		res = append(res, p)
	}
	return res
}

func hasTag(p *dal.Post, tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
