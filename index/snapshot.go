package index

import (
	"org_relay/dal"
	"org_relay/graph"
	"org_relay/shared"
	"sort"
	"time"
)

type Group struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Snapshot is one fully built, immutable index state. All query methods are
// safe for concurrent use.
type Snapshot struct {
	Version      string
	LastModified time.Time
	BuiltAt      time.Time

	graph    *graph.Graph
	feeds    []string
	known    map[string]bool
	profiles map[string]*dal.Profile
	groups   []Group
	search   *searchIndex
	Diag     graph.Diagnostics
}

func newSnapshot(g *graph.Graph, feeds []string, profiles []*dal.Profile, groupNames []string) *Snapshot {

	s := &Snapshot{
		graph:    g,
		feeds:    append([]string(nil), feeds...),
		known:    make(map[string]bool, len(feeds)),
		profiles: make(map[string]*dal.Profile, len(profiles)),
		search:   buildSearchIndex(g.Posts()),
		Diag:     g.Diag,
	}
	sort.Strings(s.feeds)
	for _, f := range s.feeds {
		s.known[f] = true
	}
	for _, prof := range profiles {
		s.profiles[prof.FeedUrl] = prof
	}
	seenSlugs := make(map[string]bool)
	for _, name := range groupNames {
		slug := shared.SlugifyGroup(name)
		if slug == "" || seenSlugs[slug] {
			continue
		}
		seenSlugs[slug] = true
		s.groups = append(s.groups, Group{Name: name, Slug: slug})
	}
	s.Version = versionOf(s.feeds, s.renderProfiles(), s.renderPosts(), s.groups)
	return s
}

func emptySnapshot(groupNames []string) *Snapshot {
	return newSnapshot(graph.Build(nil, nil, graph.Options{}), nil, nil, groupNames)
}

type profileRendering struct {
	Feed        string
	Title       string
	Nick        string
	Description string
	Avatar      string
	Links       []string
	Contacts    []string
	Follows     []dal.Follow
}

func (s *Snapshot) renderProfiles() []profileRendering {
	res := make([]profileRendering, 0, len(s.profiles))
	for _, feed := range s.feeds {
		prof, ok := s.profiles[feed]
		if !ok {
			continue
		}
		res = append(res, profileRendering{
			feed, prof.Title, prof.Nick, prof.Description, prof.Avatar,
			prof.Links, prof.Contacts, prof.Follows,
		})
	}
	return res
}

type postRendering struct {
	Url         string
	Timestamp   time.Time
	Kind        dal.PostKind
	Content     string
	Lang        string
	Tags        []string
	ReplyTo     string
	Mood        string
	PollOption  string
	PollEnd     *time.Time
	PollOptions []string
	Include     string
	Group       string
}

func renderPost(p *dal.Post) postRendering {
	return postRendering{
		p.Url(), p.Timestamp.UTC(), p.Kind, p.Content, p.Lang, p.Tags, p.ReplyTo, p.Mood,
		p.PollOption, p.PollEnd, p.PollOptions, p.Include, p.Group,
	}
}

func (s *Snapshot) renderPosts() []postRendering {
	posts := s.graph.Posts()
	res := make([]postRendering, len(posts))
	for i, p := range posts {
		res[i] = renderPost(p)
	}
	return res
}

// KnowsFeed tells if a feed is registered in this snapshot.
func (s *Snapshot) KnowsFeed(feedUrl string) bool {
	return s.known[feedUrl]
}

func (s *Snapshot) Profile(feedUrl string) (*dal.Profile, bool) {
	prof, ok := s.profiles[feedUrl]
	return prof, ok
}

func (s *Snapshot) Post(postUrl string) (*dal.Post, bool) {
	return s.graph.Post(postUrl)
}

func (s *Snapshot) PostCount() int {
	return len(s.graph.Posts())
}
