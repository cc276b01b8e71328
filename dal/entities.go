package dal

import (
	"org_relay/shared"
	"time"
)

type FeedSource string

const (
	SourceManual      FeedSource = "manual"
	SourceRelayList   FeedSource = "relay-list"
	SourceFollowGraph FeedSource = "follow-graph"
)

type Feed struct {
	Url           string     `db:"url"`    // https://alice.example/social.org
	Source        FeedSource `db:"source"` // how we learned about the feed
	CreatedAt     time.Time  `db:"created_at"`
	LastFetchAt   *time.Time `db:"last_fetch_at"`
	LastSuccessAt *time.Time `db:"last_success_at"`
	LastError     string     `db:"last_error"`
	FailureCount  int        `db:"failure_count"`
	ETag          string     `db:"etag"`
	LastModified  string     `db:"last_modified"`
	ContentHash   string     `db:"content_hash"` // hash of the last parsed document
}

// FetchState is what a successful fetch records on its feed.
type FetchState struct {
	When         time.Time
	ETag         string
	LastModified string
	ContentHash  string
}

type Follow struct {
	Url      string
	Nickname string
}

type Profile struct {
	FeedUrl     string
	Title       string
	Nick        string
	Description string
	Avatar      string
	Links       []string
	Contacts    []string
	Follows     []Follow
	Version     string
	UpdatedAt   time.Time
}

// PostKind is assigned once, when a post is parsed.
type PostKind int

const (
	KindPlain PostKind = iota
	KindReply
	KindReaction
	KindVote
	KindBoost
	KindPollDefinition
)

func (k PostKind) String() string {
	switch k {
	case KindReply:
		return "reply"
	case KindReaction:
		return "reaction"
	case KindVote:
		return "vote"
	case KindBoost:
		return "boost"
	case KindPollDefinition:
		return "poll"
	default:
		return "plain"
	}
}

type Post struct {
	FeedUrl     string
	PostId      string // raw ID property; also the timestamp
	Timestamp   time.Time
	Kind        PostKind
	Content     string
	Lang        string
	Tags        []string
	Client      string
	ReplyTo     string // post URL of parent
	Mood        string
	PollOption  string
	PollEnd     *time.Time
	PollOptions []string
	Include     string // post URL of boosted post
	Group       string // group slug
}

func (p *Post) Url() string {
	return shared.MakePostUrl(p.FeedUrl, p.PostId)
}

// Classify derives the kind from the populated optional fields.
func Classify(p *Post) PostKind {
	switch {
	case p.PollEnd != nil:
		return KindPollDefinition
	case p.Include != "":
		return KindBoost
	case p.ReplyTo != "" && p.PollOption != "":
		return KindVote
	case p.ReplyTo != "" && p.Mood != "":
		return KindReaction
	case p.ReplyTo != "":
		return KindReply
	default:
		return KindPlain
	}
}

// IsThreadReply tells if the post belongs in its parent's reply tree.
func (p *Post) IsThreadReply() bool {
	return p.ReplyTo != "" && p.Kind != KindReaction && p.Kind != KindVote
}
