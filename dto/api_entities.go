package dto

import "time"

const (
	TypeSuccess = "Success"
	TypeError   = "Error"
)

// Envelope wraps every relay response.
type Envelope struct {
	Type   string          `json:"type"`
	Errors []string        `json:"errors"`
	Data   any             `json:"data"`
	Meta   any             `json:"meta,omitempty"`
	Links  map[string]Link `json:"_links,omitempty"`
}

type Link struct {
	Href      string `json:"href"`
	Method    string `json:"method"`
	Templated bool   `json:"templated,omitempty"`
}

type AddFeedRequest struct {
	Feed string `json:"feed"`
}

type AddFeedData struct {
	Feed string `json:"feed"`
}

type FeedContentData struct {
	Content string `json:"content"`
}

type RunJobData struct {
	Job string `json:"job"`
}

type ListMeta struct {
	Feed    string `json:"feed,omitempty"`
	Post    string `json:"post,omitempty"`
	Total   int    `json:"total"`
	Version string `json:"version"`
}

type NotificationsMeta struct {
	Feed    string         `json:"feed"`
	Total   int            `json:"total"`
	ByType  map[string]int `json:"by_type"`
	Version string         `json:"version"`
}

type InteractionsData struct {
	Post      string     `json:"post"`
	Reactions []Reaction `json:"reactions"`
	Replies   []string   `json:"replies"`
	Boosts    []string   `json:"boosts"`
}

type Reaction struct {
	Post   string `json:"post"`
	Emoji  string `json:"emoji"`
	Parent string `json:"parent"`
}

type VersionMeta struct {
	Version string `json:"version"`
}

type SearchMeta struct {
	Query       string `json:"query,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Total       int    `json:"total"`
	Page        int    `json:"page"`
	PerPage     int    `json:"perPage"`
	HasNext     bool   `json:"hasNext"`
	HasPrevious bool   `json:"hasPrevious"`
	Version     string `json:"version"`
}

type Group struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GroupMeta struct {
	Group   string   `json:"group"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Version string   `json:"version"`
}

type Poll struct {
	Id       string    `json:"id"`
	Feed     string    `json:"feed"`
	Author   string    `json:"author"`
	Content  string    `json:"content"`
	PollEnd  time.Time `json:"poll_end"`
	IsActive bool      `json:"is_active"`
	Options  []string  `json:"options"`
}

type PollVotesData struct {
	Poll       Poll           `json:"poll"`
	Votes      any            `json:"votes"`
	VoteCounts map[string]int `json:"vote_counts"`
	TotalVotes int            `json:"total_votes"`
}

type VoterMeta struct {
	Voter   string `json:"voter"`
	Total   int    `json:"total"`
	Version string `json:"version"`
}

type PollVotesMeta struct {
	PollId     string `json:"poll_id"`
	TotalVotes int    `json:"total_votes"`
	Version    string `json:"version"`
}

type FeedStatusMeta struct {
	Total int `json:"total"`
	Posts int `json:"posts"`
}

// FeedStatus is the admin view of one registered feed's fetch bookkeeping.
type FeedStatus struct {
	Url           string     `json:"url"`
	Source        string     `json:"source"`
	CreatedAt     time.Time  `json:"created_at"`
	LastFetchAt   *time.Time `json:"last_fetch_at"`
	LastSuccessAt *time.Time `json:"last_success_at"`
	LastError     string     `json:"last_error,omitempty"`
	FailureCount  int        `json:"failure_count"`
}
