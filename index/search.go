package index

import (
	"errors"
	"github.com/microcosm-cc/bluemonday"
	"html"
	"org_relay/dal"
	"strings"
	"unicode"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 50
)

var (
	ErrEmptyQuery     = errors.New("either a query or a tag is required")
	ErrInvalidPage    = errors.New("page number must be 1 or greater")
	ErrPageOutOfRange = errors.New("page does not exist")
	stripPolicy       = bluemonday.StrictPolicy()
)

type SearchParams struct {
	Query   string
	Tag     string
	Page    int
	PerPage int
}

type SearchResult struct {
	Posts       []string `json:"posts"`
	Query       string   `json:"query,omitempty"`
	Tag         string   `json:"tag,omitempty"`
	Total       int      `json:"total"`
	Page        int      `json:"page"`
	PerPage     int      `json:"perPage"`
	LastPage    int      `json:"lastPage"`
	HasNext     bool     `json:"hasNext"`
	HasPrevious bool     `json:"hasPrevious"`
	Version     string   `json:"-"`
}

// searchIndex maps lowercased body and tag tokens to posts. Posting lists
// hold indexes into the newest-first post order, so they are sorted.
type searchIndex struct {
	posts  []*dal.Post
	tokens map[string][]int
	tags   map[string][]int
}

func tokenize(text string) []string {
	plain := html.UnescapeString(stripPolicy.Sanitize(text))
	return strings.FieldsFunc(strings.ToLower(plain), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func buildSearchIndex(posts []*dal.Post) *searchIndex {
	si := &searchIndex{
		posts:  posts,
		tokens: make(map[string][]int),
		tags:   make(map[string][]int),
	}
	for i, p := range posts {
		seen := make(map[string]bool)
		add := func(tok string) {
			if !seen[tok] {
				seen[tok] = true
				si.tokens[tok] = append(si.tokens[tok], i)
			}
		}
		for _, tok := range tokenize(p.Content) {
			add(tok)
		}
		seenTag := make(map[string]bool)
		for _, tag := range p.Tags {
			tag = strings.ToLower(tag)
			for _, tok := range tokenize(tag) {
				add(tok)
			}
			if !seenTag[tag] {
				seenTag[tag] = true
				si.tags[tag] = append(si.tags[tag], i)
			}
		}
	}
	return si
}

func intersect(a, b []int) []int {
	var res []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			res = append(res, a[i])
			i += 1
			j += 1
		case a[i] < b[j]:
			i += 1
		default:
			j += 1
		}
	}
	return res
}

// match returns post indexes newest first. A query matches posts containing all its tokens.
func (si *searchIndex) match(query, tag string) []int {
	if query != "" {
		toks := tokenize(query)
		if len(toks) == 0 {
			return nil
		}
		res := si.tokens[toks[0]]
		for _, tok := range toks[1:] {
			res = intersect(res, si.tokens[tok])
		}
		return res
	}
	return si.tags[strings.ToLower(strings.TrimSpace(tag))]
}

func (s *Snapshot) Search(params SearchParams) (*SearchResult, error) {

	params.Query = strings.TrimSpace(params.Query)
	params.Tag = strings.TrimSpace(params.Tag)
	if params.Query == "" && params.Tag == "" {
		return nil, ErrEmptyQuery
	}
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Page < 1 {
		return nil, ErrInvalidPage
	}
	if params.PerPage <= 0 {
		params.PerPage = DefaultPerPage
	}
	if params.PerPage > MaxPerPage {
		params.PerPage = MaxPerPage
	}

	hits := s.search.match(params.Query, params.Tag)
	res := &SearchResult{
		Posts:   []string{},
		Total:   len(hits),
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	if params.Query != "" {
		res.Query = params.Query
	} else {
		res.Tag = params.Tag
	}
	res.LastPage = (res.Total + params.PerPage - 1) / params.PerPage
	if params.Page > max(res.LastPage, 1) {
		return nil, ErrPageOutOfRange
	}
	start := min((params.Page-1)*params.PerPage, res.Total)
	end := min(start+params.PerPage, res.Total)
	for _, ix := range hits[start:end] {
		res.Posts = append(res.Posts, s.search.posts[ix].Url())
	}
	res.HasNext = end < res.Total
	res.HasPrevious = params.Page > 1
	res.Version = versionOf(res)
	return res, nil
}
