package server

import (
	"encoding/json"
	"errors"
	"github.com/gorilla/mux"
	"net/http"
	"net/url"
	"org_relay/dto"
	"org_relay/graph"
	"org_relay/index"
	"org_relay/logic"
	"org_relay/shared"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type relayHandlerGroup struct {
	cfg       *shared.Config
	logger    shared.ILogger
	indexMgr  index.IIndexManager
	registrar logic.IRegistrar
	fetcher   logic.IFetcher
	now       func() time.Time
}

func NewRelayHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	indexMgr index.IIndexManager,
	registrar logic.IRegistrar,
	fetcher logic.IFetcher,
) IHandlerGroup {
	res := relayHandlerGroup{
		cfg:       cfg,
		logger:    logger,
		indexMgr:  indexMgr,
		registrar: registrar,
		fetcher:   fetcher,
		now:       time.Now,
	}
	return &res
}

func (hg *relayHandlerGroup) Prefix() string {
	return "/"
}

func (hg *relayHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", rootPlacholder, func(w http.ResponseWriter, r *http.Request) { hg.getRoot(w, r) }},
		{"GET", "/feeds", func(w http.ResponseWriter, r *http.Request) { hg.getFeeds(w, r) }},
		{"POST", "/feeds", func(w http.ResponseWriter, r *http.Request) { hg.postFeeds(w, r) }},
		{"GET", "/feed-content", func(w http.ResponseWriter, r *http.Request) { hg.getFeedContent(w, r) }},
		{"GET", "/mentions", func(w http.ResponseWriter, r *http.Request) { hg.getMentions(w, r) }},
		{"GET", "/reactions", func(w http.ResponseWriter, r *http.Request) { hg.getReactions(w, r) }},
		{"GET", "/replies-to", func(w http.ResponseWriter, r *http.Request) { hg.getRepliesTo(w, r) }},
		{"GET", "/notifications", func(w http.ResponseWriter, r *http.Request) { hg.getNotifications(w, r) }},
		{"GET", "/boosts", func(w http.ResponseWriter, r *http.Request) { hg.getBoosts(w, r) }},
		{"GET", "/replies", func(w http.ResponseWriter, r *http.Request) { hg.getReplies(w, r) }},
		{"GET", "/interactions", func(w http.ResponseWriter, r *http.Request) { hg.getInteractions(w, r) }},
		{"GET", "/search", func(w http.ResponseWriter, r *http.Request) { hg.getSearch(w, r) }},
		{"GET", "/groups", func(w http.ResponseWriter, r *http.Request) { hg.getGroups(w, r) }},
		{"GET", "/groups/{slug}", func(w http.ResponseWriter, r *http.Request) { hg.getGroupMessages(w, r) }},
		{"GET", "/polls", func(w http.ResponseWriter, r *http.Request) { hg.getPolls(w, r) }},
		{"GET", "/polls/votes", func(w http.ResponseWriter, r *http.Request) { hg.getPollVotes(w, r) }},
	}
}

func (hg *relayHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return emptyMW
}

// snapshot returns the published snapshot, or nil if the cache headers already answered the request.
func (hg *relayHandlerGroup) snapshot(w http.ResponseWriter, r *http.Request) *index.Snapshot {
	snap := hg.indexMgr.Current()
	if writeCacheHeaders(w, r, snap) {
		return nil
	}
	return snap
}

func requiredParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	val := strings.TrimSpace(r.URL.Query().Get(name))
	if val == "" {
		writeErrorResponse(w, "Missing required parameter: "+name, http.StatusBadRequest)
		return "", false
	}
	return val, true
}

// postParam reads the post parameter and checks it has the form feed#id.
func postParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	postUrl, ok := requiredParam(w, r, "post")
	if !ok {
		return "", false
	}
	if _, _, ok = shared.SplitPostUrl(postUrl); !ok {
		writeErrorResponse(w, "Invalid post URL; expected feed_url#post_id", http.StatusBadRequest)
		return "", false
	}
	return shared.NormalizePostUrl(postUrl), true
}

func (hg *relayHandlerGroup) getRoot(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"name":        "Org Social Relay",
		"description": "P2P system for Org Social files",
	}
	links := map[string]dto.Link{
		"self":           {Href: "/", Method: "GET"},
		"feeds":          {Href: "/feeds/", Method: "GET"},
		"add-feed":       {Href: "/feeds/", Method: "POST"},
		"feed-content":   {Href: "/feed-content/?feed={feed_url}", Method: "GET", Templated: true},
		"mentions":       {Href: "/mentions/?feed={feed_url}", Method: "GET", Templated: true},
		"reactions":      {Href: "/reactions/?feed={feed_url}", Method: "GET", Templated: true},
		"replies-to":     {Href: "/replies-to/?feed={feed_url}", Method: "GET", Templated: true},
		"notifications":  {Href: "/notifications/?feed={feed_url}", Method: "GET", Templated: true},
		"replies":        {Href: "/replies/?post={post_url}", Method: "GET", Templated: true},
		"boosts":         {Href: "/boosts/?post={post_url}", Method: "GET", Templated: true},
		"interactions":   {Href: "/interactions/?post={post_url}", Method: "GET", Templated: true},
		"search":         {Href: "/search/?q={query}", Method: "GET", Templated: true},
		"groups":         {Href: "/groups/", Method: "GET"},
		"group-messages": {Href: "/groups/{group_slug}/", Method: "GET", Templated: true},
		"polls":          {Href: "/polls/", Method: "GET"},
		"poll-votes":     {Href: "/polls/votes/?post={post_url}", Method: "GET", Templated: true},
		"rss":            {Href: "/rss.xml", Method: "GET"},
	}
	writeSuccess(hg.logger, w, http.StatusOK, data, nil, links)
}

func (hg *relayHandlerGroup) getFeeds(w http.ResponseWriter, r *http.Request) {
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res := snap.Feeds()
	meta := dto.ListMeta{Total: len(res.Feeds), Version: res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, res.Feeds, meta, selfLink(r))
}

// getFeedContent proxies the current document of a registered feed. It bypasses the index,
// so no cache validators are sent.
func (hg *relayHandlerGroup) getFeedContent(w http.ResponseWriter, r *http.Request) {
	feedUrl, ok := requiredParam(w, r, "feed")
	if !ok {
		return
	}
	if !hg.indexMgr.Current().KnowsFeed(feedUrl) {
		writeErrorResponse(w, "Feed not found in relay", http.StatusNotFound)
		return
	}
	res, err := hg.fetcher.Fetch(r.Context(), &logic.FetchRequest{Url: feedUrl})
	if err != nil {
		hg.logger.Warnf("Failed to fetch content of %s: %v", feedUrl, err)
		writeErrorResponse(w, "Failed to fetch feed content from its server", http.StatusBadGateway)
		return
	}
	if !utf8.Valid(res.Body) {
		writeErrorResponse(w, "Feed content is not valid UTF-8", http.StatusBadGateway)
		return
	}
	data := dto.FeedContentData{Content: string(res.Body)}
	writeSuccess(hg.logger, w, http.StatusOK, data, nil, selfLink(r))
}

func (hg *relayHandlerGroup) postFeeds(w http.ResponseWriter, r *http.Request) {

	body := readBody(hg.logger, w, r)
	if body == nil {
		return
	}
	var req dto.AddFeedRequest
	if err := json.Unmarshal(body, &req); err != nil {
		hg.logger.Infof("Invalid add-feed request body: %v", err)
		writeErrorResponse(w, badRequestStr, http.StatusBadRequest)
		return
	}
	feedUrl := strings.TrimSpace(req.Feed)
	if feedUrl == "" {
		writeErrorResponse(w, "Feed URL is required", http.StatusBadRequest)
		return
	}

	isNew, err := hg.registrar.AddFeed(feedUrl)
	if errors.Is(err, logic.ErrNotHttpUrl) {
		writeErrorResponse(w, "Feed URL must be an absolute http(s) URL", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	code := http.StatusOK
	if isNew {
		code = http.StatusCreated
	}
	writeSuccess(hg.logger, w, code, dto.AddFeedData{Feed: feedUrl}, nil, nil)
}

func (hg *relayHandlerGroup) getMentions(w http.ResponseWriter, r *http.Request) {
	feedUrl, ok := requiredParam(w, r, "feed")
	if !ok {
		return
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res, ok := snap.Mentions(feedUrl)
	if !ok {
		writeErrorResponse(w, "Feed not found", http.StatusNotFound)
		return
	}
	meta := dto.ListMeta{Feed: feedUrl, Total: len(res.Posts), Version: res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, res.Posts, meta, selfLink(r))
}

func (hg *relayHandlerGroup) getReactions(w http.ResponseWriter, r *http.Request) {
	feedUrl, ok := requiredParam(w, r, "feed")
	if !ok {
		return
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res, ok := snap.Reactions(feedUrl)
	if !ok {
		writeErrorResponse(w, "Feed not found", http.StatusNotFound)
		return
	}
	meta := dto.ListMeta{Feed: feedUrl, Total: len(res.Items), Version: res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, res.Items, meta, selfLink(r))
}

func (hg *relayHandlerGroup) getRepliesTo(w http.ResponseWriter, r *http.Request) {
	feedUrl, ok := requiredParam(w, r, "feed")
	if !ok {
		return
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res, ok := snap.RepliesTo(feedUrl)
	if !ok {
		writeErrorResponse(w, "Feed not found", http.StatusNotFound)
		return
	}
	meta := dto.ListMeta{Feed: feedUrl, Total: len(res.Items), Version: res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, res.Items, meta, selfLink(r))
}

func (hg *relayHandlerGroup) getNotifications(w http.ResponseWriter, r *http.Request) {
	feedUrl, ok := requiredParam(w, r, "feed")
	if !ok {
		return
	}
	var kind graph.NotificationKind
	if str := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))); str != "" {
		if kind, ok = graph.ParseNotificationKind(str); !ok {
			writeErrorResponse(w, "Invalid type; expected mention, reaction, reply or boost", http.StatusBadRequest)
			return
		}
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res, ok := snap.Notifications(feedUrl, kind)
	if !ok {
		writeErrorResponse(w, "Feed not found", http.StatusNotFound)
		return
	}
	meta := dto.NotificationsMeta{Feed: feedUrl, Total: res.Total, ByType: res.ByType, Version: res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, res.Items, meta, selfLink(r))
}

func (hg *relayHandlerGroup) getBoosts(w http.ResponseWriter, r *http.Request) {
	postUrl, ok := postParam(w, r)
	if !ok {
		return
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res, ok := snap.Boosts(postUrl)
	if !ok {
		writeErrorResponse(w, "Post not found", http.StatusNotFound)
		return
	}
	meta := dto.ListMeta{Post: postUrl, Total: len(res.Posts), Version: res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, res.Posts, meta, selfLink(r))
}

func (hg *relayHandlerGroup) getReplies(w http.ResponseWriter, r *http.Request) {
	postUrl, ok := postParam(w, r)
	if !ok {
		return
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res, ok := snap.Replies(postUrl)
	if !ok {
		writeErrorResponse(w, "Post not found", http.StatusNotFound)
		return
	}
	meta := map[string]string{"parent": postUrl, "version": res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, res.Root.Children, meta, selfLink(r))
}

func (hg *relayHandlerGroup) getInteractions(w http.ResponseWriter, r *http.Request) {
	postUrl, ok := postParam(w, r)
	if !ok {
		return
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res, ok := snap.Interactions(postUrl)
	if !ok {
		writeErrorResponse(w, "Post not found", http.StatusNotFound)
		return
	}
	data := dto.InteractionsData{
		Post:      res.Post,
		Reactions: make([]dto.Reaction, 0, len(res.Reactions)),
		Replies:   res.Replies,
		Boosts:    res.Boosts,
	}
	for _, item := range res.Reactions {
		data.Reactions = append(data.Reactions, dto.Reaction{Post: item.Post, Emoji: item.Emoji, Parent: item.Parent})
	}
	writeSuccess(hg.logger, w, http.StatusOK, data, dto.VersionMeta{Version: res.Version}, selfLink(r))
}

func (hg *relayHandlerGroup) getSearch(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()
	params := index.SearchParams{
		Query: strings.TrimSpace(query.Get("q")),
		Tag:   strings.TrimSpace(query.Get("tag")),
	}
	var err error
	if params.Page, err = intParam(query, "page"); err != nil {
		writeErrorResponse(w, "Invalid page parameter", http.StatusBadRequest)
		return
	}
	if params.PerPage, err = intParam(query, "perPage"); err != nil {
		writeErrorResponse(w, "Invalid perPage parameter", http.StatusBadRequest)
		return
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}

	res, err := snap.Search(params)
	if err != nil {
		writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	meta := dto.SearchMeta{
		Query:       res.Query,
		Tag:         res.Tag,
		Total:       res.Total,
		Page:        res.Page,
		PerPage:     res.PerPage,
		HasNext:     res.HasNext,
		HasPrevious: res.HasPrevious,
		Version:     res.Version,
	}
	writeSuccess(hg.logger, w, http.StatusOK, res.Posts, meta, searchLinks(r, res))
}

func intParam(query url.Values, name string) (int, error) {
	str := strings.TrimSpace(query.Get(name))
	if str == "" {
		return 0, nil
	}
	return strconv.Atoi(str)
}

func searchLinks(r *http.Request, res *index.SearchResult) map[string]dto.Link {
	links := selfLink(r)
	pageLink := func(page int) dto.Link {
		query := r.URL.Query()
		query.Set("page", strconv.Itoa(page))
		query.Set("perPage", strconv.Itoa(res.PerPage))
		return dto.Link{Href: r.URL.Path + "?" + query.Encode(), Method: "GET"}
	}
	if res.HasNext {
		links["next"] = pageLink(res.Page + 1)
	}
	if res.HasPrevious {
		links["previous"] = pageLink(res.Page - 1)
	}
	return links
}

func (hg *relayHandlerGroup) getGroups(w http.ResponseWriter, r *http.Request) {
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res := snap.Groups()
	if len(res.Groups) == 0 {
		writeErrorResponse(w, "No groups configured in this relay", http.StatusNotFound)
		return
	}
	idb := shared.IdBuilder{Host: hg.cfg.Host}
	groups := make([]dto.Group, 0, len(res.Groups))
	links := selfLink(r)
	for _, g := range res.Groups {
		groups = append(groups, dto.Group{Name: g.Name, Slug: g.Slug})
		links["group:"+g.Slug] = dto.Link{Href: idb.Group(g.Slug), Method: "GET"}
	}
	writeSuccess(hg.logger, w, http.StatusOK, groups, dto.VersionMeta{Version: res.Version}, links)
}

func (hg *relayHandlerGroup) getGroupMessages(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	res, ok := snap.GroupMessages(slug)
	if !ok {
		writeErrorResponse(w, "Group '"+slug+"' does not exist", http.StatusNotFound)
		return
	}
	meta := dto.GroupMeta{Group: res.Group.Slug, Name: res.Group.Name, Members: res.Members, Version: res.Version}
	links := selfLink(r)
	links["group-list"] = dto.Link{Href: "/groups/", Method: "GET"}
	writeSuccess(hg.logger, w, http.StatusOK, res.Messages, meta, links)
}

func (hg *relayHandlerGroup) toPoll(info index.PollInfo) dto.Poll {
	return dto.Poll{
		Id:       info.Post,
		Feed:     info.Feed,
		Author:   info.Author,
		Content:  info.Content,
		PollEnd:  info.PollEnd,
		IsActive: hg.now().Before(info.PollEnd),
		Options:  info.Options,
	}
}

// getPolls serves one feed's polls, the polls a voter answered, or all polls still open.
func (hg *relayHandlerGroup) getPolls(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	feedUrl := strings.TrimSpace(query.Get("feed"))
	voterUrl := strings.TrimSpace(query.Get("voter"))
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}

	if voterUrl != "" {
		if !snap.KnowsFeed(voterUrl) {
			writeErrorResponse(w, "Voter feed not found", http.StatusNotFound)
			return
		}
		res := snap.PollsVotedBy(voterUrl)
		meta := dto.VoterMeta{Voter: voterUrl, Total: len(res.Votes), Version: res.Version}
		writeSuccess(hg.logger, w, http.StatusOK, res.Votes, meta, selfLink(r))
		return
	}

	var res *index.PollsResult
	if feedUrl == "" {
		res = snap.ActivePolls(hg.now())
	} else if snap.KnowsFeed(feedUrl) {
		res = snap.Polls(feedUrl)
	} else {
		writeErrorResponse(w, "Feed not found", http.StatusNotFound)
		return
	}
	polls := make([]dto.Poll, 0, len(res.Polls))
	for _, info := range res.Polls {
		polls = append(polls, hg.toPoll(info))
	}
	meta := dto.ListMeta{Feed: feedUrl, Total: len(polls), Version: res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, polls, meta, selfLink(r))
}

func (hg *relayHandlerGroup) getPollVotes(w http.ResponseWriter, r *http.Request) {
	postUrl, ok := postParam(w, r)
	if !ok {
		return
	}
	snap := hg.snapshot(w, r)
	if snap == nil {
		return
	}
	if _, ok = snap.Post(postUrl); !ok {
		writeErrorResponse(w, "Poll not found", http.StatusNotFound)
		return
	}
	res, ok := snap.PollVotes(postUrl)
	if !ok {
		writeErrorResponse(w, "Post is not a poll", http.StatusBadRequest)
		return
	}
	info, _ := snap.PollInfo(postUrl)
	data := dto.PollVotesData{
		Poll:       hg.toPoll(info),
		Votes:      res.Options,
		VoteCounts: make(map[string]int, len(res.Options)),
		TotalVotes: res.TotalVotes,
	}
	for _, opt := range res.Options {
		data.VoteCounts[opt.Option] = opt.Count
	}
	meta := dto.PollVotesMeta{PollId: postUrl, TotalVotes: res.TotalVotes, Version: res.Version}
	writeSuccess(hg.logger, w, http.StatusOK, data, meta, selfLink(r))
}
