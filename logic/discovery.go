package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"org_relay/dal"
	"org_relay/dto"
	"org_relay/shared"
	"strings"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_discovery.go -package mocks org_relay/logic IRelaySync,IFollowDiscovery,IStalePruner

const staleFeedsLogged = 10

// IRelaySync registers feeds known to peer relays and feeds listed in the public register.
type IRelaySync interface {
	Run(ctx context.Context) (added int, err error)
}

// IFollowDiscovery registers feeds that stored profiles follow.
type IFollowDiscovery interface {
	Run(ctx context.Context) (added int, err error)
}

// IStalePruner removes feeds that have not been fetched successfully for a while.
type IStalePruner interface {
	Run(ctx context.Context) (removed int, err error)
}

// feedAdder is shared by the discovery jobs: dedupes, optionally validates, then registers.
type feedAdder struct {
	cfg       *shared.Config
	logger    shared.ILogger
	repo      dal.IRepo
	validator IFeedValidator
	metrics   IMetrics
	now       func() time.Time
}

func (fa *feedAdder) addCandidates(ctx context.Context, candidates []string, source dal.FeedSource) (added int, err error) {

	added = 0
	err = nil
	seen := make(map[string]bool)

	for _, candidate := range candidates {
		if err = ctx.Err(); err != nil {
			break
		}
		candidate = strings.TrimSpace(candidate)
		if seen[candidate] || !shared.IsHttpUrl(candidate) {
			continue
		}
		seen[candidate] = true

		var feed *dal.Feed
		if feed, err = fa.repo.GetFeed(candidate); err != nil {
			err = fmt.Errorf("failed to look up feed %s: %w", candidate, err)
			break
		}
		if feed != nil {
			continue
		}

		feedUrl := candidate
		if fa.cfg.ValidateDiscoveredFeeds {
			var valErr error
			if feedUrl, valErr = fa.validator.Validate(ctx, candidate); valErr != nil {
				fa.logger.Warnf("Skipping invalid feed %s: %v", candidate, valErr)
				continue
			}
		}

		var isNew bool
		if isNew, err = fa.repo.AddFeedIfNotExist(feedUrl, source, fa.now()); err != nil {
			err = fmt.Errorf("failed to add feed %s: %w", feedUrl, err)
			break
		}
		if isNew {
			fa.logger.Infof("Discovered new feed (%s): %s", source, feedUrl)
			added++
		}
	}
	if added > 0 {
		fa.metrics.FeedsDiscovered(string(source), added)
	}
	return
}

type relaySync struct {
	feedAdder
	fetcher IFetcher
}

func NewRelaySync(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	fetcher IFetcher,
	validator IFeedValidator,
	metrics IMetrics,
) IRelaySync {
	return &relaySync{
		feedAdder: feedAdder{cfg, logger, repo, validator, metrics, time.Now},
		fetcher:   fetcher,
	}
}

func (rs *relaySync) Run(ctx context.Context) (added int, err error) {

	added = 0
	err = nil

	var candidates []string
	if rs.cfg.RelayListUrl != "" {
		candidates = append(candidates, rs.fromRelayNodes(ctx)...)
	}
	if rs.cfg.RegisterListUrl != "" {
		if lines, listErr := rs.fetchList(ctx, rs.cfg.RegisterListUrl); listErr != nil {
			rs.logger.Errorf("Failed to fetch public register %s: %v", rs.cfg.RegisterListUrl, listErr)
		} else {
			rs.logger.Infof("Public register lists %d feeds", len(lines))
			candidates = append(candidates, lines...)
		}
	}

	added, err = rs.addCandidates(ctx, candidates, dal.SourceRelayList)
	rs.logger.Infof("Relay sync completed; %d candidates, %d new feeds", len(candidates), added)
	return
}

func (rs *relaySync) fromRelayNodes(ctx context.Context) []string {

	nodes, err := rs.fetchList(ctx, rs.cfg.RelayListUrl)
	if err != nil {
		rs.logger.Errorf("Failed to fetch relay list %s: %v", rs.cfg.RelayListUrl, err)
		return nil
	}

	ownHost := shared.NormalizeHost(rs.cfg.Host)
	var res []string
	for _, node := range nodes {
		if ctx.Err() != nil {
			break
		}
		if shared.NormalizeHost(node) == ownHost {
			rs.logger.Debugf("Skipping own relay node: %s", node)
			continue
		}
		var feeds []string
		if feeds, err = rs.fetchNodeFeeds(ctx, node); err != nil {
			rs.logger.Warnf("Failed to fetch feeds from relay node %s: %v", node, err)
			continue
		}
		rs.logger.Infof("Relay node %s lists %d feeds", node, len(feeds))
		res = append(res, feeds...)
	}
	return res
}

func (rs *relaySync) fetchList(ctx context.Context, listUrl string) ([]string, error) {
	res, err := rs.fetcher.Fetch(ctx, &FetchRequest{Url: listUrl})
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(res.Body), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (rs *relaySync) fetchNodeFeeds(ctx context.Context, node string) ([]string, error) {

	nodeUrl := strings.TrimRight(node, "/")
	if !strings.HasPrefix(nodeUrl, "http://") && !strings.HasPrefix(nodeUrl, "https://") {
		nodeUrl = "http://" + nodeUrl
	}
	res, err := rs.fetcher.Fetch(ctx, &FetchRequest{Url: nodeUrl + "/feeds"})
	if err != nil {
		return nil, err
	}
	var env struct {
		Type string `json:"type"`
		Data []any  `json:"data"`
	}
	if err = json.Unmarshal(res.Body, &env); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	if env.Type != dto.TypeSuccess {
		return nil, fmt.Errorf("unexpected response type %q", env.Type)
	}
	var feeds []string
	for _, item := range env.Data {
		if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
			feeds = append(feeds, str)
		}
	}
	return feeds, nil
}

type followDiscovery struct {
	feedAdder
}

func NewFollowDiscovery(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	validator IFeedValidator,
	metrics IMetrics,
) IFollowDiscovery {
	return &followDiscovery{feedAdder{cfg, logger, repo, validator, metrics, time.Now}}
}

func (fd *followDiscovery) Run(ctx context.Context) (added int, err error) {

	var profiles []*dal.Profile
	if profiles, err = fd.repo.GetProfiles(); err != nil {
		return 0, fmt.Errorf("failed to load profiles: %w", err)
	}
	var candidates []string
	for _, prof := range profiles {
		for _, follow := range prof.Follows {
			candidates = append(candidates, follow.Url)
		}
	}
	added, err = fd.addCandidates(ctx, candidates, dal.SourceFollowGraph)
	fd.logger.Infof("Follow discovery completed; %d profiles, %d follows, %d new feeds",
		len(profiles), len(candidates), added)
	return
}

type stalePruner struct {
	cfg     *shared.Config
	logger  shared.ILogger
	repo    dal.IRepo
	metrics IMetrics
	now     func() time.Time
}

func NewStalePruner(cfg *shared.Config, logger shared.ILogger, repo dal.IRepo, metrics IMetrics) IStalePruner {
	return &stalePruner{cfg, logger, repo, metrics, time.Now}
}

func (sp *stalePruner) Run(ctx context.Context) (removed int, err error) {

	removed = 0
	if err = ctx.Err(); err != nil {
		return
	}

	now := sp.now()
	cutoff := now.Add(-sp.cfg.StaleAfter())
	var stale []*dal.Feed
	if stale, err = sp.repo.GetStaleFeeds(cutoff); err != nil {
		return 0, fmt.Errorf("failed to query stale feeds: %w", err)
	}
	if len(stale) == 0 {
		sp.logger.Info("No stale feeds to remove")
		return
	}

	urls := make([]string, 0, len(stale))
	for i, feed := range stale {
		urls = append(urls, feed.Url)
		if i < staleFeedsLogged {
			since := feed.CreatedAt
			if feed.LastSuccessAt != nil {
				since = *feed.LastSuccessAt
			}
			sp.logger.Infof("Removing stale feed: %s (no success in %d days)", feed.Url, int(now.Sub(since).Hours()/24))
		}
	}
	if len(stale) > staleFeedsLogged {
		sp.logger.Infof("... and %d more", len(stale)-staleFeedsLogged)
	}

	if removed, err = sp.repo.RemoveFeeds(urls); err != nil {
		return 0, fmt.Errorf("failed to remove stale feeds: %w", err)
	}
	sp.metrics.FeedsPruned(removed)
	if count, cerr := sp.repo.GetFeedCount(); cerr == nil {
		sp.metrics.FeedCount(count)
	}
	return
}
