package index

import (
	"context"
	"fmt"
	"org_relay/dal"
	"org_relay/graph"
	"org_relay/shared"
	"sync"
	"sync/atomic"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_index_manager.go -package mocks org_relay/index IIndexManager

type IIndexManager interface {
	// Rebuild reads the Feed Store, builds a new snapshot and publishes it.
	// On error the previous snapshot stays in place.
	Rebuild(ctx context.Context) error
	// Current returns the published snapshot; never nil.
	Current() *Snapshot
}

type indexManager struct {
	cfg     *shared.Config
	logger  shared.ILogger
	repo    dal.IRepo
	matcher graph.MentionMatcher
	muBuild sync.Mutex
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

func NewIndexManager(cfg *shared.Config, logger shared.ILogger, repo dal.IRepo) IIndexManager {
	im := &indexManager{
		cfg:     cfg,
		logger:  logger,
		repo:    repo,
		matcher: graph.NewMentionMatcher(cfg.MentionMatcher),
		now:     time.Now,
	}
	empty := emptySnapshot(cfg.Groups)
	empty.BuiltAt = im.now()
	empty.LastModified = empty.BuiltAt
	im.current.Store(empty)
	return im
}

func (im *indexManager) Current() *Snapshot {
	return im.current.Load()
}

func (im *indexManager) Rebuild(ctx context.Context) (err error) {

	im.muBuild.Lock()
	defer im.muBuild.Unlock()

	err = nil
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while building index: %v", r)
		}
	}()

	if err = ctx.Err(); err != nil {
		return
	}

	var feeds []*dal.Feed
	var profiles []*dal.Profile
	var posts []*dal.Post
	if feeds, err = im.repo.GetFeeds(); err != nil {
		return fmt.Errorf("failed to load feeds: %w", err)
	}
	if profiles, err = im.repo.GetProfiles(); err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	if posts, err = im.repo.GetAllPosts(); err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}

	feedUrls := make([]string, 0, len(feeds))
	known := make(map[string]bool, len(feeds))
	for _, f := range feeds {
		feedUrls = append(feedUrls, f.Url)
		known[f.Url] = true
	}
	// Only registered feeds contribute; a feed pruned mid-cycle drops out entirely
	livePosts := make([]*dal.Post, 0, len(posts))
	for _, p := range posts {
		if known[p.FeedUrl] {
			livePosts = append(livePosts, p)
		}
	}
	liveProfiles := make([]*dal.Profile, 0, len(profiles))
	for _, prof := range profiles {
		if known[prof.FeedUrl] {
			liveProfiles = append(liveProfiles, prof)
		}
	}

	g := graph.Build(livePosts, feedUrls, graph.Options{
		MaxDepth: im.cfg.MaxReplyDepth,
		Matcher:  im.matcher,
	})
	snap := newSnapshot(g, feedUrls, liveProfiles, im.cfg.Groups)
	snap.BuiltAt = im.now()

	prev := im.current.Load()
	if prev != nil && prev.Version == snap.Version {
		snap.LastModified = prev.LastModified
	} else {
		snap.LastModified = snap.BuiltAt
	}

	if err = ctx.Err(); err != nil {
		return
	}
	im.current.Store(snap)

	im.logger.Infof("Index rebuilt: %d feeds, %d posts, version %s", len(feedUrls), len(livePosts), snap.Version)
	diag := g.Diag
	if diag.DanglingReplies+diag.BrokenChains+diag.DroppedVotes+diag.DanglingBoosts+diag.SelfMentions > 0 {
		im.logger.Warnf("Graph diagnostics: %d dangling replies, %d broken chains, %d dropped votes, %d dangling boosts, %d self-mentions",
			diag.DanglingReplies, diag.BrokenChains, diag.DroppedVotes, diag.DanglingBoosts, diag.SelfMentions)
	}
	return nil
}
