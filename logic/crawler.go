package logic

import (
	"context"
	"errors"
	"fmt"
	"github.com/spaolacci/murmur3"
	"org_relay/dal"
	"org_relay/parser"
	"org_relay/shared"
	"sync"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_feed_crawler.go -package mocks org_relay/logic IFeedCrawler

const maxStoredErrorLen = 200

// ScanReport sums up one crawl cycle. Per-feed failures are counted here, never returned as errors.
type ScanReport struct {
	Feeds       int
	Updated     int
	NotModified int
	Unchanged   int
	Failed      int
	Vanished    int // removed from the store while the cycle was running
	NewPosts    int
	Warnings    int
	Cancelled   bool
}

func (sr *ScanReport) String() string {
	return fmt.Sprintf("%d feeds: %d updated, %d not modified, %d unchanged, %d failed; %d new posts, %d warnings",
		sr.Feeds, sr.Updated, sr.NotModified, sr.Unchanged, sr.Failed, sr.NewPosts, sr.Warnings)
}

type IFeedCrawler interface {
	// ScanAll fetches every registered feed and commits each result as soon as it is in.
	// The error is only non-nil if the list of feeds could not be loaded.
	ScanAll(ctx context.Context) (*ScanReport, error)
}

type feedCrawler struct {
	cfg     *shared.Config
	logger  shared.ILogger
	repo    dal.IRepo
	fetcher IFetcher
	metrics IMetrics
	limiter *hostLimiter
	now     func() time.Time
}

type scanOutcome struct {
	status   string
	newPosts int
	warnings int
}

const (
	scanVanished  = "vanished"
	scanCancelled = "cancelled"
)

func NewFeedCrawler(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	fetcher IFetcher,
	metrics IMetrics,
) IFeedCrawler {
	return &feedCrawler{
		cfg:     cfg,
		logger:  logger,
		repo:    repo,
		fetcher: fetcher,
		metrics: metrics,
		limiter: newHostLimiter(cfg.MaxFetchesPerHost, time.Duration(cfg.HostDelayMs)*time.Millisecond),
		now:     time.Now,
	}
}

func contentHash(body []byte) string {
	h1, h2 := murmur3.Sum128(body)
	return fmt.Sprintf("%016x%016x", h1, h2)
}

func (fc *feedCrawler) ScanAll(ctx context.Context) (*ScanReport, error) {

	feeds, err := fc.repo.GetFeeds()
	if err != nil {
		return nil, fmt.Errorf("failed to load feeds: %w", err)
	}
	fc.metrics.FeedCount(len(feeds))

	report := &ScanReport{Feeds: len(feeds)}
	if len(feeds) == 0 {
		return report, nil
	}

	workers := fc.cfg.MaxParallelFetches
	if workers > len(feeds) {
		workers = len(feeds)
	}
	fc.logger.Infof("Scanning %d feeds with %d workers", len(feeds), workers)

	var wg sync.WaitGroup
	var muReport sync.Mutex
	feedChan := make(chan *dal.Feed)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feed := range feedChan {
				outcome := fc.scanFeedSafe(ctx, feed)
				muReport.Lock()
				report.add(outcome)
				muReport.Unlock()
			}
		}()
	}

feedLoop:
	for _, feed := range feeds {
		select {
		case <-ctx.Done():
			break feedLoop
		case feedChan <- feed:
		}
	}
	close(feedChan)
	wg.Wait()

	report.Cancelled = ctx.Err() != nil
	return report, nil
}

func (sr *ScanReport) add(outcome scanOutcome) {
	switch outcome.status {
	case FetchUpdated:
		sr.Updated++
	case FetchNotModified:
		sr.NotModified++
	case FetchUnchanged:
		sr.Unchanged++
	case FetchFailed:
		sr.Failed++
	case scanVanished:
		sr.Vanished++
	}
	sr.NewPosts += outcome.newPosts
	sr.Warnings += outcome.warnings
}

func (fc *feedCrawler) scanFeedSafe(ctx context.Context, feed *dal.Feed) (outcome scanOutcome) {

	defer func() {
		if r := recover(); r != nil {
			fc.logger.Errorf("Scanning feed panicked: %s: %v", feed.Url, r)
			fc.recordFailure(feed.Url, fmt.Sprintf("panic: %v", r))
			outcome = scanOutcome{status: FetchFailed}
		}
	}()

	if ctx.Err() != nil {
		return scanOutcome{status: scanCancelled}
	}
	host := hostKey(feed.Url)
	if err := fc.limiter.acquire(ctx, host); err != nil {
		return scanOutcome{status: scanCancelled}
	}
	defer fc.limiter.release(host)

	outcome = fc.scanFeed(ctx, feed)
	if outcome.status != scanCancelled && outcome.status != scanVanished {
		fc.metrics.FeedFetched(outcome.status)
	}
	return
}

func (fc *feedCrawler) scanFeed(ctx context.Context, feed *dal.Feed) scanOutcome {

	fetchCtx, cancel := context.WithTimeout(ctx, fc.cfg.FetchTimeout())
	defer cancel()

	res, err := fc.fetcher.Fetch(fetchCtx, &FetchRequest{
		Url:          feed.Url,
		ETag:         feed.ETag,
		LastModified: feed.LastModified,
	})
	if err != nil {
		if ctx.Err() != nil {
			// Cycle is being cancelled; not the feed's fault
			return scanOutcome{status: scanCancelled}
		}
		fc.logger.Warnf("Failed to fetch feed: %s: %v", feed.Url, err)
		fc.recordFailure(feed.Url, err.Error())
		return scanOutcome{status: FetchFailed}
	}

	state := &dal.FetchState{
		When:         fc.now(),
		ETag:         res.ETag,
		LastModified: res.LastModified,
		ContentHash:  feed.ContentHash,
	}

	if res.NotModified {
		if state.ETag == "" {
			state.ETag = feed.ETag
		}
		if state.LastModified == "" {
			state.LastModified = feed.LastModified
		}
		return fc.recordSuccess(feed.Url, state, scanOutcome{status: FetchNotModified})
	}

	hash := contentHash(res.Body)
	if hash == feed.ContentHash {
		return fc.recordSuccess(feed.Url, state, scanOutcome{status: FetchUnchanged})
	}

	doc, warnings := parser.Parse(feed.Url, string(res.Body))
	for _, w := range warnings {
		fc.logger.Warnf("Parse warning in %s: %s", feed.Url, w.String())
	}
	if len(warnings) > 0 {
		fc.metrics.ParseWarnings(len(warnings))
	}

	profile := doc.Profile
	profile.FeedUrl = feed.Url
	profile.Version = hash
	profile.UpdatedAt = state.When

	newPosts, err := fc.repo.StoreFeedContent(feed.Url, profile, doc.Posts)
	if errors.Is(err, dal.ErrUnknownFeed) {
		fc.logger.Infof("Feed was removed while being scanned: %s", feed.Url)
		return scanOutcome{status: scanVanished}
	}
	if err != nil {
		fc.logger.Errorf("Failed to store feed content: %s: %v", feed.Url, err)
		fc.recordFailure(feed.Url, err.Error())
		return scanOutcome{status: FetchFailed, warnings: len(warnings)}
	}
	if newPosts > 0 {
		fc.logger.Infof("%d new posts in %s", newPosts, feed.Url)
		fc.metrics.NewPostsSaved(newPosts)
	}

	state.ContentHash = hash
	return fc.recordSuccess(feed.Url, state, scanOutcome{
		status:   FetchUpdated,
		newPosts: newPosts,
		warnings: len(warnings),
	})
}

func (fc *feedCrawler) recordSuccess(feedUrl string, state *dal.FetchState, outcome scanOutcome) scanOutcome {
	if err := fc.repo.RecordFetchSuccess(feedUrl, state); err != nil {
		fc.logger.Errorf("Failed to record successful fetch: %s: %v", feedUrl, err)
	}
	return outcome
}

func (fc *feedCrawler) recordFailure(feedUrl, errMsg string) {
	errMsg = shared.TruncateWithEllipsis(errMsg, maxStoredErrorLen)
	if err := fc.repo.RecordFetchFailure(feedUrl, fc.now(), errMsg); err != nil {
		fc.logger.Errorf("Failed to record fetch failure: %s: %v", feedUrl, err)
	}
}
