package test

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"org_relay/dal"
	"org_relay/index"
	"org_relay/logic"
	"org_relay/shared"
	"org_relay/test/mocks"
	"sync"
	"testing"
	"time"
)

type schedulerHarness struct {
	cfg           *shared.Config
	mockLogger    *mocks.MockILogger
	mockMetrics   *mocks.MockIMetrics
	mockCrawler   *mocks.MockIFeedCrawler
	mockRelaySync *mocks.MockIRelaySync
	mockFollows   *mocks.MockIFollowDiscovery
	mockPruner    *mocks.MockIStalePruner
	mockIndexMgr  *mocks.MockIIndexManager
	mockNotifier  *mocks.MockINotifier
}

func setupSchedulerTest(t *testing.T) (*schedulerHarness, logic.IScheduler) {
	ctrl := gomock.NewController(t)
	h := &schedulerHarness{
		cfg:           &shared.Config{},
		mockLogger:    mocks.NewMockILogger(ctrl),
		mockMetrics:   mocks.NewMockIMetrics(ctrl),
		mockCrawler:   mocks.NewMockIFeedCrawler(ctrl),
		mockRelaySync: mocks.NewMockIRelaySync(ctrl),
		mockFollows:   mocks.NewMockIFollowDiscovery(ctrl),
		mockPruner:    mocks.NewMockIStalePruner(ctrl),
		mockIndexMgr:  mocks.NewMockIIndexManager(ctrl),
		mockNotifier:  mocks.NewMockINotifier(ctrl),
	}
	h.cfg.ApplyDefaults()
	stubLogger(h.mockLogger)
	sch := logic.NewScheduler(h.cfg, h.mockLogger, h.mockMetrics, h.mockCrawler, h.mockRelaySync,
		h.mockFollows, h.mockPruner, h.mockIndexMgr, h.mockNotifier)
	t.Cleanup(sch.Stop)
	return h, sch
}

func TestSchedulerFeedScanRebuildsAndNotifies(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	stubMetrics(h.mockMetrics)
	prev := &index.Snapshot{Version: "v1"}
	next := &index.Snapshot{Version: "v2"}

	gomock.InOrder(
		h.mockCrawler.EXPECT().ScanAll(gomock.Any()).Return(&logic.ScanReport{Feeds: 2, Updated: 1}, nil),
		h.mockIndexMgr.EXPECT().Current().Return(prev),
		h.mockIndexMgr.EXPECT().Rebuild(gomock.Any()).Return(nil),
		h.mockIndexMgr.EXPECT().Current().Return(next),
		h.mockNotifier.EXPECT().Publish(prev, next).Return(3),
	)

	assert.NoError(t, sch.RunNow(logic.JobFeedScan))
	assert.Equal(t, logic.JobIdle, sch.State(logic.JobFeedScan))
}

func TestSchedulerScanFailureSkipsRebuild(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	stubMetrics(h.mockMetrics)
	h.mockCrawler.EXPECT().ScanAll(gomock.Any()).Return(nil, errors.New("db gone"))

	assert.Error(t, sch.RunNow(logic.JobFeedScan))
	assert.Equal(t, logic.JobIdle, sch.State(logic.JobFeedScan))
}

func TestSchedulerRebuildFailureIsReported(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	stubMetrics(h.mockMetrics)
	h.mockCrawler.EXPECT().ScanAll(gomock.Any()).Return(&logic.ScanReport{}, nil)
	h.mockIndexMgr.EXPECT().Current().Return(&index.Snapshot{})
	h.mockIndexMgr.EXPECT().Rebuild(gomock.Any()).Return(errors.New("boom"))

	assert.Error(t, sch.RunNow(logic.JobFeedScan))
}

func TestSchedulerStalePruneRebuildsOnlyWhenFeedsRemoved(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	stubMetrics(h.mockMetrics)

	h.mockPruner.EXPECT().Run(gomock.Any()).Return(0, nil)
	assert.NoError(t, sch.RunNow(logic.JobStalePrune))

	prev := &index.Snapshot{Version: "v1"}
	next := &index.Snapshot{Version: "v2"}
	h.mockPruner.EXPECT().Run(gomock.Any()).Return(2, nil)
	gomock.InOrder(
		h.mockIndexMgr.EXPECT().Current().Return(prev),
		h.mockIndexMgr.EXPECT().Rebuild(gomock.Any()).Return(nil),
		h.mockIndexMgr.EXPECT().Current().Return(next),
		h.mockNotifier.EXPECT().Publish(prev, next).Return(0),
	)
	assert.NoError(t, sch.RunNow(logic.JobStalePrune))
}

func TestSchedulerPruneDuringScanLeavesRebuildToScan(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	stubMetrics(h.mockMetrics)
	prev := &index.Snapshot{Version: "v1"}
	next := &index.Snapshot{Version: "v2"}

	scanning := make(chan struct{})
	finishScan := make(chan struct{})
	h.mockCrawler.EXPECT().ScanAll(gomock.Any()).DoAndReturn(func(ctx context.Context) (*logic.ScanReport, error) {
		close(scanning)
		<-finishScan
		return &logic.ScanReport{Feeds: 2, Updated: 1}, nil
	})
	h.mockPruner.EXPECT().Run(gomock.Any()).Return(1, nil)
	// One rebuild only, after the scan, diffed against the pre-scan snapshot
	gomock.InOrder(
		h.mockIndexMgr.EXPECT().Current().Return(prev),
		h.mockIndexMgr.EXPECT().Rebuild(gomock.Any()).Return(nil),
		h.mockIndexMgr.EXPECT().Current().Return(next),
		h.mockNotifier.EXPECT().Publish(prev, next).Return(1),
	)

	scanDone := make(chan error)
	go func() { scanDone <- sch.RunNow(logic.JobFeedScan) }()
	<-scanning
	assert.NoError(t, sch.RunNow(logic.JobStalePrune))

	close(finishScan)
	assert.NoError(t, <-scanDone)
}

func TestSchedulerPruneDuringScanKeepsLiveNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	mockMetrics := mocks.NewMockIMetrics(ctrl)
	mockCrawler := mocks.NewMockIFeedCrawler(ctrl)
	mockPruner := mocks.NewMockIStalePruner(ctrl)
	stubLogger(mockLogger)
	stubMetrics(mockMetrics)
	cfg := &shared.Config{}
	cfg.ApplyDefaults()

	sb := newSnapshotBuilder(t, ctrl, mockLogger)
	sb.build(t, []string{aliceFeed, bobFeed, carolFeed}, alicePost)
	notifier := logic.NewNotifier(mockLogger, mockMetrics)
	sch := logic.NewScheduler(cfg, mockLogger, mockMetrics, mockCrawler, mocks.NewMockIRelaySync(ctrl),
		mocks.NewMockIFollowDiscovery(ctrl), mockPruner, sb.im, notifier)
	t.Cleanup(sch.Stop)

	events, unsubscribe := notifier.Subscribe(aliceFeed)
	defer unsubscribe()

	// The store as it looks once the scan has stored bob's reply and carol was pruned.
	// It is read exactly once, by the rebuild that follows the scan.
	reply := makeTestPost(bobFeed, time.Hour, dal.KindReply, alicePost.Url(), "")
	sb.mockRepo.EXPECT().GetFeeds().Return([]*dal.Feed{{Url: aliceFeed}, {Url: bobFeed}}, nil)
	sb.mockRepo.EXPECT().GetProfiles().Return(nil, nil)
	sb.mockRepo.EXPECT().GetAllPosts().Return([]*dal.Post{alicePost, reply}, nil)

	scanning := make(chan struct{})
	finishScan := make(chan struct{})
	mockCrawler.EXPECT().ScanAll(gomock.Any()).DoAndReturn(func(ctx context.Context) (*logic.ScanReport, error) {
		close(scanning)
		<-finishScan
		return &logic.ScanReport{Feeds: 3, Updated: 1}, nil
	})
	mockPruner.EXPECT().Run(gomock.Any()).Return(1, nil)

	scanDone := make(chan error)
	go func() { scanDone <- sch.RunNow(logic.JobFeedScan) }()
	<-scanning
	require.NoError(t, sch.RunNow(logic.JobStalePrune))
	close(finishScan)
	require.NoError(t, <-scanDone)

	select {
	case ev := <-events:
		assert.Equal(t, "reply", ev.Kind)
		assert.Equal(t, reply.Url(), ev.Post)
	case <-time.After(time.Second):
		require.Fail(t, "reply to alice was not pushed to alice's stream")
	}
	assert.False(t, sb.im.Current().KnowsFeed(carolFeed))
}

func TestSchedulerFailedScanStillRebuildsForDeferredPrune(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	stubMetrics(h.mockMetrics)

	scanning := make(chan struct{})
	finishScan := make(chan struct{})
	h.mockCrawler.EXPECT().ScanAll(gomock.Any()).DoAndReturn(func(ctx context.Context) (*logic.ScanReport, error) {
		close(scanning)
		<-finishScan
		return nil, errors.New("db gone")
	})
	h.mockPruner.EXPECT().Run(gomock.Any()).Return(1, nil)
	h.mockIndexMgr.EXPECT().Current().Return(&index.Snapshot{}).Times(2)
	h.mockIndexMgr.EXPECT().Rebuild(gomock.Any()).Return(nil)
	h.mockNotifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(0)

	scanDone := make(chan error)
	go func() { scanDone <- sch.RunNow(logic.JobFeedScan) }()
	<-scanning
	assert.NoError(t, sch.RunNow(logic.JobStalePrune))

	close(finishScan)
	assert.ErrorContains(t, <-scanDone, "db gone")
}

func TestSchedulerDiscoveryJobs(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	stubMetrics(h.mockMetrics)
	h.mockRelaySync.EXPECT().Run(gomock.Any()).Return(3, nil)
	h.mockFollows.EXPECT().Run(gomock.Any()).Return(0, errors.New("db gone"))

	assert.NoError(t, sch.RunNow(logic.JobNodeDiscovery))
	assert.Error(t, sch.RunNow(logic.JobFollowDiscovery))
}

func TestSchedulerUnknownJob(t *testing.T) {
	_, sch := setupSchedulerTest(t)
	err := sch.RunNow(logic.JobKind("reindex-everything"))
	assert.ErrorIs(t, err, logic.ErrUnknownJob)
}

func TestSchedulerSkipsJobThatIsStillRunning(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	h.mockMetrics.EXPECT().StartJob(gomock.Any()).Return(logic.IRequestObserver(nopObserver{})).AnyTimes()
	h.mockMetrics.EXPECT().JobTickSkipped(string(logic.JobNodeDiscovery)).Times(1)

	started := make(chan struct{})
	release := make(chan struct{})
	h.mockRelaySync.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 0, nil
	}).Times(1)

	done := make(chan error)
	go func() { done <- sch.RunNow(logic.JobNodeDiscovery) }()
	<-started
	assert.Equal(t, logic.JobRunning, sch.State(logic.JobNodeDiscovery))

	assert.ErrorIs(t, sch.RunNow(logic.JobNodeDiscovery), logic.ErrJobRunning)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, logic.JobIdle, sch.State(logic.JobNodeDiscovery))
}

func TestSchedulerStartRunsEveryJobOnceThenStops(t *testing.T) {
	h, sch := setupSchedulerTest(t)
	stubMetrics(h.mockMetrics)

	var wg sync.WaitGroup
	wg.Add(4)
	h.mockCrawler.EXPECT().ScanAll(gomock.Any()).DoAndReturn(func(ctx context.Context) (*logic.ScanReport, error) {
		wg.Done()
		return &logic.ScanReport{}, nil
	})
	h.mockIndexMgr.EXPECT().Current().Return(&index.Snapshot{}).AnyTimes()
	h.mockIndexMgr.EXPECT().Rebuild(gomock.Any()).Return(nil).AnyTimes()
	h.mockNotifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(0).AnyTimes()
	h.mockRelaySync.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		wg.Done()
		return 0, nil
	})
	h.mockFollows.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		wg.Done()
		return 0, nil
	})
	h.mockPruner.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		wg.Done()
		return 0, nil
	})

	sch.Start()
	sch.Start()

	allRan := make(chan struct{})
	go func() {
		wg.Wait()
		close(allRan)
	}()
	select {
	case <-allRan:
	case <-time.After(5 * time.Second):
		require.Fail(t, "jobs did not run after Start")
	}
	sch.Stop()

	// Stopped scheduler refuses to run anything
	assert.ErrorIs(t, sch.RunNow(logic.JobFeedScan), context.Canceled)
}
