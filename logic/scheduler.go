package logic

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"org_relay/index"
	"org_relay/shared"
	"sync"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_scheduler.go -package mocks org_relay/logic IScheduler

const schedulerTickSec = 1

type JobKind string

const (
	JobFeedScan        JobKind = "feed-scan"
	JobNodeDiscovery   JobKind = "node-discovery"
	JobFollowDiscovery JobKind = "follow-discovery"
	JobStalePrune      JobKind = "stale-prune"
)

var JobKinds = []JobKind{JobFeedScan, JobNodeDiscovery, JobFollowDiscovery, JobStalePrune}

type JobState int

const (
	JobIdle JobState = iota
	JobRunning
)

var (
	ErrJobRunning = errors.New("job is already running")
	ErrUnknownJob = errors.New("unknown job")
)

type IScheduler interface {
	Start()
	// Stop cancels running jobs and waits for them to return.
	Stop()
	// RunNow runs a job synchronously. If the job is already running, it is skipped with ErrJobRunning.
	RunNow(kind JobKind) error
	State(kind JobKind) JobState
}

type jobFunc func(ctx context.Context, runId string) error

type job struct {
	kind     JobKind
	interval time.Duration
	run      jobFunc
	muState  sync.Mutex
	state    JobState
	nextDue  time.Time
}

type scheduler struct {
	logger      shared.ILogger
	metrics     IMetrics
	crawler     IFeedCrawler
	relaySync   IRelaySync
	follows     IFollowDiscovery
	pruner      IStalePruner
	indexMgr    index.IIndexManager
	notifier    INotifier
	jobs        map[JobKind]*job
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	muLifecycle sync.Mutex
	started     bool

	// Guards index rebuilds against a feed scan that is writing the store
	muIndex        sync.Mutex
	scanActive     bool
	rebuildPending bool
}

func NewScheduler(
	cfg *shared.Config,
	logger shared.ILogger,
	metrics IMetrics,
	crawler IFeedCrawler,
	relaySync IRelaySync,
	follows IFollowDiscovery,
	pruner IStalePruner,
	indexMgr index.IIndexManager,
	notifier INotifier,
) IScheduler {

	sch := scheduler{
		logger:    logger,
		metrics:   metrics,
		crawler:   crawler,
		relaySync: relaySync,
		follows:   follows,
		pruner:    pruner,
		indexMgr:  indexMgr,
		notifier:  notifier,
		jobs:      make(map[JobKind]*job),
	}
	sch.ctx, sch.cancel = context.WithCancel(context.Background())

	sched := cfg.Schedule
	sch.register(JobFeedScan, time.Duration(sched.FeedScanSec)*time.Second, sch.runFeedScan)
	sch.register(JobNodeDiscovery, time.Duration(sched.NodeDiscoveryMin)*time.Minute, sch.runNodeDiscovery)
	sch.register(JobFollowDiscovery, time.Duration(sched.FollowDiscoveryMin)*time.Minute, sch.runFollowDiscovery)
	sch.register(JobStalePrune, time.Duration(sched.StalePruneMin)*time.Minute, sch.runStalePrune)

	return &sch
}

func (sch *scheduler) register(kind JobKind, interval time.Duration, run jobFunc) {
	sch.jobs[kind] = &job{kind: kind, interval: interval, run: run}
}

func (sch *scheduler) Start() {
	sch.muLifecycle.Lock()
	defer sch.muLifecycle.Unlock()
	if sch.started {
		return
	}
	sch.started = true
	sch.wg.Add(1)
	go sch.tickLoop()
}

func (sch *scheduler) Stop() {
	sch.cancel()
	sch.wg.Wait()
}

func (sch *scheduler) State(kind JobKind) JobState {
	j, ok := sch.jobs[kind]
	if !ok {
		return JobIdle
	}
	j.muState.Lock()
	defer j.muState.Unlock()
	return j.state
}

func (sch *scheduler) RunNow(kind JobKind) error {
	j, ok := sch.jobs[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, kind)
	}
	if !sch.tryAcquire(j) {
		return ErrJobRunning
	}
	sch.wg.Add(1)
	defer sch.wg.Done()
	return sch.execute(j)
}

func (sch *scheduler) tickLoop() {
	defer sch.wg.Done()

	ticker := time.NewTicker(schedulerTickSec * time.Second)
	defer ticker.Stop()

	sch.dispatchDue(time.Now())
	for {
		select {
		case <-sch.ctx.Done():
			return
		case now := <-ticker.C:
			sch.dispatchDue(now)
		}
	}
}

func (sch *scheduler) dispatchDue(now time.Time) {
	for _, kind := range JobKinds {
		j := sch.jobs[kind]
		if now.Before(j.nextDue) {
			continue
		}
		j.nextDue = now.Add(j.interval)
		if !sch.tryAcquire(j) {
			continue
		}
		sch.wg.Add(1)
		go func() {
			defer sch.wg.Done()
			_ = sch.execute(j)
		}()
	}
}

// tryAcquire flips the job to Running; a job that is already running is skipped, never queued.
func (sch *scheduler) tryAcquire(j *job) bool {
	j.muState.Lock()
	defer j.muState.Unlock()
	if j.state == JobRunning {
		sch.logger.Infof("Job %s is still running; skipping this tick", j.kind)
		sch.metrics.JobTickSkipped(string(j.kind))
		return false
	}
	j.state = JobRunning
	return true
}

func (sch *scheduler) execute(j *job) (err error) {

	runId := uuid.New().String()
	observer := sch.metrics.StartJob(string(j.kind))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
		observer.Finish()
		if err != nil {
			sch.logger.Errorf("[%s] Job %s failed: %v", runId, j.kind, err)
		} else {
			sch.logger.Infof("[%s] Job %s finished", runId, j.kind)
		}
		j.muState.Lock()
		j.state = JobIdle
		j.muState.Unlock()
	}()

	if err = sch.ctx.Err(); err != nil {
		return
	}
	sch.logger.Infof("[%s] Job %s starting", runId, j.kind)
	err = j.run(sch.ctx, runId)
	return
}

func (sch *scheduler) runFeedScan(ctx context.Context, runId string) error {

	sch.muIndex.Lock()
	sch.scanActive = true
	sch.muIndex.Unlock()

	report, err := sch.crawler.ScanAll(ctx)

	sch.muIndex.Lock()
	defer sch.muIndex.Unlock()
	sch.scanActive = false

	if err != nil {
		// A prune deferred to this scan still needs its feeds gone from the index
		if sch.rebuildPending && ctx.Err() == nil {
			return errors.Join(err, sch.rebuildIndex(ctx, runId))
		}
		return err
	}
	sch.logger.Infof("[%s] Scan completed: %s", runId, report.String())
	if report.Cancelled {
		return ctx.Err()
	}
	return sch.rebuildIndex(ctx, runId)
}

// rebuildIndex swaps in a fresh snapshot and pushes the notifications it adds.
// Callers hold muIndex.
func (sch *scheduler) rebuildIndex(ctx context.Context, runId string) error {

	prev := sch.indexMgr.Current()
	if err := sch.indexMgr.Rebuild(ctx); err != nil {
		sch.metrics.IndexRebuilt(false)
		return fmt.Errorf("index rebuild failed: %w", err)
	}
	sch.rebuildPending = false
	sch.metrics.IndexRebuilt(true)
	if sent := sch.notifier.Publish(prev, sch.indexMgr.Current()); sent > 0 {
		sch.logger.Infof("[%s] Pushed %d live notifications", runId, sent)
	}
	return nil
}

func (sch *scheduler) runNodeDiscovery(ctx context.Context, runId string) error {
	added, err := sch.relaySync.Run(ctx)
	if added > 0 {
		sch.logger.Infof("[%s] %d feeds added from relay nodes", runId, added)
	}
	return err
}

func (sch *scheduler) runFollowDiscovery(ctx context.Context, runId string) error {
	added, err := sch.follows.Run(ctx)
	if added > 0 {
		sch.logger.Infof("[%s] %d feeds added from follow lists", runId, added)
	}
	return err
}

func (sch *scheduler) runStalePrune(ctx context.Context, runId string) error {
	removed, err := sch.pruner.Run(ctx)
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}
	sch.logger.Infof("[%s] %d stale feeds removed", runId, removed)

	sch.muIndex.Lock()
	defer sch.muIndex.Unlock()
	if sch.scanActive {
		// The scan in progress rebuilds once all its fetches are stored
		sch.rebuildPending = true
		sch.logger.Infof("[%s] Feed scan in progress; index rebuild left to the scan", runId)
		return nil
	}
	return sch.rebuildIndex(ctx, runId)
}
