package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"org_relay/shared"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_metrics.go -package mocks org_relay/logic IMetrics

const (
	FetchUpdated     = "updated"
	FetchNotModified = "not-modified"
	FetchUnchanged   = "unchanged"
	FetchFailed      = "failed"
)

type IMetrics interface {
	StartWebRequestIn(label string) IRequestObserver
	StartJob(kind string) IRequestObserver
	FeedFetched(outcome string)
	NewPostsSaved(count int)
	ParseWarnings(count int)
	JobTickSkipped(kind string)
	FeedsDiscovered(source string, count int)
	FeedsPruned(count int)
	IndexRebuilt(ok bool)
	FeedCount(count int)
	StreamClients(count int)
	ServiceStarted()
}

type IRequestObserver interface {
	Finish()
}

type metrics struct {
	cfg             *shared.Config
	webRequestsIn   *prometheus.HistogramVec
	jobDuration     *prometheus.HistogramVec
	feedFetches     *prometheus.CounterVec
	newPostsSaved   prometheus.Counter
	parseWarnings   prometheus.Counter
	jobTicksSkipped *prometheus.CounterVec
	feedsDiscovered *prometheus.CounterVec
	feedsPruned     prometheus.Counter
	indexRebuilds   *prometheus.CounterVec
	feedCount       prometheus.Gauge
	streamClients   prometheus.Gauge
	serviceStarted  prometheus.Counter
}

func NewMetrics(cfg *shared.Config) IMetrics {

	res := metrics{}
	res.cfg = cfg

	res.webRequestsIn = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "web_requests_in_duration",
		Help: "Duration in seconds of Web requests served.",
	}, []string{"label"})
	prometheus.Register(res.webRequestsIn)

	res.jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration",
		Help:    "Duration in seconds of background job runs.",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	}, []string{"kind"})
	prometheus.Register(res.jobDuration)

	res.feedFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_fetches",
		Help: "Number of feed fetches by outcome",
	}, []string{"outcome"})
	prometheus.Register(res.feedFetches)

	res.newPostsSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "new_posts_saved",
		Help: "Number of new posts saved",
	})
	prometheus.Register(res.newPostsSaved)

	res.parseWarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parse_warnings",
		Help: "Number of posts skipped or degraded while parsing feeds",
	})
	prometheus.Register(res.parseWarnings)

	res.jobTicksSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_ticks_skipped",
		Help: "Number of job ticks skipped because the previous run was still going",
	}, []string{"kind"})
	prometheus.Register(res.jobTicksSkipped)

	res.feedsDiscovered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feeds_discovered",
		Help: "Number of feeds registered through discovery",
	}, []string{"source"})
	prometheus.Register(res.feedsDiscovered)

	res.feedsPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feeds_pruned",
		Help: "Number of stale feeds removed",
	})
	prometheus.Register(res.feedsPruned)

	res.indexRebuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "index_rebuilds",
		Help: "Number of index rebuilds by result",
	}, []string{"result"})
	prometheus.Register(res.indexRebuilds)

	res.feedCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "feed_count",
		Help: "Number of registered feeds",
	})
	prometheus.Register(res.feedCount)

	res.streamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stream_clients",
		Help: "Number of connected notification stream clients",
	})
	prometheus.Register(res.streamClients)

	res.serviceStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "service_started",
		Help: "Service has started up",
	})
	prometheus.Register(res.serviceStarted)

	return &res
}

type requestObserver struct {
	label string
	start time.Time
	hgvec *prometheus.HistogramVec
}

func (ro *requestObserver) Finish() {
	elapsed := time.Since(ro.start).Seconds()
	ro.hgvec.WithLabelValues(ro.label).Observe(elapsed)
}

func (m *metrics) StartWebRequestIn(label string) IRequestObserver {
	return &requestObserver{label, time.Now(), m.webRequestsIn}
}

func (m *metrics) StartJob(kind string) IRequestObserver {
	return &requestObserver{kind, time.Now(), m.jobDuration}
}

func (m *metrics) FeedFetched(outcome string) {
	m.feedFetches.WithLabelValues(outcome).Add(1)
}

func (m *metrics) NewPostsSaved(count int) {
	m.newPostsSaved.Add(float64(count))
}

func (m *metrics) ParseWarnings(count int) {
	m.parseWarnings.Add(float64(count))
}

func (m *metrics) JobTickSkipped(kind string) {
	m.jobTicksSkipped.WithLabelValues(kind).Add(1)
}

func (m *metrics) FeedsDiscovered(source string, count int) {
	m.feedsDiscovered.WithLabelValues(source).Add(float64(count))
}

func (m *metrics) FeedsPruned(count int) {
	m.feedsPruned.Add(float64(count))
}

func (m *metrics) IndexRebuilt(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.indexRebuilds.WithLabelValues(result).Add(1)
}

func (m *metrics) FeedCount(count int) {
	m.feedCount.Set(float64(count))
}

func (m *metrics) StreamClients(count int) {
	m.streamClients.Set(float64(count))
}

func (m *metrics) ServiceStarted() {
	m.serviceStarted.Add(1)
}
