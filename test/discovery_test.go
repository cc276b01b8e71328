package test

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"org_relay/dal"
	"org_relay/logic"
	"org_relay/shared"
	"org_relay/test/mocks"
	"testing"
	"time"
)

const (
	relayListUrl    = "https://lists.example/relays.txt"
	registerListUrl = "https://lists.example/registered.txt"
)

type discoveryHarness struct {
	cfg           *shared.Config
	mockLogger    *mocks.MockILogger
	mockRepo      *mocks.MockIRepo
	mockFetcher   *mocks.MockIFetcher
	mockValidator *mocks.MockIFeedValidator
	mockMetrics   *mocks.MockIMetrics
}

func setupDiscoveryTest(t *testing.T) *discoveryHarness {
	ctrl := gomock.NewController(t)
	h := &discoveryHarness{
		cfg: &shared.Config{
			Host:            "relay.example",
			RelayListUrl:    relayListUrl,
			RegisterListUrl: registerListUrl,
		},
		mockLogger:    mocks.NewMockILogger(ctrl),
		mockRepo:      mocks.NewMockIRepo(ctrl),
		mockFetcher:   mocks.NewMockIFetcher(ctrl),
		mockValidator: mocks.NewMockIFeedValidator(ctrl),
		mockMetrics:   mocks.NewMockIMetrics(ctrl),
	}
	h.cfg.ApplyDefaults()
	stubLogger(h.mockLogger)
	return h
}

func (h *discoveryHarness) serve(url, body string) {
	h.mockFetcher.EXPECT().Fetch(gomock.Any(), gomock.Cond(fetchOf(url))).
		Return(&logic.FetchResult{Body: []byte(body)}, nil)
}

func TestRelaySyncCollectsFeedsFromNodesAndRegister(t *testing.T) {
	h := setupDiscoveryTest(t)
	rs := logic.NewRelaySync(h.cfg, h.mockLogger, h.mockRepo, h.mockFetcher, h.mockValidator, h.mockMetrics)

	h.serve(relayListUrl, "# Known relays\nhttps://relay.example\n\nother-relay.example/\nbroken.example\n")
	h.serve("http://other-relay.example/feeds",
		`{"type":"Success","errors":[],"data":["https://a.example/social.org","https://b.example/social.org"]}`)
	h.mockFetcher.EXPECT().Fetch(gomock.Any(), gomock.Cond(fetchOf("http://broken.example/feeds"))).
		Return(nil, errors.New("connection refused"))
	h.serve(registerListUrl, "https://b.example/social.org\n  https://c.example/social.org  \nnot a url\n")

	h.mockRepo.EXPECT().GetFeed("https://a.example/social.org").Return(nil, nil)
	h.mockRepo.EXPECT().GetFeed("https://b.example/social.org").Return(&dal.Feed{Url: "https://b.example/social.org"}, nil)
	h.mockRepo.EXPECT().GetFeed("https://c.example/social.org").Return(nil, nil)
	h.mockRepo.EXPECT().AddFeedIfNotExist("https://a.example/social.org", dal.SourceRelayList, gomock.Any()).Return(true, nil)
	h.mockRepo.EXPECT().AddFeedIfNotExist("https://c.example/social.org", dal.SourceRelayList, gomock.Any()).Return(true, nil)
	h.mockMetrics.EXPECT().FeedsDiscovered(string(dal.SourceRelayList), 2)

	added, err := rs.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, added)
}

func TestRelaySyncRejectsErrorEnvelope(t *testing.T) {
	h := setupDiscoveryTest(t)
	h.cfg.RegisterListUrl = ""
	rs := logic.NewRelaySync(h.cfg, h.mockLogger, h.mockRepo, h.mockFetcher, h.mockValidator, h.mockMetrics)

	h.serve(relayListUrl, "https://other-relay.example\n")
	h.serve("https://other-relay.example/feeds", `{"type":"Error","errors":["down"],"data":null}`)

	added, err := rs.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestRelaySyncValidatesWhenConfigured(t *testing.T) {
	h := setupDiscoveryTest(t)
	h.cfg.RelayListUrl = ""
	h.cfg.ValidateDiscoveredFeeds = true
	rs := logic.NewRelaySync(h.cfg, h.mockLogger, h.mockRepo, h.mockFetcher, h.mockValidator, h.mockMetrics)

	h.serve(registerListUrl, "https://a.example/\nhttps://b.example/social.org\n")
	h.mockRepo.EXPECT().GetFeed(gomock.Any()).Return(nil, nil).Times(2)
	h.mockValidator.EXPECT().Validate(gomock.Any(), "https://a.example/").Return("https://a.example/social.org", nil)
	h.mockValidator.EXPECT().Validate(gomock.Any(), "https://b.example/social.org").Return("", logic.ErrNotOrgSocial)
	h.mockRepo.EXPECT().AddFeedIfNotExist("https://a.example/social.org", dal.SourceRelayList, gomock.Any()).Return(true, nil)
	h.mockMetrics.EXPECT().FeedsDiscovered(gomock.Any(), 1)

	added, err := rs.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestFollowDiscoveryAddsFollowedFeeds(t *testing.T) {
	h := setupDiscoveryTest(t)
	fd := logic.NewFollowDiscovery(h.cfg, h.mockLogger, h.mockRepo, h.mockValidator, h.mockMetrics)

	h.mockRepo.EXPECT().GetProfiles().Return([]*dal.Profile{
		{FeedUrl: "https://a.example/social.org", Follows: []dal.Follow{
			{Url: "https://b.example/social.org", Nickname: "bob"},
			{Url: "https://c.example/social.org"},
		}},
		{FeedUrl: "https://b.example/social.org", Follows: []dal.Follow{
			{Url: "https://c.example/social.org"},
			{Url: "https://a.example/social.org"},
		}},
	}, nil)
	h.mockRepo.EXPECT().GetFeed("https://a.example/social.org").Return(&dal.Feed{}, nil)
	h.mockRepo.EXPECT().GetFeed("https://b.example/social.org").Return(&dal.Feed{}, nil)
	h.mockRepo.EXPECT().GetFeed("https://c.example/social.org").Return(nil, nil)
	h.mockRepo.EXPECT().AddFeedIfNotExist("https://c.example/social.org", dal.SourceFollowGraph, gomock.Any()).Return(true, nil)
	h.mockMetrics.EXPECT().FeedsDiscovered(string(dal.SourceFollowGraph), 1)

	added, err := fd.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestFollowDiscoveryStopsOnStoreError(t *testing.T) {
	h := setupDiscoveryTest(t)
	fd := logic.NewFollowDiscovery(h.cfg, h.mockLogger, h.mockRepo, h.mockValidator, h.mockMetrics)
	h.mockRepo.EXPECT().GetProfiles().Return(nil, errors.New("db gone"))

	added, err := fd.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, added)
}

func TestStalePrunerRemovesOnlyStaleFeeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	mockMetrics := mocks.NewMockIMetrics(ctrl)
	stubLogger(mockLogger)

	repo, err := dal.OpenRepo(shared.DriverSqlite, ":memory:", mockLogger)
	require.NoError(t, err)
	repo.InitUpdateDb()
	defer repo.Close()

	cfg := &shared.Config{StaleFeedDays: 3}
	cfg.ApplyDefaults()
	now := time.Now()

	const neverFetched = "https://old.example/social.org"
	const recentlyOk = "https://ok.example/social.org"
	const longFailing = "https://failing.example/social.org"
	_, _ = repo.AddFeedIfNotExist(neverFetched, dal.SourceManual, now.Add(-5*24*time.Hour))
	_, _ = repo.AddFeedIfNotExist(recentlyOk, dal.SourceManual, now.Add(-30*24*time.Hour))
	_, _ = repo.AddFeedIfNotExist(longFailing, dal.SourceManual, now.Add(-30*24*time.Hour))
	require.NoError(t, repo.RecordFetchSuccess(recentlyOk, &dal.FetchState{When: now.Add(-time.Hour)}))
	require.NoError(t, repo.RecordFetchSuccess(longFailing, &dal.FetchState{When: now.Add(-4 * 24 * time.Hour)}))
	require.NoError(t, repo.RecordFetchFailure(longFailing, now.Add(-time.Hour), "timeout"))
	_, err = repo.StoreFeedContent(longFailing, &dal.Profile{Nick: "gone"}, []*dal.Post{
		{PostId: "2025-01-15T09:30:00Z", Timestamp: now.Add(-10 * 24 * time.Hour), Content: "bye"},
	})
	require.NoError(t, err)

	mockMetrics.EXPECT().FeedsPruned(2)
	mockMetrics.EXPECT().FeedCount(1)
	pruner := logic.NewStalePruner(cfg, mockLogger, repo, mockMetrics)
	removed, err := pruner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	feeds, _ := repo.GetFeeds()
	require.Len(t, feeds, 1)
	assert.Equal(t, recentlyOk, feeds[0].Url)
	count, _ := repo.GetPostCount()
	assert.Equal(t, 0, count)

	// Nothing left to prune
	removed, err = pruner.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, removed)
}
