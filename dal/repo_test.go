package dal_test

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"org_relay/dal"
	"org_relay/shared"
	"org_relay/test/mocks"
	"testing"
	"time"
)

const (
	aliceFeed = "https://alice.example/social.org"
	bobFeed   = "https://bob.example/social.org"
)

func setupRepo(t *testing.T) *dal.Repo {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	mockLogger.EXPECT().Printf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()

	repo, err := dal.OpenRepo(shared.DriverSqlite, ":memory:", mockLogger)
	require.NoError(t, err)
	repo.InitUpdateDb()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func makePost(feed, id string, ts time.Time, content string) *dal.Post {
	return &dal.Post{
		FeedUrl:   feed,
		PostId:    id,
		Timestamp: ts,
		Content:   content,
		Tags:      []string{"emacs", "org"},
	}
}

func TestRepoInitIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	repo.InitUpdateDb()
	count, err := repo.GetFeedCount()
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAddFeedIfNotExist(t *testing.T) {
	repo := setupRepo(t)
	now := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	isNew, err := repo.AddFeedIfNotExist(aliceFeed, dal.SourceManual, now)
	assert.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = repo.AddFeedIfNotExist(aliceFeed, dal.SourceRelayList, now.Add(time.Hour))
	assert.NoError(t, err)
	assert.False(t, isNew)

	feed, err := repo.GetFeed(aliceFeed)
	require.NoError(t, err)
	require.NotNil(t, feed)
	assert.Equal(t, dal.SourceManual, feed.Source)
	assert.True(t, now.Equal(feed.CreatedAt))
	assert.Nil(t, feed.LastSuccessAt)

	missing, err := repo.GetFeed(bobFeed)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFetchBookkeeping(t *testing.T) {
	repo := setupRepo(t)
	now := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	_, _ = repo.AddFeedIfNotExist(aliceFeed, dal.SourceManual, now)

	assert.NoError(t, repo.RecordFetchFailure(aliceFeed, now.Add(time.Minute), "timeout"))
	assert.NoError(t, repo.RecordFetchFailure(aliceFeed, now.Add(2*time.Minute), "timeout"))
	feed, _ := repo.GetFeed(aliceFeed)
	assert.Equal(t, 2, feed.FailureCount)
	assert.Equal(t, "timeout", feed.LastError)
	assert.Nil(t, feed.LastSuccessAt)

	state := &dal.FetchState{When: now.Add(3 * time.Minute), ETag: `"abc"`, ContentHash: "h1"}
	assert.NoError(t, repo.RecordFetchSuccess(aliceFeed, state))
	feed, _ = repo.GetFeed(aliceFeed)
	assert.Equal(t, 0, feed.FailureCount)
	assert.Equal(t, "", feed.LastError)
	assert.Equal(t, `"abc"`, feed.ETag)
	assert.Equal(t, "h1", feed.ContentHash)
	require.NotNil(t, feed.LastSuccessAt)
	assert.True(t, state.When.Equal(*feed.LastSuccessAt))
}

func TestStoreFeedContentMergesPosts(t *testing.T) {
	repo := setupRepo(t)
	t0 := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	_, _ = repo.AddFeedIfNotExist(aliceFeed, dal.SourceManual, t0)

	prof := &dal.Profile{
		Nick:     "alice",
		Title:    "Alice's feed",
		Links:    []string{"https://alice.example"},
		Contacts: []string{"mailto:alice@alice.example"},
		Follows:  []dal.Follow{{Url: bobFeed, Nickname: "bob"}},
		Version:  "v1",
	}
	p1 := makePost(aliceFeed, "2025-01-15T09:30:00+0100", t0, "hello")
	p2 := makePost(aliceFeed, "2025-01-16T09:30:00+0100", t0.Add(24*time.Hour), "world")
	pollEnd := t0.Add(48 * time.Hour)
	p2.PollEnd = &pollEnd
	p2.PollOptions = []string{"yes", "no"}
	p2.Kind = dal.KindPollDefinition

	newCount, err := repo.StoreFeedContent(aliceFeed, prof, []*dal.Post{p1, p2})
	assert.NoError(t, err)
	assert.Equal(t, 2, newCount)

	// Second document drops p1 and edits p2: p1 is kept, p2 updated
	p2b := makePost(aliceFeed, p2.PostId, p2.Timestamp, "world, edited")
	newCount, err = repo.StoreFeedContent(aliceFeed, prof, []*dal.Post{p2b})
	assert.NoError(t, err)
	assert.Equal(t, 0, newCount)

	posts, err := repo.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	byId := map[string]*dal.Post{}
	for _, p := range posts {
		byId[p.PostId] = p
	}
	assert.Equal(t, "hello", byId[p1.PostId].Content)
	assert.Equal(t, []string{"emacs", "org"}, byId[p1.PostId].Tags)
	assert.Equal(t, "world, edited", byId[p2.PostId].Content)
	assert.Nil(t, byId[p2.PostId].PollEnd)

	profiles, err := repo.GetProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "alice", profiles[0].Nick)
	assert.Equal(t, []string{"https://alice.example"}, profiles[0].Links)
	assert.Equal(t, []dal.Follow{{Url: bobFeed, Nickname: "bob"}}, profiles[0].Follows)
}

func TestStorePollRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	t0 := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	_, _ = repo.AddFeedIfNotExist(aliceFeed, dal.SourceManual, t0)
	pollEnd := t0.Add(48 * time.Hour)
	poll := makePost(aliceFeed, "2025-01-15T09:30:00+0100", t0, "Which editor?")
	poll.PollEnd = &pollEnd
	poll.PollOptions = []string{"Emacs", "Vim"}
	poll.Kind = dal.KindPollDefinition

	_, err := repo.StoreFeedContent(aliceFeed, nil, []*dal.Post{poll})
	require.NoError(t, err)
	posts, _ := repo.GetAllPosts()
	require.Len(t, posts, 1)
	assert.Equal(t, dal.KindPollDefinition, posts[0].Kind)
	assert.Equal(t, []string{"Emacs", "Vim"}, posts[0].PollOptions)
	require.NotNil(t, posts[0].PollEnd)
	assert.True(t, pollEnd.Equal(*posts[0].PollEnd))
}

func TestStoreFeedContentUnknownFeed(t *testing.T) {
	repo := setupRepo(t)
	t0 := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	_, err := repo.StoreFeedContent(bobFeed, nil, []*dal.Post{makePost(bobFeed, "x", t0, "hi")})
	assert.ErrorIs(t, err, dal.ErrUnknownFeed)
	count, _ := repo.GetPostCount()
	assert.Equal(t, 0, count)
}

func TestStaleFeedsAndRemoval(t *testing.T) {
	repo := setupRepo(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-10 * 24 * time.Hour)

	// Alice succeeded long ago; Bob never succeeded but is new; Carol never succeeded and is old
	carolFeed := "https://carol.example/social.org"
	_, _ = repo.AddFeedIfNotExist(aliceFeed, dal.SourceManual, old)
	_, _ = repo.AddFeedIfNotExist(bobFeed, dal.SourceManual, now.Add(-time.Hour))
	_, _ = repo.AddFeedIfNotExist(carolFeed, dal.SourceFollowGraph, old)
	_ = repo.RecordFetchSuccess(aliceFeed, &dal.FetchState{When: old.Add(time.Hour)})
	_, _ = repo.StoreFeedContent(aliceFeed, &dal.Profile{Nick: "alice"},
		[]*dal.Post{makePost(aliceFeed, "a1", old, "old news")})

	stale, err := repo.GetStaleFeeds(now.Add(-3 * 24 * time.Hour))
	require.NoError(t, err)
	var urls []string
	for _, f := range stale {
		urls = append(urls, f.Url)
	}
	assert.Equal(t, []string{aliceFeed, carolFeed}, urls)

	removed, err := repo.RemoveFeeds(urls)
	assert.NoError(t, err)
	assert.Equal(t, 2, removed)

	feeds, _ := repo.GetFeeds()
	require.Len(t, feeds, 1)
	assert.Equal(t, bobFeed, feeds[0].Url)
	postCount, _ := repo.GetPostCount()
	assert.Equal(t, 0, postCount)
	profiles, _ := repo.GetProfiles()
	assert.Len(t, profiles, 0)
}
