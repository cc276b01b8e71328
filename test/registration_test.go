package test

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"org_relay/dal"
	"org_relay/logic"
	"org_relay/shared"
	"org_relay/test/mocks"
	"testing"
)

const homePage = `<!DOCTYPE html>
<html>
<head>
  <title>Alice</title>
  <link rel="alternate" type="application/rss+xml" href="/rss.xml">
  <link rel="alternate" type="text/org" href="/alice/social.org#top">
</head>
<body><p>Hello</p></body>
</html>`

const homePageAnchor = `<!doctype html>
<html><body>
  <a href="https://elsewhere.example/">Friends</a>
  <a href="bob/social.org">My feed</a>
</body></html>`

const homePageNoFeed = `<!doctype html><html><body><p>Nothing here</p></body></html>`

func setupValidatorTest(t *testing.T) (*feedSite, logic.IFeedValidator) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	mockUserAgent := mocks.NewMockIUserAgent(ctrl)
	stubLogger(mockLogger)
	stubUserAgent(mockUserAgent)
	cfg := &shared.Config{}
	cfg.ApplyDefaults()

	site := newFeedSite()
	t.Cleanup(site.close)
	return site, logic.NewFeedValidator(mockLogger, logic.NewFetcher(cfg, mockUserAgent))
}

func TestValidatorAcceptsDocument(t *testing.T) {
	site, validator := setupValidatorTest(t)
	site.setDoc("/alice/social.org", docAlice)

	feedUrl, err := validator.Validate(context.Background(), site.url("/alice/social.org"))
	assert.NoError(t, err)
	assert.Equal(t, site.url("/alice/social.org"), feedUrl)
}

func TestValidatorFollowsAlternateLink(t *testing.T) {
	site, validator := setupValidatorTest(t)
	site.setDoc("/", homePage)
	site.setDoc("/alice/social.org", docAlice)

	feedUrl, err := validator.Validate(context.Background(), site.url("/"))
	assert.NoError(t, err)
	assert.Equal(t, site.url("/alice/social.org"), feedUrl)
}

func TestValidatorFollowsAnchor(t *testing.T) {
	site, validator := setupValidatorTest(t)
	site.setDoc("/home/", homePageAnchor)
	site.setDoc("/home/bob/social.org", docBob)

	feedUrl, err := validator.Validate(context.Background(), site.url("/home/"))
	assert.NoError(t, err)
	assert.Equal(t, site.url("/home/bob/social.org"), feedUrl)
}

func TestValidatorRejects(t *testing.T) {
	site, validator := setupValidatorTest(t)
	site.setDoc("/plain.txt", "just some text\nwithout any keywords\n")
	site.setDoc("/nofeed.html", homePageNoFeed)

	_, err := validator.Validate(context.Background(), "ftp://alice.example/social.org")
	assert.ErrorIs(t, err, logic.ErrNotHttpUrl)

	_, err = validator.Validate(context.Background(), site.url("/plain.txt"))
	assert.ErrorIs(t, err, logic.ErrNotOrgSocial)

	_, err = validator.Validate(context.Background(), site.url("/nofeed.html"))
	assert.ErrorIs(t, err, logic.ErrNoOrgSocial)

	_, err = validator.Validate(context.Background(), site.url("/missing/social.org"))
	assert.Error(t, err)
}

type registrarHarness struct {
	mockLogger  *mocks.MockILogger
	mockRepo    *mocks.MockIRepo
	mockMetrics *mocks.MockIMetrics
}

func setupRegistrarTest(t *testing.T) (*registrarHarness, logic.IRegistrar) {
	ctrl := gomock.NewController(t)
	h := &registrarHarness{
		mockLogger:  mocks.NewMockILogger(ctrl),
		mockRepo:    mocks.NewMockIRepo(ctrl),
		mockMetrics: mocks.NewMockIMetrics(ctrl),
	}
	stubLogger(h.mockLogger)
	return h, logic.NewRegistrar(h.mockLogger, h.mockRepo, h.mockMetrics)
}

func TestRegistrarAddsFeedOnce(t *testing.T) {
	h, reg := setupRegistrarTest(t)
	const feedUrl = "https://alice.example/social.org"

	gomock.InOrder(
		h.mockRepo.EXPECT().AddFeedIfNotExist(feedUrl, dal.SourceManual, gomock.Any()).Return(true, nil),
		h.mockRepo.EXPECT().AddFeedIfNotExist(feedUrl, dal.SourceManual, gomock.Any()).Return(false, nil),
	)
	h.mockMetrics.EXPECT().FeedsDiscovered("manual", 1).Times(1)

	isNew, err := reg.AddFeed("  " + feedUrl + "\n")
	assert.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = reg.AddFeed(feedUrl)
	assert.NoError(t, err)
	assert.False(t, isNew)
}

func TestRegistrarRejectsBadUrl(t *testing.T) {
	_, reg := setupRegistrarTest(t)
	for _, bad := range []string{"", "alice.example/social.org", "mailto:alice@alice.example", "https://"} {
		isNew, err := reg.AddFeed(bad)
		assert.ErrorIs(t, err, logic.ErrNotHttpUrl, bad)
		assert.False(t, isNew)
	}
}

func TestRegistrarStoreError(t *testing.T) {
	h, reg := setupRegistrarTest(t)
	h.mockRepo.EXPECT().AddFeedIfNotExist(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("db gone"))

	_, err := reg.AddFeed("https://alice.example/social.org")
	assert.Error(t, err)
}
