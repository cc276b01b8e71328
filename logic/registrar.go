package logic

import (
	"org_relay/dal"
	"org_relay/shared"
	"strings"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_registrar.go -package mocks org_relay/logic IRegistrar

type IRegistrar interface {
	// AddFeed registers a feed by hand. Registering a known feed again is not an error.
	AddFeed(feedUrl string) (isNew bool, err error)
}

type registrar struct {
	logger  shared.ILogger
	repo    dal.IRepo
	metrics IMetrics
	now     func() time.Time
}

func NewRegistrar(logger shared.ILogger, repo dal.IRepo, metrics IMetrics) IRegistrar {
	return &registrar{logger, repo, metrics, time.Now}
}

func (reg *registrar) AddFeed(feedUrl string) (isNew bool, err error) {

	isNew = false
	err = nil

	feedUrl = strings.TrimSpace(feedUrl)
	if !shared.IsHttpUrl(feedUrl) {
		err = ErrNotHttpUrl
		return
	}
	if isNew, err = reg.repo.AddFeedIfNotExist(feedUrl, dal.SourceManual, reg.now()); err != nil {
		reg.logger.Errorf("Failed to register feed %s: %v", feedUrl, err)
		return
	}
	if isNew {
		reg.logger.Infof("Registered new feed: %s", feedUrl)
		reg.metrics.FeedsDiscovered(string(dal.SourceManual), 1)
	}
	return
}
