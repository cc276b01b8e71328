package server

import (
	"github.com/gorilla/mux"
	"net/http"
	"org_relay/dal"
	"org_relay/dto"
	"org_relay/logic"
	"org_relay/shared"
)

type apiHandlerGroup struct {
	cfg       *shared.Config
	logger    shared.ILogger
	repo      dal.IRepo
	scheduler logic.IScheduler
}

func NewApiHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	scheduler logic.IScheduler,
) IHandlerGroup {
	res := apiHandlerGroup{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		scheduler: scheduler,
	}
	return &res
}

func (hg *apiHandlerGroup) Prefix() string {
	return "/api"
}

func (hg *apiHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/feeds", func(w http.ResponseWriter, r *http.Request) { hg.getFeeds(w, r) }},
		{"POST", "/jobs/{kind}", func(w http.ResponseWriter, r *http.Request) { hg.postJob(w, r) }},
	}
}

func (hg *apiHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return hg.authMW(next)
	}
}

func (hg *apiHandlerGroup) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var apiKey = r.Header.Get(apiKeyHeader)
		found := false
		for _, key := range hg.cfg.Secrets.ApiKeys {
			if apiKey != "" && apiKey == key {
				found = true
			}
		}
		if !found {
			keyPart := apiKey
			if len(apiKey) > 4 {
				keyPart = apiKey[:4] + "..."
			}
			hg.logger.Warnf("API request with missing or invalid key '%s': %s", keyPart, r.URL.Path)
			writeErrorResponse(w, badApiKeyStr, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (hg *apiHandlerGroup) getFeeds(w http.ResponseWriter, r *http.Request) {
	feeds, err := hg.repo.GetFeeds()
	if err != nil {
		hg.logger.Errorf("Failed to load feeds: %v", err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	res := make([]dto.FeedStatus, 0, len(feeds))
	for _, feed := range feeds {
		res = append(res, dto.FeedStatus{
			Url:           feed.Url,
			Source:        string(feed.Source),
			CreatedAt:     feed.CreatedAt,
			LastFetchAt:   feed.LastFetchAt,
			LastSuccessAt: feed.LastSuccessAt,
			LastError:     feed.LastError,
			FailureCount:  feed.FailureCount,
		})
	}
	posts, err := hg.repo.GetPostCount()
	if err != nil {
		hg.logger.Errorf("Failed to count posts: %v", err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	writeSuccess(hg.logger, w, http.StatusOK, res, dto.FeedStatusMeta{Total: len(res), Posts: posts}, nil)
}

func (hg *apiHandlerGroup) postJob(w http.ResponseWriter, r *http.Request) {

	kind := logic.JobKind(mux.Vars(r)["kind"])
	known := false
	for _, k := range logic.JobKinds {
		if k == kind {
			known = true
		}
	}
	if !known {
		writeErrorResponse(w, "Unknown job: "+string(kind), http.StatusNotFound)
		return
	}
	if hg.scheduler.State(kind) == logic.JobRunning {
		writeErrorResponse(w, "Job is already running", http.StatusConflict)
		return
	}

	hg.logger.Infof("Job %s triggered through API", kind)
	go func() {
		if err := hg.scheduler.RunNow(kind); err != nil {
			hg.logger.Warnf("Triggered job %s did not complete: %v", kind, err)
		}
	}()
	writeSuccess(hg.logger, w, http.StatusAccepted, dto.RunJobData{Job: string(kind)}, nil, nil)
}
