package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"org_relay/dto"
	"org_relay/index"
	"org_relay/shared"
	"strings"
	"time"
)

const (
	apiKeyHeader      = "X-API-KEY"
	metricsAuthHeader = "Authorization"
	rootPlacholder    = "*root*"
	internalErrorStr  = "500 Internal Server Error"
	badRequestStr     = "400 Invalid Request"
	notFoundStr       = "404 Not Found"
	badApiKeyStr      = "401 Missing or Invalid API Key"
	badAuthorization  = "401 Missing or Invalid Authorization"
	maxRequestBody    = 64 * 1024
)

// Defines a single HTTP handler (endpoint)
type handlerDef struct {
	method  string
	pattern string
	handler func(http.ResponseWriter, *http.Request)
}

// IHandlerGroup groups together multiple HTTP handler definitions.
type IHandlerGroup interface {
	Prefix() string
	GroupDefs() []handlerDef
	AuthMW() func(next http.Handler) http.Handler
}

func emptyMW(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	})
}

// Returns the JSON serialized object as the response body; handles errors.
func writeJsonResponse(logger shared.ILogger, w http.ResponseWriter, code int, resp interface{}) {
	var err error
	var respJson []byte
	if respJson, err = json.Marshal(resp); err != nil {
		logger.Warnf("Failed to serialize response: %v", err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = fmt.Fprintln(w, string(respJson)); err != nil {
		logger.Warnf("Failed to write response: %v", err)
	}
}

func writeSuccess(logger shared.ILogger, w http.ResponseWriter, code int, data, meta any, links map[string]dto.Link) {
	writeJsonResponse(logger, w, code, dto.Envelope{
		Type:   dto.TypeSuccess,
		Errors: []string{},
		Data:   data,
		Meta:   meta,
		Links:  links,
	})
}

func writeErrorResponse(w http.ResponseWriter, msg string, code int) {
	resp := dto.Envelope{Type: dto.TypeError, Errors: []string{msg}, Data: nil}
	respJson, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	fmt.Fprintln(w, string(respJson))
}

func readBody(logger shared.ILogger, w http.ResponseWriter, r *http.Request) []byte {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		logger.Warnf("Failed to read request body: %v", err)
		writeErrorResponse(w, badRequestStr, http.StatusBadRequest)
		return nil
	}
	return body
}

func selfLink(r *http.Request) map[string]dto.Link {
	return map[string]dto.Link{"self": {Href: r.URL.RequestURI(), Method: r.Method}}
}

// writeCacheHeaders sets ETag and Last-Modified from the snapshot. If the client's copy is
// current it writes 304 and returns true; the handler then has nothing left to do.
func writeCacheHeaders(w http.ResponseWriter, r *http.Request, snap *index.Snapshot) bool {

	etag := `"` + snap.Version + `"`
	lastModified := snap.LastModified.UTC().Truncate(time.Second)
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))

	if inm := r.Header.Get("If-None-Match"); inm != "" {
		if etagMatches(inm, etag) {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
		return false
	}
	if ims := r.Header.Get("If-Modified-Since"); ims != "" {
		if t, err := http.ParseTime(ims); err == nil && !lastModified.After(t) {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
