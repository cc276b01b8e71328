package server

import (
	"context"
	"github.com/gorilla/mux"
	"go.uber.org/fx"
	"net"
	"net/http"
	"org_relay/logic"
	"org_relay/shared"
	"strconv"
	"strings"
)

const strCacheControlHdr = "Cache-Control"

func NewHTTPServer(cfg *shared.Config, logger shared.ILogger, lc fx.Lifecycle, router *mux.Router) *http.Server {
	addStr := ":" + strconv.FormatUint(uint64(cfg.ServicePort), 10)
	srv := &http.Server{Addr: addStr, Handler: trimSlashHandler(router)}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Printf("Starting HTTP server at %v", srv.Addr)
			go srv.Serve(listener)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Printf("Shutting down HTTP server")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// Relay clients address endpoints both as /mentions and /mentions/
func trimSlashHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			r.URL.Path = strings.TrimSuffix(r.URL.Path, "/")
		}
		next.ServeHTTP(w, r)
	})
}

func NewMux(groups []IHandlerGroup, metrics logic.IMetrics) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, notFoundStr, http.StatusNotFound)
	})
	for _, group := range groups {
		subRouter := router.PathPrefix(group.Prefix()).Subrouter()
		authMW := group.AuthMW()
		subRouter.Use(corsMW)
		subRouter.Use(noCacheMW)
		subRouter.Use(requestMetricsMW(metrics))
		subRouter.Use(authMW)
		for _, def := range group.GroupDefs() {
			if def.pattern == rootPlacholder {
				router.Handle("/", corsMW(http.HandlerFunc(def.handler))).Methods("OPTIONS", def.method)
			} else {
				subRouter.HandleFunc(def.pattern, def.handler).Methods("OPTIONS", def.method)
			}
		}
	}
	return router
}

func corsMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match, If-Modified-Since, "+apiKeyHeader)
		w.Header().Set("Access-Control-Expose-Headers", "ETag, Last-Modified")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Responses are revalidated through ETag / Last-Modified rather than cached blindly
func noCacheMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(strCacheControlHdr, "no-cache")
		next.ServeHTTP(w, r)
	})
}

func requestMetricsMW(metrics logic.IMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			label := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					label = tmpl
				}
			}
			observer := metrics.StartWebRequestIn(label)
			defer observer.Finish()
			next.ServeHTTP(w, r)
		})
	}
}
