package server

import (
	"github.com/gorilla/websocket"
	"net/http"
	"org_relay/index"
	"org_relay/logic"
	"org_relay/shared"
	"strings"
	"time"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 50 * time.Second
)

type streamHandlerGroup struct {
	logger   shared.ILogger
	indexMgr index.IIndexManager
	notifier logic.INotifier
	upgrader websocket.Upgrader
}

func NewStreamHandlerGroup(
	logger shared.ILogger,
	indexMgr index.IIndexManager,
	notifier logic.INotifier,
) IHandlerGroup {
	res := streamHandlerGroup{
		logger:   logger,
		indexMgr: indexMgr,
		notifier: notifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Read-only public data; any page may listen
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	return &res
}

func (hg *streamHandlerGroup) Prefix() string {
	return "/"
}

func (hg *streamHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/notifications/stream", func(w http.ResponseWriter, r *http.Request) { hg.getStream(w, r) }},
	}
}

func (hg *streamHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return emptyMW
}

func (hg *streamHandlerGroup) getStream(w http.ResponseWriter, r *http.Request) {

	feedUrl := strings.TrimSpace(r.URL.Query().Get("feed"))
	if feedUrl == "" {
		writeErrorResponse(w, "Missing required parameter: feed", http.StatusBadRequest)
		return
	}
	if !hg.indexMgr.Current().KnowsFeed(feedUrl) {
		writeErrorResponse(w, "Feed not found", http.StatusNotFound)
		return
	}

	conn, err := hg.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrader has already replied with an error
		hg.logger.Infof("Websocket upgrade failed for %s: %v", feedUrl, err)
		return
	}
	defer conn.Close()

	events, unsubscribe := hg.notifier.Subscribe(feedUrl)
	defer unsubscribe()
	hg.logger.Debugf("Notification stream opened for %s", feedUrl)

	// Reader: only control frames are expected; returns when the client goes away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			hg.logger.Debugf("Notification stream closed by client for %s", feedUrl)
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err = conn.WriteJSON(ev); err != nil {
				hg.logger.Infof("Failed to write to notification stream for %s: %v", feedUrl, err)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err = conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
