package logic

import (
	"org_relay/index"
	"org_relay/shared"
	"sync"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_notifier.go -package mocks org_relay/logic INotifier

const subscriberBufferLen = 64

// LiveNotification is one newly appeared notification, addressed to Feed.
type LiveNotification struct {
	Feed string `json:"feed"`
	index.NotificationItem
}

type INotifier interface {
	// Publish pushes notifications that are in next but not in prev to subscribers of their feed.
	// Feeds that prev did not know get nothing, so a warm-up rebuild does not replay history.
	Publish(prev, next *index.Snapshot) int
	Subscribe(feedUrl string) (events <-chan LiveNotification, unsubscribe func())
}

type subscriber struct {
	ch chan LiveNotification
}

type notifier struct {
	logger  shared.ILogger
	metrics IMetrics
	muSubs  sync.Mutex
	subs    map[string]map[*subscriber]bool
	count   int
}

func NewNotifier(logger shared.ILogger, metrics IMetrics) INotifier {
	return &notifier{
		logger:  logger,
		metrics: metrics,
		subs:    make(map[string]map[*subscriber]bool),
	}
}

func (n *notifier) Subscribe(feedUrl string) (<-chan LiveNotification, func()) {

	sub := &subscriber{ch: make(chan LiveNotification, subscriberBufferLen)}

	n.muSubs.Lock()
	if n.subs[feedUrl] == nil {
		n.subs[feedUrl] = make(map[*subscriber]bool)
	}
	n.subs[feedUrl][sub] = true
	n.count++
	n.metrics.StreamClients(n.count)
	n.muSubs.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			n.muSubs.Lock()
			defer n.muSubs.Unlock()
			delete(n.subs[feedUrl], sub)
			if len(n.subs[feedUrl]) == 0 {
				delete(n.subs, feedUrl)
			}
			n.count--
			n.metrics.StreamClients(n.count)
			close(sub.ch)
		})
	}
	return sub.ch, unsubscribe
}

func (n *notifier) Publish(prev, next *index.Snapshot) int {

	if prev == nil || next == nil || prev.Version == next.Version {
		return 0
	}

	n.muSubs.Lock()
	defer n.muSubs.Unlock()

	sent := 0
	for feedUrl, subs := range n.subs {
		if !prev.KnowsFeed(feedUrl) {
			continue
		}
		fresh := newNotifications(prev, next, feedUrl)
		for _, item := range fresh {
			ln := LiveNotification{Feed: feedUrl, NotificationItem: item}
			for sub := range subs {
				select {
				case sub.ch <- ln:
					sent++
				default:
					n.logger.Warnf("Notification stream for %s is full; dropping %s", feedUrl, item.Post)
				}
			}
		}
	}
	return sent
}

func newNotifications(prev, next *index.Snapshot, feedUrl string) []index.NotificationItem {

	nextRes, ok := next.Notifications(feedUrl, "")
	if !ok {
		return nil
	}
	seen := make(map[index.NotificationItem]bool)
	if prevRes, ok := prev.Notifications(feedUrl, ""); ok {
		for _, item := range prevRes.Items {
			seen[item] = true
		}
	}
	var res []index.NotificationItem
	// Oldest first, so clients receive them in the order they happened
	for i := len(nextRes.Items) - 1; i >= 0; i-- {
		if item := nextRes.Items[i]; !seen[item] {
			res = append(res, item)
		}
	}
	return res
}
