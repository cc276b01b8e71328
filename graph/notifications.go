package graph

import (
	"org_relay/dal"
)

type NotificationKind string

const (
	NotifMention  NotificationKind = "mention"
	NotifReaction NotificationKind = "reaction"
	NotifReply    NotificationKind = "reply"
	NotifBoost    NotificationKind = "boost"
)

var NotificationKinds = []NotificationKind{NotifMention, NotifReaction, NotifReply, NotifBoost}

func ParseNotificationKind(str string) (NotificationKind, bool) {
	for _, k := range NotificationKinds {
		if string(k) == str {
			return k, true
		}
	}
	return "", false
}

type Notification struct {
	Kind   NotificationKind
	Post   *dal.Post
	Parent string // replied-to, reacted-to or boosted post; empty for mentions
	Emoji  string // reactions only
}

// Notifications returns everything that addresses a feed, newest first: mentions of it,
// and reactions, replies and boosts whose target is one of its posts.
func (g *Graph) Notifications(feedUrl string) []*Notification {

	var res []*Notification
	for _, p := range g.ordered {
		switch p.Kind {
		case dal.KindReaction:
			if g.isAuthoredBy(p.ReplyTo, feedUrl) {
				res = append(res, &Notification{Kind: NotifReaction, Post: p, Parent: p.ReplyTo, Emoji: p.Mood})
			}
		case dal.KindReply:
			if g.isAuthoredBy(p.ReplyTo, feedUrl) {
				res = append(res, &Notification{Kind: NotifReply, Post: p, Parent: p.ReplyTo})
			}
		case dal.KindBoost:
			if g.isAuthoredBy(p.Include, feedUrl) {
				res = append(res, &Notification{Kind: NotifBoost, Post: p, Parent: p.Include})
			}
		}
	}

	mentions := g.mentions[feedUrl]
	if len(mentions) == 0 {
		return res
	}
	merged := make([]*Notification, 0, len(res)+len(mentions))
	i := 0
	for _, m := range mentions {
		for i < len(res) && !NewestFirst(m, res[i].Post) {
			merged = append(merged, res[i])
			i += 1
		}
		merged = append(merged, &Notification{Kind: NotifMention, Post: m})
	}
	return append(merged, res[i:]...)
}

// CountByKind tallies notifications per kind; every kind is present.
func CountByKind(items []*Notification) map[NotificationKind]int {
	counts := make(map[NotificationKind]int, len(NotificationKinds))
	for _, k := range NotificationKinds {
		counts[k] = 0
	}
	for _, n := range items {
		counts[n.Kind] += 1
	}
	return counts
}
