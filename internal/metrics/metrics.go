// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Messages counts handled user messages. Labels: rule (the dispatch rule that fired)
	Messages *prometheus.CounterVec
	// Failures counts messages that ended in an error reply. Labels: kind
	Failures         *prometheus.CounterVec
	Ratings          prometheus.Counter
	GamesSubmitted   prometheus.Counter
	CommentsAttached prometheus.Counter
	// ModerationActions counts moderator mutations. Labels: kind (game_status, review_moderated)
	ModerationActions *prometheus.CounterVec
	Connections       prometheus.Gauge
}

// New registers the collectors on reg. A nil reg builds unregistered
// collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Messages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campbot",
			Name:      "messages_total",
			Help:      "Total number of user messages handled, by dispatch rule",
		}, []string{"rule"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campbot",
			Name:      "failures_total",
			Help:      "Total number of messages answered with an error, by error kind",
		}, []string{"kind"}),
		Ratings: f.NewCounter(prometheus.CounterOpts{
			Namespace: "campbot",
			Name:      "ratings_total",
			Help:      "Total number of ratings recorded",
		}),
		GamesSubmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "campbot",
			Name:      "games_submitted_total",
			Help:      "Total number of games submitted for moderation",
		}),
		CommentsAttached: f.NewCounter(prometheus.CounterOpts{
			Namespace: "campbot",
			Name:      "comments_total",
			Help:      "Total number of review comments submitted for moderation",
		}),
		ModerationActions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campbot",
			Name:      "moderation_actions_total",
			Help:      "Total number of moderator actions, by kind",
		}, []string{"kind"}),
		Connections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "campbot",
			Name:      "gateway_connections",
			Help:      "Currently open messaging gateway connections",
		}),
	}
}
