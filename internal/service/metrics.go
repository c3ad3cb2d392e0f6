package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	articleTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_status_transitions_total",
			Help: "Article lifecycle transitions by source and target status",
		},
		[]string{"from", "to"},
	)

	articleViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "article_views_total",
			Help: "Recorded views of published articles",
		},
	)

	ledgerActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_ledger_actions_total",
			Help: "Like and unlike actions by target and outcome",
		},
		[]string{"target", "action", "outcome"},
	)
)

func recordTransition(from, to string) {
	articleTransitionsTotal.WithLabelValues(from, to).Inc()
}
