// Package metrics holds the Prometheus collectors for HTTP traffic and
// planner activity. A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	tripsCreated    prometheus.Counter
	votesCast       *prometheus.CounterVec
	invitations     *prometheus.CounterVec
	expensesCreated prometheus.Counter
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route"}),
		tripsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "planner_trips_created_total",
			Help: "Total number of trips created",
		}),
		votesCast: f.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_votes_cast_total",
			Help: "Total number of step votes by answer",
		}, []string{"vote"}),
		invitations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_invitations_total",
			Help: "Invitation lifecycle transitions by outcome",
		}, []string{"outcome"}),
		expensesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "planner_expenses_created_total",
			Help: "Total number of expenses recorded",
		}),
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) TripCreated() {
	if m == nil {
		return
	}
	m.tripsCreated.Inc()
}

func (m *Metrics) VoteCast(yes bool) {
	if m == nil {
		return
	}
	label := "no"
	if yes {
		label = "yes"
	}
	m.votesCast.WithLabelValues(label).Inc()
}

// Invitation counts an invitation event: created, accepted or refused.
func (m *Metrics) Invitation(outcome string) {
	if m == nil {
		return
	}
	m.invitations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ExpenseCreated() {
	if m == nil {
		return
	}
	m.expensesCreated.Inc()
}
