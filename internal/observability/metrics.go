package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	issueReportsTotal   *prometheus.CounterVec
	issueVotesTotal     *prometheus.CounterVec
	contactSubmitsTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulse_http_latency_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		issueReportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_issue_reports_total",
			Help: "Issue report submissions by outcome.",
		}, []string{"outcome"})

		issueVotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_issue_votes_total",
			Help: "Issue votes by action.",
		}, []string{"action"})

		contactSubmitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_contact_submissions_total",
			Help: "Accepted contact form submissions.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, issueReportsTotal, issueVotesTotal, contactSubmitsTotal)
	})
}

// IssueReports exposes the report submission counter.
func IssueReports() *prometheus.CounterVec {
	RegisterMetrics()
	return issueReportsTotal
}

// IssueVotes exposes the vote counter.
func IssueVotes() *prometheus.CounterVec {
	RegisterMetrics()
	return issueVotesTotal
}

// ContactSubmissions exposes the contact submission counter.
func ContactSubmissions() prometheus.Counter {
	RegisterMetrics()
	return contactSubmitsTotal
}
