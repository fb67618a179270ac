// Package metrics collects and exposes Prometheus metrics for newsdesk.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by services and middleware.
type Recorder interface {
	RecordDecision(action string)
	RecordNotification(result string)
	RecordSocialPost(posted bool)
	RecordFeedRequest(kind string)
	RecordFeedBuild(duration time.Duration)
	RecordToggle(relation string, active bool)
	RecordHTTPStatus(statusCode int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	decisions     *prometheus.CounterVec
	notifications *prometheus.CounterVec
	socialPosts   *prometheus.CounterVec
	feedRequests  *prometheus.CounterVec
	feedBuild     prometheus.Histogram
	toggles       *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_article_decisions_total",
			Help: "Editor decisions by action.",
		}, []string{"action"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_notifications_total",
			Help: "Notification dispatch attempts by result.",
		}, []string{"result"}),
		socialPosts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_social_posts_total",
			Help: "Social announcement outcomes.",
		}, []string{"result"}),
		feedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_feed_requests_total",
			Help: "Feed reads by kind.",
		}, []string{"kind"}),
		feedBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsdesk_feed_build_seconds",
			Help:    "Time spent computing a feed from storage.",
			Buckets: prometheus.DefBuckets,
		}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_subscription_toggles_total",
			Help: "Subscription and follow toggles by relation and resulting state.",
		}, []string{"relation", "state"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.decisions,
		c.notifications,
		c.socialPosts,
		c.feedRequests,
		c.feedBuild,
		c.toggles,
		c.httpStatus,
	)

	return c
}

func (c *Collector) RecordDecision(action string) {
	c.decisions.WithLabelValues(action).Inc()
}

func (c *Collector) RecordNotification(result string) {
	c.notifications.WithLabelValues(result).Inc()
}

func (c *Collector) RecordSocialPost(posted bool) {
	result := "skipped_or_failed"
	if posted {
		result = "posted"
	}
	c.socialPosts.WithLabelValues(result).Inc()
}

func (c *Collector) RecordFeedRequest(kind string) {
	c.feedRequests.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordFeedBuild(duration time.Duration) {
	c.feedBuild.Observe(duration.Seconds())
}

func (c *Collector) RecordToggle(relation string, active bool) {
	state := "removed"
	if active {
		state = "added"
	}
	c.toggles.WithLabelValues(relation, state).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordDecision(string) {}
func (Nop) RecordNotification(string) {}
func (Nop) RecordSocialPost(bool) {}
func (Nop) RecordFeedRequest(string) {}
func (Nop) RecordFeedBuild(time.Duration) {}
func (Nop) RecordToggle(string, bool) {}
func (Nop) RecordHTTPStatus(int) {}
