package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration records request latency by method, route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pixora_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// NotificationsCreated counts notifications written by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixora_notifications_created_total",
		Help: "Total number of notifications created by type",
	}, []string{"type"})

	// NotificationsRetracted counts like notifications removed by an unlike.
	NotificationsRetracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pixora_notifications_retracted_total",
		Help: "Total number of like notifications removed by unlikes",
	})

	// LikesToggled counts like toggles by resulting state.
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixora_likes_toggled_total",
		Help: "Total number of like toggles by resulting state",
	}, []string{"state"})

	// StoryViews counts first-time story views.
	StoryViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pixora_story_views_total",
		Help: "Total number of distinct story views recorded",
	})

	// CacheErrors counts Redis failures by operation; they never fail a request.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixora_cache_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})
)
