package monitor

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "conference_registrations_total", Help: "Total paper registrations received"},
	)
	AssignmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "conference_assignments_total", Help: "Total reviewer assignments performed"},
	)
	ReviewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "conference_reviews_total", Help: "Total reviewer verdicts recorded"},
	)
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "conference_emails_sent_total", Help: "Total outbox emails delivered"},
	)
	EmailsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "conference_emails_failed_total", Help: "Total outbox email delivery failures"},
	)
	EmailRetries = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "conference_email_retries_total", Help: "Total outbox delivery retries"},
	)
	VisitorCount = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "conference_visitors", Help: "Current visitor counter value"},
	)
)

func Register() {
	prometheus.MustRegister(
		RegistrationsTotal,
		AssignmentsTotal,
		ReviewsTotal,
		EmailsSent,
		EmailsFailed,
		EmailRetries,
		VisitorCount,
	)
}

// Mount exposes the prometheus endpoint on the given router.
func Mount(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
