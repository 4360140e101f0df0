package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Submission outcomes
const (
	OutcomeRejectedMethod  = "rejected_method"
	OutcomeRejectedToken   = "rejected_token"
	OutcomeInvalid         = "invalid"
	OutcomeStaffMailFailed = "staff_mail_failed"
	OutcomeAccepted        = "accepted"
)

// Mail kinds
const (
	MailStaffNotification = "staff_notification"
	MailAcknowledgement   = "acknowledgement"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	inquirySubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_submissions_total",
			Help: "Inquiry submissions by terminal outcome",
		},
		[]string{"outcome"},
	)

	mailDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_mail_dispatch_total",
			Help: "Inquiry mail send attempts by kind and result",
		},
		[]string{"kind", "result"},
	)

	mailDispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inquiry_mail_dispatch_duration_seconds",
			Help:    "Inquiry mail send duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)
)

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSubmission records the terminal outcome of one submission
func RecordSubmission(outcome string) {
	inquirySubmissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordMailDispatch records one send attempt
func RecordMailDispatch(kind string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	mailDispatchTotal.WithLabelValues(kind, result).Inc()
	mailDispatchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// SubmissionCount returns the current counter value, for tests and diagnostics
func SubmissionCount(outcome string) float64 {
	return counterValue(inquirySubmissionsTotal.WithLabelValues(outcome))
}

// MailDispatchCount returns the current counter value, for tests and diagnostics
func MailDispatchCount(kind, result string) float64 {
	return counterValue(mailDispatchTotal.WithLabelValues(kind, result))
}

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
