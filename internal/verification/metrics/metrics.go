// Package metrics exposes Prometheus counters for the verification lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduverify_requests_submitted_total",
		Help: "Verification requests submitted, by requester role and request type",
	}, []string{"role", "type"})

	PaymentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eduverify_payments_completed_total",
		Help: "Simulated gateway payments completed by applicants",
	})

	PaymentDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduverify_payment_decisions_total",
		Help: "Accounts department payment decisions, by outcome",
	}, []string{"outcome"})

	VerificationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduverify_verification_decisions_total",
		Help: "Examination department verification decisions, by outcome",
	}, []string{"outcome"})

	RequestsForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eduverify_requests_forwarded_total",
		Help: "Requests forwarded to external reviewers",
	})

	TransitionRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduverify_transition_rejections_total",
		Help: "Lifecycle transitions rejected by state guards, by operation",
	}, []string{"operation"})

	ArtifactsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduverify_artifacts_generated_total",
		Help: "HTML artifacts generated, by kind",
	}, []string{"kind"})
)
