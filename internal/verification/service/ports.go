package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"eduverify/internal/verification/models"
)

// PaymentGateway charges the verification fee. The production deployment
// fronts a real gateway; this system ships with a simulator.
type PaymentGateway interface {
	Charge(ctx context.Context, amountPayable int, card models.PayRequest) (transactionID string, err error)
}

// Notifier delivers out-of-band messages for lifecycle events. Failures are
// logged by callers, never surfaced to the applicant.
type Notifier interface {
	ForwardForReview(ctx context.Context, req models.VerificationRequest, reviewers []string) error
	DecisionIssued(ctx context.Context, req models.VerificationRequest) error
}

// SimulatedGateway accepts every well-formed card and mints a transaction id.
type SimulatedGateway struct{}

func (SimulatedGateway) Charge(_ context.Context, _ int, _ models.PayRequest) (string, error) {
	return "TXN-" + strings.ToUpper(uuid.NewString()[:12]), nil
}

// LogNotifier writes notifications to the structured log. Stands in for the
// mail relay in deployments without one.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) ForwardForReview(ctx context.Context, req models.VerificationRequest, reviewers []string) error {
	n.Logger.InfoContext(ctx, "forwarding request for external review",
		"verification_request_id", req.ID,
		"reviewers", strings.Join(reviewers, ";"),
	)
	return nil
}

func (n LogNotifier) DecisionIssued(ctx context.Context, req models.VerificationRequest) error {
	if req.ContactEmail == "" {
		return nil
	}
	n.Logger.InfoContext(ctx, "notifying applicant of decision",
		"verification_request_id", req.ID,
		"contact_email", req.ContactEmail,
		"status", string(req.VerificationStatus),
	)
	return nil
}
