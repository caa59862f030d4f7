// Package service implements the verification request lifecycle: submission,
// the simulated payment flow, the Accounts payment gate and the Examination
// decisions. All mutations funnel through a single read-transition-write
// critical section over the collection store.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"eduverify/internal/verification/document"
	"eduverify/internal/verification/events"
	"eduverify/internal/verification/fee"
	"eduverify/internal/verification/metrics"
	"eduverify/internal/verification/models"
	"eduverify/internal/verification/store"
	dErrors "eduverify/pkg/domain-errors"
	"eduverify/pkg/requestcontext"
)

// Service orchestrates the verification request lifecycle.
type Service struct {
	store    *store.Store
	renderer *document.Renderer
	gateway  PaymentGateway
	notifier Notifier
	events   *events.Publisher
	logger   *slog.Logger

	// mu serializes read-modify-write cycles; the KV substrate has no
	// conditional writes, so last-writer-wins must not interleave.
	mu sync.Mutex
}

func New(st *store.Store, renderer *document.Renderer, gateway PaymentGateway, notifier Notifier, ev *events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		renderer: renderer,
		gateway:  gateway,
		notifier: notifier,
		events:   ev,
		logger:   logger,
	}
}

// Submit creates a new verification request with a server-computed fee.
// Government requests start payment-approved with the fee waived.
func (s *Service) Submit(ctx context.Context, req *models.SubmitRequest) (models.VerificationRequest, error) {
	now := requestcontext.Now(ctx)
	quote := fee.Compute(req.RequesterRole, req.RequestType, req.YearOfPassing, now)

	record := models.VerificationRequest{
		ID:                 uuid.NewString(),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		StudentNumber:      req.StudentNumber,
		ContactEmail:       req.ContactEmail,
		SchoolName:         req.SchoolName,
		CampusName:         req.CampusName,
		ProgramName:        req.ProgramName,
		Stream:             req.Stream,
		Semester:           req.Semester,
		YearOfPassing:      req.YearOfPassing,
		CGPA:               req.CGPA,
		RequesterRole:      req.RequesterRole,
		RequestType:        req.RequestType,
		BaseAmount:         quote.Base,
		TaxAmount:          quote.Tax,
		AmountPayable:      quote.Total,
		PaymentStatus:      models.PaymentPending,
		VerificationStatus: models.VerificationOpen,
		ApplicationStatus:  "Pending",
		Attachments:        req.Attachments,
		CreatedAt:          now.UTC(),
	}
	if record.FeeWaived() {
		record.PaymentStatus = models.PaymentApproved
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Append(ctx, record); err != nil {
		return models.VerificationRequest{}, err
	}

	metrics.RequestsSubmitted.WithLabelValues(string(record.RequesterRole), string(record.RequestType)).Inc()
	s.events.Publish(events.EventSubmitted, &record, now)
	s.logger.InfoContext(ctx, "verification request submitted",
		"verification_request_id", record.ID,
		"requester_role", string(record.RequesterRole),
		"request_type", string(record.RequestType),
		"amount_payable", record.AmountPayable,
	)
	return record, nil
}

// Get returns one request by id.
func (s *Service) Get(ctx context.Context, id string) (models.VerificationRequest, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	for i := range all {
		if all[i].ID == id {
			return all[i], nil
		}
	}
	return models.VerificationRequest{}, dErrors.New(dErrors.CodeNotFound, "verification request not found")
}

// Artifact returns the decision letter for a finalized request: the
// confirmation when approved, the rejection letter when rejected.
func (s *Service) Artifact(ctx context.Context, id string) (models.GeneratedDocument, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return models.GeneratedDocument{}, err
	}
	switch {
	case req.ApprovedDocument != nil:
		return *req.ApprovedDocument, nil
	case req.RejectionDocument != nil:
		return *req.RejectionDocument, nil
	}
	return models.GeneratedDocument{}, dErrors.New(dErrors.CodeNotFound, "no decision artifact for this request")
}

// CompletePayment runs the simulated gateway charge, issues the receipt and
// queues the request for Accounts validation.
func (s *Service) CompletePayment(ctx context.Context, id string, pay *models.PayRequest) (models.VerificationRequest, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, idx, err := s.loadLocked(ctx, id)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	record := &all[idx]

	// The guard runs on a throwaway copy first so an ineligible request is
	// never charged.
	guard := *record
	if err := guard.MarkPaymentSubmitted("", nil, now); err != nil {
		s.countGuardRejection("complete_payment", err)
		return models.VerificationRequest{}, err
	}

	txnID, err := s.gateway.Charge(ctx, record.AmountPayable, *pay)
	if err != nil {
		return models.VerificationRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "payment gateway charge failed")
	}

	// Stage the payment fields before rendering so the receipt shows them,
	// then commit via the transition on the real record.
	staged := *record
	if err := staged.MarkPaymentSubmitted(txnID, nil, now); err != nil {
		s.countGuardRejection("complete_payment", err)
		return models.VerificationRequest{}, err
	}
	receipt, err := s.renderer.Receipt(staged, now)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	if err := record.MarkPaymentSubmitted(txnID, &receipt, now); err != nil {
		s.countGuardRejection("complete_payment", err)
		return models.VerificationRequest{}, err
	}

	if err := s.store.SaveAll(ctx, all); err != nil {
		return models.VerificationRequest{}, err
	}

	metrics.PaymentsCompleted.Inc()
	metrics.ArtifactsGenerated.WithLabelValues("receipt").Inc()
	s.events.Publish(events.EventPaymentReceived, record, now)
	s.logger.InfoContext(ctx, "payment completed",
		"verification_request_id", record.ID,
		"transaction_id", txnID,
		"amount", record.TotalPaymentReceived,
	)
	return *record, nil
}

// ApprovePayment is the Accounts validation of a received payment.
func (s *Service) ApprovePayment(ctx context.Context, id string) (models.VerificationRequest, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, idx, err := s.loadLocked(ctx, id)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	record := &all[idx]

	if err := record.ApprovePayment(now); err != nil {
		s.countGuardRejection("approve_payment", err)
		return models.VerificationRequest{}, err
	}
	if err := s.store.SaveAll(ctx, all); err != nil {
		return models.VerificationRequest{}, err
	}

	metrics.PaymentDecisions.WithLabelValues("approved").Inc()
	s.events.Publish(events.EventPaymentApproved, record, now)
	s.logger.InfoContext(ctx, "payment approved by accounts", "verification_request_id", record.ID)
	return *record, nil
}

// RejectPayment is the Accounts declination of a received payment. The
// request is dead-ended.
func (s *Service) RejectPayment(ctx context.Context, id string) (models.VerificationRequest, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, idx, err := s.loadLocked(ctx, id)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	record := &all[idx]

	if err := record.RejectPayment(now); err != nil {
		s.countGuardRejection("reject_payment", err)
		return models.VerificationRequest{}, err
	}
	if err := s.store.SaveAll(ctx, all); err != nil {
		return models.VerificationRequest{}, err
	}

	metrics.PaymentDecisions.WithLabelValues("rejected").Inc()
	s.events.Publish(events.EventPaymentRejected, record, now)
	s.logger.InfoContext(ctx, "payment rejected by accounts", "verification_request_id", record.ID)
	return *record, nil
}

// Approve finalizes a request with a confirmation letter. Blocked until the
// payment axis is resolved, except for fee-waived government requests.
func (s *Service) Approve(ctx context.Context, id string, req *models.ApproveRequest) (models.VerificationRequest, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, idx, err := s.loadLocked(ctx, id)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	record := &all[idx]

	if req.VerifiedBy == "" {
		return models.VerificationRequest{}, dErrors.New(dErrors.CodeValidation, "verifiedBy is required")
	}
	doc, err := s.renderer.Confirmation(*record, req.VerifiedBy, req.Remarks, now)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	if err := record.Approve(doc, now); err != nil {
		s.countGuardRejection("approve", err)
		return models.VerificationRequest{}, err
	}
	if err := s.store.SaveAll(ctx, all); err != nil {
		return models.VerificationRequest{}, err
	}

	metrics.VerificationDecisions.WithLabelValues("approved").Inc()
	metrics.ArtifactsGenerated.WithLabelValues("confirmation").Inc()
	s.events.Publish(events.EventApproved, record, now)
	if err := s.notifier.DecisionIssued(ctx, *record); err != nil {
		s.logger.WarnContext(ctx, "decision notification failed",
			"verification_request_id", record.ID, "error", err)
	}
	s.logger.InfoContext(ctx, "verification approved", "verification_request_id", record.ID)
	return *record, nil
}

// Reject finalizes a request with a rejection letter carrying the reason.
func (s *Service) Reject(ctx context.Context, id string, req *models.RejectRequest) (models.VerificationRequest, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, idx, err := s.loadLocked(ctx, id)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	record := &all[idx]

	doc, err := s.renderer.Rejection(*record, req.Reason, now)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	if err := record.Reject(doc, req.Reason, now); err != nil {
		s.countGuardRejection("reject", err)
		return models.VerificationRequest{}, err
	}
	if err := s.store.SaveAll(ctx, all); err != nil {
		return models.VerificationRequest{}, err
	}

	metrics.VerificationDecisions.WithLabelValues("rejected").Inc()
	metrics.ArtifactsGenerated.WithLabelValues("rejection").Inc()
	s.events.Publish(events.EventRejected, record, now)
	if err := s.notifier.DecisionIssued(ctx, *record); err != nil {
		s.logger.WarnContext(ctx, "decision notification failed",
			"verification_request_id", record.ID, "error", err)
	}
	s.logger.InfoContext(ctx, "verification rejected",
		"verification_request_id", record.ID, "reason", req.Reason)
	return *record, nil
}

// Forward routes a request to external reviewers and marks it in process.
func (s *Service) Forward(ctx context.Context, id string, req *models.ForwardRequest) (models.VerificationRequest, error) {
	now := requestcontext.Now(ctx)

	reviewers, err := req.Reviewers()
	if err != nil {
		return models.VerificationRequest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, idx, err := s.loadLocked(ctx, id)
	if err != nil {
		return models.VerificationRequest{}, err
	}
	record := &all[idx]

	if err := record.Forward(reviewers, now); err != nil {
		s.countGuardRejection("forward", err)
		return models.VerificationRequest{}, err
	}
	if err := s.store.SaveAll(ctx, all); err != nil {
		return models.VerificationRequest{}, err
	}

	metrics.RequestsForwarded.Inc()
	s.events.Publish(events.EventForwarded, record, now)
	if err := s.notifier.ForwardForReview(ctx, *record, reviewers); err != nil {
		s.logger.WarnContext(ctx, "forward notification failed",
			"verification_request_id", record.ID, "error", err)
	}
	s.logger.InfoContext(ctx, "request forwarded for review",
		"verification_request_id", record.ID, "reviewer_count", len(reviewers))
	return *record, nil
}

// loadLocked loads the collection and locates id. Callers hold s.mu.
func (s *Service) loadLocked(ctx context.Context, id string) ([]models.VerificationRequest, int, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	for i := range all {
		if all[i].ID == id {
			return all, i, nil
		}
	}
	return nil, 0, dErrors.New(dErrors.CodeNotFound, "verification request not found")
}

func (s *Service) countGuardRejection(operation string, err error) {
	if dErrors.HasCode(err, dErrors.CodePrecondition) {
		metrics.TransitionRejections.WithLabelValues(operation).Inc()
	}
}
