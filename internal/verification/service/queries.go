package service

import (
	"context"
	"sort"
	"strings"

	"eduverify/internal/verification/models"
)

// ListAll returns the whole collection, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.VerificationRequest, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(all)
	return all, nil
}

// AccountsQueue returns the fee-paying requests the Accounts department
// tracks: anything not yet through payment validation. Government requests
// never appear because they carry no fee.
func (s *Service) AccountsQueue(ctx context.Context) ([]models.VerificationRequest, error) {
	return s.filtered(ctx, func(r *models.VerificationRequest) bool {
		if r.FeeWaived() {
			return false
		}
		return r.PaymentStatus == models.PaymentPending || r.PaymentStatus == models.PaymentPendingAccounts
	})
}

// ExaminationQueue returns the requests visible to Examination staff: those
// whose payment axis is resolved, including already-decided ones for the
// dashboard history.
func (s *Service) ExaminationQueue(ctx context.Context) ([]models.VerificationRequest, error) {
	return s.filtered(ctx, func(r *models.VerificationRequest) bool {
		return r.PaymentResolved()
	})
}

// ForApplicant returns the requests belonging to an applicant, matched by
// student number or contact email.
func (s *Service) ForApplicant(ctx context.Context, studentNumber, contactEmail string) ([]models.VerificationRequest, error) {
	studentNumber = strings.TrimSpace(studentNumber)
	contactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
	return s.filtered(ctx, func(r *models.VerificationRequest) bool {
		if studentNumber != "" && r.StudentNumber == studentNumber {
			return true
		}
		return contactEmail != "" && strings.ToLower(r.ContactEmail) == contactEmail
	})
}

func (s *Service) filtered(ctx context.Context, keep func(*models.VerificationRequest) bool) ([]models.VerificationRequest, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.VerificationRequest, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(reqs []models.VerificationRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}
