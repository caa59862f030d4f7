package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduverify/internal/verification/models"
)

const testKey = "verificationRequests"

func newTestStore(t *testing.T) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	logger := slog.New(slog.DiscardHandler)
	return New(kv, testKey, logger), kv
}

func TestLoadAllEmptyAndCorrupt(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key yields empty collection", func(t *testing.T) {
		s, _ := newTestStore(t)
		got, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("corrupt blob yields empty collection", func(t *testing.T) {
		s, kv := newTestStore(t)
		require.NoError(t, kv.Set(ctx, testKey, []byte("{not json")))
		got, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("wrong shape yields empty collection", func(t *testing.T) {
		s, kv := newTestStore(t)
		require.NoError(t, kv.Set(ctx, testKey, []byte(`{"id":"solo"}`)))
		got, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSaveAllRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	reqs := []models.VerificationRequest{
		{
			ID:                 "req-1",
			FirstName:          "Asha",
			LastName:           "Iyer",
			StudentNumber:      "70021900123",
			SchoolName:         "School of Business Management",
			ProgramName:        "MBA",
			YearOfPassing:      2021,
			RequesterRole:      models.RoleStudent,
			RequestType:        models.TypeRegular,
			AmountPayable:      4720,
			PaymentStatus:      models.PaymentPending,
			VerificationStatus: models.VerificationOpen,
			ApplicationStatus:  "Pending",
			CreatedAt:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, s.SaveAll(ctx, reqs))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, reqs[0], got[0])
}

func TestSaveAllFullReplace(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Append(ctx, models.VerificationRequest{ID: "a", CreatedAt: time.Now().UTC()}))
	require.NoError(t, s.Append(ctx, models.VerificationRequest{ID: "b", CreatedAt: time.Now().UTC()}))

	require.NoError(t, s.SaveAll(ctx, []models.VerificationRequest{{ID: "c", CreatedAt: time.Now().UTC()}}))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestLoadAllUpgradesLegacyRecords(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	legacy := `[{
		"studentName": "Ravi Kumar Shah",
		"studentSapNumber": "70011700456",
		"passingYear": "2017",
		"program": "B.Tech",
		"schoolName": "School of Engineering",
		"applicationDate": "2024-11-05T09:30:00Z",
		"feeAmount": 4720,
		"paymentStatus": "PAID_APPROVED",
		"degreeCertificateFile": {"name": "degree.pdf", "type": "application/pdf", "dataUrl": "data:application/pdf;base64,QQ=="}
	}]`
	require.NoError(t, kv.Set(ctx, testKey, []byte(legacy)))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Ravi", r.FirstName)
	assert.Equal(t, "Kumar Shah", r.LastName)
	assert.Equal(t, "70011700456", r.StudentNumber)
	assert.Equal(t, 2017, r.YearOfPassing)
	assert.Equal(t, "B.Tech", r.ProgramName)
	assert.Equal(t, 4720, r.AmountPayable)
	assert.Equal(t, 4720, r.TotalPaymentReceived)
	assert.Equal(t, models.RoleStudent, r.RequesterRole)
	assert.Equal(t, models.TypeRegular, r.RequestType)
	assert.Equal(t, models.PaymentApproved, r.PaymentStatus)
	assert.Equal(t, models.VerificationOpen, r.VerificationStatus)
	assert.Equal(t, "Pending", r.ApplicationStatus)
	assert.Equal(t, time.Date(2024, 11, 5, 9, 30, 0, 0, time.UTC), r.CreatedAt)
	require.Len(t, r.Attachments, 1)
	assert.Equal(t, "degree.pdf", r.Attachments[0].Name)
}

func TestLoadAllToleratesEmptyYearOfPassing(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	// The portal persisted "" when a record had no year at all; one such
	// record must not hide the rest of the collection.
	blob := `[
		{"id": "good", "firstName": "Asha", "yearOfPassing": 2021},
		{"id": "no-year", "firstName": "Ravi", "yearOfPassing": ""},
		{"id": "string-year", "firstName": "Meera", "yearOfPassing": "", "passingYear": "2017"}
	]`
	require.NoError(t, kv.Set(ctx, testKey, []byte(blob)))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	byID := map[string]models.VerificationRequest{}
	for _, r := range got {
		byID[r.ID] = r
	}
	assert.Equal(t, 2021, byID["good"].YearOfPassing)
	assert.Zero(t, byID["no-year"].YearOfPassing)
	assert.Equal(t, 2017, byID["string-year"].YearOfPassing)
}

func TestNormalizeIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	rec := map[string]any{
		"studentName":      "Ravi Kumar",
		"studentSapNumber": "70011700456",
		"passingYear":      float64(2017),
		"feeAmount":        float64(4720),
		"paymentStatus":    "PAID_APPROVED",
	}

	Normalize(rec, now)
	first, err := json.Marshal(rec)
	require.NoError(t, err)

	Normalize(rec, now)
	second, err := json.Marshal(rec)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestNormalizeDoesNotClobberCurrentFields(t *testing.T) {
	now := time.Now().UTC()
	rec := map[string]any{
		"id":                 "keep-me",
		"firstName":          "Asha",
		"lastName":           "Iyer",
		"studentName":        "Wrong Person",
		"studentNumber":      "70021900123",
		"studentSapNumber":   "legacy-number",
		"yearOfPassing":      float64(2021),
		"passingYear":        float64(1999),
		"requesterRole":      "GOVT",
		"paymentStatus":      "PAID_APPROVED",
		"verificationStatus": "COMPLETED",
		"applicationStatus":  "Completed",
		"createdAt":          "2026-01-01T00:00:00Z",
	}

	Normalize(rec, now)

	assert.Equal(t, "keep-me", rec["id"])
	assert.Equal(t, "Asha", rec["firstName"])
	assert.Equal(t, "70021900123", rec["studentNumber"])
	assert.Equal(t, float64(2021), rec["yearOfPassing"])
	assert.Equal(t, "GOVT", rec["requesterRole"])
	assert.Equal(t, "COMPLETED", rec["verificationStatus"])
	assert.Equal(t, "2026-01-01T00:00:00Z", rec["createdAt"])
}

func TestNormalizeGovtPaymentDefault(t *testing.T) {
	rec := map[string]any{"requesterRole": "GOVT"}
	Normalize(rec, time.Now().UTC())
	assert.Equal(t, "PAID_APPROVED", rec["paymentStatus"])

	rec2 := map[string]any{}
	Normalize(rec2, time.Now().UTC())
	assert.Equal(t, "PAYMENT_PENDING", rec2["paymentStatus"])
	assert.Equal(t, "STUDENT", rec2["requesterRole"])
}
