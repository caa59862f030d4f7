package reports

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"eduverify/internal/platform/kafka/producer"
	"eduverify/internal/verification/document"
	"eduverify/internal/verification/events"
	"eduverify/internal/verification/models"
	"eduverify/internal/verification/service"
	"eduverify/internal/verification/store"
)

func sampleRequests() []models.VerificationRequest {
	done := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	return []models.VerificationRequest{
		{
			ID:                   "req-1",
			FirstName:            "Asha",
			LastName:             "Iyer",
			StudentNumber:        "70021900123",
			SchoolName:           "School of Business Management",
			CampusName:           "Mumbai",
			ProgramName:          "MBA",
			YearOfPassing:        2021,
			CGPA:                 "3.4",
			RequesterRole:        models.RoleStudent,
			RequestType:          models.TypeRegular,
			AmountPayable:        4720,
			TotalPaymentReceived: 4720,
			TransactionID:        "TXN-42",
			PaymentStatus:        models.PaymentApproved,
			VerificationStatus:   models.VerificationCompleted,
			ApplicationStatus:    "Completed",
			CreatedAt:            time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
			VerificationDate:     &done,
		},
		{
			ID:                 "req-2",
			FirstName:          "Ravi",
			LastName:           "Shah",
			StudentNumber:      "70011700456",
			SchoolName:         "School of Engineering",
			ProgramName:        "B.Tech",
			YearOfPassing:      2017,
			RequesterRole:      models.RoleGovt,
			RequestType:        models.TypeRegular,
			PaymentStatus:      models.PaymentApproved,
			VerificationStatus: models.VerificationOpen,
			ApplicationStatus:  "Pending",
			CreatedAt:          time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRequests()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "2026-05-01", rows[1][0])
	assert.Equal(t, "Asha", rows[1][1])
	assert.Equal(t, "TXN-42", rows[1][13])
	assert.Equal(t, "2026-05-20", rows[1][17])
	assert.Equal(t, "GOVT", rows[2][9])
	assert.Equal(t, "", rows[2][17])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRequests()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "70021900123", rows[1][3])
	assert.Equal(t, "COMPLETED", rows[1][15])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleRequests()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestExportHandler(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	st := store.New(store.NewMemoryKV(), "verificationRequests", logger)
	ev := events.NewPublisher(producer.NewNoopProducer(), "eduverify.lifecycle", logger)
	svc := service.New(st, document.NewRenderer(""), service.SimulatedGateway{},
		service.LogNotifier{Logger: logger}, ev, logger)

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	require.NoError(t, st.SaveAll(ctx, sampleRequests()))

	h := NewHandler(svc, "secret-token", logger)
	r := chi.NewRouter()
	h.Register(r)

	t.Run("requires admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/reports/export", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("csv export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/reports/export?format=csv", nil)
		req.Header.Set("X-Admin-Token", "secret-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
		assert.Contains(t, rec.Body.String(), "70021900123")
	})

	t.Run("xlsx export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/reports/export?format=xlsx", nil)
		req.Header.Set("X-Admin-Token", "secret-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer f.Close() //nolint:errcheck
		rows, err := f.GetRows(sheetName)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("pdf export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/reports/export?format=pdf", nil)
		req.Header.Set("X-Admin-Token", "secret-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("unknown format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/reports/export?format=doc", nil)
		req.Header.Set("X-Admin-Token", "secret-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
