package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"eduverify/internal/platform/kafka/producer"
	"eduverify/internal/verification/document"
	"eduverify/internal/verification/events"
	"eduverify/internal/verification/models"
	"eduverify/internal/verification/service"
	"eduverify/internal/verification/store"
	"eduverify/pkg/platform/middleware/ratelimit"
	request "eduverify/pkg/platform/middleware/request"
	"eduverify/pkg/platform/middleware/staff"
)

type HandlerSuite struct {
	suite.Suite
	router    chi.Router
	issuer    *staff.TokenIssuer
	accounts  string
	exam      string
	validBody map[string]any
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	st := store.New(store.NewMemoryKV(), "verificationRequests", logger)
	ev := events.NewPublisher(producer.NewNoopProducer(), "eduverify.lifecycle", logger)
	svc := service.New(st, document.NewRenderer(""), service.SimulatedGateway{},
		service.LogNotifier{Logger: logger}, ev, logger)

	s.issuer = staff.NewTokenIssuer("test-signing-key", time.Hour)
	h := NewHandler(svc, s.issuer, ratelimit.New(1000, time.Minute), logger)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Recovery(logger))
	h.Register(r)
	s.router = r

	now := time.Now().UTC()
	var err error
	s.accounts, err = s.issuer.Issue(staff.DepartmentAccounts, now)
	s.Require().NoError(err)
	s.exam, err = s.issuer.Issue(staff.DepartmentExamination, now)
	s.Require().NoError(err)

	s.validBody = map[string]any{
		"firstName":     "Asha",
		"lastName":      "Iyer",
		"studentNumber": "70021900123",
		"contactEmail":  "asha@example.com",
		"schoolName":    "School of Business Management",
		"programName":   "MBA",
		"yearOfPassing": time.Now().Year() - 8,
		"requesterRole": "STUDENT",
		"requestType":   "REGULAR",
		"attachments": []map[string]string{
			{"name": "degree.pdf", "type": "application/pdf", "dataUrl": "data:application/pdf;base64,QQ=="},
		},
	}
}

func (s *HandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) models.VerificationRequest {
	var out models.VerificationRequest
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (s *HandlerSuite) submit(overrides map[string]any) models.VerificationRequest {
	body := make(map[string]any, len(s.validBody))
	for k, v := range s.validBody {
		body[k] = v
	}
	for k, v := range overrides {
		body[k] = v
	}
	rec := s.do(http.MethodPost, "/requests", "", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return s.decode(rec)
}

func (s *HandlerSuite) pay(id string) models.VerificationRequest {
	rec := s.do(http.MethodPost, "/requests/"+id+"/payment", "", map[string]string{
		"cardholderName": "Asha Iyer",
		"cardNumber":     "4111111111111111",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	return s.decode(rec)
}

func (s *HandlerSuite) TestSubmit() {
	record := s.submit(nil)
	s.NotEmpty(record.ID)
	s.Equal(4720, record.AmountPayable)
	s.Equal(models.PaymentPending, record.PaymentStatus)
	s.Equal(models.VerificationOpen, record.VerificationStatus)
}

func (s *HandlerSuite) TestSubmitMissingFields() {
	body := map[string]any{"firstName": "Asha"}
	rec := s.do(http.MethodPost, "/requests", "", body)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "lastName")
	s.Contains(rec.Body.String(), "attachments")
}

func (s *HandlerSuite) TestGet() {
	record := s.submit(nil)

	rec := s.do(http.MethodGet, "/requests/"+record.ID, "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(record.ID, s.decode(rec).ID)

	rec = s.do(http.MethodGet, "/requests/nope", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestPaymentFlow() {
	record := s.submit(nil)

	paid := s.pay(record.ID)
	s.Equal(models.PaymentPendingAccounts, paid.PaymentStatus)
	s.NotEmpty(paid.TransactionID)
	s.NotNil(paid.ReceiptDocument)

	// Accounts endpoints are token-gated.
	rec := s.do(http.MethodPost, "/requests/"+record.ID+"/payment/approve", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/requests/"+record.ID+"/payment/approve", s.exam, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/requests/"+record.ID+"/payment/approve", s.accounts, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(models.PaymentApproved, s.decode(rec).PaymentStatus)
}

func (s *HandlerSuite) TestPaymentRejection() {
	record := s.submit(nil)
	s.pay(record.ID)

	rec := s.do(http.MethodPost, "/requests/"+record.ID+"/payment/reject", s.accounts, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(models.PaymentRejected, s.decode(rec).PaymentStatus)

	// A dead-ended request cannot be verified.
	rec = s.do(http.MethodPost, "/requests/"+record.ID+"/approve", s.exam,
		map[string]string{"verifiedBy": "Dr. Mehta"})
	s.Equal(http.StatusPreconditionFailed, rec.Code)
}

func (s *HandlerSuite) TestApproveAndArtifact() {
	record := s.submit(nil)
	s.pay(record.ID)
	rec := s.do(http.MethodPost, "/requests/"+record.ID+"/payment/approve", s.accounts, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/requests/"+record.ID+"/approve", s.exam,
		map[string]string{"verifiedBy": "Dr. Mehta", "remarks": "Transcript matched"})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	done := s.decode(rec)
	s.Equal(models.VerificationCompleted, done.VerificationStatus)
	s.NotNil(done.ApprovedDocument)

	rec = s.do(http.MethodGet, "/requests/"+record.ID+"/artifact", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	s.Contains(rec.Header().Get("Content-Disposition"), "verification-confirmation.html")
	s.Contains(rec.Body.String(), "VERIFICATION STATUS: CONFIRMED")
}

func (s *HandlerSuite) TestApproveBeforePayment() {
	record := s.submit(nil)

	rec := s.do(http.MethodPost, "/requests/"+record.ID+"/approve", s.exam,
		map[string]string{"verifiedBy": "Dr. Mehta"})
	s.Equal(http.StatusPreconditionFailed, rec.Code)
}

func (s *HandlerSuite) TestGovernmentBypassesPayment() {
	record := s.submit(map[string]any{"requesterRole": "GOVT", "studentNumber": "70031800789"})
	s.Zero(record.AmountPayable)
	s.Equal(models.PaymentApproved, record.PaymentStatus)

	rec := s.do(http.MethodPost, "/requests/"+record.ID+"/approve", s.exam,
		map[string]string{"verifiedBy": "Dr. Mehta"})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) TestReject() {
	record := s.submit(nil)

	rec := s.do(http.MethodPost, "/requests/"+record.ID+"/reject", s.exam, map[string]string{})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/requests/"+record.ID+"/reject", s.exam,
		map[string]string{"reason": "records mismatch"})
	s.Equal(http.StatusOK, rec.Code)
	done := s.decode(rec)
	s.Equal(models.VerificationRejected, done.VerificationStatus)
	s.Equal("records mismatch", done.RejectionReason)

	artifact := s.do(http.MethodGet, "/requests/"+record.ID+"/artifact", "", nil)
	s.Equal(http.StatusOK, artifact.Code)
	s.Contains(artifact.Header().Get("Content-Disposition"), "verification-rejection.html")
}

func (s *HandlerSuite) TestForward() {
	record := s.submit(nil)

	rec := s.do(http.MethodPost, "/requests/"+record.ID+"/forward", s.exam,
		map[string]string{"emails": "dean@univ.edu; bogus"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "bogus")

	rec = s.do(http.MethodPost, "/requests/"+record.ID+"/forward", s.exam,
		map[string]string{"emails": "dean@univ.edu; registrar@univ.edu"})
	s.Equal(http.StatusOK, rec.Code)
	fwd := s.decode(rec)
	s.Equal(models.VerificationInProcess, fwd.VerificationStatus)
	s.Len(fwd.ForwardedTo, 2)
}

func (s *HandlerSuite) TestList() {
	mine := s.submit(nil)
	other := s.submit(map[string]any{
		"studentNumber": "70011700456",
		"contactEmail":  "ravi@example.com",
		"requesterRole": "GOVT",
	})

	// Applicant view by student number.
	rec := s.do(http.MethodGet, "/requests?studentNumber=70021900123", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	var got []models.VerificationRequest
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&got))
	s.Len(got, 1)
	s.Equal(mine.ID, got[0].ID)

	// No identity, no view.
	rec = s.do(http.MethodGet, "/requests", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	// Staff views require a matching token.
	rec = s.do(http.MethodGet, "/requests?view=accounts", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/requests?view=accounts", s.exam, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/requests?view=accounts", s.accounts, nil)
	s.Equal(http.StatusOK, rec.Code)
	got = nil
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&got))
	s.Len(got, 1)
	s.Equal(mine.ID, got[0].ID)

	rec = s.do(http.MethodGet, "/requests?view=examination", s.exam, nil)
	s.Equal(http.StatusOK, rec.Code)
	got = nil
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&got))
	s.Len(got, 1)
	s.Equal(other.ID, got[0].ID)
}

func (s *HandlerSuite) TestStaffToken() {
	rec := s.do(http.MethodPost, "/staff/token", "", map[string]string{"department": "Accounts"})
	s.Equal(http.StatusOK, rec.Code)
	var out map[string]string
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	s.NotEmpty(out["token"])
	s.Equal("accounts", out["department"])

	claims, err := s.issuer.Validate(out["token"])
	s.Require().NoError(err)
	s.Equal("accounts", claims.Department)

	rec = s.do(http.MethodPost, "/staff/token", "", map[string]string{"department": "registry"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestArtifactMissing() {
	record := s.submit(nil)
	rec := s.do(http.MethodGet, "/requests/"+record.ID+"/artifact", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}
