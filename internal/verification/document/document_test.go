package document

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduverify/internal/verification/models"
)

func decodeDataURL(t *testing.T, dataURL string) string {
	t.Helper()
	const prefix = "data:text/html;base64,"
	require.True(t, strings.HasPrefix(dataURL, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	require.NoError(t, err)
	return string(raw)
}

func sampleRequest() models.VerificationRequest {
	return models.VerificationRequest{
		ID:                   "a1b2c3d4-0000-4000-8000-000000000000",
		FirstName:            "Asha",
		LastName:             "Iyer",
		StudentNumber:        "70021900123",
		SchoolName:           "School of Business Management",
		CampusName:           "Mumbai",
		ProgramName:          "MBA",
		YearOfPassing:        2021,
		CGPA:                 "3.4",
		BaseAmount:           4000,
		TaxAmount:            720,
		AmountPayable:        4720,
		TransactionID:        "TXN-42",
		BankDetails:          "Payment Gateway",
		TotalPaymentReceived: 4720,
	}
}

func TestReferenceNumber(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "VER/A1B2C3D4/2026", ReferenceNumber("a1b2c3d4-0000-4000", now))
	assert.Equal(t, "VER/AB/2026", ReferenceNumber("ab", now))
}

func TestConfirmation(t *testing.T) {
	r := NewRenderer("")
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	doc, err := r.Confirmation(sampleRequest(), "Dr. Mehta", "Transcript matched", now)
	require.NoError(t, err)
	assert.Equal(t, "verification-confirmation.html", doc.Name)

	html := decodeDataURL(t, doc.DataURL)
	assert.Contains(t, html, "NMIMS University")
	assert.Contains(t, html, "VER/A1B2C3D4/2026")
	assert.Contains(t, html, "Asha Iyer")
	assert.Contains(t, html, "70021900123")
	assert.Contains(t, html, "VERIFICATION STATUS: CONFIRMED")
	assert.Contains(t, html, "Dr. Mehta")
	assert.Contains(t, html, "Transcript matched")
	assert.Contains(t, html, "01 June 2026")
}

func TestRejection(t *testing.T) {
	r := NewRenderer("Test University")
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	doc, err := r.Rejection(sampleRequest(), "Student number not found in records", now)
	require.NoError(t, err)
	assert.Equal(t, "verification-rejection.html", doc.Name)

	html := decodeDataURL(t, doc.DataURL)
	assert.Contains(t, html, "Test University")
	assert.Contains(t, html, "NOT CONFIRMED")
	assert.Contains(t, html, "Student number not found in records")
}

func TestRejectionEscapesReason(t *testing.T) {
	r := NewRenderer("")
	doc, err := r.Rejection(sampleRequest(), `<script>alert("x")</script>`, time.Now())
	require.NoError(t, err)

	html := decodeDataURL(t, doc.DataURL)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestReceipt(t *testing.T) {
	r := NewRenderer("")
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	doc, err := r.Receipt(sampleRequest(), now)
	require.NoError(t, err)
	assert.Equal(t, "payment-receipt.html", doc.Name)

	html := decodeDataURL(t, doc.DataURL)
	assert.Contains(t, html, "FEE PAYMENT RECEIPT")
	assert.Contains(t, html, "TXN-42")
	assert.Contains(t, html, "4720")
	assert.Contains(t, html, "Accounts")
}
