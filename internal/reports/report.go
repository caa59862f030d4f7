// Package reports exports the verification request collection for the admin
// office in CSV, XLSX and PDF form.
package reports

import (
	"strconv"
	"time"

	"eduverify/internal/verification/models"
)

// Header is the canonical column set of the verification register.
var Header = []string{
	"Application Date",
	"First Name",
	"Last Name",
	"Student Number",
	"School",
	"Campus",
	"Program",
	"Year of Passing",
	"CGPA",
	"Requested By",
	"Request Type",
	"Amount Payable",
	"Payment Received",
	"Transaction ID",
	"Payment Status",
	"Verification Status",
	"Application Status",
	"Completion Date",
}

const dateFormat = "2006-01-02"

// Row flattens one request into register columns.
func Row(r *models.VerificationRequest) []string {
	completion := ""
	switch {
	case r.VerificationDate != nil:
		completion = r.VerificationDate.Format(dateFormat)
	case r.RejectionDate != nil:
		completion = r.RejectionDate.Format(dateFormat)
	}

	return []string{
		formatDate(r.CreatedAt),
		r.FirstName,
		r.LastName,
		r.StudentNumber,
		r.SchoolName,
		r.CampusName,
		r.ProgramName,
		strconv.Itoa(r.YearOfPassing),
		r.CGPA,
		string(r.RequesterRole),
		string(r.RequestType),
		strconv.Itoa(r.AmountPayable),
		strconv.Itoa(r.TotalPaymentReceived),
		r.TransactionID,
		string(r.PaymentStatus),
		string(r.VerificationStatus),
		r.ApplicationStatus,
		completion,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}
