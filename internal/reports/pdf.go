package reports

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"eduverify/internal/verification/models"
)

// pdfColumns is the condensed column set that fits a landscape A4 register.
var pdfColumns = []struct {
	title string
	width float64
	value func(*models.VerificationRequest) string
}{
	{"Date", 22, func(r *models.VerificationRequest) string { return formatDate(r.CreatedAt) }},
	{"Name", 42, func(r *models.VerificationRequest) string { return r.FirstName + " " + r.LastName }},
	{"Student No.", 30, func(r *models.VerificationRequest) string { return r.StudentNumber }},
	{"Program", 35, func(r *models.VerificationRequest) string { return r.ProgramName }},
	{"Year", 14, func(r *models.VerificationRequest) string { return strconv.Itoa(r.YearOfPassing) }},
	{"Requested By", 28, func(r *models.VerificationRequest) string { return string(r.RequesterRole) }},
	{"Amount", 20, func(r *models.VerificationRequest) string { return strconv.Itoa(r.AmountPayable) }},
	{"Payment", 42, func(r *models.VerificationRequest) string { return string(r.PaymentStatus) }},
	{"Verification", 30, func(r *models.VerificationRequest) string { return string(r.VerificationStatus) }},
}

// WritePDF renders the register as a landscape A4 table.
func WritePDF(w io.Writer, requests []models.VerificationRequest) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Verification Register", false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Verification Register", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(26, 54, 93)
		pdf.SetTextColor(255, 255, 255)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
	writeHeader()

	pdf.SetFont("Arial", "", 8)
	for i := range requests {
		if pdf.GetY() > 185 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Arial", "", 8)
		}
		fill := i%2 == 1
		pdf.SetFillColor(242, 242, 242)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, c.value(&requests[i]), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
