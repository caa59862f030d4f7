// Package document renders the letters the verification office issues:
// payment receipts, verification confirmations and rejection letters.
// Artifacts are self-contained HTML carried as base64 data URLs so they
// persist inside the request record itself.
package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	"eduverify/internal/verification/models"
	dErrors "eduverify/pkg/domain-errors"
)

const defaultInstitution = "NMIMS University"

// Renderer produces the office's HTML artifacts.
type Renderer struct {
	institution  string
	confirmation *template.Template
	rejection    *template.Template
	receipt      *template.Template
}

func NewRenderer(institution string) *Renderer {
	if institution == "" {
		institution = defaultInstitution
	}
	return &Renderer{
		institution:  institution,
		confirmation: template.Must(template.New("confirmation").Parse(confirmationHTML)),
		rejection:    template.Must(template.New("rejection").Parse(rejectionHTML)),
		receipt:      template.Must(template.New("receipt").Parse(receiptHTML)),
	}
}

type letterData struct {
	Institution string
	Reference   string
	IssuedOn    string
	Request     models.VerificationRequest
	VerifiedBy  string
	Remarks     string
	Reason      string
}

// ReferenceNumber derives the letter reference from the request identity:
// the first eight characters of the id, upper-cased, slash issue year.
func ReferenceNumber(id string, now time.Time) string {
	ref := strings.ToUpper(id)
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return fmt.Sprintf("VER/%s/%d", ref, now.Year())
}

// Confirmation renders the verification confirmation letter.
func (r *Renderer) Confirmation(req models.VerificationRequest, verifiedBy, remarks string, now time.Time) (models.GeneratedDocument, error) {
	return r.render(r.confirmation, "verification-confirmation.html", letterData{
		Institution: r.institution,
		Reference:   ReferenceNumber(req.ID, now),
		IssuedOn:    now.Format("02 January 2006"),
		Request:     req,
		VerifiedBy:  verifiedBy,
		Remarks:     remarks,
	})
}

// Rejection renders the rejection letter carrying the stated reason.
func (r *Renderer) Rejection(req models.VerificationRequest, reason string, now time.Time) (models.GeneratedDocument, error) {
	return r.render(r.rejection, "verification-rejection.html", letterData{
		Institution: r.institution,
		Reference:   ReferenceNumber(req.ID, now),
		IssuedOn:    now.Format("02 January 2006"),
		Request:     req,
		Reason:      reason,
	})
}

// Receipt renders the fee payment receipt issued at gateway confirmation.
func (r *Renderer) Receipt(req models.VerificationRequest, now time.Time) (models.GeneratedDocument, error) {
	return r.render(r.receipt, "payment-receipt.html", letterData{
		Institution: r.institution,
		Reference:   ReferenceNumber(req.ID, now),
		IssuedOn:    now.Format("02 January 2006"),
		Request:     req,
	})
}

func (r *Renderer) render(tmpl *template.Template, name string, data letterData) (models.GeneratedDocument, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return models.GeneratedDocument{}, dErrors.Wrap(err, dErrors.CodeInternal, "render "+name)
	}
	return models.GeneratedDocument{
		Name:    name,
		DataURL: "data:text/html;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}
