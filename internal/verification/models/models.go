package models

import (
	"time"

	dErrors "eduverify/pkg/domain-errors"
)

// RequesterRole identifies who is asking for the verification. Set at
// creation, immutable. Government departments are exempt from fees and from
// the Accounts payment gate.
type RequesterRole string

const (
	RoleStudent    RequesterRole = "STUDENT"
	RoleThirdParty RequesterRole = "THIRD_PARTY"
	RoleGovt       RequesterRole = "GOVT"
)

func (r RequesterRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleThirdParty, RoleGovt:
		return true
	}
	return false
}

// RequestType drives the fee: URGENT is a flat premium rate, REGULAR is
// bracketed by how long ago the applicant passed out.
type RequestType string

const (
	TypeRegular RequestType = "REGULAR"
	TypeUrgent  RequestType = "URGENT"
)

func (t RequestType) IsValid() bool {
	return t == TypeRegular || t == TypeUrgent
}

// PaymentStatus tracks the Accounts axis of the request lifecycle.
//
//	PAYMENT_PENDING --(applicant pays)--> PAID_PENDING_ACCOUNTS
//	PAID_PENDING_ACCOUNTS --(Accounts approves)--> PAID_APPROVED
//	PAID_PENDING_ACCOUNTS --(Accounts rejects)--> PAYMENT_REJECTED
//
// PAID_APPROVED and PAYMENT_REJECTED are terminal for this axis. GOVT
// requests start at PAID_APPROVED with a waived fee.
type PaymentStatus string

const (
	PaymentPending         PaymentStatus = "PAYMENT_PENDING"
	PaymentPendingAccounts PaymentStatus = "PAID_PENDING_ACCOUNTS"
	PaymentApproved        PaymentStatus = "PAID_APPROVED"
	PaymentRejected        PaymentStatus = "PAYMENT_REJECTED"
)

// VerificationStatus tracks the Examination axis of the request lifecycle.
//
//	OPEN --(approve)--> COMPLETED   [payment resolved or GOVT]
//	OPEN --(reject)--> REJECTED     [reason required]
//	OPEN --(forward)--> IN_PROCESS  [valid reviewer emails required]
//	IN_PROCESS --(decision)--> COMPLETED | REJECTED
//
// COMPLETED and REJECTED are terminal: no further mutation of any field.
type VerificationStatus string

const (
	VerificationOpen      VerificationStatus = "OPEN"
	VerificationInProcess VerificationStatus = "IN_PROCESS"
	VerificationCompleted VerificationStatus = "COMPLETED"
	VerificationRejected  VerificationStatus = "REJECTED"
)

// Attachment is a file supplied by the applicant at submission, read-only
// afterwards. Content is carried inline as a base64 data URL, mirroring how
// the portal stored uploads.
type Attachment struct {
	Name      string `json:"name"`
	MediaType string `json:"type"`
	DataURL   string `json:"dataUrl"`
}

// GeneratedDocument is an artifact produced by the service: the confirmation
// or rejection letter, or the fee receipt.
type GeneratedDocument struct {
	Name    string `json:"name"`
	DataURL string `json:"dataUrl"`
}

// VerificationRequest is the sole persisted entity. JSON field names match
// the portal's historical storage shape so existing collections load as-is.
type VerificationRequest struct {
	ID string `json:"id"`

	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	StudentNumber string `json:"studentNumber"`
	ContactEmail  string `json:"contactEmail,omitempty"`

	SchoolName    string `json:"schoolName"`
	CampusName    string `json:"campusName,omitempty"`
	ProgramName   string `json:"programName"`
	Stream        string `json:"stream,omitempty"`
	Semester      string `json:"semester,omitempty"`
	YearOfPassing int    `json:"yearOfPassing"`
	CGPA          string `json:"cgpa,omitempty"`

	RequesterRole RequesterRole `json:"requesterRole"`
	RequestType   RequestType   `json:"requestType"`

	BaseAmount    int `json:"baseAmount"`
	TaxAmount     int `json:"taxAmount"`
	AmountPayable int `json:"amountPayable"`

	PaymentStatus      PaymentStatus      `json:"paymentStatus"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`

	// ApplicationStatus is the display status the dashboards render.
	ApplicationStatus string `json:"applicationStatus"`

	Attachments []Attachment `json:"attachments,omitempty"`

	ApprovedDocument  *GeneratedDocument `json:"approvedDocument,omitempty"`
	RejectionDocument *GeneratedDocument `json:"rejectionDocument,omitempty"`
	ReceiptDocument   *GeneratedDocument `json:"receiptDocument,omitempty"`

	TransactionID        string `json:"transactionId,omitempty"`
	BankDetails          string `json:"bankDetails,omitempty"`
	TotalPaymentReceived int    `json:"totalPaymentReceived"`

	RejectionReason string   `json:"rejectionReason,omitempty"`
	ForwardedTo     []string `json:"forwardedTo,omitempty"`

	CreatedAt        time.Time  `json:"createdAt"`
	VerificationDate *time.Time `json:"verificationDate,omitempty"`
	RejectionDate    *time.Time `json:"rejectionDate,omitempty"`
	ForwardedDate    *time.Time `json:"forwardedDate,omitempty"`
}

// FeeWaived reports whether the requester is exempt from fees entirely.
func (r *VerificationRequest) FeeWaived() bool {
	return r.RequesterRole == RoleGovt
}

// PaymentResolved reports whether the Accounts axis permits verification
// approval: payment validated, or the requester is a government department.
func (r *VerificationRequest) PaymentResolved() bool {
	return r.PaymentStatus == PaymentApproved || r.FeeWaived()
}

// VerificationTerminal reports whether the request reached a final decision.
func (r *VerificationRequest) VerificationTerminal() bool {
	return r.VerificationStatus == VerificationCompleted || r.VerificationStatus == VerificationRejected
}

// requireOpen rejects any transition once the verification axis is terminal.
func (r *VerificationRequest) requireOpen() error {
	if r.VerificationTerminal() {
		return dErrors.New(dErrors.CodePrecondition, "request is already finalized")
	}
	return nil
}

// MarkPaymentSubmitted records the applicant's simulated gateway payment and
// queues the request for Accounts validation.
func (r *VerificationRequest) MarkPaymentSubmitted(transactionID string, receipt *GeneratedDocument, now time.Time) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if r.FeeWaived() {
		return dErrors.New(dErrors.CodePrecondition, "government requests carry no fee to pay")
	}
	if r.PaymentStatus != PaymentPending {
		return dErrors.New(dErrors.CodePrecondition, "payment has already been submitted")
	}
	r.PaymentStatus = PaymentPendingAccounts
	r.TransactionID = transactionID
	r.BankDetails = "Payment Gateway"
	r.TotalPaymentReceived = r.AmountPayable
	r.ReceiptDocument = receipt
	return nil
}

// ApprovePayment is the Accounts stage validating a received payment.
func (r *VerificationRequest) ApprovePayment(now time.Time) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if r.PaymentStatus != PaymentPendingAccounts {
		return dErrors.New(dErrors.CodePrecondition, "no payment awaiting accounts validation")
	}
	r.PaymentStatus = PaymentApproved
	return nil
}

// RejectPayment is the Accounts stage declining a received payment. The
// request is dead-ended: the applicant must submit a new request.
func (r *VerificationRequest) RejectPayment(now time.Time) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if r.PaymentStatus != PaymentPendingAccounts {
		return dErrors.New(dErrors.CodePrecondition, "no payment awaiting accounts validation")
	}
	r.PaymentStatus = PaymentRejected
	r.ApplicationStatus = "Payment Rejected"
	return nil
}

// Approve finalizes the request with a confirmation artifact. Requires the
// payment axis resolved (or a fee-waived requester).
func (r *VerificationRequest) Approve(doc GeneratedDocument, now time.Time) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if !r.PaymentResolved() {
		return dErrors.New(dErrors.CodePrecondition, "payment must be validated by accounts before verification")
	}
	if r.RejectionDocument != nil {
		return dErrors.New(dErrors.CodePrecondition, "request already carries a rejection document")
	}
	r.ApprovedDocument = &doc
	r.VerificationStatus = VerificationCompleted
	r.ApplicationStatus = "Completed"
	t := now
	r.VerificationDate = &t
	return nil
}

// Reject finalizes the request with a rejection artifact and reason. There is
// no payment precondition: a request can be rejected at any non-terminal
// stage.
func (r *VerificationRequest) Reject(doc GeneratedDocument, reason string, now time.Time) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}
	if r.ApprovedDocument != nil {
		return dErrors.New(dErrors.CodePrecondition, "request already carries an approval document")
	}
	r.RejectionDocument = &doc
	r.RejectionReason = reason
	r.VerificationStatus = VerificationRejected
	r.ApplicationStatus = "Rejected"
	t := now
	r.RejectionDate = &t
	return nil
}

// Forward routes the request to external reviewers. Addresses are validated
// by the caller; the transition only records them.
func (r *VerificationRequest) Forward(reviewers []string, now time.Time) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if len(reviewers) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one reviewer email is required")
	}
	r.VerificationStatus = VerificationInProcess
	r.ApplicationStatus = "In Review"
	r.ForwardedTo = append([]string{}, reviewers...)
	t := now
	r.ForwardedDate = &t
	return nil
}
