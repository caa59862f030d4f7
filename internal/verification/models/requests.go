package models

import (
	"fmt"
	"strings"

	dErrors "eduverify/pkg/domain-errors"
	"eduverify/pkg/email"
)

// SubmitRequest is the applicant-facing payload for creating a verification
// request. Fee fields are computed server-side and ignored if supplied.
type SubmitRequest struct {
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	StudentNumber string        `json:"studentNumber"`
	ContactEmail  string        `json:"contactEmail"`
	SchoolName    string        `json:"schoolName"`
	CampusName    string        `json:"campusName"`
	ProgramName   string        `json:"programName"`
	Stream        string        `json:"stream"`
	Semester      string        `json:"semester"`
	YearOfPassing int           `json:"yearOfPassing"`
	CGPA          string        `json:"cgpa"`
	RequesterRole RequesterRole `json:"requesterRole"`
	RequestType   RequestType   `json:"requestType"`
	Attachments   []Attachment  `json:"attachments"`
}

func (r *SubmitRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.StudentNumber = strings.TrimSpace(r.StudentNumber)
	r.ContactEmail = strings.TrimSpace(r.ContactEmail)
	r.SchoolName = strings.TrimSpace(r.SchoolName)
	r.CampusName = strings.TrimSpace(r.CampusName)
	r.ProgramName = strings.TrimSpace(r.ProgramName)
	r.Stream = strings.TrimSpace(r.Stream)
	r.Semester = strings.TrimSpace(r.Semester)
	r.CGPA = strings.TrimSpace(r.CGPA)
	r.RequesterRole = RequesterRole(strings.ToUpper(strings.TrimSpace(string(r.RequesterRole))))
	r.RequestType = RequestType(strings.ToUpper(strings.TrimSpace(string(r.RequestType))))
}

func (r *SubmitRequest) Validate() error {
	var missing []string
	if r.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if r.LastName == "" {
		missing = append(missing, "lastName")
	}
	if r.StudentNumber == "" {
		missing = append(missing, "studentNumber")
	}
	if r.SchoolName == "" {
		missing = append(missing, "schoolName")
	}
	if r.ProgramName == "" {
		missing = append(missing, "programName")
	}
	if r.YearOfPassing == 0 {
		missing = append(missing, "yearOfPassing")
	}
	if len(r.Attachments) == 0 {
		missing = append(missing, "attachments")
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	if !r.RequesterRole.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "requesterRole must be STUDENT, THIRD_PARTY or GOVT")
	}
	if !r.RequestType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "requestType must be REGULAR or URGENT")
	}
	if r.ContactEmail != "" && !email.IsValid(r.ContactEmail) {
		return dErrors.New(dErrors.CodeValidation, "contactEmail is not a valid address")
	}
	return nil
}

// PayRequest carries the simulated gateway fields. Nothing is charged; the
// card details only have to look plausible.
type PayRequest struct {
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
}

func (r *PayRequest) Normalize() {
	r.CardholderName = strings.TrimSpace(r.CardholderName)
	r.CardNumber = strings.ReplaceAll(strings.TrimSpace(r.CardNumber), " ", "")
}

func (r *PayRequest) Validate() error {
	if r.CardholderName == "" {
		return dErrors.New(dErrors.CodeValidation, "cardholderName is required")
	}
	if len(r.CardNumber) < 12 {
		return dErrors.New(dErrors.CodeValidation, "cardNumber must be at least 12 digits")
	}
	for _, c := range r.CardNumber {
		if c < '0' || c > '9' {
			return dErrors.New(dErrors.CodeValidation, "cardNumber must contain digits only")
		}
	}
	return nil
}

// ApproveRequest is the Examination approval payload. The examiner signs the
// confirmation letter; remarks are optional and appear on it when present.
type ApproveRequest struct {
	VerifiedBy string `json:"verifiedBy"`
	Remarks    string `json:"remarks"`
}

func (r *ApproveRequest) Normalize() {
	r.VerifiedBy = strings.TrimSpace(r.VerifiedBy)
	r.Remarks = strings.TrimSpace(r.Remarks)
}

func (r *ApproveRequest) Validate() error {
	if r.VerifiedBy == "" {
		return dErrors.New(dErrors.CodeValidation, "verifiedBy is required")
	}
	return nil
}

// RejectRequest is the Examination rejection payload. A reason is mandatory
// and is embedded in the rejection letter.
type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *RejectRequest) Validate() error {
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}

// ForwardRequest is the Examination forwarding payload. Emails is a
// semicolon-separated list of reviewer addresses.
type ForwardRequest struct {
	Emails string `json:"emails"`
}

func (r *ForwardRequest) Normalize() {
	r.Emails = strings.TrimSpace(r.Emails)
}

func (r *ForwardRequest) Validate() error {
	if r.Emails == "" {
		return dErrors.New(dErrors.CodeValidation, "emails is required")
	}
	return nil
}

// Reviewers parses and validates the address list. The whole forward is
// rejected when any entry is malformed, naming the offending addresses.
func (r *ForwardRequest) Reviewers() ([]string, error) {
	addrs := email.SplitList(r.Emails)
	if len(addrs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "emails contains no addresses")
	}
	valid, invalid := email.ValidateList(addrs)
	if len(invalid) > 0 {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("invalid reviewer emails: %s", strings.Join(invalid, ", ")))
	}
	return valid, nil
}
