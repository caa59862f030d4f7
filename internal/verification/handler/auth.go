package handler

import (
	"net/http"
	"strings"

	dErrors "eduverify/pkg/domain-errors"
	"eduverify/pkg/platform/httputil"
	"eduverify/pkg/requestcontext"
)

// StaffTokenRequest selects which department desk the token operates.
type StaffTokenRequest struct {
	Department string `json:"department"`
}

func (r *StaffTokenRequest) Normalize() {
	r.Department = strings.ToLower(strings.TrimSpace(r.Department))
}

func (r *StaffTokenRequest) Validate() error {
	if r.Department == "" {
		return dErrors.New(dErrors.CodeValidation, "department is required")
	}
	return nil
}

// StaffToken handles POST /staff/token. There is no credential check behind
// it; real staff authentication sits outside this service.
func (h *Handler) StaffToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[StaffTokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, err := h.issuer.Issue(req.Department, requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"token":      token,
		"department": req.Department,
	})
}
