// Package handler exposes the verification lifecycle over HTTP.
package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"eduverify/internal/verification/models"
	"eduverify/internal/verification/service"
	dErrors "eduverify/pkg/domain-errors"
	"eduverify/pkg/platform/httputil"
	"eduverify/pkg/platform/middleware/ratelimit"
	"eduverify/pkg/platform/middleware/staff"
	"eduverify/pkg/requestcontext"
)

// Handler serves the verification request endpoints.
type Handler struct {
	service *service.Service
	issuer  *staff.TokenIssuer
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

func NewHandler(svc *service.Service, issuer *staff.TokenIssuer, limiter *ratelimit.Limiter, logger *slog.Logger) *Handler {
	return &Handler{service: svc, issuer: issuer, limiter: limiter, logger: logger}
}

// Register mounts the routes. Payment validation requires an accounts staff
// token; verification decisions require an examination staff token. The
// public submission endpoint is rate limited per client.
func (h *Handler) Register(r chi.Router) {
	r.Post("/staff/token", h.StaffToken)

	r.Route("/requests", func(r chi.Router) {
		r.With(ratelimit.Middleware(h.limiter)).Post("/", h.Submit)
		r.Get("/", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/artifact", h.Artifact)
			r.Post("/payment", h.CompletePayment)

			r.Group(func(r chi.Router) {
				r.Use(staff.RequireDepartment(h.issuer, staff.DepartmentAccounts, h.logger))
				r.Post("/payment/approve", h.ApprovePayment)
				r.Post("/payment/reject", h.RejectPayment)
			})

			r.Group(func(r chi.Router) {
				r.Use(staff.RequireDepartment(h.issuer, staff.DepartmentExamination, h.logger))
				r.Post("/approve", h.Approve)
				r.Post("/reject", h.Reject)
				r.Post("/forward", h.Forward)
			})
		})
	})
}

// Submit handles POST /requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Submit(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

// List handles GET /requests. Applicants filter by their own identity via
// studentNumber or contactEmail; staff dashboards pass view=accounts or
// view=examination with a matching bearer token.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if view := q.Get("view"); view != "" {
		h.listStaffView(w, r, view)
		return
	}

	studentNumber := q.Get("studentNumber")
	contactEmail := q.Get("contactEmail")
	if studentNumber == "" && contactEmail == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
			"provide studentNumber or contactEmail, or a staff view"))
		return
	}

	records, err := h.service.ForApplicant(ctx, studentNumber, contactEmail)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) listStaffView(w http.ResponseWriter, r *http.Request, view string) {
	ctx := r.Context()

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "staff token required"))
		return
	}
	claims, err := h.issuer.Validate(token)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid staff token"))
		return
	}

	var (
		records []models.VerificationRequest
		listErr error
	)
	switch view {
	case staff.DepartmentAccounts:
		if claims.Department != staff.DepartmentAccounts {
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "wrong department"))
			return
		}
		records, listErr = h.service.AccountsQueue(ctx)
	case staff.DepartmentExamination:
		if claims.Department != staff.DepartmentExamination {
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "wrong department"))
			return
		}
		records, listErr = h.service.ExaminationQueue(ctx)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown view"))
		return
	}
	if listErr != nil {
		httputil.WriteError(w, listErr)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}

// Get handles GET /requests/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// Artifact handles GET /requests/{id}/artifact, serving the decision letter
// as a downloadable HTML document.
func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Artifact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	const prefix = "data:text/html;base64,"
	raw, decErr := base64.StdEncoding.DecodeString(strings.TrimPrefix(doc.DataURL, prefix))
	if !strings.HasPrefix(doc.DataURL, prefix) || decErr != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "stored artifact is unreadable"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// CompletePayment handles POST /requests/{id}/payment.
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.PayRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.CompletePayment(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// ApprovePayment handles POST /requests/{id}/payment/approve.
func (h *Handler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.ApprovePayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// RejectPayment handles POST /requests/{id}/payment/reject.
func (h *Handler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.RejectPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// Approve handles POST /requests/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ApproveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Approve(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// Reject handles POST /requests/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RejectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Reject(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// Forward handles POST /requests/{id}/forward.
func (h *Handler) Forward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ForwardRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Forward(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}
