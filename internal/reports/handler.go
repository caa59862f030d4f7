package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eduverify/internal/verification/service"
	dErrors "eduverify/pkg/domain-errors"
	"eduverify/pkg/platform/httputil"
	"eduverify/pkg/platform/middleware/admin"
	"eduverify/pkg/requestcontext"
)

// Handler serves the admin register export.
type Handler struct {
	service    *service.Service
	adminToken string
	logger     *slog.Logger
}

func NewHandler(svc *service.Service, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{service: svc, adminToken: adminToken, logger: logger}
}

// Register mounts the export endpoint behind the admin token gate.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/reports", func(r chi.Router) {
		r.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		r.Get("/export", h.Export)
	})
}

// Export handles GET /admin/reports/export?format=csv|xlsx|pdf.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	requests, err := h.service.ListAll(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stamp := requestcontext.Now(ctx).Format("2006-01-02")
	filename := "verification-register-" + stamp

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		err = WriteCSV(w, requests)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		err = WriteXLSX(w, requests)
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.pdf"`)
		err = WritePDF(w, requests)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "format must be csv, xlsx or pdf"))
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "report export failed",
			"format", format,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
