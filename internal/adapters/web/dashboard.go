package web

import (
	"net/http"

	"invoice-ledger/internal/app"
)

// metrics handles GET /api/metrics.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetDashboardMetrics(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, m)
}

// auditLogs handles GET /api/audit-logs.
func (h *Handler) auditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.ListAuditLogs(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, logs)
}

// aiQuery handles POST /api/ai/query.
func (h *Handler) aiQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := h.svc.AnswerQuery(r.Context(), req.Query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// sendMockEmail handles POST /api/mock-email/send.
func (h *Handler) sendMockEmail(w http.ResponseWriter, r *http.Request) {
	var req app.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.SendMockEmail(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Email sent successfully (mocked). Check server logs."})
}
