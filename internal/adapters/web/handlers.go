package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"invoice-ledger/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	adminUser string
	adminPass string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
		adminUser: os.Getenv("ADMIN_USERNAME"),
		adminPass: os.Getenv("ADMIN_PASSWORD"),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API (401 JSON if unauthenticated) ───────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// CSV upload: body limit is handled inside the handler (multipart).
		r.Post("/api/import/clients/csv", h.importClientsCSV)

		// All other endpoints: 1 MB body limit.
		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(1 << 20))

			r.Get("/api/auth/me", h.me)

			// Clients
			r.Post("/api/clients", h.createClient)
			r.Get("/api/clients", h.listClients)
			r.Put("/api/clients/{id}", h.updateClient)
			r.Delete("/api/clients/{id}", h.deleteClient)

			// Invoices & payments
			r.Post("/api/invoices", h.createInvoice)
			r.Get("/api/invoices", h.listInvoices)
			r.Get("/api/invoices/{id}", h.getInvoice)
			r.Put("/api/invoices/{id}/status", h.overrideInvoiceStatus)
			r.Post("/api/invoices/{id}/payments", h.recordPayment)
			r.Get("/api/invoices/{id}/pdf", h.invoicePDF)
			r.Get("/api/export/invoices/csv", h.exportInvoicesCSV)

			// Dashboard
			r.Get("/api/metrics", h.metrics)
			r.Get("/api/audit-logs", h.auditLogs)

			// AI
			r.Post("/api/ai/query", h.aiQuery)

			// Email
			r.Post("/api/mock-email/send", h.sendMockEmail)
		})
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the RequestBodyLimit; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
