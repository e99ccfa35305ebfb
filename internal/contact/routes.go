package contact

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the contact pipeline routes with the Chi
// router. The router mounts these under /api; the edge guard runs first.
func RegisterRoutes(r chi.Router, handler *Handler, testEmail *TestEmailHandler) {
	// POST /api/contact - submit a contact message
	r.Post("/contact", handler.Submit)

	// GET /api/test-email - diagnostic send, 404ed by the edge denylist
	r.Get("/test-email", testEmail.Send)
}
