package contact

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dantemoss/moss/internal/config"
	"github.com/dantemoss/moss/internal/mailer"
)

// TestEmailHandler sends a fixed diagnostic email. The edge guard 404s
// its route before it is reachable; it exists for local debugging with
// the denylist disabled.
type TestEmailHandler struct {
	mail   mailer.Mailer
	cfg    *config.Config
	logger *slog.Logger
}

// NewTestEmailHandler creates a TestEmailHandler
func NewTestEmailHandler(mail mailer.Mailer, cfg *config.Config, logger *slog.Logger) *TestEmailHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TestEmailHandler{mail: mail, cfg: cfg, logger: logger}
}

// Send handles GET /api/test-email
func (h *TestEmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Test email requested", "api_key_configured", h.cfg.Mail.APIKey != "")

	result, err := h.mail.Send(r.Context(), mailer.Email{
		From:    h.cfg.Mail.From,
		To:      []string{h.cfg.Mail.OwnerEmail},
		Subject: "Resend test - Portfolio",
		HTML:    "<p>This is a test email verifying that Resend works correctly.</p>",
		Text:    "This is a test email verifying that Resend works correctly.",
	})

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		h.logger.Error("Test email failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":            false,
			"error":              err.Error(),
			"api_key_configured": h.cfg.Mail.APIKey != "",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Test email sent successfully",
		"result":  result,
	})
}
