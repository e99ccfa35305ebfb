package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dantemoss/moss/internal/config"
	"github.com/dantemoss/moss/internal/mailer"
)

// maxBodyBytes bounds the request body; the largest legitimate payload
// is well under this.
const maxBodyBytes = 64 << 10

// Handler handles HTTP requests for the contact endpoint
type Handler struct {
	service *Service
	cfg     *config.Config
	logger  *slog.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(service *Service, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, cfg: cfg, logger: logger}
}

// Submit handles POST /api/contact
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "All fields are required", "")
		return
	}

	meta := RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}

	if err := h.service.Process(r.Context(), req, meta); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Message sent successfully",
	})
}

// handleServiceError maps pipeline errors to HTTP responses. Validation
// failures carry field-specific messages; everything else stays generic.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	v := h.cfg.Validation
	switch {
	case errors.Is(err, ErrMissingFields):
		h.writeError(w, http.StatusBadRequest, "All fields are required", "")
	case errors.Is(err, ErrNameTooLong):
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Name cannot exceed %d characters", v.MaxNameLength), "")
	case errors.Is(err, ErrEmailTooLong):
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Email cannot exceed %d characters", v.MaxEmailLength), "")
	case errors.Is(err, ErrMessageTooLong):
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Message cannot exceed %d characters", v.MaxMessageLength), "")
	case errors.Is(err, ErrInvalidEmail):
		h.writeError(w, http.StatusBadRequest, "Invalid email format", "")
	case errors.Is(err, ErrBlockedContent):
		h.writeError(w, http.StatusBadRequest, "The message contains content that is not allowed", "")
	case errors.Is(err, ErrSuspiciousContent):
		h.writeError(w, http.StatusBadRequest, "The message contains suspicious content", "")
	case errors.Is(err, ErrTooManySubmits):
		h.writeError(w, http.StatusTooManyRequests, "Too many messages sent. Please try again later.", "")
	case errors.Is(err, mailer.ErrNotConfigured):
		h.writeError(w, http.StatusInternalServerError, "Email configuration is not available", "")
	default:
		h.logger.Error("Contact submission failed", "error", err)
		details := ""
		if h.cfg.IsDevelopment() {
			details = err.Error()
		}
		h.writeError(w, http.StatusInternalServerError, "Internal server error. Please try again.", details)
	}
}

// writeJSON writes a JSON response body
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, message, details string) {
	h.writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// clientIP extracts the client IP address from the request, handling
// X-Forwarded-For and X-Real-IP for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}
