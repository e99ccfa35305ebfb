package contact

import "errors"

// ContactRequest is the POST /api/contact body. Ownership of the
// submission transfers to this endpoint; nothing is persisted after the
// dispatch attempt.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// RequestMeta carries request metadata forwarded into the owner
// notification for abuse triage.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Service errors, mapped to HTTP responses by the handler
var (
	ErrMissingFields     = errors.New("missing required fields")
	ErrNameTooLong       = errors.New("name exceeds maximum length")
	ErrEmailTooLong      = errors.New("email exceeds maximum length")
	ErrMessageTooLong    = errors.New("message exceeds maximum length")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrBlockedContent    = errors.New("message contains blocked content")
	ErrSuspiciousContent = errors.New("message contains suspicious content")
	ErrTooManySubmits    = errors.New("submission rate limit exceeded")
)

// successResponse is the 200 body
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorResponse is the 4xx/5xx body. Details is only populated in
// development mode.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
