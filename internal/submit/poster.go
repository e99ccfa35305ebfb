package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dantemoss/moss/internal/validation"
)

const defaultPostTimeout = 15 * time.Second

// HTTPPoster delivers submissions to the contact endpoint as JSON.
type HTTPPoster struct {
	client *http.Client
	url    string
}

// NewHTTPPoster creates a poster for the given endpoint URL. A nil
// client gets a default with a request timeout.
func NewHTTPPoster(url string, client *http.Client) *HTTPPoster {
	if client == nil {
		client = &http.Client{Timeout: defaultPostTimeout}
	}
	return &HTTPPoster{client: client, url: url}
}

// Post sends the submission and returns an error for any non-200
// response, including the endpoint's error message when one is present.
func (p *HTTPPoster) Post(ctx context.Context, submission validation.ContactSubmission) error {
	body, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach contact endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			return fmt.Errorf("contact endpoint returned %d: %s", resp.StatusCode, payload.Error)
		}
		return fmt.Errorf("contact endpoint returned %d", resp.StatusCode)
	}
	return nil
}
