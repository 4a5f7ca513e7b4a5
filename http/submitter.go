package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/domgrab"
)

// Ensure Submitter implements domgrab.Submitter at compile time.
var _ domgrab.Submitter = (*Submitter)(nil)

// Submission is the JSON body posted to a backend.
type Submission struct {
	URL       string          `json:"url"`
	Timestamp time.Time       `json:"timestamp"`
	Result    *domgrab.Output `json:"result"`
	PageHTML  string          `json:"pageHtml,omitempty"`
}

// Submitter posts extraction output to a backend endpoint.
type Submitter struct {
	client    *http.Client
	userAgent string
}

// NewSubmitter creates a new Submitter.
func NewSubmitter(opts ...Option) *Submitter {
	o := newOptions(opts)
	return &Submitter{client: o.client, userAgent: o.userAgent}
}

// Submit posts out to backendURL as a Submission. Any non-2xx response is
// an error carrying the start of the response body.
func (s *Submitter) Submit(ctx context.Context, backendURL string, out *domgrab.Output, pageHTML string) error {
	if backendURL == "" {
		return domgrab.Errorf(domgrab.EINVALID, "backend URL required")
	}
	if out == nil {
		return domgrab.Errorf(domgrab.EINVALID, "output required")
	}

	body, err := json.Marshal(Submission{
		URL:       out.SourceURL,
		Timestamp: out.Timestamp,
		Result:    out,
		PageHTML:  pageHTML,
	})
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, backendURL, bytes.NewReader(body))
	if err != nil {
		return domgrab.Errorf(domgrab.EINVALID, "invalid backend URL %q: %v", backendURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submitting to %s: %w", backendURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
