package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable marks the verification service as unreachable or degraded.
// Callers fail open on it: the handler's requested status is applied as-is.
var ErrUnavailable = errors.New("verification service unavailable")

// Verdict is the resolution verification result.
type Verdict struct {
	Verified  bool    `json:"verified"`
	Score     float64 `json:"confidence_score"`
	Reasoning string  `json:"reasoning"`
	Summary   string  `json:"ai_summary"`
}

// Verifier decides whether a claimed resolution actually addresses the
// original complaint.
type Verifier interface {
	VerifyResolution(ctx context.Context, complaintText, resolutionText, evidenceImageURL string) (*Verdict, error)
}

// HTTPVerifier calls the remote verification service.
type HTTPVerifier struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPVerifier builds the verifier client.
func NewHTTPVerifier(url string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type verifyRequest struct {
	ComplaintText    string `json:"complaint_text"`
	ResolutionText   string `json:"resolution_text"`
	EvidenceImageURL string `json:"evidence_image_url,omitempty"`
}

// VerifyResolution compares the original complaint against the handler's
// claim within the configured deadline. Any transport failure, timeout or
// non-2xx response collapses into ErrUnavailable.
func (v *HTTPVerifier) VerifyResolution(ctx context.Context, complaintText, resolutionText, evidenceImageURL string) (*Verdict, error) {
	if v.url == "" {
		return nil, ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	payload, err := json.Marshal(verifyRequest{
		ComplaintText:    complaintText,
		ResolutionText:   resolutionText,
		EvidenceImageURL: evidenceImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var verdict Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return &verdict, nil
}
