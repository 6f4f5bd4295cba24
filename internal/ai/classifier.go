package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Classifier produces a category/severity suggestion for a complaint text
// and optional evidence image reference.
type Classifier interface {
	Classify(ctx context.Context, text, imageURL string) (*Suggestion, error)
}

// HTTPClassifier calls the primary classification service.
type HTTPClassifier struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPClassifier builds the primary provider client.
func NewHTTPClassifier(url string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type classifyRequest struct {
	Text     string `json:"text"`
	ImageRef string `json:"imageRef,omitempty"`
}

// Classify posts the complaint to the primary provider within the configured
// deadline. A timeout is indistinguishable from a hard failure for callers.
func (c *HTTPClassifier) Classify(ctx context.Context, text, imageURL string) (*Suggestion, error) {
	if c.url == "" {
		return nil, fmt.Errorf("classifier url not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(classifyRequest{Text: text, ImageRef: imageURL})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	if !suggestion.Valid() {
		return nil, fmt.Errorf("classifier returned invalid suggestion: category=%q severity=%d", suggestion.Category, suggestion.Severity)
	}
	return &suggestion, nil
}
