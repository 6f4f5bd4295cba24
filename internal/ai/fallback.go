package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const fallbackPrompt = `Classify the following civic complaint into exactly one of these categories: %s.
Assign a severity score from 1 (minor) to 5 (emergency) and a confidence between 0 and 1.
Reply with a single minified JSON object of the form {"category":"...","severity":3,"confidence":0.9,"reasoning":"..."} and nothing else.

Complaint: %s`

// LLMClassifier is the secondary provider: a chat-completion style endpoint
// driven by a strict-JSON prompt contract.
type LLMClassifier struct {
	url     string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewLLMClassifier builds the fallback provider client.
func NewLLMClassifier(url, apiKey, model string, timeout time.Duration) *LLMClassifier {
	return &LLMClassifier{
		url:     url,
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Classify sends the single-shot prompt and parses the model's reply as a
// Suggestion. Malformed JSON is a hard failure: with both providers exhausted
// the orchestrator falls back to "no suggestion".
func (c *LLMClassifier) Classify(ctx context.Context, text, imageURL string) (*Suggestion, error) {
	if c.url == "" {
		return nil, fmt.Errorf("fallback classifier url not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(fallbackPrompt, strings.Join(Categories, ", "), text)
	if imageURL != "" {
		prompt += "\nEvidence image: " + imageURL
	}

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fallback classifier returned status %d", resp.StatusCode)
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode fallback response: %w", err)
	}
	if len(reply.Choices) == 0 {
		return nil, fmt.Errorf("fallback classifier returned no choices")
	}

	raw := StripCodeFence(reply.Choices[0].Message.Content)
	var suggestion Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		return nil, fmt.Errorf("fallback reply is not valid JSON: %w", err)
	}
	if !suggestion.Valid() {
		return nil, fmt.Errorf("fallback returned invalid suggestion: category=%q severity=%d", suggestion.Category, suggestion.Severity)
	}
	return &suggestion, nil
}

// StripCodeFence removes a markdown code-fence wrapper, with or without a
// language tag, from an LLM reply.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
