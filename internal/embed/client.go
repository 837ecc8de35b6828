// Package embed provides the embedding service client and vector helpers.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// DefaultBaseURL is the Gemini generative language API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is the embedding model documents are indexed with.
	DefaultModel = "models/text-embedding-004"
	// DefaultDimension is the vector size DefaultModel produces.
	DefaultDimension = 768
)

// Embedder converts text into a fixed-dimension vector. The searcher and
// the indexing pipeline depend on this capability, never on a concrete
// provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Client generates embeddings through the Gemini embedContent API.
type Client struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // every returned vector is validated against this
	client       *http.Client
}

// NewClient creates an embeddings client for the given model. Vectors of
// any size other than expectedSize are treated as failed responses.
func NewClient(apiKey, model string, expectedSize int) *Client {
	return &Client{
		BaseURL:      DefaultBaseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       http.DefaultClient,
	}
}

type embedRequest struct {
	Model    string  `json:"model"`
	Content  content `json:"content"`
	TaskType string  `json:"taskType,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// Embed returns the embedding vector for text. Empty or whitespace-only
// text is rejected before any request is made.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is empty, cannot generate embedding")
	}

	payload := embedRequest{
		Model:    c.Model,
		Content:  content{Parts: []part{{Text: text}}},
		TaskType: "RETRIEVAL_DOCUMENT",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:embedContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request returned status %d: %s", resp.StatusCode, string(raw))
	}

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(er.Embedding.Values) != c.ExpectedSize {
		return nil, fmt.Errorf("embedding has size %d, expected %d", len(er.Embedding.Values), c.ExpectedSize)
	}

	vec := make([]float32, len(er.Embedding.Values))
	for i, v := range er.Embedding.Values {
		vec[i] = float32(v)
	}
	return vec, nil
}
