package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEmbed(t *testing.T) {
	t.Run("returns the embedding vector", func(t *testing.T) {
		var gotPath, gotKey string
		var gotBody embedRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("x-goog-api-key")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			resp := map[string]any{
				"embedding": map[string]any{"values": []float64{0.1, 0.2, 0.3}},
			}
			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		}))
		defer server.Close()

		client := NewClient("test-key", "models/text-embedding-004", 3)
		client.BaseURL = server.URL

		vec, err := client.Embed(context.Background(), "hello world")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)

		assert.Equal(t, "/models/text-embedding-004:embedContent", gotPath)
		assert.Equal(t, "test-key", gotKey)
		assert.Equal(t, "models/text-embedding-004", gotBody.Model)
		require.Len(t, gotBody.Content.Parts, 1)
		assert.Equal(t, "hello world", gotBody.Content.Parts[0].Text)
		assert.Equal(t, "RETRIEVAL_DOCUMENT", gotBody.TaskType)
	})

	t.Run("rejects blank text without a request", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		client := NewClient("test-key", DefaultModel, 3)
		client.BaseURL = server.URL

		for _, text := range []string{"", "   ", "\n\t"} {
			_, err := client.Embed(context.Background(), text)
			assert.Error(t, err)
		}
		assert.Zero(t, requests)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewClient("test-key", DefaultModel, 3)
		client.BaseURL = server.URL

		_, err := client.Embed(context.Background(), "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("wrong vector size is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resp := map[string]any{
				"embedding": map[string]any{"values": []float64{0.1, 0.2}},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		}))
		defer server.Close()

		client := NewClient("test-key", DefaultModel, 3)
		client.BaseURL = server.URL

		_, err := client.Embed(context.Background(), "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 3")
	})

	t.Run("malformed response body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient("test-key", DefaultModel, 3)
		client.BaseURL = server.URL

		_, err := client.Embed(context.Background(), "hello")
		assert.Error(t, err)
	})
}
