package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGemini(t *testing.T, status int, resultJSON string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gc, ok := req["generationConfig"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "application/json", gc["response_mime_type"])

		if status >= 400 {
			http.Error(w, "quota exceeded", status)
			return
		}
		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{map[string]any{"text": resultJSON}},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
}

func TestGenerate(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `{"title":"Logo design","description":"Full brand identity package."}`)
	defer srv.Close()

	got, err := newTestClient(srv).Generate(context.Background(), "design a logo")
	require.NoError(t, err)
	assert.Equal(t, "Logo design", got.Title)
	assert.Equal(t, "Full brand identity package.", got.Description)
}

func TestGenerateStripsMarkup(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `{"title":"<b>Logo</b> design","description":"Brand <script>alert(1)</script> work"}`)
	defer srv.Close()

	got, err := newTestClient(srv).Generate(context.Background(), "design a logo")
	require.NoError(t, err)
	assert.Equal(t, "Logo design", got.Title)
	assert.NotContains(t, got.Description, "<script>")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `{}`)
	defer srv.Close()

	_, err := newTestClient(srv).Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

// Empty strings are valid output, but an absent field is a protocol error.
func TestGenerateMissingField(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `{"title":"Logo design"}`)
	defer srv.Close()

	_, err := newTestClient(srv).Generate(context.Background(), "design a logo")
	assert.ErrorIs(t, err, ErrGenerationFailed)

	srv2 := fakeGemini(t, http.StatusOK, `{"title":"","description":""}`)
	defer srv2.Close()

	got, err := newTestClient(srv2).Generate(context.Background(), "design a logo")
	require.NoError(t, err)
	assert.Empty(t, got.Title)
	assert.Empty(t, got.Description)
}

func TestGenerateUpstreamError(t *testing.T) {
	srv := fakeGemini(t, http.StatusTooManyRequests, "")
	defer srv.Close()

	_, err := newTestClient(srv).Generate(context.Background(), "design a logo")
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateMalformedResult(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `not json at all`)
	defer srv.Close()

	_, err := newTestClient(srv).Generate(context.Background(), "design a logo")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}
