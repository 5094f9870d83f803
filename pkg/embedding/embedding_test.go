package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCohere_GetEmbeddings(t *testing.T) {
	var got cohereEmbedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embed", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":         "abc",
			"embeddings": [][]float32{{0.1, 0.2, 0.3}},
		})
	}))
	defer srv.Close()

	c := NewCohere(srv.URL, "secret", "", 5*time.Second)
	vecs, err := c.GetEmbeddings(context.Background(), []string{"hello"}, InputSearchDocument)
	require.NoError(t, err)

	assert.Equal(t, [][]float32{{0.1, 0.2, 0.3}}, vecs)
	assert.Equal(t, DefaultCohereModel, got.Model)
	assert.Equal(t, []string{"hello"}, got.Texts)
	assert.Equal(t, InputSearchDocument, got.InputType)
}

func TestNewCohere_DefaultBaseURL(t *testing.T) {
	c := NewCohere("", "secret", "", time.Second)
	assert.Equal(t, DefaultCohereBaseURL, c.client.BaseURL)
	assert.Equal(t, DefaultCohereModel, c.model)
}

func TestCohere_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid api token"})
	}))
	defer srv.Close()

	c := NewCohere(srv.URL, "bad", "embed-english-v3.0", 5*time.Second)
	_, err := c.GetEmbeddings(context.Background(), []string{"hello"}, InputSearchQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api token")
}

func TestCohere_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"embeddings": [][]float32{}})
	}))
	defer srv.Close()

	c := NewCohere(srv.URL, "k", "", 5*time.Second)
	_, err := c.GetEmbeddings(context.Background(), []string{"a"}, InputSearchDocument)
	assert.Error(t, err)
}

func TestTEI_GetEmbeddings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)
		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		out := make([][]float32, len(req.Inputs))
		for i := range req.Inputs {
			out[i] = []float32{float32(i), 1}
		}
		writeJSON(w, http.StatusOK, out)
	}))
	defer srv.Close()

	c := NewTEI(srv.URL, 5*time.Second)
	vecs, err := c.GetEmbeddings(context.Background(), []string{"a", "b"}, InputSearchDocument)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}}, vecs)
}

func TestTEI_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewTEI(srv.URL, 5*time.Second)
	_, err := c.GetEmbeddings(context.Background(), []string{"a"}, InputSearchDocument)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestParseInputType(t *testing.T) {
	it, err := ParseInputType("search_query")
	require.NoError(t, err)
	assert.Equal(t, InputSearchQuery, it)

	_, err = ParseInputType("search")
	assert.Error(t, err)
}

func TestCheckDimension(t *testing.T) {
	assert.NoError(t, CheckDimension(make([]float32, 1024), 1024))

	err := CheckDimension(make([]float32, 768), 1024)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}
