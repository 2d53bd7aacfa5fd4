package embedder

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOllama(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbedBatch(t *testing.T) {
	var gotModel string
	srv := fakeOllama(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model

		resp := embedResponse{Embeddings: make([][]float32, len(req.Input))}
		for i := range req.Input {
			resp.Embeddings[i] = []float32{float32(i)}
		}
		json.NewEncoder(w).Encode(resp)
	})

	e := NewOllamaEmbedder(srv.URL, "all-minilm")
	vecs, err := e.Embed([]string{"alpha", "beta"})
	require.NoError(t, err)

	assert.Equal(t, "all-minilm", gotModel)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1}, vecs[1])
}

func TestEmbedSplitsLargeBatches(t *testing.T) {
	var calls int
	srv := fakeOllama(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.LessOrEqual(t, len(req.Input), maxBatch)
		json.NewEncoder(w).Encode(embedResponse{Embeddings: make([][]float32, len(req.Input))})
	})

	texts := make([]string, maxBatch+5)
	for i := range texts {
		texts[i] = "t"
	}

	e := NewOllamaEmbedder(srv.URL, "all-minilm")
	vecs, err := e.Embed(texts)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Len(t, vecs, len(texts))
}

func TestEmbedEmptyInput(t *testing.T) {
	e := NewOllamaEmbedder("http://localhost:0", "all-minilm")
	vecs, err := e.Embed(nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedServerError(t *testing.T) {
	srv := fakeOllama(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	e := NewOllamaEmbedder(srv.URL, "missing")
	_, err := e.Embed([]string{"alpha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestPing(t *testing.T) {
	srv := fakeOllama(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, NewOllamaEmbedder(srv.URL, "all-minilm").Ping())
	assert.Error(t, NewOllamaEmbedder("http://127.0.0.1:1", "all-minilm").Ping())
}
