package rag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spyglass/internal/vectordb"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f fakeEmbedder) EmbedSingle(string) ([]float32, error) { return f.vec, f.err }

type fakeVectors struct {
	results  []vectordb.SearchResult
	gotQuery []float32
	gotK     int
}

func (f *fakeVectors) ReplaceForPath(string, []vectordb.EmbeddingRecord) error { return nil }
func (f *fakeVectors) DeleteByPath(string) error                               { return nil }
func (f *fakeVectors) Close() error                                            { return nil }

func (f *fakeVectors) Search(query []float32, k int) ([]vectordb.SearchResult, error) {
	f.gotQuery = query
	f.gotK = k
	return f.results, nil
}

func TestRetrieve(t *testing.T) {
	vectors := &fakeVectors{results: []vectordb.SearchResult{{ID: "1_chunk_0"}}}

	results, err := Retrieve("where is the report", vectors, fakeEmbedder{vec: []float32{1, 2}}, 5)
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 2}, vectors.gotQuery)
	assert.Equal(t, 5, vectors.gotK)
	require.Len(t, results, 1)
}

func TestRetrieveEmbedFailure(t *testing.T) {
	_, err := Retrieve("q", &fakeVectors{}, fakeEmbedder{err: errors.New("down")}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed question")
}

func TestRetrieveEmptyEmbedding(t *testing.T) {
	vectors := &fakeVectors{}

	_, err := Retrieve("q", vectors, fakeEmbedder{vec: []float32{}}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty vector")
	assert.Nil(t, vectors.gotQuery, "an empty embedding should never reach the vector store")
}

func TestBuildMessagesWithContext(t *testing.T) {
	chunks := []vectordb.SearchResult{
		{Path: "/docs/report.pdf", Text: "revenue grew", PageNumber: 3},
		{Path: "/docs/notes.md", Text: "install steps", Section: "Setup"},
	}

	msgs := BuildMessages(chunks, "what grew last year?")

	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[1].Content, "/docs/report.pdf (page 3)")
	assert.Contains(t, msgs[1].Content, "/docs/notes.md (section Setup)")
	assert.Contains(t, msgs[1].Content, "revenue grew")
	assert.Equal(t, "what grew last year?", msgs[3].Content)
}

func TestBuildMessagesWithoutContext(t *testing.T) {
	msgs := BuildMessages(nil, "anything indexed?")

	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
}
