package vectordb

// EmbeddingRecord is one chunk of text together with its embedding, keyed by
// a caller-assigned stable ID.
type EmbeddingRecord struct {
	ID          string
	Text        string
	Path        string
	ChunkIndex  int
	TotalChunks int
	MimeType    string
	Section     string
	PageNumber  int
	Embedding   []float32
}

// SearchResult is a chunk returned from a nearest-neighbor query, ordered by
// ascending distance to the query vector.
type SearchResult struct {
	ID          string
	Text        string
	Path        string
	ChunkIndex  int
	TotalChunks int
	MimeType    string
	Section     string
	PageNumber  int
	Distance    float64
}
