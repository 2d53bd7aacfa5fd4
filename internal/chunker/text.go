package chunker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"spyglass/internal/mimetype"
)

// largeFileBytes is the size above which files are streamed line-by-line
// instead of read whole.
const largeFileBytes = 10_000_000

// maxLineBytes bounds a single scanned line when streaming.
const maxLineBytes = 1 << 20

// TextChunker handles plain text. It must be registered last: it also claims
// anything that sniffs as text/plain.
type TextChunker struct{}

func (TextChunker) Extensions() []string { return []string{"txt", "text", "log"} }

func (c TextChunker) Claims(path string) bool {
	if claimsExtension(path, c.Extensions()) {
		return true
	}
	mime, err := mimetype.Detect(path)
	return err == nil && mime == "text/plain"
}

func (TextChunker) Chunk(path string, size int64, cfg Config) ([]Chunk, error) {
	if size > largeFileBytes {
		return chunkLargeText(path, cfg, "text/plain")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	contents := chunkWords(maybeNormalize(string(data), cfg), cfg.ChunkSize, cfg.ChunkOverlap)
	chunks := make([]Chunk, 0, len(contents))
	for i, content := range contents {
		chunks = append(chunks, Chunk{
			Content:  content,
			Path:     path,
			Index:    i,
			MimeType: "text/plain",
		})
	}
	return backfillTotals(chunks), nil
}

// chunkLargeText streams a file line-by-line, flushing a chunk once the
// rolling buffer reaches ChunkSize lines and retaining the trailing
// ChunkOverlap lines as the seed of the next chunk.
func chunkLargeText(path string, cfg Config, mime string) ([]Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var chunks []Chunk
	var buffer []string
	for scanner.Scan() {
		buffer = append(buffer, scanner.Text())
		if len(buffer) < cfg.ChunkSize {
			continue
		}

		chunks = append(chunks, Chunk{
			Content:  maybeNormalize(strings.Join(buffer, "\n"), cfg),
			Path:     path,
			Index:    len(chunks),
			MimeType: mime,
		})
		buffer = retainOverlap(buffer, cfg.ChunkOverlap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	if len(buffer) > 0 {
		chunks = append(chunks, Chunk{
			Content:  maybeNormalize(strings.Join(buffer, "\n"), cfg),
			Path:     path,
			Index:    len(chunks),
			MimeType: mime,
		})
	}
	return backfillTotals(chunks), nil
}

// retainOverlap keeps the trailing overlap lines of a flushed buffer.
func retainOverlap(buffer []string, overlap int) []string {
	if overlap <= 0 || overlap >= len(buffer) {
		return nil
	}
	tail := buffer[len(buffer)-overlap:]
	next := make([]string, len(tail))
	copy(next, tail)
	return next
}

// claimsExtension reports whether the path's extension is in exts.
func claimsExtension(path string, exts []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
