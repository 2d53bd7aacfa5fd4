package chunker

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"spyglass/internal/mimetype"
)

// MarkdownChunker splits markdown on header boundaries, chunking each section
// with the word window. Flat documents (no headers) degrade to plain word
// windows.
type MarkdownChunker struct{}

func (MarkdownChunker) Extensions() []string { return []string{"md", "markdown", "mdx"} }

func (c MarkdownChunker) Claims(path string) bool {
	if claimsExtension(path, c.Extensions()) {
		return true
	}
	mime, err := mimetype.Detect(path)
	return err == nil && (mime == "text/markdown" || mime == "text/x-markdown")
}

func (c MarkdownChunker) Chunk(path string, size int64, cfg Config) ([]Chunk, error) {
	if size > largeFileBytes {
		return chunkLargeMarkdown(path, cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	content := maybeNormalize(string(data), cfg)

	sections := extractSections(content)
	if len(sections) <= 1 {
		// Single flat section: structural boundaries add nothing.
		contents := chunkWords(content, cfg.ChunkSize, cfg.ChunkOverlap)
		chunks := make([]Chunk, 0, len(contents))
		for i, text := range contents {
			chunks = append(chunks, Chunk{
				Content:  text,
				Path:     path,
				Index:    i,
				MimeType: "text/markdown",
			})
		}
		return backfillTotals(chunks), nil
	}

	var chunks []Chunk
	for _, sec := range sections {
		for _, text := range chunkWords(sec.body, cfg.ChunkSize, cfg.ChunkOverlap) {
			chunks = append(chunks, Chunk{
				Content:  text,
				Path:     path,
				Index:    len(chunks),
				Section:  sec.title,
				MimeType: "text/markdown",
			})
		}
	}
	return backfillTotals(chunks), nil
}

type section struct {
	title string
	body  string
}

// extractSections splits content at markdown headers. The header line stays
// with its section body; content before the first header lands in an
// implicit leading section.
func extractSections(content string) []section {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var sections []section
	title := "Introduction"
	var body strings.Builder

	flush := func() {
		if body.Len() > 0 {
			sections = append(sections, section{title: title, body: body.String()})
			body.Reset()
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "#") {
			flush()
			title = strings.TrimSpace(strings.TrimLeft(line, "# "))
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()

	return sections
}

// chunkLargeMarkdown streams a large markdown file, flushing on section
// boundaries and on the rolling buffer reaching ChunkSize lines.
func chunkLargeMarkdown(path string, cfg Config) ([]Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var chunks []Chunk
	var buffer []string
	sectionTitle := "Introduction"

	emit := func(keepOverlap bool) {
		if len(buffer) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Content:  maybeNormalize(strings.Join(buffer, "\n"), cfg),
			Path:     path,
			Index:    len(chunks),
			Section:  sectionTitle,
			MimeType: "text/markdown",
		})
		if keepOverlap {
			buffer = retainOverlap(buffer, cfg.ChunkOverlap)
		} else {
			buffer = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			// New section closes out whatever is buffered.
			emit(false)
			sectionTitle = strings.TrimSpace(strings.TrimLeft(line, "# "))
		}
		buffer = append(buffer, line)
		if len(buffer) >= cfg.ChunkSize {
			emit(true)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	emit(false)

	return backfillTotals(chunks), nil
}
