package chunker

import (
	"strings"

	"github.com/unidoc/unioffice/document"

	"spyglass/internal/mimetype"
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DocxChunker extracts paragraph text from Word documents and splits on
// heading-styled paragraphs. Documents without headings degrade to plain
// word windows over the full text.
type DocxChunker struct{}

func (DocxChunker) Extensions() []string { return []string{"docx", "doc"} }

func (c DocxChunker) Claims(path string) bool {
	if claimsExtension(path, c.Extensions()) {
		return true
	}
	mime, err := mimetype.Detect(path)
	return err == nil && (mime == docxMime || mime == "application/msword")
}

func (c DocxChunker) Chunk(path string, size int64, cfg Config) ([]Chunk, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, &FormatError{Format: "docx", Err: err}
	}

	sections := extractDocxSections(doc)

	if len(sections) <= 1 {
		var full strings.Builder
		for _, sec := range sections {
			full.WriteString(sec.body)
		}
		contents := chunkWords(maybeNormalize(full.String(), cfg), cfg.ChunkSize, cfg.ChunkOverlap)
		chunks := make([]Chunk, 0, len(contents))
		for i, text := range contents {
			chunks = append(chunks, Chunk{
				Content:  text,
				Path:     path,
				Index:    i,
				MimeType: docxMime,
			})
		}
		return backfillTotals(chunks), nil
	}

	var chunks []Chunk
	for _, sec := range sections {
		for _, text := range chunkWords(maybeNormalize(sec.body, cfg), cfg.ChunkSize, cfg.ChunkOverlap) {
			chunks = append(chunks, Chunk{
				Content:  text,
				Path:     path,
				Index:    len(chunks),
				Section:  sec.title,
				MimeType: docxMime,
			})
		}
	}
	return backfillTotals(chunks), nil
}

// extractDocxSections walks the document's paragraphs, starting a new section
// at every heading- or title-styled paragraph.
func extractDocxSections(doc *document.Document) []section {
	var sections []section
	title := ""
	var body strings.Builder

	flush := func() {
		if strings.TrimSpace(body.String()) != "" {
			sections = append(sections, section{title: title, body: body.String()})
			body.Reset()
		}
	}

	for _, para := range doc.Paragraphs() {
		text := paragraphText(para)
		if isHeadingStyle(paragraphStyle(para)) {
			flush()
			title = strings.TrimSpace(text)
			continue
		}
		body.WriteString(text)
		body.WriteByte('\n')
	}
	flush()

	return sections
}

func paragraphText(para document.Paragraph) string {
	var b strings.Builder
	for _, run := range para.Runs() {
		b.WriteString(run.Text())
	}
	return b.String()
}

func paragraphStyle(para document.Paragraph) string {
	props := para.X().PPr
	if props == nil || props.PStyle == nil {
		return ""
	}
	return props.PStyle.ValAttr
}

func isHeadingStyle(style string) bool {
	return strings.HasPrefix(style, "Heading") || style == "Title"
}
