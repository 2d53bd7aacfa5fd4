package chunker

import (
	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"

	"spyglass/internal/mimetype"
)

const pdfMime = "application/pdf"

// PdfChunker extracts plain text page by page, so every chunk carries its
// source page number.
type PdfChunker struct{}

func (PdfChunker) Extensions() []string { return []string{"pdf"} }

func (c PdfChunker) Claims(path string) bool {
	if claimsExtension(path, c.Extensions()) {
		return true
	}
	mime, err := mimetype.Detect(path)
	return err == nil && mime == pdfMime
}

func (c PdfChunker) Chunk(path string, size int64, cfg Config) ([]Chunk, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &FormatError{Format: "pdf", Err: err}
	}
	defer f.Close()

	var chunks []Chunk
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page doesn't fail the document.
			log.Debug("skipping unreadable pdf page", "path", path, "page", pageNum, "err", err)
			continue
		}

		for _, content := range chunkWords(maybeNormalize(text, cfg), cfg.ChunkSize, cfg.ChunkOverlap) {
			chunks = append(chunks, Chunk{
				Content:    content,
				Path:       path,
				Index:      len(chunks),
				PageNumber: pageNum,
				MimeType:   pdfMime,
			})
		}
	}
	return backfillTotals(chunks), nil
}
