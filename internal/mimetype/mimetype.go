// Package mimetype detects a file's content type from magic bytes,
// falling back to the extension and a plain-text heuristic.
package mimetype

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	magic "github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of the file we read for signature matching.
const sniffLen = 8192

// OctetStream is returned when nothing else matches.
const OctetStream = "application/octet-stream"

// extToMime maps known extensions (without dot) to MIME types. Used when
// magic-byte detection comes up empty, which is common for plain formats
// that have no signature.
var extToMime = map[string]string{
	"txt":  "text/plain",
	"text": "text/plain",
	"log":  "text/plain",
	"md":   "text/markdown",
	"mdx":  "text/markdown",
	"json": "application/json",
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"doc":  "application/msword",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"csv":  "text/csv",
	"xml":  "application/xml",
	"js":   "application/javascript",
	"ts":   "application/typescript",
	"py":   "text/x-python",
	"go":   "text/x-go",
	"rs":   "text/rust",
	"yaml": "application/yaml",
	"yml":  "application/yaml",
}

// Detect returns the best-guess MIME type for the file at path. It reads up
// to the first 8 KiB and matches magic-byte signatures; on no match it falls
// back to the extension table, then to a printable-ASCII heuristic. Detection
// never fails: anything unrecognized degrades to application/octet-stream.
// Only I/O failures return an error.
func Detect(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	buf = buf[:n]

	// Plain text has no magic bytes; the library reports it from its own
	// heuristic, so a text/plain answer still defers to the extension table
	// (a .md file is text/markdown, not text/plain).
	detected := bareType(magic.Detect(buf).String())
	if detected != OctetStream && detected != "text/plain" {
		return detected, nil
	}

	if mime, ok := extToMime[normalizedExt(path)]; ok {
		return mime, nil
	}

	if detected == "text/plain" || looksLikeText(buf) {
		return "text/plain", nil
	}
	return OctetStream, nil
}

// FromExtension returns the MIME type for a path's extension, or "" when the
// extension is unknown. Useful when the file no longer exists on disk.
func FromExtension(path string) string {
	return extToMime[normalizedExt(path)]
}

func normalizedExt(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func bareType(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		return strings.TrimSpace(mime[:i])
	}
	return mime
}

// looksLikeText reports whether more than 80% of the sample is printable
// ASCII (including common whitespace).
func looksLikeText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	printable := 0
	for _, b := range buf {
		if (b >= 0x20 && b < 0x7f) || b == '\n' || b == '\r' || b == '\t' {
			printable++
		}
	}
	return float64(printable)/float64(len(buf)) > 0.8
}
