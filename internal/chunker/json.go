package chunker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"spyglass/internal/mimetype"
)

const jsonMime = "application/json"

// smallObjectKeys is the key count at or below which an object is kept
// together as one chunk instead of being decomposed key-by-key.
const smallObjectKeys = 5

// JSONChunker decomposes JSON documents along their structure: small objects
// collapse into one chunk, larger objects recurse key-by-key with dotted
// section paths, arrays recurse per element.
type JSONChunker struct{}

func (JSONChunker) Extensions() []string { return []string{"json"} }

func (c JSONChunker) Claims(path string) bool {
	if claimsExtension(path, c.Extensions()) {
		return true
	}
	mime, err := mimetype.Detect(path)
	return err == nil && mime == jsonMime
}

func (c JSONChunker) Chunk(path string, size int64, cfg Config) ([]Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, &FormatError{Format: "json", Err: fmt.Errorf("invalid document in %s", path)}
	}

	chunks, err := chunkJSONValue(json.RawMessage(bytes.TrimSpace(data)), path)
	if err != nil {
		return nil, &FormatError{Format: "json", Err: err}
	}

	// Indexes are contiguous only after the recursion settles.
	for i := range chunks {
		chunks[i].Index = i
	}
	return backfillTotals(chunks), nil
}

func chunkJSONValue(raw json.RawMessage, path string) ([]Chunk, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case '{':
		return chunkJSONObject(raw, path)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		var chunks []Chunk
		for i, item := range items {
			sub, err := chunkJSONValue(item, path)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, prefixSections(sub, fmt.Sprintf("array_item_%d", i))...)
		}
		return chunks, nil
	default:
		return []Chunk{{Content: string(raw), Path: path, MimeType: jsonMime}}, nil
	}
}

func chunkJSONObject(raw json.RawMessage, path string) ([]Chunk, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	if len(fields) <= smallObjectKeys {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			return nil, err
		}
		return []Chunk{{Content: pretty.String(), Path: path, MimeType: jsonMime}}, nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var chunks []Chunk
	for _, key := range keys {
		value := bytes.TrimSpace(fields[key])
		if len(value) > 0 && (value[0] == '{' || value[0] == '[') {
			sub, err := chunkJSONValue(value, path)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, prefixSections(sub, key)...)
			continue
		}
		chunks = append(chunks, Chunk{
			Content:  fmt.Sprintf("%q : %s", key, compactJSON(value)),
			Path:     path,
			Section:  key,
			MimeType: jsonMime,
		})
	}
	return chunks, nil
}

// prefixSections threads the parent key into each chunk's section path.
func prefixSections(chunks []Chunk, prefix string) []Chunk {
	for i := range chunks {
		if chunks[i].Section == "" {
			chunks[i].Section = prefix
		} else {
			chunks[i].Section = prefix + "." + chunks[i].Section
		}
	}
	return chunks
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
