package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSections(t *testing.T) {
	content := "intro line\n# First\nbody one\n## Second\nbody two\n"

	sections := extractSections(content)

	require.Len(t, sections, 3)
	assert.Equal(t, "Introduction", sections[0].title)
	assert.Contains(t, sections[0].body, "intro line")
	assert.Equal(t, "First", sections[1].title)
	assert.Contains(t, sections[1].body, "# First")
	assert.Contains(t, sections[1].body, "body one")
	assert.Equal(t, "Second", sections[2].title)
}

func TestExtractSectionsEmpty(t *testing.T) {
	assert.Nil(t, extractSections("   \n  "))
}

func TestMarkdownChunkCarriesSectionTitles(t *testing.T) {
	path := writeTemp(t, "notes.md", "# Setup\ninstall the cli\n# Usage\nrun the indexer\n")

	chunks, err := MarkdownChunker{}.Chunk(path, 64, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Setup", chunks[0].Section)
	assert.Equal(t, "Usage", chunks[1].Section)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, 2, c.TotalChunks)
		assert.Equal(t, "text/markdown", c.MimeType)
	}
}

func TestMarkdownFlatDocumentDegradesToWindows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 3
	cfg.ChunkOverlap = 1
	path := writeTemp(t, "flat.md", "one two three four five")

	chunks, err := MarkdownChunker{}.Chunk(path, 23, cfg)
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "one two three", chunks[0].Content)
	assert.Equal(t, "three four five", chunks[1].Content)
	assert.Empty(t, chunks[0].Section)
}

func TestMarkdownSingleSectionHasNoTitle(t *testing.T) {
	// One header covering the whole document adds no structure worth keeping.
	path := writeTemp(t, "single.md", "# Only\nsome words here\n")

	chunks, err := MarkdownChunker{}.Chunk(path, 22, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].Section)
	assert.Contains(t, chunks[0].Content, "some words here")
}
