package rag

import (
	"fmt"
	"strings"

	"spyglass/internal/llm"
	"spyglass/internal/vectordb"
)

const systemPrompt = `You are a local document assistant. You answer questions about the user's files using the retrieved document excerpts provided below.

Reference the file paths, sections, and page numbers of the excerpts you draw on. Keep answers concise and grounded in the provided context. If the context doesn't contain enough information to answer, say so.`

// QueryEmbedder turns a question into a query vector.
type QueryEmbedder interface {
	EmbedSingle(text string) ([]float32, error)
}

// Retrieve embeds the question and returns the k nearest chunks.
func Retrieve(question string, vectors vectordb.VectorStore, emb QueryEmbedder, k int) ([]vectordb.SearchResult, error) {
	vec, err := emb.EmbedSingle(question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embed question: model returned an empty vector")
	}
	results, err := vectors.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}

// BuildMessages constructs the message list for the LLM from retrieved chunks
// and the current question.
func BuildMessages(chunks []vectordb.SearchResult, question string) []llm.Message {
	msgs := []llm.Message{{Role: "system", Content: systemPrompt}}

	if len(chunks) > 0 {
		var ctx strings.Builder
		ctx.WriteString("Here are the relevant document excerpts:\n\n")
		for i, c := range chunks {
			fmt.Fprintf(&ctx, "--- Excerpt %d: %s%s ---\n", i+1, c.Path, locationOf(c))
			ctx.WriteString(c.Text)
			ctx.WriteString("\n\n")
		}
		msgs = append(msgs, llm.Message{Role: "user", Content: ctx.String()})
		msgs = append(msgs, llm.Message{Role: "assistant", Content: "I've reviewed the excerpts. What would you like to know?"})
	}

	msgs = append(msgs, llm.Message{Role: "user", Content: question})
	return msgs
}

func locationOf(c vectordb.SearchResult) string {
	var parts []string
	if c.Section != "" {
		parts = append(parts, "section "+c.Section)
	}
	if c.PageNumber > 0 {
		parts = append(parts, fmt.Sprintf("page %d", c.PageNumber))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
