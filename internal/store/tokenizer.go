package store

import "strings"

// BuildTrigrams decomposes s into overlapping 3-character tokens joined by
// spaces, so FTS5 sees each window as a separate token. Inputs shorter than
// 3 characters become a single whole-string token.
func BuildTrigrams(s string) string {
	runes := []rune(s)
	if len(runes) < 3 {
		return s
	}

	tokens := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		tokens = append(tokens, string(runes[i:i+3]))
	}
	return strings.Join(tokens, " ")
}

// BuildMatchQuery renders the trigram decomposition of s as an FTS5 MATCH
// expression, double-quoting every token so punctuation in the query (dots,
// hyphens) cannot read as MATCH syntax.
func BuildMatchQuery(s string) string {
	runes := []rune(s)
	if len(runes) < 3 {
		return quoteToken(s)
	}

	tokens := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		tokens = append(tokens, quoteToken(string(runes[i:i+3])))
	}
	return strings.Join(tokens, " ")
}

func quoteToken(tok string) string {
	return `"` + strings.ReplaceAll(tok, `"`, `""`) + `"`
}

// BuildDocText combines the trigram decompositions of a file's name, path,
// and extension into the single doc_text string stored in the lexical index.
func BuildDocText(name, path, extension string) string {
	parts := []string{
		BuildTrigrams(name),
		BuildTrigrams(path),
		BuildTrigrams(extension),
	}
	return strings.Join(parts, " ")
}
