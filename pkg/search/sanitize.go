package search

import "strings"

const maxQueryLength = 100

// SanitizeFTSQuery escapes FTS5 special characters and wraps the input in
// quotes for literal matching. FTS5 has its own query language with operators
// (AND, OR, NOT, *, NEAR(), :, ", etc.) which the engine interprets even in
// parameterized queries, so user input has to be treated as a literal phrase.
func SanitizeFTSQuery(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > maxQueryLength {
		input = input[:maxQueryLength]
	}
	if input == "" {
		return ""
	}

	input = strings.ReplaceAll(input, `"`, `""`)

	return `"` + input + `"`
}

// BuildPrefixQuery creates an FTS5 query for typeahead/prefix search. It
// sanitizes the input and appends a wildcard for prefix matching.
func BuildPrefixQuery(userInput string) string {
	sanitized := SanitizeFTSQuery(userInput)
	if sanitized == "" {
		return ""
	}
	// Prefix wildcard goes outside the quotes: "user query"*
	return sanitized + "*"
}
