// Package intent provides lightweight lexical intent analysis for cloud
// queries: tokenization, keyword scoring, and parameter extraction.
package intent

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// Extract lowers and tokenizes free text into a feature set. It is a pure
// function and never fails: an empty or malformed input simply yields an
// empty token set, which scores zero against every category downstream.
func Extract(text string) FeatureSet {
	lowered := strings.ToLower(strings.TrimSpace(text))

	tokens := make(map[string]bool)
	for _, word := range wordPattern.FindAllString(lowered, -1) {
		tokens[word] = true
	}

	return FeatureSet{
		Tokens:     tokens,
		RawLowered: lowered,
	}
}
