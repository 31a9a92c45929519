package intent

import (
	"testing"
)

func TestExtractTokenizes(t *testing.T) {
	fs := Extract("  List MY S3 Buckets ")

	if fs.RawLowered != "list my s3 buckets" {
		t.Errorf("expected lowered trimmed text, got %q", fs.RawLowered)
	}
	for _, word := range []string{"list", "my", "s3", "buckets"} {
		if !fs.Has(word) {
			t.Errorf("expected token %q", word)
		}
	}
	if fs.Has("List") {
		t.Error("tokens should be lower-cased")
	}
}

func TestExtractCollapsesDuplicates(t *testing.T) {
	fs := Extract("list list list buckets")
	if len(fs.Tokens) != 2 {
		t.Errorf("expected 2 distinct tokens, got %d", len(fs.Tokens))
	}
}

func TestExtractEmptyInput(t *testing.T) {
	tests := []string{"", "   ", "\t\n"}
	for _, input := range tests {
		fs := Extract(input)
		if len(fs.Tokens) != 0 {
			t.Errorf("Extract(%q): expected empty token set, got %v", input, fs.Tokens)
		}
	}
}

func TestExtractPunctuationBoundaries(t *testing.T) {
	fs := Extract("list objects in 'mybucket123'!")
	if !fs.Has("mybucket123") {
		t.Error("expected quoted identifier to tokenize")
	}
}
