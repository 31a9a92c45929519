package command

import (
	"fmt"
	"strings"
)

// SplitWords splits a command line into argv words, honoring single and
// double quotes (quotes group, then drop; backticks inside quotes are plain
// characters, which keeps JMESPath literals intact).
func SplitWords(cmd string) ([]string, error) {
	var words []string
	var current strings.Builder
	inWord := false
	var quote rune

	for _, r := range cmd {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote in command", quote)
	}
	if inWord {
		words = append(words, current.String())
	}
	return words, nil
}
