package commands

import (
	"errors"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Tokenize splits a marker-stripped command line into words using shell
// quoting rules. Quoted substrings stay one token with their whitespace, and
// a backslash escapes the next character.
//
// Input that ends inside a quote is closed at end of line, so the rest of the
// line becomes the quoted token. A trailing lone backslash is kept literally.
func Tokenize(line string) []string {
	input := line
	// Each repair fixes one unterminated construct; three covers an escape
	// inside an open quote.
	for attempt := 0; attempt < 3; attempt++ {
		words, err := shellquote.Split(input)
		if err == nil {
			if words == nil {
				return []string{}
			}
			return words
		}
		switch {
		case errors.Is(err, shellquote.UnterminatedEscapeError):
			input += `\`
		case errors.Is(err, shellquote.UnterminatedDoubleQuoteError):
			if trailingBackslashes(input)%2 == 1 {
				input += `\`
			}
			input += `"`
		case errors.Is(err, shellquote.UnterminatedSingleQuoteError):
			input += `'`
		default:
			return strings.Fields(line)
		}
	}
	return strings.Fields(line)
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}
