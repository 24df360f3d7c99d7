package script

import (
	"fmt"
	"strings"
	"unicode"
)

// Fields splits a command line on whitespace. Double quotes group words and
// a # outside quotes starts a comment.
func Fields(line string) ([]string, error) {
	var fields []string
	var current strings.Builder
	inQuotes, inField := false, false

	flush := func() {
		if inField {
			fields = append(fields, current.String())
			current.Reset()
			inField = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			inField = true
		case inQuotes:
			current.WriteRune(r)
		case r == '#':
			flush()
			return fields, nil
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			inField = true
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	flush()
	return fields, nil
}
