// Package transform rewrites the elements of a string tree in place.
package transform

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mholzen/narytree/pkg/tree"
)

type Transformer func(string) (string, error)

var BuiltinTransformers = map[string]Transformer{
	"lowercase":      Lowercase,
	"uppercase":      Uppercase,
	"capitalize":     Capitalize,
	"title":          TitleCase,
	"trim":           Trim,
	"no-punctuation": RemovePunctuation,
	"no-whitespace":  RemoveWhitespace,
}

func ListBuiltins() []string {
	names := make([]string, 0, len(BuiltinTransformers))
	for name := range BuiltinTransformers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Resolve(name string) (Transformer, error) {
	t, ok := BuiltinTransformers[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform: %s (available: %s)",
			name, strings.Join(ListBuiltins(), ", "))
	}
	return t, nil
}

// Result records one element change. Unchanged elements produce no result.
type Result struct {
	Position tree.Position[string] `json:"-"`
	Depth    int                   `json:"depth"`
	Original string                `json:"original"`
	New      string                `json:"new"`
	Applied  bool                  `json:"applied"`
	Error    error                 `json:"error,omitempty"`
}

func (r Result) String() string {
	if r.Error != nil {
		return fmt.Sprintf("%q (skipped: %v)", r.Original, r.Error)
	}
	status := "→"
	if !r.Applied {
		status = "→ (dry-run)"
	}
	return fmt.Sprintf("%q %s %q", r.Original, status, r.New)
}

// Collect runs t over the subtree at start in pre-order, down to maxDepth
// levels below start (negative for unlimited).
func Collect(nt tree.NAryTree[string], start tree.Position[string], t Transformer, maxDepth int) ([]Result, error) {
	var results []Result
	err := collect(nt, start, t, 0, maxDepth, &results)
	return results, err
}

func collect(nt tree.NAryTree[string], p tree.Position[string], t Transformer, depth, maxDepth int, results *[]Result) error {
	if maxDepth >= 0 && depth > maxDepth {
		return nil
	}
	original := p.Element()
	transformed, err := t(original)
	switch {
	case err != nil:
		*results = append(*results, Result{Position: p, Depth: depth, Original: original, Error: err})
	case transformed != original:
		*results = append(*results, Result{Position: p, Depth: depth, Original: original, New: transformed})
	}

	children, err := nt.Children(p)
	if err != nil {
		return fmt.Errorf("cannot transform: %w", err)
	}
	for _, child := range children {
		if err := collect(nt, child, t, depth+1, maxDepth, results); err != nil {
			return err
		}
	}
	return nil
}

// Apply replaces every collected element that did not fail.
func Apply(nt tree.NAryTree[string], results []Result) error {
	for i := range results {
		r := &results[i]
		if r.Error != nil {
			continue
		}
		if _, err := nt.Replace(r.Position, r.New); err != nil {
			return fmt.Errorf("cannot replace %q: %w", r.Original, err)
		}
		r.Applied = true
	}
	return nil
}

// Substitute returns a transformer replacing every match of pattern; the
// replacement may refer to groups as $1 or ${name}.
func Substitute(pattern, replacement string, ignoreCase bool) (Transformer, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return func(s string) (string, error) {
		return re.ReplaceAllString(s, replacement), nil
	}, nil
}

func Lowercase(s string) (string, error) {
	return strings.ToLower(s), nil
}

func Uppercase(s string) (string, error) {
	return strings.ToUpper(s), nil
}

func Trim(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

func Capitalize(s string) (string, error) {
	if len(s) == 0 {
		return s, nil
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), nil
}

func TitleCase(s string) (string, error) {
	return cases.Title(language.English).String(s), nil
}

func RemovePunctuation(s string) (string, error) {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s), nil
}

func RemoveWhitespace(s string) (string, error) {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s), nil
}

func UnescapeSeparator(s string) string {
	s = strings.ReplaceAll(s, "\\n", "\n")
	s = strings.ReplaceAll(s, "\\t", "\t")
	return s
}

// Split breaks text on separator. With skipEmpty, parts are trimmed and
// blank parts dropped.
func Split(text, separator string, skipEmpty bool) []string {
	parts := strings.Split(text, separator)
	if !skipEmpty {
		return parts
	}
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// SplitInto adds every part of p's element as a new last child of p and
// returns the new positions. An element without the separator is left alone.
func SplitInto(nt tree.NAryTree[string], p tree.Position[string], separator string) ([]tree.Position[string], error) {
	parts := Split(p.Element(), UnescapeSeparator(separator), true)
	if len(parts) < 2 {
		return nil, nil
	}
	added := make([]tree.Position[string], 0, len(parts))
	for _, part := range parts {
		child, err := nt.Add(part, p)
		if err != nil {
			return added, fmt.Errorf("cannot split: %w", err)
		}
		added = append(added, child)
	}
	return added, nil
}
