// Package search finds nodes of a string tree by substring or regexp.
package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mholzen/narytree/pkg/tree"
)

type Result struct {
	Position        tree.Position[string] `json:"-"`
	Name            string                `json:"name"`
	HighlightedName string                `json:"highlighted_name"`
	Depth           int                   `json:"depth"`
	MatchPositions  []MatchPosition       `json:"match_positions"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s- %s", strings.Repeat("  ", r.Depth), r.HighlightedName)
}

type MatchPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Search walks the subtree at start in pre-order and returns every node whose
// element matches pattern. Depth is relative to start.
func Search(nt tree.NAryTree[string], start tree.Position[string], pattern string, useRegexp, ignoreCase bool) ([]Result, error) {
	if useRegexp {
		if _, err := CompileRegexp(pattern, ignoreCase); err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}
	var results []Result
	err := collectSearchResults(nt, start, 0, pattern, useRegexp, ignoreCase, &results)
	return results, err
}

func collectSearchResults(nt tree.NAryTree[string], p tree.Position[string], depth int, pattern string, useRegexp, ignoreCase bool, results *[]Result) error {
	name := p.Element()
	matchPositions := FindMatches(name, pattern, useRegexp, ignoreCase)

	if len(matchPositions) > 0 {
		*results = append(*results, Result{
			Position:        p,
			Name:            name,
			HighlightedName: HighlightMatches(name, matchPositions),
			Depth:           depth,
			MatchPositions:  matchPositions,
		})
	}

	children, err := nt.Children(p)
	if err != nil {
		return fmt.Errorf("cannot search: %w", err)
	}
	for _, child := range children {
		if err := collectSearchResults(nt, child, depth+1, pattern, useRegexp, ignoreCase, results); err != nil {
			return err
		}
	}
	return nil
}

func FindMatches(text, pattern string, useRegexp, ignoreCase bool) []MatchPosition {
	var positions []MatchPosition

	if useRegexp {
		re, err := CompileRegexp(pattern, ignoreCase)
		if err != nil {
			return positions
		}
		for _, match := range re.FindAllStringIndex(text, -1) {
			if match[0] == match[1] {
				continue
			}
			positions = append(positions, MatchPosition{Start: match[0], End: match[1]})
		}
		return positions
	}

	if pattern == "" {
		return positions
	}
	searchText := text
	searchPattern := pattern
	if ignoreCase {
		searchText = strings.ToLower(text)
		searchPattern = strings.ToLower(pattern)
		if len(searchText) != len(text) {
			// lowering changed byte offsets; fall back to a folded regexp
			return FindMatches(text, regexp.QuoteMeta(pattern), true, true)
		}
	}

	start := 0
	for {
		index := strings.Index(searchText[start:], searchPattern)
		if index == -1 {
			break
		}
		absIndex := start + index
		positions = append(positions, MatchPosition{Start: absIndex, End: absIndex + len(searchPattern)})
		start = absIndex + len(searchPattern)
	}
	return positions
}

func CompileRegexp(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

func HighlightMatches(text string, positions []MatchPosition) string {
	if len(positions) == 0 {
		return text
	}

	var result strings.Builder
	lastEnd := 0
	for _, pos := range positions {
		result.WriteString(text[lastEnd:pos.Start])
		result.WriteString("**")
		result.WriteString(text[pos.Start:pos.End])
		result.WriteString("**")
		lastEnd = pos.End
	}
	result.WriteString(text[lastEnd:])
	return result.String()
}
