package markdown

import (
	"fmt"
	"strings"

	"github.com/mholzen/narytree/pkg/collections"
)

type NestedListGenerator struct {
	Prefix string
	Indent string
}

func (g NestedListGenerator) indent() string {
	if g.Indent == "" {
		return "  "
	}
	return g.Indent
}

// GenerateNestedList renders data and its descendants one node per line,
// indenting each level below indentLevel.
func GenerateNestedList[T any](data collections.TreeProvider[T], indentLevel int, generator NestedListGenerator) string {
	var b strings.Builder
	writeNestedList(&b, data, indentLevel, generator)
	return b.String()
}

func writeNestedList[T any](b *strings.Builder, data collections.TreeProvider[T], indentLevel int, generator NestedListGenerator) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(generator.indent(), indentLevel))
	b.WriteString(generator.Prefix)
	b.WriteString(fmt.Sprint(data.Node()))
	for child := range data.Children() {
		writeNestedList(b, child, indentLevel+1, generator)
	}
}

func GenerateNestedUL[T any](data collections.TreeProvider[T], indentLevel int) string {
	return GenerateNestedList(data, indentLevel, NestedListGenerator{Prefix: "- "})
}
