// Package repr selects a tree representation by name.
package repr

import (
	"fmt"
	"strings"

	"github.com/mholzen/narytree/pkg/lcrs"
	"github.com/mholzen/narytree/pkg/linked"
	"github.com/mholzen/narytree/pkg/tree"
)

const Default = linked.Representation

// Names lists the available representations in a stable order.
func Names() []string {
	return []string{linked.Representation, lcrs.Representation}
}

// New returns an empty tree of the named representation.
func New[E any](name string) (tree.NAryTree[E], error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case linked.Representation, "child-list":
		return linked.New[E](), nil
	case lcrs.Representation, "left-child-right-sibling":
		return lcrs.New[E](), nil
	default:
		return nil, fmt.Errorf("unknown representation %q (must be one of: %s)", name, strings.Join(Names(), ", "))
	}
}
