package mcp

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/google/btree"
	"github.com/mholzen/narytree/pkg/repr"
	"github.com/mholzen/narytree/pkg/script"
	"github.com/mholzen/narytree/pkg/tree"
)

// Workbench holds named trees, ordered by name, shared by every MCP
// session. Trees are not safe for concurrent use, so every access goes
// through the mutex.
type Workbench struct {
	mu          sync.Mutex
	defaultRepr string
	options     script.Options
	entries     *btree.BTree
}

type entry struct {
	name        string
	interpreter *script.Interpreter
	output      bytes.Buffer
}

func (e *entry) Less(than btree.Item) bool {
	return e.name < than.(*entry).name
}

// TreeInfo summarizes one workbench tree.
type TreeInfo struct {
	Name           string `json:"name"`
	Representation string `json:"representation"`
	Size           int    `json:"size"`
}

func NewWorkbench(defaultRepr string, options script.Options) *Workbench {
	if defaultRepr == "" {
		defaultRepr = repr.Default
	}
	return &Workbench{defaultRepr: defaultRepr, options: options, entries: btree.New(2)}
}

// Create adds an empty tree. An empty representation uses the default.
func (w *Workbench) Create(name, representation string) (TreeInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TreeInfo{}, fmt.Errorf("tree name is required")
	}
	if representation == "" {
		representation = w.defaultRepr
	}
	t, err := repr.New[string](representation)
	if err != nil {
		return TreeInfo{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.entries.Get(&entry{name: name}) != nil {
		return TreeInfo{}, fmt.Errorf("tree %q already exists", name)
	}
	e := &entry{name: name}
	e.interpreter = script.New(t, &e.output, w.options)
	w.entries.ReplaceOrInsert(e)
	return info(name, t), nil
}

// Exec runs a script against a tree and returns what it printed. Output
// produced before a failing line is returned along with the error.
func (w *Workbench) Exec(name, src string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, err := w.lookup(name)
	if err != nil {
		return "", err
	}
	e.output.Reset()
	runErr := e.interpreter.Run(strings.NewReader(src))
	return e.output.String(), runErr
}

// Show renders a tree in the given order: preorder, postorder, breadth or
// outline.
func (w *Workbench) Show(name, order string) (string, error) {
	switch order {
	case "", "breadth", "preorder", "postorder", "outline":
	default:
		return "", fmt.Errorf("order must be 'breadth', 'preorder', 'postorder' or 'outline'")
	}
	if order == "" {
		order = "breadth"
	}
	return w.Exec(name, order)
}

func (w *Workbench) Drop(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.entries.Delete(&entry{name: name}) == nil {
		return fmt.Errorf("no tree named %q", name)
	}
	return nil
}

func (w *Workbench) List() []TreeInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	infos := make([]TreeInfo, 0, w.entries.Len())
	w.entries.Ascend(func(i btree.Item) bool {
		e := i.(*entry)
		infos = append(infos, info(e.name, e.interpreter.Tree()))
		return true
	})
	return infos
}

func (w *Workbench) lookup(name string) (*entry, error) {
	item := w.entries.Get(&entry{name: name})
	if item == nil {
		return nil, fmt.Errorf("no tree named %q", name)
	}
	return item.(*entry), nil
}

func info(name string, t tree.NAryTree[string]) TreeInfo {
	return TreeInfo{Name: name, Representation: t.Representation(), Size: t.Size()}
}
