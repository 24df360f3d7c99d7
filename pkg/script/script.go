// Package script runs a small line-oriented command language against a
// tree.NAryTree[string], labelling nodes by their element.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/mholzen/narytree/pkg/collections"
	"github.com/mholzen/narytree/pkg/markdown"
	"github.com/mholzen/narytree/pkg/search"
	"github.com/mholzen/narytree/pkg/transform"
	"github.com/mholzen/narytree/pkg/tree"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong number of arguments")
	ErrNotFound       = errors.New("no node with that label")
	ErrNoRegister     = errors.New("no such register")
)

type Options struct {
	// IgnoreCase matches labels with Unicode case folding.
	IgnoreCase bool
	// DryRun makes transform and sub report their changes without applying
	// them.
	DryRun bool
}

// Interpreter executes commands against one tree. Subtrees produced by
// extract and subtree are kept in named registers.
type Interpreter struct {
	tree      tree.NAryTree[string]
	registers map[string]tree.NAryTree[string]
	out       io.Writer
	options   Options
	fold      cases.Caser
	title     cases.Caser
}

func New(t tree.NAryTree[string], out io.Writer, options Options) *Interpreter {
	return &Interpreter{
		tree:      t,
		registers: map[string]tree.NAryTree[string]{},
		out:       out,
		options:   options,
		fold:      cases.Fold(),
		title:     cases.Title(language.English),
	}
}

func (in *Interpreter) Tree() tree.NAryTree[string] {
	return in.tree
}

// Run executes every line of r and stops at the first failing command.
func (in *Interpreter) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := in.Exec(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cannot read script: %w", err)
	}
	return nil
}

type command struct {
	minArgs, maxArgs int
	run              func(in *Interpreter, args []string) error
}

var commands = map[string]command{
	"root":      {1, 1, (*Interpreter).cmdRoot},
	"add":       {2, 3, (*Interpreter).cmdAdd},
	"remove":    {1, 1, (*Interpreter).cmdRemove},
	"swap":      {2, 2, (*Interpreter).cmdSwap},
	"replace":   {2, 2, (*Interpreter).cmdReplace},
	"title":     {1, 1, (*Interpreter).cmdTitle},
	"extract":   {2, 2, (*Interpreter).cmdExtract},
	"subtree":   {2, 2, (*Interpreter).cmdSubTree},
	"attach":    {2, 2, (*Interpreter).cmdAttach},
	"size":      {0, 1, (*Interpreter).cmdSize},
	"empty":     {0, 1, (*Interpreter).cmdEmpty},
	"preorder":  {0, 1, traversal(tree.PreOrderFrom[string])},
	"postorder": {0, 1, traversal(tree.PostOrderFrom[string])},
	"breadth":   {0, 1, traversal(tree.BreadthFirstFrom[string])},
	"children":  {1, 1, (*Interpreter).cmdChildren},
	"parent":    {1, 1, (*Interpreter).cmdParent},
	"leaf":      {1, 1, (*Interpreter).cmdLeaf},
	"depth":     {1, 1, (*Interpreter).cmdDepth},
	"height":    {1, 1, (*Interpreter).cmdHeight},
	"outline":   {0, 1, (*Interpreter).cmdOutline},
	"validate":  {0, 1, (*Interpreter).cmdValidate},
	"registers": {0, 0, (*Interpreter).cmdRegisters},
	"transform": {1, 2, (*Interpreter).cmdTransform},
	"split":     {2, 2, (*Interpreter).cmdSplit},
	"sub":       {2, 3, (*Interpreter).cmdSub},
	"find":      {1, 2, searcher(false)},
	"grep":      {1, 2, searcher(true)},
}

// Exec runs one command line. Blank lines and comments are ignored.
func (in *Interpreter) Exec(line string) error {
	fields, err := Fields(line)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return fmt.Errorf("%s: %w", name, ErrUsage)
	}
	slog.Debug("executing command", "command", name, "args", strings.Join(args, " "))
	if err := cmd.run(in, args); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (in *Interpreter) printf(format string, args ...any) {
	fmt.Fprintf(in.out, format, args...)
}

func (in *Interpreter) matches(element, label string) bool {
	if in.options.IgnoreCase {
		return in.fold.String(element) == in.fold.String(label)
	}
	return element == label
}

// find returns the first node labelled label in breadth-first order.
func (in *Interpreter) find(t tree.NAryTree[string], label string) (tree.Position[string], error) {
	for p := range t.All() {
		if in.matches(p.Element(), label) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
}

// target resolves an optional argument: none means the main tree from its
// root, "@name" a register from its root, anything else a label in the main
// tree. A nil position means the target tree is empty.
func (in *Interpreter) target(args []string) (tree.NAryTree[string], tree.Position[string], error) {
	t := in.tree
	if len(args) == 1 && strings.HasPrefix(args[0], "@") {
		reg, ok := in.registers[strings.TrimPrefix(args[0], "@")]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoRegister, args[0])
		}
		t = reg
	} else if len(args) == 1 {
		p, err := in.find(t, args[0])
		return t, p, err
	}
	if t.IsEmpty() {
		return t, nil, nil
	}
	root, err := t.Root()
	return t, root, err
}

func (in *Interpreter) cmdRoot(args []string) error {
	_, err := in.tree.AddRoot(args[0])
	return err
}

func (in *Interpreter) cmdAdd(args []string) error {
	parent, err := in.find(in.tree, args[1])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		_, err = in.tree.Add(args[0], parent)
		return err
	}
	index, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[2], err)
	}
	_, err = in.tree.AddAt(args[0], parent, index)
	return err
}

func (in *Interpreter) cmdRemove(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	return in.tree.Remove(p)
}

func (in *Interpreter) cmdSwap(args []string) error {
	a, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	b, err := in.find(in.tree, args[1])
	if err != nil {
		return err
	}
	return in.tree.SwapElements(a, b)
}

func (in *Interpreter) cmdReplace(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	_, err = in.tree.Replace(p, args[1])
	return err
}

func (in *Interpreter) cmdTitle(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	_, err = in.tree.Replace(p, in.title.String(p.Element()))
	return err
}

func (in *Interpreter) cmdExtract(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	extracted, err := in.tree.Extract(p)
	if err != nil {
		return err
	}
	in.registers[args[1]] = extracted
	slog.Debug("extracted subtree", "register", args[1], "size", extracted.Size())
	return nil
}

func (in *Interpreter) cmdSubTree(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	view, err := in.tree.SubTree(p)
	if err != nil {
		return err
	}
	in.registers[args[1]] = view
	return nil
}

func (in *Interpreter) cmdAttach(args []string) error {
	parent, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	donor, ok := in.registers[args[1]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRegister, args[1])
	}
	if err := in.tree.Attach(parent, donor); err != nil {
		return err
	}
	delete(in.registers, args[1])
	return nil
}

func (in *Interpreter) cmdSize(args []string) error {
	t, p, err := in.target(args)
	if err != nil {
		return err
	}
	if len(args) == 1 && !strings.HasPrefix(args[0], "@") {
		view, err := t.SubTree(p)
		if err != nil {
			return err
		}
		t = view
	}
	in.printf("%d\n", t.Size())
	return nil
}

func (in *Interpreter) cmdEmpty(args []string) error {
	_, p, err := in.target(args)
	if err != nil {
		return err
	}
	in.printf("%t\n", p == nil)
	return nil
}

func traversal(walk func(tree.NAryTree[string], tree.Position[string]) ([]tree.Position[string], error)) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		t, start, err := in.target(args)
		if err != nil {
			return err
		}
		if start == nil {
			in.printf("\n")
			return nil
		}
		positions, err := walk(t, start)
		if err != nil {
			return err
		}
		in.printf("%s\n", strings.Join(tree.Elements(positions), " "))
		return nil
	}
}

func (in *Interpreter) cmdChildren(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	children, err := in.tree.Children(p)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		return nil
	}
	in.printf("%s\n", markdown.GenerateOL(tree.Elements(children)))
	return nil
}

func (in *Interpreter) cmdParent(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	parent, err := in.tree.Parent(p)
	if err != nil {
		return err
	}
	if parent == nil {
		in.printf("(root)\n")
		return nil
	}
	in.printf("%s\n", parent.Element())
	return nil
}

func (in *Interpreter) cmdLeaf(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	leaf, err := in.tree.IsLeaf(p)
	if err != nil {
		return err
	}
	in.printf("%t\n", leaf)
	return nil
}

func (in *Interpreter) cmdDepth(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	depth, err := tree.Depth(in.tree, p)
	if err != nil {
		return err
	}
	in.printf("%d\n", depth)
	return nil
}

func (in *Interpreter) cmdHeight(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	height, err := tree.Height(in.tree, p)
	if err != nil {
		return err
	}
	in.printf("%d\n", height)
	return nil
}

func (in *Interpreter) cmdOutline(args []string) error {
	t, start, err := in.target(args)
	if err != nil {
		return err
	}
	if start == nil {
		return nil
	}
	snapshot, err := tree.Snapshot(t, start)
	if err != nil {
		return err
	}
	in.printf("%s\n", markdown.GenerateNestedUL[string](snapshot, 0))
	return nil
}

func (in *Interpreter) cmdValidate(args []string) error {
	t, _, err := in.target(args)
	if err != nil {
		return err
	}
	if err := tree.Validate(t); err != nil {
		return err
	}
	if !t.IsEmpty() {
		root, err := t.Root()
		if err != nil {
			return err
		}
		snapshot, err := tree.Snapshot(t, root)
		if err != nil {
			return err
		}
		if count := collections.CountNodes[string](snapshot); count != t.Size() {
			return fmt.Errorf("size %d but snapshot holds %d nodes", t.Size(), count)
		}
	}
	in.printf("ok\n")
	return nil
}

// cmdRegisters lists the registers in name order with their sizes.
func (in *Interpreter) cmdRegisters(args []string) error {
	names := slices.Sorted(maps.Keys(in.registers))
	if len(names) == 0 {
		return nil
	}
	items := make([]string, 0, len(names))
	for _, name := range names {
		items = append(items, fmt.Sprintf("@%s (%d nodes)", name, in.registers[name].Size()))
	}
	in.printf("%s\n", markdown.GenerateUL(items))
	return nil
}

// cmdTransform rewrites every element below the target with a builtin.
func (in *Interpreter) cmdTransform(args []string) error {
	f, err := transform.Resolve(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	return in.transform(args[0], f, args[1:])
}

// cmdSub replaces regexp matches in every element below the target.
func (in *Interpreter) cmdSub(args []string) error {
	f, err := transform.Substitute(args[0], args[1], in.options.IgnoreCase)
	if err != nil {
		return err
	}
	return in.transform("sub", f, args[2:])
}

func (in *Interpreter) transform(name string, f transform.Transformer, args []string) error {
	t, start, err := in.target(args)
	if err != nil || start == nil {
		return err
	}
	results, err := transform.Collect(t, start, f, -1)
	if err != nil {
		return err
	}
	if !in.options.DryRun {
		if err := transform.Apply(t, results); err != nil {
			return err
		}
	}
	for _, r := range results {
		in.printf("%s\n", r)
	}
	slog.Debug("transformed elements", "transform", name, "changed", len(results), "dry-run", in.options.DryRun)
	return nil
}

func (in *Interpreter) cmdSplit(args []string) error {
	p, err := in.find(in.tree, args[0])
	if err != nil {
		return err
	}
	_, err = transform.SplitInto(in.tree, p, args[1])
	return err
}

func searcher(useRegexp bool) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		t, start, err := in.target(args[1:])
		if err != nil || start == nil {
			return err
		}
		results, err := search.Search(t, start, args[0], useRegexp, in.options.IgnoreCase)
		if err != nil {
			return err
		}
		for _, r := range results {
			in.printf("%s\n", r)
		}
		return nil
	}
}
