package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalState indicates an operation the tree's current state forbids,
	// such as adding a second root.
	ErrIllegalState = errors.New("illegal tree state")

	// ErrInvalidPosition indicates a position that was not issued by this tree,
	// belongs to another representation, or refers to a removed node.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrIndexOutOfRange indicates a child index outside 0..childCount.
	ErrIndexOutOfRange = errors.New("child index out of range")

	// ErrUnsupported indicates an operation a tree variant does not provide.
	ErrUnsupported = errors.New("operation not supported")

	// ErrIncompatibleRepresentation indicates a tree argument of another
	// representation than the receiver.
	ErrIncompatibleRepresentation = errors.New("incompatible tree representation")

	// ErrEmptyTree is returned by queries that need a root.
	ErrEmptyTree = fmt.Errorf("%w: tree is empty", ErrIllegalState)
)
