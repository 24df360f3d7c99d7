package script

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mholzen/narytree/pkg/repr"
)

// ErrMismatch is returned by Compare when representations disagree.
var ErrMismatch = errors.New("representations disagree")

type Result struct {
	Representation string
	Output         string
	Err            error
	Size           int
}

// Compare runs src once per named representation and checks that every run
// produced the same output, the same error text and the same final size.
// The results are returned even on mismatch.
func Compare(src string, names []string, options Options) ([]Result, error) {
	if len(names) == 0 {
		names = repr.Names()
	}
	results := make([]Result, 0, len(names))
	for _, name := range names {
		t, err := repr.New[string](name)
		if err != nil {
			return nil, err
		}
		var out bytes.Buffer
		in := New(t, &out, options)
		runErr := in.Run(strings.NewReader(src))
		results = append(results, Result{Representation: t.Representation(), Output: out.String(), Err: runErr, Size: t.Size()})
		slog.Debug("script run", "representation", name, "size", t.Size(), "error", runErr)
	}

	first := results[0]
	for _, r := range results[1:] {
		if r.Output != first.Output {
			return results, fmt.Errorf("%w: output of %s differs from %s", ErrMismatch, r.Representation, first.Representation)
		}
		if errorText(r.Err) != errorText(first.Err) {
			return results, fmt.Errorf("%w: %s failed with %q, %s with %q", ErrMismatch,
				r.Representation, errorText(r.Err), first.Representation, errorText(first.Err))
		}
		if r.Size != first.Size {
			return results, fmt.Errorf("%w: %s has %d nodes, %s has %d", ErrMismatch, r.Representation, r.Size, first.Representation, first.Size)
		}
	}
	return results, nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
