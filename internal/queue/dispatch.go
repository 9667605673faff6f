package queue

import (
	"context"
	"fmt"
	"strings"
)

// Dispatcher hands a single entry to the external download tool and
// blocks until it finishes. A nil error means the tool exited zero.
// Implementations must not retry: retry happens naturally when the next
// run re-reads entries still present in the live file.
type Dispatcher interface {
	Dispatch(ctx context.Context, entry Entry) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, entry Entry) error

func (f DispatcherFunc) Dispatch(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

// DispatchError describes why the external tool failed for one entry.
type DispatchError struct {
	// ExitCode is the tool's exit status, or -1 if it did not run to
	// completion.
	ExitCode int
	// TimedOut reports that the per-entry timeout elapsed.
	TimedOut bool
	// Output is the tail of the tool's combined output, kept for
	// diagnostics.
	Output string
}

func (e *DispatchError) Error() string {
	if e.TimedOut {
		return "download tool timed out"
	}
	msg := fmt.Sprintf("download tool exited with code %d", e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// outputTailLimit bounds how much tool output a DispatchError carries.
const outputTailLimit = 800

// OutputTail trims combined output down to its last outputTailLimit
// bytes, on a line boundary where possible.
func OutputTail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) <= outputTailLimit {
		return s
	}
	s = s[len(s)-outputTailLimit:]
	if i := strings.IndexByte(s, '\n'); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}
	return s
}
