// Package corelog provides the go-kit/log wiring shared by every core
// component that needs to emit a diagnostic on a data-driven failure
// path: invariant-violating inputs are discarded with a diagnostic log
// line, not an error return.
package corelog

import (
	"io"
	"os"

	"github.com/go-kit/log"
)

// NewNop returns a logger that discards everything. Core components
// default to this so the data structures never require an application
// shell to exist before they can be constructed.
func NewNop() log.Logger {
	return log.NewNopLogger()
}

// NewLogfmt builds a logfmt logger writing to w, with a UTC timestamp and
// caller value bound on every line.
func NewLogfmt(w io.Writer) log.Logger {
	base := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// NewStderr is a convenience constructor for the common case.
func NewStderr() log.Logger {
	return NewLogfmt(os.Stderr)
}
