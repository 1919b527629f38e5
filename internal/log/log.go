// Package log is a thin adapter around glog with optional structured
// logging via slog.
//
// By default messages go to glog and use its flags. Structured logging is
// enabled only when the --log-fmt flag is explicitly set.
//
// The transactional hot paths never log. Logging is reserved for slow
// paths such as repeated aborts, watchdog lifecycle events and the CLI.
package log

import (
	"github.com/golang/glog"
	"github.com/spf13/pflag"
)

// Flush ensures any pending I/O is written.
var Flush = glog.Flush

// RegisterFlags installs the structured logging flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&logFormat, "log-fmt", "text", "format for structured logging output: json, logfmt or text")
	fs.StringVar(&logLevel, "log-level", "info", "minimum structured logging level: debug, info, warn or error")
}
