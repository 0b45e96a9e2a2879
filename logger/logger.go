// Package logger provides the process-wide logger shared by all
// components.
//
// The root logger uses github.com/rs/zerolog with a console writer and is
// silenced under `go test` so solver traces do not pollute test output.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var root zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	root = zerolog.New(output).With().Timestamp().Logger()

	if strings.HasSuffix(os.Args[0], ".test") {
		root = zerolog.Nop()
	}
}

// SetOutput changes the output of the global logger.
func SetOutput(w io.Writer) {
	root = root.Output(w)
}

// Set overrides the global logger.
func Set(l zerolog.Logger) {
	root = l
}

// Disable disables logging.
func Disable() {
	root = zerolog.Nop()
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return root
}

// With returns a sublogger tagged with a component name.
func With(component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}
