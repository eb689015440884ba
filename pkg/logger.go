package pkg

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the console logger used by the CLI. Debug events are
// emitted only when verbose is set; diagnostics go to stderr so they never
// mix with patched output.
func NewLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
