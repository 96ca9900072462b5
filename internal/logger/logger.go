package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var dev atomic.Bool

// Configure applies the loaded config: dev switches new loggers to a human
// readable console writer, level sets the global level. Call it once config
// is loaded and build component loggers afterwards.
func Configure(isDev bool, level string) {
	dev.Store(isDev)
	setLevel(level)
}

// New returns a logger tagged with the given component, JSON unless
// Configure selected the dev profile.
func New(component string) zerolog.Logger {
	return NewWithWriter(component, os.Stdout)
}

func NewWithWriter(component string, out io.Writer) zerolog.Logger {
	if dev.Load() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Str("component", component).Logger()
}

// setLevel sets the global level. Unknown values fall back to info.
func setLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
