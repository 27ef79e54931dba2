package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level  string    // "debug", "info", ...; falls back to LINTSCOPE_LOG_LEVEL, then "warn"
	Format string    // "console" or "json"; console is used on terminals by default
	Output io.Writer // defaults to os.Stderr
}

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
)

// Configure replaces the global logger. CLI entry points call it once after
// flag parsing; library code only ever derives children.
func Configure(cfg Config) error {
	levelName := cfg.Level
	if levelName == "" {
		levelName = os.Getenv("LINTSCOPE_LOG_LEVEL")
	}
	level := zerolog.WarnLevel
	if levelName != "" {
		parsed, err := zerolog.ParseLevel(levelName)
		if err != nil {
			return err
		}
		level = parsed
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	format := cfg.Format
	if format == "" {
		format = "json"
		if isTerminal(out) {
			format = "console"
		}
	}
	switch format {
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "json":
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", format)
	}

	zerolog.TimeFieldFormat = time.RFC3339

	mu.Lock()
	base = zerolog.New(out).Level(level).With().Timestamp().Logger()
	mu.Unlock()
	return nil
}

// Base returns the configured base logger.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
