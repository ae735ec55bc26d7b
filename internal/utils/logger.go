package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with the fields blogdata logs posts by
type Logger struct {
	zerolog.Logger
}

// LoggerOptions contains options for creating a logger
type LoggerOptions struct {
	// Level is debug, info, warn (or warning) or error; anything else is info
	Level string
	// Format is "pretty" for the console writer, otherwise JSON lines
	Format string
	// Output defaults to stderr so stdout only carries records
	Output  io.Writer
	Verbose bool
}

// NewLogger creates a logger writing to opts.Output
func NewLogger(opts LoggerOptions) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	return &Logger{Logger: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// ParseLevel maps a config level name to a zerolog level. Names are case
// insensitive; trace, fatal, panic and unknown names fall back to info.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	switch level {
	case zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel:
		return level
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) with(ctx zerolog.Context) *Logger {
	return &Logger{Logger: ctx.Logger()}
}

// WithComponent returns a logger with a component field
func (l *Logger) WithComponent(component string) *Logger {
	return l.with(l.Logger.With().Str("component", component))
}

// WithURL returns a logger tagged with a post URL and its host
func (l *Logger) WithURL(url string) *Logger {
	ctx := l.Logger.With().Str("url", url)
	if host := GetDomain(url); host != "" {
		ctx = ctx.Str("host", host)
	}
	return l.with(ctx)
}

// WithDigest returns a logger tagged with a manifest digest
func (l *Logger) WithDigest(digest string) *Logger {
	return l.with(l.Logger.With().Str("digest", digest))
}

// PostSkipped logs a post left out of the build and why
func (l *Logger) PostSkipped(url string, reason error) {
	l.WithURL(url).Warn().Err(reason).Msg("Skipping post")
}
