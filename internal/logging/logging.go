// Package logging builds the [slog.Logger] used by the hostcorsd binary.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Log levels. TRACE sits below DEBUG for very detailed logging.
const (
	LevelTrace = slog.LevelDebug - 4 // -8
	LevelDebug = slog.LevelDebug     // -4
	LevelInfo  = slog.LevelInfo      // 0
	LevelWarn  = slog.LevelWarn      // 4
	LevelError = slog.LevelError     // 8
)

// ParseLevel converts a string to a slog.Level.
// Valid values: TRACE, DEBUG, INFO, WARN, WARNING, ERROR.
// It returns a non-nil error of type [*InvalidLevelError]
// if the level string is not recognized.
func ParseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, &InvalidLevelError{Level: levelStr}
	}
}

// InvalidLevelError is returned when ParseLevel receives an invalid level string.
type InvalidLevelError struct {
	Level string
}

func (e *InvalidLevelError) Error() string {
	return "unknown log level: " + e.Level + " (valid: TRACE, DEBUG, INFO, WARN, ERROR)"
}

// New returns a logger that writes colorized records of at least the
// specified level to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:       level,
		TimeFormat:  time.TimeOnly,
		ReplaceAttr: replaceLevelName,
	}))
}

// NewFromString is like [New] but parses levelStr with [ParseLevel] first.
func NewFromString(w io.Writer, levelStr string) (*slog.Logger, error) {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	return New(w, level), nil
}

// replaceLevelName renders LevelTrace as "TRC" rather than "DBG-4".
func replaceLevelName(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) != 0 {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
		return slog.String(slog.LevelKey, "TRC")
	}
	return a
}

// Err is a re-export of tint.Err for convenient error formatting in log attributes.
// Usage: logger.Error("message", logging.Err(err))
var Err = tint.Err
