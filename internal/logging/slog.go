package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Attribute keys shared by the client and server log lines.
const (
	KeyRequestID = "request_id"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Log output formats accepted by Setup.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup builds a logger writing to w and installs it as the slog default.
// The stdio transport owns stdout, so callers pass os.Stderr there.
func Setup(w io.Writer, debug bool, format string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (want %q or %q)", format, FormatText, FormatJSON)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// RequestID returns the attribute for the X-Request-Id of a mutating
// Todoist request.
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// Err returns a slog attribute for an error. A nil err yields an empty
// group, which handlers drop, so Err(maybeNil) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken describes a Todoist API token by its length only.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
