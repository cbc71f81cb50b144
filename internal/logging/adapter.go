package logging

import (
	"context"
	"log/slog"
)

// Messages of the Todoist client's debug lines.
const (
	MsgAPIRequest = "todoist request"
	MsgAPIRefused = "todoist refused request"
)

// APILogger is what the Todoist client logs through. It reports two
// events: a request going out, and a status request Todoist refused
// because the item is missing or already in the requested state.
type APILogger interface {
	Request(ctx context.Context, method, route, requestID string)
	Refused(ctx context.Context, method, route string, status int)
}

// SlogAPILogger writes APILogger events to an slog.Logger at debug level,
// tagged component=todoist.
type SlogAPILogger struct {
	logger *slog.Logger
}

// NewAPILogger wraps logger. If logger is nil, slog.Default() is used.
func NewAPILogger(logger *slog.Logger) *SlogAPILogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAPILogger{logger: logger.With("component", "todoist")}
}

// Request logs an outbound request. route must already have ids collapsed.
// Reads carry no request id, so the attribute is left out for them.
func (l *SlogAPILogger) Request(ctx context.Context, method, route, requestID string) {
	attrs := []slog.Attr{slog.String("method", method), slog.String("route", route)}
	if requestID != "" {
		attrs = append(attrs, RequestID(requestID))
	}
	l.logger.LogAttrs(ctx, slog.LevelDebug, MsgAPIRequest, attrs...)
}

// Refused logs a 404/409 answer to a close, reopen, archive, ... request.
func (l *SlogAPILogger) Refused(ctx context.Context, method, route string, status int) {
	l.logger.LogAttrs(ctx, slog.LevelDebug, MsgAPIRefused,
		slog.String("method", method),
		slog.String("route", route),
		slog.Int(KeyStatus, status),
	)
}
