package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/logging"
	"github.com/teemow/todoist-mcp/internal/todoist"
)

// Options configures a ServerContext.
type Options struct {
	// Accessor configures how the Todoist client is obtained
	Accessor AccessorConfig

	// Metrics records tool and API metrics; may be nil
	Metrics *instrumentation.Metrics

	// AuditLogger receives one line per tool invocation; may be nil
	AuditLogger *instrumentation.AuditLogger

	// ReadOnly hides tools that modify Todoist data
	ReadOnly bool
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	accessor    *ClientAccessor
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	readOnly    bool
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. If a token is already
// present the Todoist client is built right away; otherwise, or if that
// fails, it is built on the first tool call.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	accessorCfg := opts.Accessor
	if accessorCfg.Metrics == nil {
		accessorCfg.Metrics = opts.Metrics
	}
	accessor := NewClientAccessor(accessorCfg)

	if accessor.HasCredential() {
		if _, err := accessor.Ensure(shutdownCtx); err != nil {
			slog.Warn("failed to create Todoist client at startup, will retry on first use", logging.Err(err))
		}
	} else {
		slog.Warn("Todoist token not set; tools will report a configuration error until it is",
			"variable", accessor.TokenEnv())
	}

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		accessor:    accessor,
		metrics:     opts.Metrics,
		auditLogger: opts.AuditLogger,
		readOnly:    opts.ReadOnly,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the shared Todoist client, creating it on first use
func (sc *ServerContext) Client(ctx context.Context) (todoist.API, error) {
	return sc.accessor.Ensure(ctx)
}

// TokenEnv returns the name of the variable the Todoist token is read from
func (sc *ServerContext) TokenEnv() string {
	return sc.accessor.TokenEnv()
}

// Accessor returns the client accessor
func (sc *ServerContext) Accessor() *ClientAccessor {
	return sc.accessor
}

// Metrics returns the metrics recorder, nil when instrumentation is off
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, may be nil
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// ReadOnly reports whether write tools are disabled
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
