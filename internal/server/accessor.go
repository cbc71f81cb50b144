package server

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/logging"
	"github.com/teemow/todoist-mcp/internal/todoist"
)

// ClientFactory builds a Todoist client for token.
type ClientFactory func(ctx context.Context, token string) (todoist.API, error)

// AccessorConfig configures a ClientAccessor.
type AccessorConfig struct {
	// TokenEnv names the environment variable holding the API token
	// (default: TODOIST_API_TOKEN)
	TokenEnv string

	// LookupEnv reads the environment; defaults to os.LookupEnv
	LookupEnv func(string) (string, bool)

	// Client is the template passed to todoist.NewClient; Token is ignored
	Client todoist.Config

	// Factory overrides client construction (tests)
	Factory ClientFactory

	// Metrics records construction attempts; may be nil
	Metrics *instrumentation.Metrics

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// ClientAccessor lazily creates and caches the process-wide Todoist client.
// Concurrent first calls share a single construction. A failed
// construction is not cached, so a later call can succeed once the token
// is provided.
type ClientAccessor struct {
	mu     sync.RWMutex
	client todoist.API
	group  singleflight.Group

	tokenEnv  string
	lookupEnv func(string) (string, bool)
	factory   ClientFactory
	metrics   *instrumentation.Metrics
	logger    *slog.Logger
}

// NewClientAccessor creates an accessor; no client is built yet.
func NewClientAccessor(cfg AccessorConfig) *ClientAccessor {
	a := &ClientAccessor{
		tokenEnv:  cfg.TokenEnv,
		lookupEnv: cfg.LookupEnv,
		factory:   cfg.Factory,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
	if a.tokenEnv == "" {
		a.tokenEnv = todoist.TokenEnvVar
	}
	if a.lookupEnv == nil {
		a.lookupEnv = os.LookupEnv
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.factory == nil {
		template := cfg.Client
		if template.Metrics == nil {
			template.Metrics = cfg.Metrics
		}
		if template.TokenEnv == "" {
			template.TokenEnv = a.tokenEnv
		}
		if template.Logger == nil {
			template.Logger = logging.NewAPILogger(a.logger)
		}
		a.factory = func(ctx context.Context, token string) (todoist.API, error) {
			c := template
			c.Token = token
			client, err := todoist.NewClient(ctx, c)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}
	return a
}

// TokenEnv returns the name of the variable the token is read from.
func (a *ClientAccessor) TokenEnv() string {
	return a.tokenEnv
}

// token returns the trimmed token, or "" if it is unset or blank.
func (a *ClientAccessor) token() string {
	v, _ := a.lookupEnv(a.tokenEnv)
	return strings.TrimSpace(v)
}

// HasCredential reports whether a token is currently available.
func (a *ClientAccessor) HasCredential() bool {
	return a.Cached() != nil || a.token() != ""
}

// Cached returns the client if it has been built, nil otherwise.
func (a *ClientAccessor) Cached() todoist.API {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client
}

// Ensure returns the shared client, building it on first use. It returns a
// *todoist.ConfigurationError when no token is available.
func (a *ClientAccessor) Ensure(ctx context.Context) (todoist.API, error) {
	if c := a.Cached(); c != nil {
		return c, nil
	}

	v, err, _ := a.group.Do("client", func() (any, error) {
		if c := a.Cached(); c != nil {
			return c, nil
		}

		token := a.token()
		if token == "" {
			a.metrics.RecordClientInit(ctx, instrumentation.InitResultMissingToken)
			a.logger.Warn("todoist token not found in environment", "variable", a.tokenEnv)
			return nil, &todoist.ConfigurationError{Variable: a.tokenEnv}
		}

		// The client outlives the request that triggered its creation.
		client, err := a.factory(context.WithoutCancel(ctx), token)
		if err != nil {
			a.metrics.RecordClientInit(ctx, instrumentation.InitResultFailure)
			a.logger.Error("failed to initialize todoist client", logging.Err(err))
			return nil, err
		}

		a.mu.Lock()
		a.client = client
		a.mu.Unlock()

		a.metrics.RecordClientInit(ctx, instrumentation.InitResultSuccess)
		a.logger.Info("todoist client initialized", "token", logging.SanitizeToken(token))
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(todoist.API), nil
}
