package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teemow/todoist-mcp/internal/config"
	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/logging"
	"github.com/teemow/todoist-mcp/internal/resources"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/tools/todoist_tools"
)

const shutdownTimeout = 30 * time.Second

// serveFlags holds the raw flag values; only flags the user set override
// the file and environment.
type serveFlags struct {
	configPath     string
	transport      string
	httpAddr       string
	debug          bool
	logFormat      string
	readOnly       bool
	metricsEnabled bool
	metricsAddr    string
	apiURL         string
	tokenEnv       string
	httpTimeout    time.Duration
	pageSize       int
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP (Model Context Protocol) server exposing Todoist as tools.

The Todoist personal API token is read from TODOIST_API_TOKEN (or the
variable named by token_env). Without it the server still starts and every
tool answers with an error explaining how to configure the token.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Settings are read from an optional YAML file (--config), then environment
variables, then flags; later sources win.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), flags, os.LookupEnv)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	bindServeFlags(cmd.Flags(), &flags)

	return cmd
}

func bindServeFlags(fs *pflag.FlagSet, flags *serveFlags) {
	defaults := config.Default()
	fs.StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&flags.transport, "transport", defaults.Transport, "Transport type: stdio, sse, or streamable-http")
	fs.StringVar(&flags.httpAddr, "http-addr", defaults.HTTPAddr, "HTTP server address (for sse and streamable-http transports)")
	fs.BoolVar(&flags.debug, "debug", defaults.Debug, "Enable debug logging")
	fs.StringVar(&flags.logFormat, "log-format", defaults.LogFormat, "Log format: text or json")
	fs.BoolVar(&flags.readOnly, "read-only", defaults.ReadOnly, "Only register tools that do not modify Todoist data")
	fs.BoolVar(&flags.metricsEnabled, "metrics-enabled", defaults.MetricsEnabled, "Enable the metrics server on a dedicated port (HTTP transports only)")
	fs.StringVar(&flags.metricsAddr, "metrics-addr", defaults.MetricsAddr, "Metrics server address")
	fs.StringVar(&flags.apiURL, "api-url", defaults.APIURL, "Todoist REST API base URL")
	fs.StringVar(&flags.tokenEnv, "token-env", defaults.TokenEnv, "Environment variable holding the Todoist API token")
	fs.DurationVar(&flags.httpTimeout, "http-timeout", defaults.HTTPTimeout, "Timeout for a single Todoist API request")
	fs.IntVar(&flags.pageSize, "page-size", defaults.PageSize, "Page size for Todoist list requests (max 200)")
}

// resolveConfig layers defaults, the config file, the environment and then
// every flag the user set explicitly.
func resolveConfig(fs *pflag.FlagSet, flags serveFlags, lookup func(string) (string, bool)) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath, lookup)
	if err != nil {
		return nil, err
	}

	if fs.Changed("transport") {
		cfg.Transport = flags.transport
	}
	if fs.Changed("http-addr") {
		cfg.HTTPAddr = flags.httpAddr
	}
	if fs.Changed("debug") {
		cfg.Debug = flags.debug
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if fs.Changed("read-only") {
		cfg.ReadOnly = flags.readOnly
	}
	if fs.Changed("metrics-enabled") {
		cfg.MetricsEnabled = flags.metricsEnabled
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = flags.metricsAddr
	}
	if fs.Changed("api-url") {
		cfg.APIURL = flags.apiURL
	}
	if fs.Changed("token-env") {
		cfg.TokenEnv = flags.tokenEnv
	}
	if fs.Changed("http-timeout") {
		cfg.HTTPTimeout = flags.httpTimeout
	}
	if fs.Changed("page-size") {
		cfg.PageSize = flags.pageSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runServe(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout belongs to the stdio transport
	logger, err := logging.Setup(os.Stderr, cfg.Debug, cfg.LogFormat)
	if err != nil {
		return err
	}

	instrConfig, err := instrumentation.FromEnv(os.LookupEnv)
	if err != nil {
		return fmt.Errorf("invalid instrumentation settings: %w", err)
	}
	instrConfig.ServiceVersion = version
	instrConfig.Deployment = cfg.Deployment()

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	var metricsServer *server.MetricsServer
	if cfg.Transport != config.TransportStdio && cfg.MetricsEnabled && provider.PrometheusEnabled() {
		metricsServer, err = startMetricsServer(cfg.MetricsAddr, provider)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	var auditLogger *instrumentation.AuditLogger
	if provider.Enabled() {
		auditLogger = instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging)
	}

	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		Accessor: server.AccessorConfig{
			TokenEnv: cfg.TokenEnv,
			Client:   cfg.ClientConfig(),
			Logger:   logger,
		},
		Metrics:     provider.Metrics(),
		AuditLogger: auditLogger,
		ReadOnly:    cfg.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := newMCPServer(provider.Metrics())
	if err := todoist_tools.RegisterTodoistTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register Todoist tools: %w", err)
	}
	if err := resources.RegisterTodoistResources(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register Todoist resources: %w", err)
	}

	if cfg.ReadOnly {
		logger.Info("starting in read-only mode; tools that modify Todoist data are not registered")
	}

	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportSSE, config.TransportStreamableHTTP:
		return runHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", cfg.Transport)
	}
}

func newMCPServer(metrics *instrumentation.Metrics) *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("todoist-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithHooks(server.NewHooks(metrics)),
	)
}

func startMetricsServer(addr string, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	}
	go func() {
		if err := metricsServer.Serve(ln); err != nil {
			slog.Error("metrics server stopped", logging.Err(err))
		}
	}()

	return metricsServer, nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg *config.Config, logger *slog.Logger) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{Transport: cfg.Transport})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	logger.Info("starting todoist-mcp HTTP server",
		"transport", cfg.Transport,
		"addr", cfg.HTTPAddr,
		"read_only", cfg.ReadOnly)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(cfg.HTTPAddr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
