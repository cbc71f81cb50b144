package instrumentation

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by FromEnv. The OTEL_* names follow the
// OpenTelemetry conventions; the rest are specific to todoist-mcp.
const (
	EnvServiceName       = "OTEL_SERVICE_NAME"
	EnvServiceInstanceID = "OTEL_SERVICE_INSTANCE_ID"
	EnvOTLPEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure      = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvTraceSamplingRate = "OTEL_TRACES_SAMPLER_ARG"

	EnvEnabled         = "TODOIST_MCP_INSTRUMENTATION_ENABLED"
	EnvMetricsExporter = "TODOIST_MCP_METRICS_EXPORTER"
	EnvTracingExporter = "TODOIST_MCP_TRACING_EXPORTER"
	EnvMetricsPath     = "TODOIST_MCP_METRICS_PATH"
	EnvAuditEnabled    = "TODOIST_MCP_AUDIT_ENABLED"
	EnvAuditItemIDs    = "TODOIST_MCP_AUDIT_ITEM_IDS"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: todoist-mcp)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// ServiceInstanceID is the unique instance identifier (default: hostname)
	ServiceInstanceID string

	// Enabled determines if metrics and tracing are active (default: true)
	Enabled bool

	// MetricsExporter is one of prometheus, otlp or stdout
	MetricsExporter string

	// TracingExporter is one of otlp, stdout or none
	TracingExporter string

	// OTLPEndpoint is the collector address without scheme, e.g. "localhost:4318"
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP
	OTLPInsecure bool

	// TraceSamplingRate is the ratio of root spans kept (default: 0.1)
	TraceSamplingRate float64

	// MetricsPath is where the Prometheus listener serves metrics
	MetricsPath string

	AuditLogging AuditLoggingConfig

	// Deployment describes the Todoist side of this process. It is attached
	// to every metric and span as resource attributes.
	Deployment Deployment
}

// Deployment is the part of the server configuration worth seeing next to
// every data point: which API the process talks to, where its token comes
// from and whether it may write.
type Deployment struct {
	APIBaseURL string
	TokenEnv   string
	Transport  string
	ReadOnly   bool
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludeItemIDs writes the id of the task, project, ... to audit lines
	IncludeItemIDs bool
}

// DefaultConfig returns the built-in settings, ignoring the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:       "todoist-mcp",
		ServiceVersion:    "unknown",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
		TraceSamplingRate: 0.1,
		MetricsPath:       "/metrics",
		AuditLogging: AuditLoggingConfig{
			Enabled:        true,
			IncludeItemIDs: true,
		},
	}
}

// FromEnv returns DefaultConfig overridden by every variable lookup reports
// as set. A nil lookup reads the process environment. Malformed values are
// errors rather than silently falling back to the default.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	c := DefaultConfig()

	strs := []struct {
		key string
		dst *string
	}{
		{EnvServiceName, &c.ServiceName},
		{EnvServiceInstanceID, &c.ServiceInstanceID},
		{EnvOTLPEndpoint, &c.OTLPEndpoint},
		{EnvMetricsExporter, &c.MetricsExporter},
		{EnvTracingExporter, &c.TracingExporter},
		{EnvMetricsPath, &c.MetricsPath},
	}
	for _, s := range strs {
		if v, ok := get(s.key); ok {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{EnvEnabled, &c.Enabled},
		{EnvOTLPInsecure, &c.OTLPInsecure},
		{EnvAuditEnabled, &c.AuditLogging.Enabled},
		{EnvAuditItemIDs, &c.AuditLogging.IncludeItemIDs},
	}
	for _, b := range bools {
		v, ok := get(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", b.key, v, err)
		}
		*b.dst = parsed
	}

	if v, ok := get(EnvTraceSamplingRate); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvTraceSamplingRate, v, err)
		}
		c.TraceSamplingRate = rate
	}

	return c, nil
}

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// withDefaults fills empty fields from DefaultConfig, so hand-built configs
// only need to name what they change.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ServiceName == "" {
		c.ServiceName = d.ServiceName
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = d.ServiceVersion
	}
	if c.MetricsExporter == "" {
		c.MetricsExporter = d.MetricsExporter
	}
	if c.TracingExporter == "" {
		c.TracingExporter = d.TracingExporter
	}
	if c.MetricsPath == "" {
		c.MetricsPath = d.MetricsPath
	}
	return c
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %g", c.TraceSamplingRate)
	}
	if !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: %s", c.MetricsExporter, strings.Join(metricsExporters, ", "))
	}
	if !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: %s", c.TracingExporter, strings.Join(tracingExporters, ", "))
	}
	if c.OTLPEndpoint == "" && (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) {
		return fmt.Errorf("%s is required when exporting over OTLP", EnvOTLPEndpoint)
	}
	if c.MetricsPath != "" && !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("metrics path must start with '/', got %q", c.MetricsPath)
	}
	return nil
}

// Constants for metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// Client initialization results
	InitResultSuccess      = "success"
	InitResultMissingToken = "missing_token"
	InitResultFailure      = "failure"

	// Todoist resources
	ResourceTasks    = "tasks"
	ResourceProjects = "projects"
	ResourceSections = "sections"
	ResourceLabels   = "labels"
	ResourceComments = "comments"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	DefaultMetricInterval = 10 * time.Second
)
