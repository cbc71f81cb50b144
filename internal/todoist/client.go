package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/logging"
)

const (
	// DefaultBaseURL is the Todoist REST API v1 root
	DefaultBaseURL = "https://api.todoist.com/api/v1"

	// DefaultPageSize is the page size requested from list endpoints
	DefaultPageSize = 200

	// DefaultHTTPTimeout bounds a single HTTP round trip
	DefaultHTTPTimeout = 30 * time.Second

	// TokenEnvVar is the environment variable holding the API token
	TokenEnvVar = "TODOIST_API_TOKEN"
)

// Config configures a Client
type Config struct {
	// Token is the Todoist personal API token (required)
	Token string

	// TokenEnv names the variable Token came from, for error messages;
	// defaults to TokenEnvVar
	TokenEnv string

	// BaseURL overrides DefaultBaseURL
	BaseURL string

	// PageSize overrides DefaultPageSize
	PageSize int

	// HTTPTimeout overrides DefaultHTTPTimeout
	HTTPTimeout time.Duration

	// Logger receives debug output about requests; defaults to slog.Default()
	Logger logging.APILogger

	// Metrics records per-request metrics; may be nil
	Metrics *instrumentation.Metrics
}

// Client wraps the Todoist REST API
type Client struct {
	http     *http.Client
	baseURL  string
	pageSize int
	logger   logging.APILogger
	metrics  *instrumentation.Metrics
}

var _ API = (*Client)(nil)

// NewClient creates a Todoist client authenticating with cfg.Token.
// A missing token yields a *ConfigurationError.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		variable := cfg.TokenEnv
		if variable == "" {
			variable = TokenEnvVar
		}
		return nil, &ConfigurationError{Variable: variable}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid Todoist base URL %q: %w", baseURL, err)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewAPILogger(nil)
	}

	// oauth2 picks up the base transport from the context
	base := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = timeout

	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		pageSize: pageSize,
		logger:   logger,
		metrics:  cfg.Metrics,
	}, nil
}

// call describes one REST request
type call struct {
	resource  string
	operation string
	method    string
	path      string
	query     url.Values
	body      any
}

// do executes c and decodes a JSON response into out when out is non-nil.
func (cl *Client) do(ctx context.Context, c call, out any) (err error) {
	ctx, span := instrumentation.StartAPISpan(ctx, c.resource, c.operation, c.method, c.path)
	start := time.Now()
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
		}
		instrumentation.RecordOutcome(span, err)
		cl.metrics.RecordAPIRequest(ctx, c.resource, c.operation, status, time.Since(start))
		span.End()
	}()

	u := cl.baseURL + c.path
	if len(c.query) > 0 {
		u += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var requestID string
	if c.method != http.MethodGet {
		requestID = uuid.NewString()
		req.Header.Set("X-Request-Id", requestID)
		instrumentation.SetRequestID(span, requestID)
	}

	cl.logger.Request(ctx, c.method, instrumentation.NormalizeAPIPath(c.path), requestID)

	resp, err := cl.http.Do(req)
	if err != nil {
		return fmt.Errorf("todoist %s %s: %w", c.method, c.path, err)
	}
	defer resp.Body.Close()
	instrumentation.SetResponseStatus(span, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     c.method,
			Path:       c.path,
			Message:    msg,
			RequestID:  requestID,
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doBool executes c for endpoints that only signal success. A 404 or 409
// (item missing or already in the requested state) is reported as false.
func (cl *Client) doBool(ctx context.Context, c call) (bool, error) {
	err := cl.do(ctx, c, nil)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusConflict) {
		cl.logger.Refused(ctx, c.method, instrumentation.NormalizeAPIPath(c.path), apiErr.StatusCode)
		return false, nil
	}
	return false, err
}

// queryValues renders args as URL query parameters.
func queryValues(args Args) url.Values {
	q := url.Values{}
	for k, v := range args {
		q.Set(k, formatValue(v))
	}
	return q
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case civil.Date:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	case []string:
		return strings.Join(val, ",")
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// itemPath joins a collection path and an item id, escaping the id.
func itemPath(collection, id string, suffix ...string) string {
	p := collection + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
