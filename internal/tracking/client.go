// Package tracking talks to an MLflow-compatible experiment tracking server.
package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fxnlabs/againkit/internal/metrics"
)

const (
	apiPrefix      = "/api/2.0/mlflow"
	defaultTimeout = 30 * time.Second

	// DatabricksURI selects the workspace named by DATABRICKS_HOST.
	DatabricksURI = "databricks"

	codeNotFound = "RESOURCE_DOES_NOT_EXIST"
)

var (
	ErrNoTrackingURI  = errors.New("no tracking URI configured")
	ErrUnsupportedURI = errors.New("unsupported tracking URI")
	ErrBadLookup      = errors.New("exactly one of experiment name or experiment id must be provided")
)

// APIError is a non-2xx response from the tracking server.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.ErrorCode == "" {
		return fmt.Sprintf("tracking server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("tracking server returned %d: %s: %s", e.StatusCode, e.ErrorCode, e.Message)
}

// NotFound reports whether the server said the resource does not exist.
// A bare 404 without RESOURCE_DOES_NOT_EXIST usually means the URI does not
// point at a tracking server, so it does not count.
func (e *APIError) NotFound() bool {
	return e.ErrorCode == codeNotFound
}

// Experiment is an MLflow experiment.
type Experiment struct {
	ID               string `json:"experiment_id"`
	Name             string `json:"name"`
	ArtifactLocation string `json:"artifact_location,omitempty"`
	LifecycleStage   string `json:"lifecycle_stage,omitempty"`
}

// Lookup identifies an experiment by name or by id.
type Lookup struct {
	Name string
	ID   string
}

func (l Lookup) validate() error {
	if (l.Name == "") == (l.ID == "") {
		return ErrBadLookup
	}
	return nil
}

type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its transport is wrapped for metrics.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		wrapped := *c
		wrapped.Transport = metrics.NewTransport(c.Transport)
		client.httpClient = &wrapped
	}
}

// WithToken sets the bearer token, overriding DATABRICKS_TOKEN.
func WithToken(token string) Option {
	return func(client *Client) { client.token = token }
}

func WithLogger(logger *zap.Logger) Option {
	return func(client *Client) { client.logger = logger }
}

// NewClient creates a client for trackingURI. An empty URI falls back to
// MLFLOW_TRACKING_URI, and "databricks" resolves to DATABRICKS_HOST.
func NewClient(trackingURI string, opts ...Option) (*Client, error) {
	base, err := resolveURI(trackingURI)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: base,
		token:   os.Getenv(EnvDatabricksToken),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: metrics.NewTransport(nil),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("tracking")
	return c, nil
}

func resolveURI(uri string) (*url.URL, error) {
	if uri == "" {
		uri = os.Getenv(EnvTrackingURI)
	}
	if uri == DatabricksURI || strings.HasPrefix(uri, DatabricksURI+"://") {
		uri = os.Getenv(EnvDatabricksHost)
		if uri == "" {
			return nil, fmt.Errorf("%w: %s is not set", ErrNoTrackingURI, EnvDatabricksHost)
		}
		if !strings.Contains(uri, "://") {
			uri = "https://" + uri
		}
	}
	if uri == "" {
		return nil, ErrNoTrackingURI
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURI, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q (only http and https servers are supported)", ErrUnsupportedURI, uri)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// BaseURL returns the resolved server address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// GetExperiment fetches an experiment by name or id.
func (c *Client) GetExperiment(ctx context.Context, lookup Lookup) (*Experiment, error) {
	if err := lookup.validate(); err != nil {
		return nil, err
	}

	var path string
	query := url.Values{}
	if lookup.Name != "" {
		path = "/experiments/get-by-name"
		query.Set("experiment_name", lookup.Name)
	} else {
		path = "/experiments/get"
		query.Set("experiment_id", lookup.ID)
	}

	var resp struct {
		Experiment Experiment `json:"experiment"`
	}
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Experiment, nil
}

// ExperimentExists reports whether an experiment exists. It is read-only.
func (c *Client) ExperimentExists(ctx context.Context, lookup Lookup) (bool, error) {
	_, err := c.GetExperiment(ctx, lookup)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return false, nil
	}
	return false, err
}

// Ping checks that the server is reachable and accepts the credentials by
// searching for a single experiment.
func (c *Client) Ping(ctx context.Context) error {
	body := map[string]any{"max_results": 1}
	if err := c.do(ctx, http.MethodPost, "/experiments/search", nil, body, nil); err != nil {
		c.logger.Warn("tracking server unreachable", zap.String("url", c.BaseURL()), zap.Error(err))
		return err
	}
	c.logger.Debug("tracking server reachable", zap.String("url", c.BaseURL()))
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path += apiPrefix + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", u.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		c.logger.Debug("tracking request failed",
			zap.String("path", u.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("errorCode", apiErr.ErrorCode))
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
