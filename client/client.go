package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/arloliu/tsline/errs"
	"github.com/arloliu/tsline/internal/options"
	"github.com/arloliu/tsline/lineprotocol"
)

const (
	defaultUserAgent = "tsline"

	pingPath  = "ping"
	queryPath = "query"
	writePath = "write"

	// Error responses are short JSON documents; cap reads so a misbehaving
	// server cannot balloon memory.
	maxErrorBody = 1 << 20
)

// versionHeader carries the server version on ping responses.
const versionHeader = "X-Influxdb-Version"

// Consistency is the cluster write-consistency level passed through to the
// /write endpoint. The value is opaque to this library.
type Consistency string

const (
	ConsistencyAny    Consistency = "any"
	ConsistencyOne    Consistency = "one"
	ConsistencyQuorum Consistency = "quorum"
	ConsistencyAll    Consistency = "all"
)

// Client talks to a single server over HTTP.
//
// A Client is safe for concurrent use. Per-request behavior (target database,
// retention policy, precision) can be overridden per call with WriteOption
// values and Query fields.
type Client struct {
	baseURL   *url.URL
	database  string
	precision lineprotocol.Precision
	userAgent string
	gzip      bool
	lenient   bool
	logger    zerolog.Logger
	httpc     *http.Client
}

// Option configures a Client.
type Option = options.Option[*Client]

// WithDatabase sets the default database for writes and queries.
func WithDatabase(db string) Option {
	return options.NoError(func(c *Client) { c.database = db })
}

// WithPrecision sets the default timestamp precision for writes.
func WithPrecision(p lineprotocol.Precision) Option {
	return options.NoError(func(c *Client) { c.precision = p })
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return options.NoError(func(c *Client) { c.userAgent = ua })
}

// WithTimeout sets the total per-request timeout. The default is no timeout.
func WithTimeout(d time.Duration) Option {
	return options.New(func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("timeout must not be negative, got %v", d)
		}
		c.httpc.Timeout = d

		return nil
	})
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to install a
// custom transport. Apply it before WithTimeout when combining both.
func WithHTTPClient(hc *http.Client) Option {
	return options.New(func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpc = hc

		return nil
	})
}

// WithGzip enables gzip compression of write request bodies.
func WithGzip(enabled bool) Option {
	return options.NoError(func(c *Client) { c.gzip = enabled })
}

// WithLogger installs a logger for request-level debug events.
// The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *Client) {
		c.logger = logger.With().Str("component", "tsline").Logger()
	})
}

// WithoutErrorCheck makes Query construct lenient result sets: a statement
// result carrying a server-reported error is returned with the error stored
// for ResultSet.Err instead of failing the call.
func WithoutErrorCheck() Option {
	return options.NoError(func(c *Client) { c.lenient = true })
}

// NewClient creates a Client for the server at addr, e.g.
// "http://localhost:8086". Only http and https URLs are accepted.
//
// Parameters:
//   - addr: base URL of the server, scheme and host required.
//   - opts: optional settings (WithDatabase, WithTimeout, WithGzip, ...).
//
// Returns:
//   - *Client: the configured client.
//   - error: errs.ErrInvalidAddress if addr cannot be used, or the first
//     option error.
func NewClient(addr string, opts ...Option) (*Client, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidAddress, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", errs.ErrInvalidAddress, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", errs.ErrInvalidAddress, addr)
	}

	c := &Client{
		baseURL:   u,
		userAgent: defaultUserAgent,
		logger:    zerolog.Nop(),
		httpc:     &http.Client{},
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Ping checks connectivity and returns the round-trip latency together with
// the server version reported in the X-Influxdb-Version header.
func (c *Client) Ping(ctx context.Context) (time.Duration, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, pingPath, nil, nil)
	if err != nil {
		return 0, "", err
	}

	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("ping request: %w", err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	version := resp.Header.Get(versionHeader)

	if resp.StatusCode/100 != 2 {
		return 0, "", responseError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug().
		Dur("elapsed", elapsed).
		Str("version", version).
		Msg("ping completed")

	return elapsed, version, nil
}

// writeConfig carries the per-call settings of a single write.
type writeConfig struct {
	database    string
	retention   string
	precision   lineprotocol.Precision
	consistency Consistency
}

// WriteOption overrides a single write call's settings.
type WriteOption = options.Option[*writeConfig]

// WriteDatabase targets the write at a database other than the client default.
func WriteDatabase(db string) WriteOption {
	return options.NoError(func(cfg *writeConfig) { cfg.database = db })
}

// WriteRetentionPolicy targets the write at a specific retention policy.
// The database default applies when unset.
func WriteRetentionPolicy(rp string) WriteOption {
	return options.NoError(func(cfg *writeConfig) { cfg.retention = rp })
}

// WritePrecision sets the timestamp precision of this write's batch.
func WritePrecision(p lineprotocol.Precision) WriteOption {
	return options.NoError(func(cfg *writeConfig) { cfg.precision = p })
}

// WriteConsistency sets the cluster write-consistency level of this write.
func WriteConsistency(level Consistency) WriteOption {
	return options.NoError(func(cfg *writeConfig) { cfg.consistency = level })
}

// Write encodes batch as line protocol and posts it to /write.
//
// The batch encodes at the client's default precision unless overridden with
// WritePrecision. A 204 (or 200) response means the server accepted the
// points; 4xx responses surface as *errs.ClientError with the server-reported
// message, 5xx as *errs.ServerError.
//
// Example:
//
//	err := c.Write(ctx, lineprotocol.Batch{Points: points},
//		client.WriteDatabase("metrics"),
//		client.WritePrecision(lineprotocol.Second),
//	)
func (c *Client) Write(ctx context.Context, batch lineprotocol.Batch, opts ...WriteOption) error {
	cfg := &writeConfig{database: c.database, precision: c.precision}
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	data, err := lineprotocol.Marshal(batch, cfg.precision)
	if err != nil {
		return err
	}

	params := url.Values{}
	if cfg.database != "" {
		params.Set("db", cfg.database)
	}
	if cfg.retention != "" {
		params.Set("rp", cfg.retention)
	}
	if cfg.precision != lineprotocol.Nanosecond {
		params.Set("precision", cfg.precision.String())
	}
	if cfg.consistency != "" {
		params.Set("consistency", string(cfg.consistency))
	}

	body, encoding, err := c.writeBody(data)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, writePath, params, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}

	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug().
		Str("db", cfg.database).
		Int("points", len(batch.Points)).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("write completed")

	return nil
}

// WritePoints writes points with no batch-level static tags.
func (c *Client) WritePoints(ctx context.Context, points []lineprotocol.Point, opts ...WriteOption) error {
	return c.Write(ctx, lineprotocol.Batch{Points: points}, opts...)
}

// newRequest builds a request against the configured base URL.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, params url.Values, body io.Reader) (*http.Request, error) {
	u := *c.baseURL
	u.Path = path.Join(u.Path, endpoint)
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	return req, nil
}

// writeBody wraps the encoded batch for transport, gzip-compressing it when
// the client is configured to.
func (c *Client) writeBody(data []byte) (io.Reader, string, error) {
	if !c.gzip {
		return bytes.NewReader(data), "", nil
	}

	var buf bytes.Buffer

	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, "", fmt.Errorf("gzip write body: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("gzip write body: %w", err)
	}

	return &buf, "gzip", nil
}

// errorMessage extracts the server-reported message from an error response
// body, falling back to the raw body text.
func errorMessage(body []byte) string {
	var payload struct {
		Err string `json:"error"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.Err != "" {
		return payload.Err
	}

	return strings.TrimSpace(string(body))
}

// statusError maps an HTTP status and body to the typed error taxonomy:
// 5xx becomes *errs.ServerError, everything else *errs.ClientError.
func statusError(code int, body []byte) error {
	msg := errorMessage(body)

	if code >= http.StatusInternalServerError {
		return &errs.ServerError{Code: code, Message: msg}
	}

	return &errs.ClientError{Code: code, Message: msg}
}

// responseError converts a non-success response into a typed error, reading
// the remainder of the body for the message.
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return statusError(resp.StatusCode, body)
}
