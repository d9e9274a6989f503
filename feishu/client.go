package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/creatorscan"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// MaxBatchSize is the most records one batch_create call accepts.
const MaxBatchSize = 500

// DefaultRequestsPerSecond paces calls to stay under the per-app quota.
const DefaultRequestsPerSecond = 5

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 15 * time.Second

// tokenSlack renews the tenant token this long before it expires.
const tokenSlack = 5 * time.Minute

// Client calls the bitable API on behalf of one app and table.
//
// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	delays  []time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit sets the request rate. Zero or less disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays sets the backoff between transport retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.delays = delays
	}
}

// WithLogger sets the logger used for retry reports.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient validates cfg and returns a Client for it.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		delays:  DefaultRetryDelays(),
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the common response shape of the open platform API.
type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type tokenResponse struct {
	envelope
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// TenantToken returns a tenant access token, reusing a cached one until
// shortly before it expires.
func (c *Client) TenantToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body := map[string]string{
		"app_id":     c.cfg.AppID,
		"app_secret": c.cfg.AppSecret,
	}
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v3/tenant_access_token/internal", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Code != 0 {
		return "", creatorscan.Errorf(creatorscan.EINTERNAL, "fetching tenant token: %s (code %d)", resp.Msg, resp.Code)
	}

	c.token = resp.TenantAccessToken
	c.tokenExpiry = c.now().Add(time.Duration(resp.Expire)*time.Second - tokenSlack)
	return c.token, nil
}

// Table describes the destination bitable table.
type Table struct {
	TableID  string `json:"table_id"`
	Name     string `json:"name"`
	Revision int    `json:"revision"`
}

type tableResponse struct {
	envelope
	Data struct {
		Table Table `json:"table"`
	} `json:"data"`
}

// GetTable reads the configured table, confirming it exists and the app
// may access it.
func (c *Client) GetTable(ctx context.Context) (*Table, error) {
	token, err := c.TenantToken(ctx)
	if err != nil {
		return nil, err
	}

	var resp tableResponse
	if err := c.do(ctx, http.MethodGet, c.tablePath(), token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, creatorscan.Errorf(creatorscan.EINTERNAL, "reading table: %s (code %d)", resp.Msg, resp.Code)
	}
	return &resp.Data.Table, nil
}

type batchRequest struct {
	Records []Row `json:"records"`
}

type batchResponse struct {
	envelope
	Data struct {
		Records []struct {
			RecordID string `json:"record_id"`
		} `json:"records"`
	} `json:"data"`
}

// BatchCreate appends rows to the table in chunks of at most MaxBatchSize
// and returns the IDs of the created records in order. Each chunk carries
// its own client_token, so a retried chunk is stored at most once.
func (c *Client) BatchCreate(ctx context.Context, rows []Row) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	token, err := c.TenantToken(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for start := 0; start < len(rows); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(rows))

		path := c.tablePath() + "/records/batch_create?client_token=" + url.QueryEscape(uuid.New().String())

		var resp batchResponse
		err := c.do(ctx, http.MethodPost, path, token,
			batchRequest{Records: rows[start:end]}, &resp)
		if err != nil {
			return ids, err
		}
		if resp.Code != 0 {
			return ids, creatorscan.Errorf(creatorscan.EINTERNAL, "writing records: %s (code %d)", resp.Msg, resp.Code)
		}
		for _, r := range resp.Data.Records {
			ids = append(ids, r.RecordID)
		}
	}
	return ids, nil
}

// Check verifies the credentials and table access.
func (c *Client) Check(ctx context.Context) error {
	_, err := c.GetTable(ctx)
	return err
}

// WriteProbe writes a single marker row, proving the app may write.
func (c *Client) WriteProbe(ctx context.Context) error {
	_, err := c.BatchCreate(ctx, []Row{ProbeRow()})
	return err
}

func (c *Client) tablePath() string {
	return "/bitable/v1/apps/" + url.PathEscape(c.cfg.AppToken) + "/tables/" + url.PathEscape(c.cfg.TableID)
}

// do sends one JSON request with pacing and transport retries and decodes
// the JSON response into out. The envelope code is left to the caller.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	endpoint := c.cfg.baseURL() + path
	return withRetry(ctx, path, c.delays, c.logger, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json; charset=utf-8")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("HTTP %d for %s", resp.StatusCode, path)
		}
		if err := json.Unmarshal(data, out); err != nil {
			if resp.StatusCode != http.StatusOK {
				return creatorscan.Errorf(creatorscan.EINTERNAL, "HTTP %d for %s", resp.StatusCode, path)
			}
			return creatorscan.Errorf(creatorscan.EINTERNAL, "decoding %s response: %v", path, err)
		}
		return nil
	})
}
