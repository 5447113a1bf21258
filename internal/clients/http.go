package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 5 * time.Second
	maxErrorBody   = 4 << 10
)

// Config locates one upstream service.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Recorder observes upstream calls. Implemented by metrics.ServerMetrics.
type Recorder interface {
	ObserveUpstream(service, outcome string, elapsed time.Duration)
}

// jsonClient issues authenticated GET requests and decodes JSON answers.
type jsonClient struct {
	service    string
	baseURL    string
	token      string
	httpClient *http.Client
	recorder   Recorder
	log        *zap.Logger
}

func newJSONClient(service string, cfg Config, rec Recorder, log *zap.Logger) *jsonClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &jsonClient{
		service:    service,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		recorder:   rec,
		log:        log.With(zap.String("upstream", service)),
	}
}

// get fetches baseURL + path segments into out. Segments are path-escaped.
func (c *jsonClient) get(ctx context.Context, out any, segments ...string) error {
	start := time.Now()
	err := c.do(ctx, out, segments)
	outcome := "ok"
	if err != nil {
		var ce *CallError
		if errors.As(err, &ce) {
			outcome = ce.Kind.String()
		}
	}
	if c.recorder != nil {
		c.recorder.ObserveUpstream(c.service, outcome, time.Since(start))
	}
	return err
}

func (c *jsonClient) do(ctx context.Context, out any, segments []string) error {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	target := c.baseURL + "/" + strings.Join(escaped, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &CallError{Kind: UnexpectedError, Service: c.service, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("upstream request failed", zap.String("url", target), zap.Error(err))
		return &CallError{Kind: IOError, Service: c.service, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp)
		c.log.Warn("upstream returned error",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return &CallError{Kind: HTTPError, Service: c.service, Code: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &CallError{Kind: UnexpectedError, Service: c.service, Err: err}
	}
	return nil
}

// errorMessage prefers the {error: ...} envelope the sibling services use and
// falls back to the status text.
func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &env) == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 256 {
		return s
	}
	return http.StatusText(resp.StatusCode)
}
