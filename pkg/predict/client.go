// Package predict provides a client for the signature inference service.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/signature-cli/internal/resilience"
)

// Client defines the inference service operations.
type Client interface {
	// Predict classifies one signature image as genuine or forged.
	Predict(ctx context.Context, img Image) (*Prediction, error)
	// Verify compares a test signature against a known genuine reference.
	Verify(ctx context.Context, reference, test Image) (*Verification, error)
	Health(ctx context.Context) (*Health, error)
	ModelInfo(ctx context.Context) (ModelInfo, error)
	ReloadModel(ctx context.Context) (*ReloadResult, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *httpClient) {
		if perSec <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSec), max(burst, 1))
	}
}

// WithRetry overrides the retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithCircuitBreaker overrides the circuit breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *httpClient) {
		c.breaker = cb
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(5, 5),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		cfg := resilience.DefaultCircuitBreakerConfig()
		cfg.OnStateChange = func(from, to resilience.CircuitState) {
			zap.L().Warn("predict: circuit state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}
		c.breaker = resilience.NewCircuitBreaker(cfg)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("predict", "request")
	}
	return c
}

type filePart struct {
	field string
	img   Image
}

func (c *httpClient) Predict(ctx context.Context, img Image) (*Prediction, error) {
	var out Prediction
	if err := c.postFiles(ctx, "/predict", &out, filePart{"file", img}); err != nil {
		return nil, eris.Wrap(err, "predict: predict")
	}
	return &out, nil
}

func (c *httpClient) Verify(ctx context.Context, reference, test Image) (*Verification, error) {
	var out Verification
	if err := c.postFiles(ctx, "/verify", &out, filePart{"reference", reference}, filePart{"test", test}); err != nil {
		return nil, eris.Wrap(err, "predict: verify")
	}
	return &out, nil
}

func (c *httpClient) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, "", &out); err != nil {
		return nil, eris.Wrap(err, "predict: health")
	}
	return &out, nil
}

func (c *httpClient) ModelInfo(ctx context.Context) (ModelInfo, error) {
	var out ModelInfo
	if err := c.do(ctx, http.MethodGet, "/model/info", nil, "", &out); err != nil {
		return nil, eris.Wrap(err, "predict: model info")
	}
	return out, nil
}

func (c *httpClient) ReloadModel(ctx context.Context) (*ReloadResult, error) {
	var out ReloadResult
	if err := c.do(ctx, http.MethodPost, "/model/reload", nil, "", &out); err != nil {
		return nil, eris.Wrap(err, "predict: reload model")
	}
	return &out, nil
}

func (c *httpClient) postFiles(ctx context.Context, path string, out any, parts ...filePart) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", multipart.FileContentDisposition(p.field, fileName(p.img)))
		ct := p.img.ContentType
		if ct == "" {
			ct = http.DetectContentType(p.img.Data)
		}
		h.Set("Content-Type", ct)
		w, err := mw.CreatePart(h)
		if err != nil {
			return eris.Wrap(err, "create multipart part")
		}
		if _, err := w.Write(p.img.Data); err != nil {
			return eris.Wrap(err, "write multipart part")
		}
	}
	if err := mw.Close(); err != nil {
		return eris.Wrap(err, "close multipart writer")
	}
	return c.do(ctx, http.MethodPost, path, buf.Bytes(), mw.FormDataContentType(), out)
}

func fileName(img Image) string {
	if img.FileName != "" {
		return img.FileName
	}
	return "signature"
}

// do sends one request through the breaker, retrying transient failures.
// body is replayed from memory on each attempt.
func (c *httpClient) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
			return c.attempt(ctx, method, path, body, contentType, out)
		})
	})
}

func (c *httpClient) attempt(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit wait")
		}
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "%s %s", method, path)
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return resilience.NewTransientError(eris.Wrap(err, "read response body"), resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("unexpected status %d: %s", resp.StatusCode, errorDetail(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return statusErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}

// errorDetail extracts the service's {"detail": ...} message when present.
func errorDetail(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &e) == nil && e.Detail != "" {
		return e.Detail
	}
	return strings.TrimSpace(string(body))
}
