package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ObjectService defines the object operations offered by the remote API.
// It is implemented by *Client and can be faked in tests.
type ObjectService interface {
	ListObjects(ctx context.Context) ([]Object, error)
	GetObject(ctx context.Context, id string) (Object, error)
	GetObjectsByIDs(ctx context.Context, ids []string) ([]Object, error)
	CreateObject(ctx context.Context, input Input) (Object, error)
	ReplaceObject(ctx context.Context, id string, input Input) (Object, error)
	PatchObject(ctx context.Context, id string, patch Patch) (Object, error)
	DeleteObject(ctx context.Context, id string) error
}

// Ensure Client implements ObjectService at compile time.
var _ ObjectService = (*Client)(nil)

const (
	// DefaultBaseURL is the public demo API.
	DefaultBaseURL = "https://api.restful-api.dev"
	// DefaultTimeout bounds every request.
	DefaultTimeout   = 10 * time.Second
	defaultUserAgent = "shelf/0.1"
	objectsPath      = "/objects"
	maxErrorBody     = 64 << 10
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests; <= 0 disables pacing.
	RequestsPerSecond float64
	UserAgent         string
	Logger            *zap.Logger
	HTTPClient        *http.Client
}

// Client talks to the objects API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: userAgent,
		limiter:   limiter,
		logger:    logger.Named("api"),
	}, nil
}

// BaseURL returns the normalised API address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListObjects returns the whole collection. A body that is not a JSON
// array yields an empty list.
func (c *Client) ListObjects(ctx context.Context) ([]Object, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: objectsPath}, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw)
}

// GetObject fetches a single object.
func (c *Client) GetObject(ctx context.Context, id string) (Object, error) {
	if c == nil {
		return Object{}, fmt.Errorf("client is nil")
	}
	rel, err := objectURL(id)
	if err != nil {
		return Object{}, err
	}
	var obj Object
	if err := c.do(ctx, http.MethodGet, rel, nil, &obj); err != nil {
		return Object{}, err
	}
	return obj, nil
}

// GetObjectsByIDs fetches several objects with one ?id=a,b,c query.
func (c *Client) GetObjectsByIDs(ctx context.Context, ids []string) ([]Object, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	escaped := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			escaped = append(escaped, url.QueryEscape(id))
		}
	}
	if len(escaped) == 0 {
		return []Object{}, nil
	}
	rel := &url.URL{Path: objectsPath, RawQuery: "id=" + strings.Join(escaped, ",")}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, rel, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw)
}

// CreateObject posts a new object; the server assigns its id.
func (c *Client) CreateObject(ctx context.Context, input Input) (Object, error) {
	if c == nil {
		return Object{}, fmt.Errorf("client is nil")
	}
	var obj Object
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: objectsPath}, input, &obj); err != nil {
		return Object{}, err
	}
	return obj, nil
}

// ReplaceObject overwrites an object (PUT).
func (c *Client) ReplaceObject(ctx context.Context, id string, input Input) (Object, error) {
	if c == nil {
		return Object{}, fmt.Errorf("client is nil")
	}
	rel, err := objectURL(id)
	if err != nil {
		return Object{}, err
	}
	var obj Object
	if err := c.do(ctx, http.MethodPut, rel, input, &obj); err != nil {
		return Object{}, err
	}
	return obj, nil
}

// PatchObject sends only the fields set in patch.
func (c *Client) PatchObject(ctx context.Context, id string, patch Patch) (Object, error) {
	if c == nil {
		return Object{}, fmt.Errorf("client is nil")
	}
	rel, err := objectURL(id)
	if err != nil {
		return Object{}, err
	}
	var obj Object
	if err := c.do(ctx, http.MethodPatch, rel, patch, &obj); err != nil {
		return Object{}, err
	}
	return obj, nil
}

// DeleteObject removes an object. The response body is ignored.
func (c *Client) DeleteObject(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel, err := objectURL(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, rel, nil, nil)
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body any, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", rel.String()),
		zap.String("request_id", requestID),
	)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			log.Warn("request pacing aborted", zap.Error(err))
			return &Error{Kind: KindConnectivity, Message: "wait for request slot", Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return &Error{Kind: KindConnectivity, Message: "execute request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	log.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Kind:       kindForStatus(resp.StatusCode),
			Message:    serverMessage(resp.Body),
		}
		log.Warn("request rejected", zap.Int("status", resp.StatusCode), zap.Stringer("kind", apiErr.Kind))
		return apiErr
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &Error{Message: "decode response", Err: err}
	}
	return nil
}

func decodeList(raw json.RawMessage) ([]Object, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []Object{}, nil
	}
	var objects []Object
	if err := json.Unmarshal(trimmed, &objects); err != nil {
		return nil, &Error{Message: "decode response", Err: err}
	}
	if objects == nil {
		objects = []Object{}
	}
	return objects, nil
}

// serverMessage extracts {"error": "..."} or {"message": "..."} from an
// error body.
func serverMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Message)
}

func objectURL(id string) (*url.URL, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("object id required")
	}
	path := objectsPath + "/" + id
	return &url.URL{Path: path, RawPath: objectsPath + "/" + url.PathEscape(id)}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
