package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formblock/pkg/model"
)

// Paths of the CMS REST endpoints.
const (
	SubmissionsPath = "/api/form-submissions"
	MainMenuPath    = "/api/globals/main-menu"
)

// RequestIDHeader carries a per-call request id.
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 4 << 20

// StatusError reports a non-2xx response to a read.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("cms: %s %s: http %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// NotFound reports whether the CMS answered 404.
func (e *StatusError) NotFound() bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds every call. Zero disables the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		if name = strings.TrimSpace(name); name != "" {
			c.headers.Set(name, value)
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) Option {
	return WithHeader("User-Agent", agent)
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDFunc derives the request id from the call context, for
// example to forward the id of the inbound HTTP request. Calls fall back to a
// fresh uuid when fn returns "".
func WithRequestIDFunc(fn func(ctx context.Context) string) Option {
	return func(c *Client) {
		c.requestID = fn
	}
}

// Client talks to the CMS REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	headers    http.Header
	logger     *slog.Logger
	newID      func() string
	requestID  func(ctx context.Context) string
}

// DefaultTimeout bounds calls unless WithTimeout overrides it.
const DefaultTimeout = 15 * time.Second

// New validates baseURL and returns a client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("cms: missing base url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("cms: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("cms: invalid base url scheme")
	}
	if u.Host == "" {
		return nil, errors.New("cms: invalid base url host")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		headers:    http.Header{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SubmitForm posts a submission. Any HTTP status with a JSON body yields a
// response, whatever the shape of that JSON; only transport failures and
// bodies that are empty or not JSON return an error.
func (c *Client) SubmitForm(ctx context.Context, req SubmissionRequest) (SubmissionResponse, error) {
	if req.SubmissionData == nil {
		req.SubmissionData = model.SubmissionPayload{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return SubmissionResponse{}, fmt.Errorf("cms: encode submission: %w", err)
	}

	resp, data, err := c.do(ctx, http.MethodPost, SubmissionsPath, nil, body)
	if err != nil {
		return SubmissionResponse{}, err
	}

	out := SubmissionResponse{StatusCode: resp.StatusCode}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, fmt.Errorf("cms: decode submission response: empty body (http %d)", resp.StatusCode)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return SubmissionResponse{StatusCode: resp.StatusCode}, fmt.Errorf("cms: decode submission response: %w", err)
	}
	out.StatusCode = resp.StatusCode
	return out, nil
}

// Form fetches a form definition by id.
func (c *Client) Form(ctx context.Context, id string) (model.FormDefinition, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.FormDefinition{}, errors.New("cms: form id is required")
	}
	var form model.FormDefinition
	if err := c.getJSON(ctx, "/api/forms/"+url.PathEscape(id), nil, &form); err != nil {
		return model.FormDefinition{}, err
	}
	return form, nil
}

// PageBySlug fetches the first page whose slug equals slug.
func (c *Client) PageBySlug(ctx context.Context, slug string) (model.Page, error) {
	query := url.Values{}
	query.Set("where[slug][equals]", slug)
	query.Set("depth", "2")
	query.Set("limit", "1")

	var list pageList
	if err := c.getJSON(ctx, "/api/pages", query, &list); err != nil {
		return model.Page{}, err
	}
	if len(list.Docs) == 0 {
		return model.Page{}, &StatusError{StatusCode: http.StatusNotFound, Method: http.MethodGet, Path: "/api/pages", Message: "page " + slug + " not found"}
	}
	return list.Docs[0], nil
}

// Document fetches a document of any collection.
func (c *Client) Document(ctx context.Context, collection, id string) (Document, error) {
	collection = strings.TrimSpace(collection)
	id = strings.TrimSpace(id)
	if collection == "" || id == "" {
		return Document{}, errors.New("cms: collection and id are required")
	}
	var doc Document
	if err := c.getJSON(ctx, "/api/"+url.PathEscape(collection)+"/"+url.PathEscape(id), nil, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// MainMenu fetches the main-menu global.
func (c *Client) MainMenu(ctx context.Context) (model.MainMenu, error) {
	var menu model.MainMenu
	if err := c.getJSON(ctx, MainMenuPath, url.Values{"depth": {"1"}}, &menu); err != nil {
		return model.MainMenu{}, err
	}
	return menu, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	resp, data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Method: http.MethodGet, Path: path}
		var body errorBody
		if json.Unmarshal(data, &body) == nil && len(body.Errors) > 0 {
			statusErr.Message = body.Errors[0].Message
		}
		return statusErr
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("cms: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("cms: build request: %w", err)
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := ""
	if c.requestID != nil {
		requestID = c.requestID(ctx)
	}
	if requestID == "" {
		requestID = c.newID()
	}
	req.Header.Set(RequestIDHeader, requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("cms request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return nil, nil, fmt.Errorf("cms: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("cms: read %s %s: %w", method, path, err)
	}

	c.logger.Debug("cms request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(started).Milliseconds()),
		slog.String("request_id", requestID),
	)
	return resp, data, nil
}
