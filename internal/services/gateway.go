package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/vidup/internal/shared"
)

// Gateway performs authenticated requests against the API base URL.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	logger     *log.Logger

	evictMu sync.Mutex

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func(SessionInvalidated)
}

// NewGateway creates a new [Gateway] for baseURL.
func NewGateway(baseURL string, client *http.Client, store TokenStore, logger *log.Logger) *Gateway {
	if baseURL == "" {
		baseURL = "http://yt.lc/api"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Gateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  client,
		store:       store,
		logger:      logger,
		subscribers: make(map[int]func(SessionInvalidated)),
	}
}

// BaseURL returns the API root requests are resolved against.
func (g *Gateway) BaseURL() string { return g.baseURL }

// Subscribe registers fn to receive [SessionInvalidated] events and returns a function that removes it.
func (g *Gateway) Subscribe(fn func(SessionInvalidated)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextSubID
	g.nextSubID++
	g.subscribers[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subscribers, id)
	}
}

// Request describes a single API call.
//
// At most one of Body and Multipart is used; Multipart wins when both are set.
// SkipEviction marks credential exchanges (login, register) whose 401 rejects the submitted
// credentials rather than the stored token.
type Request struct {
	Method       string
	Endpoint     string
	Query        url.Values
	Body         any
	Multipart    *MultipartBody
	SkipEviction bool
}

// MultipartBody is a multipart/form-data payload streamed to the server.
type MultipartBody struct {
	Fields map[string]string
	Files  []MultipartFile
}

// MultipartFile is a single file part of a [MultipartBody].
type MultipartFile struct {
	Field    string
	FileName string
	Reader   io.Reader
}

// APIResponse represents a classified API response.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	NoContent  bool
	IsJSON     bool
}

// Text returns the raw body as a string.
func (r *APIResponse) Text() string { return string(r.Body) }

// Decode unmarshals a JSON body into v.
func (r *APIResponse) Decode(v any) error {
	if !r.IsJSON {
		return fmt.Errorf("%w: expected JSON response, got %q", shared.ErrAPIRequest, r.Headers.Get("Content-Type"))
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response.
type APIError struct {
	Status   int
	Endpoint string
	Message  string
	Errors   map[string][]string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap maps the status code onto the shared error taxonomy.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case http.StatusUnprocessableEntity:
		return shared.ErrValidation
	case http.StatusServiceUnavailable:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// FieldErrors flattens the validation errors into "field: message" lines ordered by field.
func (e *APIError) FieldErrors() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var lines []string
	for _, f := range fields {
		for _, msg := range e.Errors[f] {
			lines = append(lines, f+": "+msg)
		}
	}
	return lines
}

type errorEnvelope struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Do performs a JSON request and decodes the response into out when out is non-nil.
// A 204 response leaves out untouched.
func (g *Gateway) Do(ctx context.Context, method, endpoint string, body, out any) error {
	return g.Send(ctx, Request{Method: method, Endpoint: endpoint, Body: body}, out)
}

// Send performs req and decodes a JSON response into out when out is non-nil.
func (g *Gateway) Send(ctx context.Context, req Request, out any) error {
	resp, err := g.Request(ctx, req)
	if err != nil {
		return err
	}

	if out == nil || resp.NoContent {
		return nil
	}

	return resp.Decode(out)
}

// Request performs req and returns the classified response, or an [*APIError] for non-2xx statuses.
func (g *Gateway) Request(ctx context.Context, req Request) (*APIResponse, error) {
	token, err := g.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	httpReq, err := g.newRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}
	httpReq.Header.Set("X-Request-ID", shared.GenerateID())

	g.logger.Debug("api request", "method", httpReq.Method, "endpoint", req.Endpoint, "request_id", httpReq.Header.Get("X-Request-ID"))

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	apiResp, err := classify(resp)
	if err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil, err
		}
		apiResp = &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return apiResp, nil
	}

	apiErr := newAPIError(req.Endpoint, apiResp)
	if resp.StatusCode == http.StatusUnauthorized && !req.SkipEviction {
		g.evict(ctx, req.Endpoint, resp.StatusCode)
	}

	return nil, apiErr
}

func (g *Gateway) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := g.baseURL + req.Endpoint
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	if req.Multipart != nil {
		body, contentType := req.Multipart.stream()
		httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			body.Close()
			return nil, err
		}
		httpReq.Header.Set("Content-Type", contentType)
		return httpReq, nil
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}

// stream writes the form through a pipe so large files are never buffered in memory.
func (m *MultipartBody) stream() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(m.write(mw))
	}()

	return pr, mw.FormDataContentType()
}

func (m *MultipartBody) write(mw *multipart.Writer) error {
	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := mw.WriteField(k, m.Fields[k]); err != nil {
			return fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	for _, f := range m.Files {
		part, err := mw.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("failed to write form file %s: %w", f.Field, err)
		}
	}

	return mw.Close()
}

func classify(resp *http.Response) (*APIResponse, error) {
	apiResp := &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header}

	if resp.StatusCode == http.StatusNoContent {
		apiResp.NoContent = true
		return apiResp, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	apiResp.Body = body

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var raw json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		apiResp.IsJSON = true
	}

	return apiResp, nil
}

func newAPIError(endpoint string, resp *APIResponse) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Endpoint: endpoint}

	if resp.IsJSON {
		var env errorEnvelope
		if err := json.Unmarshal(resp.Body, &env); err == nil {
			apiErr.Message = env.Message
			apiErr.Errors = env.Errors
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
	}
	return apiErr
}

// evict clears a stored credential and notifies subscribers.
// Only the caller that actually removed a credential emits the event.
func (g *Gateway) evict(ctx context.Context, endpoint string, status int) {
	g.evictMu.Lock()
	token, err := g.store.Get(ctx)
	if err != nil {
		g.evictMu.Unlock()
		g.logger.Error("failed to read token during eviction", "error", err)
		return
	}
	if token == "" {
		g.evictMu.Unlock()
		return
	}
	if err := g.store.Clear(ctx); err != nil {
		g.logger.Error("failed to clear token", "error", err)
	}
	g.evictMu.Unlock()

	g.logger.Warn("session invalidated", "endpoint", endpoint, "status", status)

	ev := SessionInvalidated{Endpoint: endpoint, Status: status}
	for _, fn := range g.snapshotSubscribers() {
		fn(ev)
	}
}

func (g *Gateway) snapshotSubscribers() []func(SessionInvalidated) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]int, 0, len(g.subscribers))
	for id := range g.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]func(SessionInvalidated), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, g.subscribers[id])
	}
	return fns
}
