package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ConnectResult is the query string the connect flow returned with.
type ConnectResult struct {
	Query url.Values
}

// Connected reports whether the return carried youtube_connected=true.
func (c ConnectResult) Connected() bool {
	return c.Query.Get("youtube_connected") == "true"
}

// ErrorMessage returns the decoded youtube_error value, if any.
func (c ConnectResult) ErrorMessage() string {
	return c.Query.Get("youtube_error")
}

// ConnectHandler receives the browser after the channel connect flow redirects back to the settings page.
//
// Only the first callback is processed.
type ConnectHandler struct {
	resultChan  chan ConnectResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewConnectHandler creates a new [ConnectHandler].
func NewConnectHandler() *ConnectHandler {
	return &ConnectHandler{resultChan: make(chan ConnectResult, 1)}
}

// Routes returns the HTTP routes this handler serves.
func (h *ConnectHandler) Routes() []string {
	return []string{"GET /settings"}
}

var connectPage = template.Must(template.New("connect").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Body}}</p>
    </div>
</body>
</html>
`))

type connectView struct {
	Title string
	Color template.CSS
	Body  string
}

// ServeHTTP captures the query, hands it to [ConnectHandler.Result] and renders a status page.
func (h *ConnectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	result := ConnectResult{Query: r.URL.Query()}
	h.Send(result)

	view := connectView{
		Title: "YouTube Channel Connected",
		Color: "#c4302b",
		Body:  "You can close this window and return to the terminal.",
	}
	status := http.StatusOK
	switch {
	case result.ErrorMessage() != "":
		view = connectView{Title: "Connection Failed", Color: "#666", Body: result.ErrorMessage()}
		status = http.StatusBadRequest
	case !result.Connected():
		view = connectView{Title: "Connection Status Unknown", Color: "#666", Body: "Return to the terminal to check your channel status."}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = connectPage.Execute(w, view)
}

// Send delivers result through the channel (only once).
func (h *ConnectHandler) Send(result ConnectResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel. It receives exactly one result and is then closed.
func (h *ConnectHandler) Result() <-chan ConnectResult {
	return h.resultChan
}

// Wait blocks until a result arrives, ctx is done, or timeout elapses.
func (h *ConnectHandler) Wait(ctx context.Context, timeout time.Duration) (ConnectResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case res := <-h.resultChan:
		return res, nil
	case <-ctx.Done():
		return ConnectResult{}, fmt.Errorf("waiting for channel connect callback: %w", ctx.Err())
	}
}
