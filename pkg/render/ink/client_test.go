package ink

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/observability"
	"github.com/matzehuels/mermaid/pkg/render"
)

const script = "flowchart TB\n  A --> B"

func TestNewClientServer(t *testing.T) {
	t.Setenv(ServerEnv, "")
	if got := NewClient("").Server(); got != DefaultServer {
		t.Errorf("Server() = %q, want %q", got, DefaultServer)
	}

	t.Setenv(ServerEnv, "http://ink.internal:3000/")
	if got := NewClient("").Server(); got != "http://ink.internal:3000" {
		t.Errorf("Server() from env = %q", got)
	}
	if got := NewClient("https://render.example.com").Server(); got != "https://render.example.com" {
		t.Errorf("Server() explicit = %q", got)
	}
}

func TestURL(t *testing.T) {
	c := NewClient("https://mermaid.ink")

	tests := []struct {
		name   string
		format render.Format
		opts   render.Options
		path   string
		query  url.Values
	}{
		{"svg bare", render.FormatSVG, render.Options{}, "/svg/", url.Values{}},
		{
			"svg sized", render.FormatSVG,
			render.Options{Width: 800, Height: 600, Scale: 1.5, Background: "#1e1e1e"},
			"/svg/",
			url.Values{"width": {"800"}, "height": {"600"}, "scale": {"1.5"}, "bgColor": {"1e1e1e"}},
		},
		{"png", render.FormatPNG, render.Options{Background: "white"}, "/img/", url.Values{"type": {"png"}, "bgColor": {"!white"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := c.URL(script, tt.format, tt.opts)
			if err != nil {
				t.Fatalf("URL() error: %v", err)
			}
			u, err := url.Parse(raw)
			if err != nil {
				t.Fatalf("url.Parse(%q): %v", raw, err)
			}
			enc, ok := strings.CutPrefix(u.Path, tt.path)
			if !ok {
				t.Fatalf("path = %q, want prefix %q", u.Path, tt.path)
			}
			if strings.Contains(enc, "=") {
				t.Errorf("encoded script %q is padded", enc)
			}
			dec, err := base64.RawURLEncoding.DecodeString(enc)
			if err != nil || string(dec) != script {
				t.Errorf("decoded script = %q, %v; want %q", dec, err, script)
			}
			if got := u.Query(); got.Encode() != tt.query.Encode() {
				t.Errorf("query = %v, want %v", got, tt.query)
			}
		})
	}
}

func TestURLErrors(t *testing.T) {
	c := NewClient("https://mermaid.ink")
	if _, err := c.URL(script, render.FormatMermaid, render.Options{}); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("mermaid format: error = %v, want UNSUPPORTED", err)
	}
	if _, err := c.URL(script, render.FormatSVG, render.Options{Width: -1}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("negative width: error = %v, want INVALID_INPUT", err)
	}
	if _, err := c.URL(script, render.FormatSVG, render.Options{Background: "#zz"}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad color: error = %v, want INVALID_INPUT", err)
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithHTTPClient(srv.Client()), WithRetry(3, time.Millisecond))
}

func TestRender(t *testing.T) {
	var gotPath, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotUA = r.URL.Path, r.UserAgent()
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte("<svg/>"))
	})

	d, err := diagram.NewFlowchart().
		Node(diagram.Node{ID: "A"}, diagram.Node{ID: "B"}).
		Link(diagram.Link{From: "A", To: "B"}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := c.Render(context.Background(), d, render.FormatSVG, render.Options{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(out) != "<svg/>" {
		t.Errorf("Render() = %q, want <svg/>", out)
	}
	if want := "/svg/" + render.Encode(diagram.BuildScript(d)); gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
	if !strings.HasPrefix(gotUA, "mermaid-cli/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantCode  errs.Code
	}{
		{"bad request fails at once", []int{400}, 1, errs.ErrCodeRenderFailed},
		{"server error recovers", []int{503, 200}, 2, ""},
		{"server error exhausted", []int{500, 502, 503}, 3, errs.ErrCodeRenderFailed},
		{"rate limited exhausted", []int{429, 429, 429}, 3, errs.ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				status := tt.statuses[n-1]
				if status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "7")
				}
				w.WriteHeader(status)
				if status == http.StatusBadRequest {
					w.Write([]byte("Parse error on line 2"))
				}
			})

			_, err := c.RenderScript(context.Background(), script, render.FormatPNG, render.Options{})
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			if got := errs.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestRenderErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Parse error on line 2", http.StatusBadRequest)
	})
	_, err := c.RenderScript(context.Background(), script, render.FormatSVG, render.Options{})
	if err == nil || !strings.Contains(err.Error(), "status 400: Parse error on line 2") {
		t.Errorf("error = %v, want status and body detail", err)
	}
}

func TestRenderRateLimitRetryAfter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.RenderScript(context.Background(), script, render.FormatSVG, render.Options{})
	rl, ok := err.(*errs.RateLimitedError)
	if !ok {
		t.Fatalf("error = %T %v, want *RateLimitedError", err, err)
	}
	if rl.RetryAfter != 12 {
		t.Errorf("RetryAfter = %d, want 12", rl.RetryAfter)
	}
}

func TestRenderNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(addr, WithRetry(2, time.Millisecond))
	_, err := c.RenderScript(context.Background(), script, render.FormatSVG, render.Options{})
	if !errs.Is(err, errs.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}

func TestRenderCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c.delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.RenderScript(ctx, script, render.FormatSVG, render.Options{})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests  atomic.Int32
	responses atomic.Int32
	lastPath  atomic.Value
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, _, _, path string) {
	h.requests.Add(1)
	h.lastPath.Store(path)
}

func (h *recordingHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
	h.responses.Add(1)
}

func TestRenderReportsHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	defer observability.Install(observability.Hooks{HTTP: hooks})()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	})
	if _, err := c.RenderScript(context.Background(), script, render.FormatPNG, render.Options{}); err != nil {
		t.Fatal(err)
	}
	if hooks.requests.Load() != 1 || hooks.responses.Load() != 1 {
		t.Errorf("requests/responses = %d/%d, want 1/1", hooks.requests.Load(), hooks.responses.Load())
	}
	if got := hooks.lastPath.Load(); got != "/img" {
		t.Errorf("hook path = %v, want /img", got)
	}
}
