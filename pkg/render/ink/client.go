package ink

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/mermaid/pkg/buildinfo"
	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/httputil"
	"github.com/matzehuels/mermaid/pkg/observability"
	"github.com/matzehuels/mermaid/pkg/render"
)

const (
	// DefaultServer is the public mermaid.ink instance.
	DefaultServer = "https://mermaid.ink"

	// ServerEnv names the environment variable that overrides DefaultServer.
	ServerEnv = "MERMAID_INK_SERVER"

	httpTimeout     = 30 * time.Second
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
	maxErrorBody    = 512
)

// Client renders diagrams through a mermaid.ink server.
// It is safe for concurrent use.
type Client struct {
	http     *http.Client
	server   string
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.delay = delay
	}
}

// NewClient creates a Client for server. An empty server falls back to
// $MERMAID_INK_SERVER, then to [DefaultServer].
func NewClient(server string, opts ...Option) *Client {
	if server == "" {
		server = os.Getenv(ServerEnv)
	}
	if server == "" {
		server = DefaultServer
	}
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		server:   strings.TrimRight(server, "/"),
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Server returns the base URL requests are sent to.
func (c *Client) Server() string { return c.server }

// Name implements [render.Renderer].
func (*Client) Name() string { return "ink" }

// Render implements [render.Renderer] by rendering the full script of d.
func (c *Client) Render(ctx context.Context, d diagram.Diagram, format render.Format, opts render.Options) ([]byte, error) {
	return c.RenderScript(ctx, diagram.BuildScript(d), format, opts)
}

// RenderScript renders Mermaid text. Server errors (5xx), rate limiting
// (429) and network failures are retried with exponential backoff; other
// non-2xx responses fail immediately with RENDER_FAILED.
func (c *Client) RenderScript(ctx context.Context, script string, format render.Format, opts render.Options) ([]byte, error) {
	u, err := c.URL(script, format, opts)
	if err != nil {
		return nil, err
	}

	var out []byte
	err = httputil.Retry(ctx, c.attempts, c.delay, func() error {
		body, err := c.get(ctx, u, endpoint(format))
		out = body
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// URL returns the request URL for script:
//
//	<server>/<svg|img>/<base64url>?width=&height=&scale=&bgColor=
//
// Unset options are left out. Hex backgrounds lose their '#'; named colors
// are sent as "!name", which is how mermaid.ink tells them apart.
func (c *Client) URL(script string, format render.Format, opts render.Options) (string, error) {
	ep := endpoint(format)
	if ep == "" {
		return "", errs.New(errs.ErrCodeUnsupported, "mermaid.ink cannot render format %q", format)
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}

	q := url.Values{}
	if opts.Width > 0 {
		q.Set("width", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("height", strconv.Itoa(opts.Height))
	}
	if opts.Scale > 0 {
		q.Set("scale", strconv.FormatFloat(opts.Scale, 'f', -1, 64))
	}
	if bg := opts.Background; bg != "" {
		if hex, ok := strings.CutPrefix(bg, "#"); ok {
			q.Set("bgColor", hex)
		} else {
			q.Set("bgColor", "!"+bg)
		}
	}
	if format == render.FormatPNG {
		q.Set("type", "png")
	}

	u := c.server + "/" + ep + "/" + render.Encode(script)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

func endpoint(format render.Format) string {
	switch format {
	case render.FormatSVG:
		return "svg"
	case render.FormatPNG:
		return "img"
	}
	return ""
}

func (c *Client) get(ctx context.Context, rawURL, ep string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid render server %q", c.server)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	host, path := req.URL.Host, "/"+ep
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isTimeout(err) {
			return nil, &httputil.RetryableError{Err: errs.Wrap(errs.ErrCodeTimeout, err, "request to %s timed out", host)}
		}
		return nil, &httputil.RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "request to %s failed", host)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "read response from %s", host)}
	}
	return data, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		after := retryAfter(resp.Header.Get("Retry-After"))
		return &httputil.RetryableError{
			Err:   &errs.RateLimitedError{RetryAfter: after, Message: bodyDetail(resp)},
			After: time.Duration(after) * time.Second,
		}
	case code >= 500:
		return &httputil.RetryableError{Err: statusError(resp)}
	default:
		return statusError(resp)
	}
}

// statusError includes the start of the response body, where mermaid.ink
// explains syntax errors.
func statusError(resp *http.Response) error {
	if detail := bodyDetail(resp); detail != "" {
		return errs.New(errs.ErrCodeRenderFailed, "server returned status %d: %s", resp.StatusCode, detail)
	}
	return errs.New(errs.ErrCodeRenderFailed, "server returned status %d", resp.StatusCode)
}

func bodyDetail(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return strings.TrimSpace(string(body))
}

func retryAfter(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

var _ render.Renderer = (*Client)(nil)
