// Package server exposes the diagram pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and version
//	POST /v1/{kind}/script        diagram document in, Mermaid script out
//	POST /v1/{kind}/render        diagram document in, SVG or PNG out
//	POST /v1/raw/render           raw Mermaid text in, SVG or PNG out
//
// Documents may be JSON, YAML or TOML; the Content-Type header selects the
// decoder and anything else is detected. Render routes take the image
// options as query parameters: format, engine, width, height, scale,
// background, theme, refresh and minify.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/mermaid/pkg/buildinfo"
	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	mmio "github.com/matzehuels/mermaid/pkg/io"
	"github.com/matzehuels/mermaid/pkg/pipeline"
	"github.com/matzehuels/mermaid/pkg/render"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// RequestIDHeader carries the request id in both directions. A client
// supplied id is kept; otherwise a UUID is generated.
const RequestIDHeader = "X-Request-Id"

// Server handles diagram requests with a shared pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. defaults supplies the engine, server URL and image
// options that requests do not override.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	s := &Server{runner: runner, defaults: defaults, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/raw/render", s.handleRawRender)
		r.Post("/{kind}/script", s.handleScript)
		r.Post("/{kind}/render", s.handleRender)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	input, err := documentInput(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts := s.defaults
	opts.Format = render.FormatMermaid
	s.run(w, r, input, opts)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	input, err := documentInput(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.run(w, r, input, opts)
}

func (s *Server) handleRawRender(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cfg, err := themeConfig(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	input := pipeline.Input{Mermaid: string(body), Title: r.URL.Query().Get("title"), Config: cfg}
	s.run(w, r, input, opts)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, input pipeline.Input, opts pipeline.Options) {
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	res, err := s.runner.Run(r.Context(), input, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.Format.ContentType())
	w.Header().Set("X-Diagram-Kind", res.Kind.String())
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else if opts.IsImage() {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// =============================================================================
// Request Decoding
// =============================================================================

// documentInput reads a diagram document for the {kind} in the path.
func documentInput(w http.ResponseWriter, r *http.Request) (pipeline.Input, error) {
	kind, err := diagram.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return pipeline.Input{}, errs.Wrap(errs.ErrCodeNotFound, err, "unknown diagram kind %q", chi.URLParam(r, "kind"))
	}
	body, err := readBody(w, r)
	if err != nil {
		return pipeline.Input{}, err
	}
	cfg, err := themeConfig(r)
	if err != nil {
		return pipeline.Input{}, err
	}
	return pipeline.Input{
		Kind:           kind,
		Document:       body,
		DocumentFormat: contentFormat(r.Header.Get("Content-Type")),
		Title:          r.URL.Query().Get("title"),
		Config:         cfg,
	}, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "empty request body")
	}
	return body, nil
}

// contentFormat maps a Content-Type to a document format; empty means
// detect.
func contentFormat(contentType string) mmio.Format {
	mt, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(strings.ToLower(mt)) {
	case "application/json":
		return mmio.FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml":
		return mmio.FormatYAML
	case "application/toml", "text/toml":
		return mmio.FormatTOML
	}
	return ""
}

func themeConfig(r *http.Request) (*diagram.Config, error) {
	name := r.URL.Query().Get("theme")
	if name == "" {
		return nil, nil
	}
	t, err := diagram.ParseTheme(name)
	if err != nil {
		return nil, err
	}
	return &diagram.Config{Theme: t}, nil
}

// renderOptions overlays the query parameters on the server defaults. The
// format defaults to svg.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.defaults
	opts.Format = render.FormatSVG
	if f := q.Get("format"); f != "" {
		format, err := render.ParseFormat(f)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}
	if e := q.Get("engine"); e != "" {
		opts.Engine = e
	}
	if b := q.Get("background"); b != "" {
		opts.Background = b
	}
	var err error
	if opts.Width, err = intParam(q.Get("width"), opts.Width); err != nil {
		return opts, err
	}
	if opts.Height, err = intParam(q.Get("height"), opts.Height); err != nil {
		return opts, err
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid scale %q", v)
		}
	}
	if opts.Refresh, err = boolParam("refresh", q.Get("refresh"), opts.Refresh); err != nil {
		return opts, err
	}
	if opts.Minify, err = boolParam("minify", q.Get("minify"), opts.Minify); err != nil {
		return opts, err
	}
	return opts, opts.ValidateAndSetDefaults()
}

func boolParam(name, v string, fallback bool) (bool, error) {
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
	}
	return b, nil
}

func intParam(v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid integer %q", v)
	}
	return n, nil
}

// =============================================================================
// Errors
// =============================================================================

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusCode maps an error code to an HTTP status.
func StatusCode(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeParse,
		errs.ErrCodeConfig, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errs.ErrCodeRenderFailed, errs.ErrCodeNetwork:
		return http.StatusBadGateway
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	id := RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", id, "error", err)
	}
	writeJSON(w, status, errorBody{
		Error:     errs.UserMessage(err),
		Code:      string(errs.GetCode(err)),
		RequestID: id,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// RequestID returns the id of the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration.Round(time.Millisecond),
			"request_id", RequestID(r.Context()),
		)
	})
}
