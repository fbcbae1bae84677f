package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/mermaid/pkg/cache"
	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/observability"
	"github.com/matzehuels/mermaid/pkg/render"
)

func TestValidateEngine(t *testing.T) {
	tests := []struct {
		engine  string
		wantErr bool
	}{
		{"ink", false},
		{"graphviz", false},
		{"INK", true}, // case-sensitive
		{"kroki", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateEngine(tt.engine)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEngine(%q) error = %v, wantErr %v", tt.engine, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero Options: %v", err)
	}
	if opts.Format != DefaultFormat || opts.Engine != DefaultEngine || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}

	mmd := Options{Format: "mmd"}
	if err := mmd.ValidateAndSetDefaults(); err != nil || mmd.Format != render.FormatMermaid {
		t.Errorf("mmd: format = %q, err = %v", mmd.Format, err)
	}

	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"bad format", Options{Format: "pdf"}, errs.ErrCodeInvalidFormat},
		{"bad engine", Options{Engine: "kroki"}, errs.ErrCodeInvalidInput},
		{"bad server", Options{Server: "ftp://ink"}, errs.ErrCodeInvalidInput},
		{"negative width", Options{Width: -5}, errs.ErrCodeInvalidInput},
		{"bad background", Options{Background: "#xyz!"}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestRenderKeyOpts(t *testing.T) {
	a := Options{Engine: EngineGraphviz, Server: "https://a.example", Format: render.FormatSVG}
	b := Options{Engine: EngineGraphviz, Server: "https://b.example", Format: render.FormatSVG}
	if a.RenderKeyOpts() != b.RenderKeyOpts() {
		t.Error("server should not change graphviz cache keys")
	}
	a.Engine, b.Engine = EngineInk, EngineInk
	if a.RenderKeyOpts() == b.RenderKeyOpts() {
		t.Error("server should change ink cache keys")
	}
}

// fakeRenderer counts calls and returns image, or a tag naming the format
// and kind when image is nil.
type fakeRenderer struct {
	calls atomic.Int32
	err   error
	image []byte
}

func (f *fakeRenderer) Name() string { return "fake" }

func (f *fakeRenderer) Render(_ context.Context, d diagram.Diagram, format render.Format, _ render.Options) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if f.image != nil {
		return f.image, nil
	}
	return []byte("<" + string(format) + ":" + d.Kind().String() + ">"), nil
}

func newTestRunner(t *testing.T, fr *fakeRenderer) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	r.NewRenderer = func(Options) render.Renderer { return fr }
	t.Cleanup(func() { r.Close() })
	return r
}

func pie(t *testing.T) diagram.Diagram {
	t.Helper()
	d, err := diagram.NewPie().Title("Pets").Slice("Dogs", 3).Slice("Cats", 2).Build()
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestExecuteScript(t *testing.T) {
	fr := &fakeRenderer{}
	r := newTestRunner(t, fr)

	res, err := r.Execute(context.Background(), pie(t), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Format != render.FormatMermaid || res.Kind != diagram.KindPie {
		t.Errorf("format/kind = %q/%v", res.Format, res.Kind)
	}
	if string(res.Artifact) != res.Script+"\n" {
		t.Errorf("Artifact = %q, want script plus newline", res.Artifact)
	}
	if !strings.Contains(res.Script, `"Dogs" : 3`) {
		t.Errorf("Script = %q", res.Script)
	}
	if fr.calls.Load() != 0 {
		t.Error("script output should not call the renderer")
	}
}

func TestExecuteCaches(t *testing.T) {
	fr := &fakeRenderer{}
	r := newTestRunner(t, fr)
	ctx := context.Background()
	opts := Options{Format: render.FormatSVG}

	first, err := r.Execute(ctx, pie(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || string(first.Artifact) != "<svg:pie>" {
		t.Errorf("first run: hit=%v artifact=%q", first.CacheHit, first.Artifact)
	}

	second, err := r.Execute(ctx, pie(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || string(second.Artifact) != "<svg:pie>" {
		t.Errorf("second run: hit=%v artifact=%q", second.CacheHit, second.Artifact)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, pie(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}
	if got := fr.calls.Load(); got != 2 {
		t.Errorf("renderer calls = %d, want 2", got)
	}

	png, err := r.Execute(ctx, pie(t), Options{Format: render.FormatPNG})
	if err != nil {
		t.Fatal(err)
	}
	if png.CacheHit {
		t.Error("a different format must not hit the svg entry")
	}
}

func TestExecuteRenderError(t *testing.T) {
	fr := &fakeRenderer{err: errs.New(errs.ErrCodeRenderFailed, "server returned status 400")}
	r := newTestRunner(t, fr)

	_, err := r.Execute(context.Background(), pie(t), Options{Format: render.FormatSVG})
	if !errs.Is(err, errs.ErrCodeRenderFailed) {
		t.Fatalf("error = %v, want RENDER_FAILED", err)
	}

	fr.err = nil
	res, err := r.Execute(context.Background(), pie(t), Options{Format: render.FormatSVG})
	if err != nil || res.CacheHit {
		t.Errorf("failed renders must not be cached: hit=%v err=%v", res != nil && res.CacheHit, err)
	}
}

func TestExecuteNil(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), nil, Options{}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteInk(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte("<svg/>"))
	}))
	defer srv.Close()

	r := NewRunner(nil, nil, nil)
	d := pie(t)
	res, err := r.Execute(context.Background(), d, Options{Format: render.FormatSVG, Server: srv.URL})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if string(res.Artifact) != "<svg/>" {
		t.Errorf("Artifact = %q", res.Artifact)
	}
	want := "/svg/" + render.Encode(diagram.BuildScript(d))
	if len(paths) != 1 || paths[0] != want {
		t.Errorf("paths = %v, want [%s]", paths, want)
	}
}

func TestBuild(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		in       Input
		wantKind diagram.Kind
		wantCode errs.Code
	}{
		{
			name:     "yaml document",
			in:       Input{Kind: diagram.KindPie, Document: []byte("data:\n  - label: A\n    value: 1\n")},
			wantKind: diagram.KindPie,
		},
		{
			name:     "json document names its kind",
			in:       Input{Document: []byte(`{"kind": "pie", "data": [{"label": "A", "value": 1}]}`)},
			wantKind: diagram.KindPie,
		},
		{
			name:     "raw mermaid",
			in:       Input{Mermaid: "sequenceDiagram\n  A->>B: hi\n"},
			wantKind: diagram.KindSequence,
		},
		{
			name:     "prebuilt diagram",
			in:       Input{Diagram: pie(t)},
			wantKind: diagram.KindPie,
		},
		{
			name:     "kind mismatch",
			in:       Input{Kind: diagram.KindFlowchart, Diagram: pie(t)},
			wantCode: errs.ErrCodeInvalidInput,
		},
		{
			name:     "blank input",
			in:       Input{Mermaid: "  \n"},
			wantCode: errs.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := r.Build(ctx, tt.in)
			if tt.wantCode != "" {
				if got := errs.GetCode(err); got != tt.wantCode {
					t.Errorf("code = %q, want %q (err: %v)", got, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if d.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", d.Kind(), tt.wantKind)
			}
		})
	}
}

type recordingPipelineHooks struct {
	observability.NoopPipelineHooks
	builds  []string
	renders []string
}

func (h *recordingPipelineHooks) OnBuildComplete(_ context.Context, kind string, _ time.Duration, err error) {
	if err == nil {
		h.builds = append(h.builds, kind)
	}
}

func (h *recordingPipelineHooks) OnRenderComplete(_ context.Context, engine, format string, _ int, _ time.Duration, _ error) {
	h.renders = append(h.renders, engine+"/"+format)
}

func TestRunReportsHooks(t *testing.T) {
	hooks := &recordingPipelineHooks{}
	defer observability.Install(observability.Hooks{Pipeline: hooks})()

	fr := &fakeRenderer{}
	r := newTestRunner(t, fr)
	res, err := r.Run(context.Background(),
		Input{Mermaid: "pie\n  \"A\" : 1\n"},
		Options{Format: render.FormatPNG})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Kind != diagram.KindPie || string(res.Artifact) != "<png:pie>" {
		t.Errorf("result = %v %q", res.Kind, res.Artifact)
	}
	if len(hooks.builds) != 1 || hooks.builds[0] != "pie" {
		t.Errorf("builds = %v", hooks.builds)
	}
	if len(hooks.renders) != 1 || hooks.renders[0] != "fake/png" {
		t.Errorf("renders = %v", hooks.renders)
	}
}

func TestExecuteMinify(t *testing.T) {
	image := []byte("<svg xmlns=\"http://www.w3.org/2000/svg\">\n  <!-- pie -->\n  <circle r=\"10\"/>\n</svg>\n")
	fr := &fakeRenderer{image: image}
	r := newTestRunner(t, fr)
	ctx := context.Background()

	plain, err := r.Execute(ctx, pie(t), Options{Format: render.FormatSVG})
	if err != nil {
		t.Fatal(err)
	}
	if string(plain.Artifact) != string(image) {
		t.Errorf("unminified artifact changed: %q", plain.Artifact)
	}

	small, err := r.Execute(ctx, pie(t), Options{Format: render.FormatSVG, Minify: true})
	if err != nil {
		t.Fatal(err)
	}
	if !small.CacheHit {
		t.Error("minified run should reuse the cached render")
	}
	if len(small.Artifact) >= len(image) || strings.Contains(string(small.Artifact), "<!--") {
		t.Errorf("artifact not minified: %q", small.Artifact)
	}
	if small.Stats.Size != len(small.Artifact) {
		t.Errorf("Stats.Size = %d, want %d", small.Stats.Size, len(small.Artifact))
	}
}
