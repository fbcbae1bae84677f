package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// script runs a diagram command with script output in light mode and no
// cache, returning stdout.
func script(t *testing.T, args ...string) string {
	t.Helper()
	args = append(args, "-f", "mermaid", "--mode", "light", "--cache", "none")
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestDiagramCommandsFromFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "flowchart",
			args: []string{"flowchart", "-d", "LR", "-n", "A:Start:stadium", "-n", "B:End", "-l", "A->B:dotted:done",
				"--class-def", "hot:fill:#f96", "--class", "hot:A", "--link-style", "0:stroke:#f00"},
			want: []string{"flowchart LR", `A(["Start"])`, `B["End"]`, `A -.->|"done"| B`, "classDef hot fill:#f96", "class A hot", "linkStyle 0 stroke:#f00"},
		},
		{
			name: "graph alias",
			args: []string{"graph", "-n", "A", "-n", "B", "-l", "A->B"},
			want: []string{"flowchart TB", "A --> B"},
		},
		{
			name: "sequence",
			args: []string{"sequence", "--autonumber", "-a", "u:User", "-p", "api:API", "-m", "u->api::GET /items", "--note", "over:u,api:auth"},
			want: []string{"sequenceDiagram", "autonumber", "actor u as User", "participant api as API", "u->>api: GET /items", "Note over u,api: auth"},
		},
		{
			name: "state",
			args: []string{"state", "--state", "Idle", "--state", "Busy:working", "--transition", "[*]->Idle", "--transition", "Idle->Busy:start"},
			want: []string{"stateDiagram-v2", "[*] --> Idle", "Idle --> Busy : start"},
		},
		{
			name: "er",
			args: []string{"er", "--entity", "CUSTOMER:id:int:PK,name", "--entity", "ORDER:id:int:PK", "--relationship", "CUSTOMER->ORDER:one-to-many:places"},
			want: []string{"erDiagram", "CUSTOMER {", "int id PK", "CUSTOMER ||--o{ ORDER"},
		},
		{
			name: "pie",
			args: []string{"pie", "--title", "Pets", "--show-data", "-d", "Dogs:3", "-d", "Cats:2"},
			want: []string{"pie showData", `"Dogs" : 3`, `"Cats" : 2`},
		},
		{
			name: "mindmap",
			args: []string{"mindmap", "--root", "Go", "--shape", "circle", "--child", "Tooling"},
			want: []string{"mindmap", "((Go))", "Tooling"},
		},
		{
			name: "journey",
			args: []string{"journey", "--section", "Morning", "--task", "Coffee:5:Me", "--section", "Work", "--task", "Meetings:2:Me,Team"},
			want: []string{"journey", "section Morning", "Coffee: 5: Me", "section Work", "Meetings: 2: Me, Team"},
		},
		{
			name: "requirement",
			args: []string{"requirement", "--requirement", "R1:login:Users log in:high:test", "--element", "auth:simulation", "--relation", "auth->login:satisfies"},
			want: []string{"requirementDiagram", "requirement login {", "id: R1", "element auth {", "auth - satisfies -> login"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := script(t, tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output lacks %q:\n%s", w, out)
				}
			}
			if !strings.Contains(out, "theme: default") {
				t.Errorf("light mode should set the default theme:\n%s", out)
			}
		})
	}
}

func TestJourneyTasksFollowSections(t *testing.T) {
	out := script(t, "journey", "--section", "A", "--task", "one:1", "--section", "B", "--task", "two:2")
	a, one := strings.Index(out, "section A"), strings.Index(out, "one: 1")
	b, two := strings.Index(out, "section B"), strings.Index(out, "two: 2")
	if !(a < one && one < b && b < two) {
		t.Errorf("tasks out of section order:\n%s", out)
	}
}

func TestDiagramCommandFromDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.toml")
	doc := "title = \"Pets\"\n\n[[data]]\nlabel = \"Dogs\"\nvalue = 3\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out := script(t, "pie", "-i", path)
	if !strings.Contains(out, `"Dogs" : 3`) {
		t.Errorf("output = %q", out)
	}
}

func TestDiagramCommandFromStdin(t *testing.T) {
	out, err := executeIn(t, `{"data": [{"label": "Cats", "value": 2}]}`,
		"pie", "--stdin", "-f", "mermaid", "--cache", "none")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"Cats" : 2`) {
		t.Errorf("output = %q", out)
	}
}

func TestDiagramCommandRawText(t *testing.T) {
	out := script(t, "flowchart", "--mermaid", "graph LR\n  X --> Y", "--title", "Raw")
	for _, w := range []string{"title: Raw", "theme: default", "graph LR", "X --> Y"} {
		if !strings.Contains(out, w) {
			t.Errorf("output lacks %q:\n%s", w, out)
		}
	}
}

func TestDiagramCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"bad node shape", []string{"flowchart", "-n", "A:x:blob"}, errs.ErrCodeInvalidInput},
		{"link to unknown node", []string{"flowchart", "-n", "A", "-l", "A->B"}, errs.ErrCodeConfig},
		{"bad pie value", []string{"pie", "-d", "Dogs:many"}, errs.ErrCodeInvalidInput},
		{"missing file", []string{"pie", "-i", "nope.yaml"}, errs.ErrCodeFileNotFound},
		{"bad document extension", []string{"pie", "-i", "pets.txt"}, errs.ErrCodeInvalidFormat},
		{"bad mode", []string{"pie", "-d", "a:1", "--mode", "dim"}, errs.ErrCodeInvalidInput},
		{"bad scale", []string{"pie", "-d", "a:1", "--scale", "5"}, errs.ErrCodeInvalidInput},
		{"bad format", []string{"pie", "-d", "a:1", "-f", "gif"}, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(tt.args, "--cache", "none")...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestInputFlagsAreExclusive(t *testing.T) {
	if _, err := execute(t, "pie", "--stdin", "--mermaid", "pie", "--cache", "none"); err == nil {
		t.Error("expected an error for --stdin with --mermaid")
	}
}

// inkServer serves a fixed SVG for every /svg/ request and counts them.
func inkServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasPrefix(r.URL.Path, "/svg/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestRenderToFileWithCache(t *testing.T) {
	ts, calls := inkServer(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "img", "pets.svg")
	args := []string{"pie", "-d", "Dogs:3", "-o", out, "--server", ts.URL, "--cache", filepath.Join(dir, "cache")}

	for i := 0; i < 2; i++ {
		if _, err := execute(t, args...); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("file = %q", data)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server calls = %d, want 1 (second run cached)", n)
	}

	if _, err := execute(t, append(args, "--refresh")...); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server calls after --refresh = %d, want 2", n)
	}
}

func TestRenderToStdout(t *testing.T) {
	ts, _ := inkServer(t)
	out, err := execute(t, "pie", "-d", "Dogs:3", "--server", ts.URL, "--cache", "none")
	if err != nil {
		t.Fatal(err)
	}
	if out != `<svg xmlns="http://www.w3.org/2000/svg"></svg>`+"\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gantt.mmd")
	text := "gantt\n  title Plan\n  section A\n  Task :a1, 2024-01-01, 3d\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	out := script(t, "render", path, "--title", "Plan")
	if !strings.Contains(out, "title: Plan") || !strings.Contains(out, "gantt") {
		t.Errorf("output = %q", out)
	}

	withFrontmatter := "---\ntitle: Own\n---\ngraph LR\n  A --> B\n"
	out = script(t, "render", "-m", withFrontmatter, "--title", "Ignored")
	if strings.Contains(out, "Ignored") || strings.Count(out, "---") != 2 {
		t.Errorf("frontmatter should pass through unchanged: %q", out)
	}
}

func TestRenderCommandNeedsOneInput(t *testing.T) {
	for _, args := range [][]string{
		{"render"},
		{"render", "a.mmd", "-m", "graph LR"},
	} {
		_, err := execute(t, append(args, "--cache", "none")...)
		if !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("%v: err = %v, want INVALID_INPUT", args, err)
		}
	}
}

func TestNewCommand(t *testing.T) {
	out, err := execute(t, "new", "pie", "--doc-format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"kind": "pie"`) {
		t.Errorf("template = %q", out)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "flow.yaml")
	if _, err := execute(t, "new", "flowchart", "-o", path); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "new", "flowchart", "-o", path); !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("second new without --force: err = %v, want INVALID_PATH", err)
	}
	if _, err := execute(t, "new", "flowchart", "-o", path, "--force"); err != nil {
		t.Errorf("new --force: %v", err)
	}

	// The generated document renders.
	out = script(t, "flowchart", "-i", path)
	if !strings.HasPrefix(strings.TrimSpace(out), "---") || !strings.Contains(out, "flowchart") {
		t.Errorf("rendered template = %q", out)
	}
}

func TestFlagCompletions(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"__complete", "pie", "--format", ""}, []string{"svg", "png", "mermaid"}},
		{[]string{"__complete", "pie", "--theme", ""}, []string{"default", "forest", "neutral"}},
		{[]string{"__complete", "flowchart", "--direction", ""}, []string{"LR", "TB"}},
		{[]string{"__complete", "mindmap", "--shape", ""}, []string{"circle", "bang"}},
		{[]string{"__complete", "new", ""}, []string{"flowchart", "requirement"}},
	}
	for _, tt := range tests {
		out, err := execute(t, tt.args...)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		for _, w := range tt.want {
			if !strings.Contains(out, w+"\n") {
				t.Errorf("%v: completions lack %q:\n%s", tt.args[1:], w, out)
			}
		}
	}
}
