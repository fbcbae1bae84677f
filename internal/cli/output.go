package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	errs "github.com/matzehuels/mermaid/pkg/errors"
	"github.com/matzehuels/mermaid/pkg/pipeline"
	"github.com/matzehuels/mermaid/pkg/render"
)

// targetKind is where a result goes.
type targetKind int

const (
	targetFile targetKind = iota
	targetStdout
	targetClipboard
	targetBrowser
)

type outputTarget struct {
	kind targetKind
	path string // targetFile only
}

// output delivers a pipeline result to every selected target, in the order
// file, stdout, clipboard, browser. Stdout is used when nothing is selected.
type output struct {
	targets []outputTarget

	stdout    io.Writer
	tempDir   string
	copyText  func(string) error
	openFile  func(string) error
	openURL   func(string) error
	warn      func(format string, args ...any)
	wroteFile func(path string)
}

func newOutput(o *globalOptions, stdout io.Writer) *output {
	out := &output{
		stdout:    stdout,
		tempDir:   os.TempDir(),
		copyText:  clipboard.WriteAll,
		openFile:  browser.OpenFile,
		openURL:   browser.OpenURL,
		warn:      printWarning,
		wroteFile: printFile,
	}
	if o.output != "" {
		out.targets = append(out.targets, outputTarget{kind: targetFile, path: o.output})
	}
	if o.stdout {
		out.targets = append(out.targets, outputTarget{kind: targetStdout})
	}
	if o.clipboard {
		out.targets = append(out.targets, outputTarget{kind: targetClipboard})
	}
	if o.open {
		out.targets = append(out.targets, outputTarget{kind: targetBrowser})
	}
	if len(out.targets) == 0 {
		out.targets = []outputTarget{{kind: targetStdout}}
	}
	return out
}

// toStdout reports whether the result is written to stdout, where status
// lines would mix with it.
func (o *output) toStdout() bool {
	for _, t := range o.targets {
		if t.kind == targetStdout {
			return true
		}
	}
	return false
}

// write stops at the first failing target.
func (o *output) write(res *pipeline.Result) error {
	for _, t := range o.targets {
		var err error
		switch t.kind {
		case targetFile:
			err = o.writeFile(t.path, res.Artifact)
		case targetStdout:
			err = o.writeStdout(res)
		case targetClipboard:
			err = o.writeClipboard(res)
		case targetBrowser:
			err = o.writeBrowser(res)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *output) writeFile(path string, data []byte) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeIO, err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	o.wroteFile(path)
	return nil
}

// writeStdout adds a trailing newline to SVG; PNG and scripts are written
// as they are.
func (o *output) writeStdout(res *pipeline.Result) error {
	data := res.Artifact
	if res.Format == render.FormatSVG && len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data[:len(data):len(data)], '\n')
	}
	if _, err := o.stdout.Write(data); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write stdout")
	}
	return nil
}

// writeClipboard copies text results; PNG is skipped with a warning.
func (o *output) writeClipboard(res *pipeline.Result) error {
	if res.Format.Binary() {
		o.warn("%s", errs.New(errs.ErrCodeUnsupported, "PNG cannot be copied to the clipboard").Error())
		return nil
	}
	if err := o.copyText(string(res.Artifact)); err != nil {
		return errs.Wrap(errs.ErrCodeClipboard, err, "copy to clipboard")
	}
	return nil
}

// writeBrowser opens images from a temp file and scripts in the
// mermaid.live editor.
func (o *output) writeBrowser(res *pipeline.Result) error {
	if res.Format == render.FormatMermaid {
		if err := o.openURL(render.ScriptEditorURL(res.Script)); err != nil {
			return errs.Wrap(errs.ErrCodeIO, err, "open browser")
		}
		return nil
	}

	path := filepath.Join(o.tempDir, appName+"-output"+res.Format.Ext())
	if err := os.WriteFile(path, res.Artifact, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err := o.openFile(path); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "open browser")
	}
	return nil
}
