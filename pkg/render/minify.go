package render

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

var minifier = func() *minify.M {
	m := minify.New()
	m.AddFunc(FormatSVG.ContentType(), svg.Minify)
	return m
}()

// MinifySVG shrinks an SVG document without changing how it draws.
func MinifySVG(data []byte) ([]byte, error) {
	out, err := minifier.Bytes(FormatSVG.ContentType(), data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "minify svg")
	}
	return out, nil
}
