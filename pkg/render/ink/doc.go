// Package ink renders diagrams with a mermaid.ink server.
//
// mermaid.ink takes the diagram script as an unpadded base64url path
// segment and answers with an image: /svg/<script> for SVG, /img/<script>
// for raster output (PNG with type=png). The server defaults to
// https://mermaid.ink and can be changed with $MERMAID_INK_SERVER or
// [NewClient], which makes self-hosted instances work the same way.
//
//	c := ink.NewClient("")
//	svg, err := c.Render(ctx, d, render.FormatSVG, render.Options{Background: "#1e1e1e"})
//
// # Errors
//
// Every non-2xx response is RENDER_FAILED, carrying the start of the
// response body. 5xx responses, 429 and network failures are retried with
// exponential backoff (see [httputil.Retry]) before the last error is
// returned; a 429 that outlasts the retries surfaces as
// [errors.RateLimitedError]. Timeouts are TIMEOUT.
//
// Requests are reported to the hooks registered with
// [observability.Install].
//
// [httputil.Retry]: github.com/matzehuels/mermaid/pkg/httputil.Retry
// [errors.RateLimitedError]: github.com/matzehuels/mermaid/pkg/errors.RateLimitedError
// [observability.Install]: github.com/matzehuels/mermaid/pkg/observability.Install
package ink
