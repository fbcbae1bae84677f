package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// RenderKeyOpts lists everything besides the script that changes a render.
type RenderKeyOpts struct {
	Engine     string  `json:"engine"`
	Server     string  `json:"server,omitempty"`
	Format     string  `json:"format"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey returns the key of a rendered image.
	RenderKey(script string, opts RenderKeyOpts) string
}

// DefaultKeyer keys renders as "render:<format>:<sha256>", the hash
// covering the script and every option. The format stays readable so
// entries can be told apart in redis-cli or a Mongo shell.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(script string, opts RenderKeyOpts) string {
	// Struct fields marshal in a fixed order, so equal inputs give equal keys.
	data, _ := json.Marshal(struct {
		Script string        `json:"script"`
		Opts   RenderKeyOpts `json:"opts"`
	}{script, opts})
	return "render:" + opts.Format + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
