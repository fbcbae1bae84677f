package diagram

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// enum maps an int-backed enumeration to its names. The name at index i is
// the canonical spelling of value i; aliases add alternative spellings.
type enum[T ~int] struct {
	what    string
	names   []string
	aliases map[string]T
}

func (e *enum[T]) name(v T) string {
	if e.valid(v) {
		return e.names[v]
	}
	return fmt.Sprintf("%s(%d)", e.what, int(v))
}

func (e *enum[T]) valid(v T) bool {
	return int(v) >= 0 && int(v) < len(e.names)
}

// parse matches canonical names and aliases case-insensitively.
func (e *enum[T]) parse(s string) (T, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range e.names {
		if strings.ToLower(n) == key {
			return T(i), nil
		}
	}
	if v, ok := e.aliases[key]; ok {
		return v, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "invalid %s: %q (must be one of %s)",
		e.what, s, strings.Join(e.names, ", "))
}

func (e *enum[T]) unmarshal(dst *T, text []byte) error {
	v, err := e.parse(string(text))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func (e *enum[T]) check(v T) error {
	if !e.valid(v) {
		return configError("invalid %s: %d", e.what, int(v))
	}
	return nil
}
