package diagram

import (
	"strings"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Direction is the layout direction of flowcharts, subgraphs and state diagrams.
type Direction string

const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// ParseDirection parses a direction token. "TD" is accepted as an alias for "TB".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TB", "TD":
		return TopToBottom, nil
	case "BT":
		return BottomToTop, nil
	case "LR":
		return LeftToRight, nil
	case "RL":
		return RightToLeft, nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "invalid direction: %q (must be TB, BT, LR or RL)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Direction) validate() error {
	switch d {
	case TopToBottom, BottomToTop, LeftToRight, RightToLeft:
		return nil
	}
	return configError("invalid direction: %q", string(d))
}
