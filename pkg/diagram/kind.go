package diagram

import (
	"strings"

	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Kind identifies a diagram variant.
type Kind int

const (
	// KindUnknown is reported for raw text whose leading keyword is not recognized.
	KindUnknown Kind = iota
	KindFlowchart
	KindSequence
	KindState
	KindER
	KindPie
	KindMindmap
	KindJourney
	KindRequirement
)

// Kinds lists every buildable diagram kind in display order.
var Kinds = []Kind{
	KindFlowchart,
	KindSequence,
	KindState,
	KindER,
	KindPie,
	KindMindmap,
	KindJourney,
	KindRequirement,
}

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindFlowchart:   "flowchart",
	KindSequence:    "sequence",
	KindState:       "state",
	KindER:          "er",
	KindPie:         "pie",
	KindMindmap:     "mindmap",
	KindJourney:     "journey",
	KindRequirement: "requirement",
}

var kindKeywords = map[Kind]string{
	KindFlowchart:   "flowchart",
	KindSequence:    "sequenceDiagram",
	KindState:       "stateDiagram-v2",
	KindER:          "erDiagram",
	KindPie:         "pie",
	KindMindmap:     "mindmap",
	KindJourney:     "journey",
	KindRequirement: "requirementDiagram",
}

// keywordKinds maps every leading keyword Mermaid accepts to its kind.
var keywordKinds = map[string]Kind{
	"flowchart":          KindFlowchart,
	"graph":              KindFlowchart,
	"sequencediagram":    KindSequence,
	"statediagram":       KindState,
	"statediagram-v2":    KindState,
	"erdiagram":          KindER,
	"pie":                KindPie,
	"mindmap":            KindMindmap,
	"journey":            KindJourney,
	"requirementdiagram": KindRequirement,
}

// String returns the short name used by the CLI and document files.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Keyword returns the diagram's leading Mermaid keyword, or "" for KindUnknown.
func (k Kind) Keyword() string {
	return kindKeywords[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind parses a short name ("sequence") or a Mermaid keyword
// ("sequenceDiagram"). Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if k != KindUnknown && name == key {
			return k, nil
		}
	}
	if k, ok := keywordKinds[key]; ok {
		return k, nil
	}
	return KindUnknown, errs.New(errs.ErrCodeInvalidInput, "unknown diagram kind: %q", s)
}

// DetectKind reports the kind of raw Mermaid text from its first keyword.
// A leading frontmatter block, blank lines, %% comments and directives are skipped.
func DetectKind(text string) Kind {
	lines := strings.Split(text, "\n")
	i := 0
	if i < len(lines) && strings.TrimSpace(lines[0]) == "---" {
		for i = 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				i++
				break
			}
		}
	}
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		word := strings.ToLower(strings.Fields(line)[0])
		if k, ok := keywordKinds[word]; ok {
			return k
		}
		return KindUnknown
	}
	return KindUnknown
}
