package io

import (
	"strconv"
	"strings"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Spec strings are the compact colon-separated forms accepted by the CLI
// flags, e.g. "A:Start:stadium" for a node or "A->B:dotted:next" for a link.
// Trailing fields are optional unless noted. All parsers fail with
// INVALID_INPUT.

func invalidSpec(what, spec, want string) error {
	return errs.New(errs.ErrCodeInvalidInput, "invalid %s spec %q (expected %q)", what, spec, want)
}

func wrapSpec(err error, what, spec string) error {
	return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid %s spec %q", what, spec)
}

// fields splits spec into at most n trimmed parts.
func fields(spec string, n int) []string {
	parts := strings.SplitN(spec, ":", n)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// field returns parts[i], or "" when absent.
func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// edge splits "from->to<rest>" and returns the rest split into n fields,
// the first being the target.
func edge(what, spec, want string, n int) (string, []string, error) {
	from, rest, ok := strings.Cut(spec, "->")
	from = strings.TrimSpace(from)
	if !ok || from == "" {
		return "", nil, invalidSpec(what, spec, want)
	}
	parts := fields(rest, n)
	if parts[0] == "" {
		return "", nil, invalidSpec(what, spec, want)
	}
	return from, parts, nil
}

func list(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseNodeSpec parses "id:label:shape". The label defaults to the id.
func ParseNodeSpec(spec string) (diagram.Node, error) {
	const want = "id:label:shape"
	parts := fields(spec, 3)
	n := diagram.Node{ID: parts[0], Label: field(parts, 1)}
	if n.ID == "" {
		return n, invalidSpec("node", spec, want)
	}
	if s := field(parts, 2); s != "" {
		shape, err := diagram.ParseShape(s)
		if err != nil {
			return n, wrapSpec(err, "node", spec)
		}
		n.Shape = shape
	}
	return n, nil
}

// ParseLinkSpec parses "from->to:style:label".
func ParseLinkSpec(spec string) (diagram.Link, error) {
	const want = "from->to:style:label"
	from, parts, err := edge("link", spec, want, 3)
	if err != nil {
		return diagram.Link{}, err
	}
	l := diagram.Link{From: from, To: parts[0], Label: field(parts, 2)}
	if s := field(parts, 1); s != "" {
		style, err := diagram.ParseLinkStyle(s)
		if err != nil {
			return l, wrapSpec(err, "link", spec)
		}
		l.Style = style
	}
	return l, nil
}

// ParseSubgraphSpec parses "id:title:member1,member2".
func ParseSubgraphSpec(spec string) (diagram.Subgraph, error) {
	parts := fields(spec, 3)
	sg := diagram.Subgraph{ID: parts[0], Title: field(parts, 1), Members: list(field(parts, 2))}
	if sg.ID == "" {
		return sg, invalidSpec("subgraph", spec, "id:title:nodes")
	}
	return sg, nil
}

// ParseClassDefSpec parses "name:css", e.g. "hot:fill:#f96,stroke:#333".
func ParseClassDefSpec(spec string) (diagram.ClassDef, error) {
	name, css, ok := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(css) == "" {
		return diagram.ClassDef{}, invalidSpec("class-def", spec, "name:css")
	}
	style, err := diagram.ParseStyle(css)
	if err != nil {
		return diagram.ClassDef{}, wrapSpec(err, "class-def", spec)
	}
	return diagram.ClassDef{Name: name, Style: style}, nil
}

// ParseClassSpec parses "class:node1,node2".
func ParseClassSpec(spec string) (diagram.ClassAssignment, error) {
	parts := fields(spec, 2)
	a := diagram.ClassAssignment{Class: parts[0], Nodes: list(field(parts, 1))}
	if a.Class == "" || len(a.Nodes) == 0 {
		return a, invalidSpec("class", spec, "class:nodes")
	}
	return a, nil
}

// ParseLinkStyleSpec parses "index:css", where index counts links from zero.
func ParseLinkStyleSpec(spec string) (diagram.LinkStyleDef, error) {
	const want = "index:css"
	idx, css, ok := strings.Cut(spec, ":")
	if !ok || strings.TrimSpace(css) == "" {
		return diagram.LinkStyleDef{}, invalidSpec("link-style", spec, want)
	}
	i, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil || i < 0 {
		return diagram.LinkStyleDef{}, invalidSpec("link-style", spec, want)
	}
	style, err := diagram.ParseStyle(css)
	if err != nil {
		return diagram.LinkStyleDef{}, wrapSpec(err, "link-style", spec)
	}
	return diagram.LinkStyleDef{Index: i, Style: style}, nil
}

// ParseParticipantSpec parses "id:label".
func ParseParticipantSpec(spec string, actor bool) (diagram.Participant, error) {
	parts := fields(spec, 2)
	p := diagram.Participant{ID: parts[0], Label: field(parts, 1)}
	if actor {
		p.Type = diagram.TypeActor
	}
	if p.ID == "" {
		return p, invalidSpec("participant", spec, "id:label")
	}
	return p, nil
}

// ParseMessageSpec parses "from->to:arrow:text". A trailing '+' or '-' on
// the target is the activation shorthand.
func ParseMessageSpec(spec string) (diagram.Message, error) {
	const want = "from->to:type:text"
	from, parts, err := edge("message", spec, want, 3)
	if err != nil {
		return diagram.Message{}, err
	}
	m := diagram.Message{From: from, To: parts[0], Text: field(parts, 2)}
	switch {
	case strings.HasPrefix(m.To, "+"):
		m.Activate, m.To = true, strings.TrimSpace(m.To[1:])
	case strings.HasPrefix(m.To, "-"):
		m.Deactivate, m.To = true, strings.TrimSpace(m.To[1:])
	}
	if m.To == "" {
		return m, invalidSpec("message", spec, want)
	}
	if s := field(parts, 1); s != "" {
		arrow, err := diagram.ParseArrow(s)
		if err != nil {
			return m, wrapSpec(err, "message", spec)
		}
		m.Arrow = arrow
	}
	return m, nil
}

// ParseNoteSpec parses "position:participants:text", where participants is
// one id or, for "over", two comma-separated ids. All three fields are required.
func ParseNoteSpec(spec string) (diagram.Note, error) {
	const want = "position:over:text"
	parts := fields(spec, 3)
	if len(parts) < 3 || parts[1] == "" {
		return diagram.Note{}, invalidSpec("note", spec, want)
	}
	pos, err := diagram.ParseNotePosition(parts[0])
	if err != nil {
		return diagram.Note{}, wrapSpec(err, "note", spec)
	}
	return diagram.Note{Position: pos, Targets: list(parts[1]), Text: parts[2]}, nil
}

// ParseStateSpec parses "id:description".
func ParseStateSpec(spec string) (diagram.State, error) {
	parts := fields(spec, 2)
	s := diagram.State{ID: parts[0], Label: field(parts, 1)}
	if s.ID == "" {
		return s, invalidSpec("state", spec, "id:description")
	}
	return s, nil
}

// ParsePseudoSpec parses "id:kind" with kind choice, fork or join.
func ParsePseudoSpec(spec string) (diagram.PseudoState, error) {
	parts := fields(spec, 2)
	if len(parts) < 2 || parts[0] == "" {
		return diagram.PseudoState{}, invalidSpec("pseudo state", spec, "id:choice|fork|join")
	}
	k, err := diagram.ParsePseudoKind(parts[1])
	if err != nil {
		return diagram.PseudoState{}, wrapSpec(err, "pseudo state", spec)
	}
	return diagram.PseudoState{ID: parts[0], Kind: k}, nil
}

// ParseTransitionSpec parses "from->to:label". Either end may be "[*]".
func ParseTransitionSpec(spec string) (diagram.Transition, error) {
	from, parts, err := edge("transition", spec, "from->to:label", 2)
	if err != nil {
		return diagram.Transition{}, err
	}
	return diagram.Transition{From: from, To: parts[0], Label: field(parts, 1)}, nil
}

// ParseEntitySpec parses "name:attr:type:key,attr:type". Each attribute is
// "name", "name:type" or "name:type:key" with key PK, FK or UK; the type
// defaults to "string".
func ParseEntitySpec(spec string) (diagram.Entity, error) {
	name, rest, _ := strings.Cut(spec, ":")
	e := diagram.Entity{Name: strings.TrimSpace(name)}
	if e.Name == "" {
		return e, invalidSpec("entity", spec, "name:attr:type:key,...")
	}
	for _, a := range list(rest) {
		parts := fields(a, 3)
		attr := diagram.Attribute{Name: parts[0], Type: field(parts, 1)}
		if attr.Type == "" {
			attr.Type = "string"
		}
		keys, err := parseKeys(field(parts, 2))
		if err != nil {
			return e, wrapSpec(err, "entity", spec)
		}
		attr.Keys = keys
		e.Attributes = append(e.Attributes, attr)
	}
	return e, nil
}

// ParseRelationshipSpec parses "from->to:type:label" where type is
// one-to-one (1:1), one-to-many (the default), many-to-one or many-to-many.
func ParseRelationshipSpec(spec string) (diagram.Relationship, error) {
	from, parts, err := edge("relationship", spec, "from->to:type:label", 3)
	if err != nil {
		return diagram.Relationship{}, err
	}
	r := diagram.Relationship{From: from, To: parts[0], Label: field(parts, 2)}
	// "1:1" style shorthands contain the separator, so rejoin before matching.
	kind, label := field(parts, 1), field(parts, 2)
	if len(kind) == 1 && label != "" {
		head, tail, _ := strings.Cut(label, ":")
		kind, r.Label = kind+":"+strings.TrimSpace(head), strings.TrimSpace(tail)
	}
	if r.FromCard, r.ToCard, err = cardinalityPair(kind); err != nil {
		return r, wrapSpec(err, "relationship", spec)
	}
	return r, nil
}

// ParseSliceSpec parses "label:value". The value follows the last colon, so
// labels may contain colons.
func ParseSliceSpec(spec string) (diagram.Slice, error) {
	i := strings.LastIndex(spec, ":")
	if i < 0 {
		return diagram.Slice{}, invalidSpec("data", spec, "label:value")
	}
	label := strings.TrimSpace(spec[:i])
	v, err := strconv.ParseFloat(strings.TrimSpace(spec[i+1:]), 64)
	if err != nil {
		return diagram.Slice{}, wrapSpec(err, "data", spec)
	}
	return diagram.Slice{Label: label, Value: v}, nil
}

// ParseTaskSpec parses "name:score:actor1,actor2". The score is required.
func ParseTaskSpec(spec string) (diagram.Task, error) {
	const want = "name:score:actors"
	parts := fields(spec, 3)
	if len(parts) < 2 || parts[0] == "" {
		return diagram.Task{}, invalidSpec("task", spec, want)
	}
	score, err := strconv.Atoi(parts[1])
	if err != nil {
		return diagram.Task{}, wrapSpec(err, "task", spec)
	}
	return diagram.Task{Text: parts[0], Score: score, Actors: list(field(parts, 2))}, nil
}

// ParseRequirementSpec parses "id:name:text:risk:verify"; id and name are
// required.
func ParseRequirementSpec(spec string) (diagram.Requirement, error) {
	parts := fields(spec, 5)
	if len(parts) < 2 || parts[0] == "" {
		return diagram.Requirement{}, invalidSpec("requirement", spec, "id:name:text:risk:verify")
	}
	r := diagram.Requirement{ID: parts[0], Name: parts[1], Text: field(parts, 2)}
	if s := field(parts, 3); s != "" {
		risk, err := diagram.ParseRisk(s)
		if err != nil {
			return r, wrapSpec(err, "requirement", spec)
		}
		r.Risk = risk
	}
	if s := field(parts, 4); s != "" {
		v, err := diagram.ParseVerifyMethod(s)
		if err != nil {
			return r, wrapSpec(err, "requirement", spec)
		}
		r.Verify = v
	}
	return r, nil
}

// ParseElementSpec parses "id:type:docref". The doc ref keeps any further
// colons, so URLs work.
func ParseElementSpec(spec string) (diagram.Element, error) {
	parts := fields(spec, 3)
	e := diagram.Element{ID: parts[0], DocRef: field(parts, 2)}
	if e.ID == "" {
		return e, invalidSpec("element", spec, "id:type:docref")
	}
	if s := field(parts, 1); s != "" {
		k, err := diagram.ParseElementKind(s)
		if err != nil {
			return e, wrapSpec(err, "element", spec)
		}
		e.Kind = k
	}
	return e, nil
}

// ParseRelationSpec parses "from->to:type"; the type is required.
func ParseRelationSpec(spec string) (diagram.Relation, error) {
	const want = "from->to:type"
	from, parts, err := edge("relation", spec, want, 2)
	if err != nil {
		return diagram.Relation{}, err
	}
	if field(parts, 1) == "" {
		return diagram.Relation{}, invalidSpec("relation", spec, want)
	}
	k, err := diagram.ParseRelationKind(parts[1])
	if err != nil {
		return diagram.Relation{}, wrapSpec(err, "relation", spec)
	}
	return diagram.Relation{Source: from, Target: parts[0], Kind: k}, nil
}
