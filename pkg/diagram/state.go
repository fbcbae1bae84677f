package diagram

import (
	"slices"
)

// StartEnd is the start/end sentinel of a state scope.
const StartEnd = "[*]"

// PseudoKind is the kind of a pseudo state.
type PseudoKind int

const (
	PseudoChoice PseudoKind = iota
	PseudoFork
	PseudoJoin
)

var pseudoKindEnum = &enum[PseudoKind]{
	what:  "pseudo state kind",
	names: []string{"choice", "fork", "join"},
}

// ParsePseudoKind parses "choice", "fork" or "join".
func ParsePseudoKind(s string) (PseudoKind, error) { return pseudoKindEnum.parse(s) }

func (k PseudoKind) String() string                { return pseudoKindEnum.name(k) }
func (k PseudoKind) MarshalText() ([]byte, error)  { return []byte(k.String()), nil }
func (k *PseudoKind) UnmarshalText(b []byte) error { return pseudoKindEnum.unmarshal(k, b) }

// StateDecl is a declaration inside a state scope: a [State], [PseudoState],
// [Composite] or [Concurrent].
type StateDecl interface {
	declID() string
	renderDecl(w *writer, depth int)
	checkDecl(sc *stateScope) error
	cloneDecl() StateDecl
}

// State is a simple state with an optional description.
type State struct {
	ID    string
	Label string
}

func (s State) declID() string { return s.ID }

func (s State) renderDecl(w *writer, depth int) {
	if s.Label == "" {
		w.line(depth, s.ID)
		return
	}
	w.line(depth, s.ID+" : "+plain(s.Label))
}

func (s State) checkDecl(*stateScope) error { return nil }

func (s State) cloneDecl() StateDecl { return s }

// PseudoState is a fork, join or choice node.
type PseudoState struct {
	ID   string
	Kind PseudoKind
}

func (p PseudoState) declID() string { return p.ID }

func (p PseudoState) renderDecl(w *writer, depth int) {
	w.line(depth, "state "+p.ID+" <<"+p.Kind.String()+">>")
}

func (p PseudoState) checkDecl(*stateScope) error { return pseudoKindEnum.check(p.Kind) }

func (p PseudoState) cloneDecl() StateDecl { return p }

// Composite is a state containing a nested scope.
type Composite struct {
	ID    string
	Title string
	Body  Body
}

func (c Composite) declID() string { return c.ID }

func (c Composite) renderDecl(w *writer, depth int) {
	w.line(depth, compositeHeader(c.ID, c.Title))
	c.Body.render(w, depth+1)
	w.line(depth, "}")
}

func (c Composite) checkDecl(sc *stateScope) error { return c.Body.check(sc) }

func (c Composite) cloneDecl() StateDecl {
	c.Body = c.Body.clone()
	return c
}

// Concurrent is a composite state whose regions run in parallel.
type Concurrent struct {
	ID      string
	Title   string
	Regions []Body
}

func (c Concurrent) declID() string { return c.ID }

func (c Concurrent) renderDecl(w *writer, depth int) {
	w.line(depth, compositeHeader(c.ID, c.Title))
	for i, r := range c.Regions {
		if i > 0 {
			w.line(depth+1, "--")
		}
		r.render(w, depth+1)
	}
	w.line(depth, "}")
}

func (c Concurrent) checkDecl(sc *stateScope) error {
	if len(c.Regions) == 0 {
		return configError("concurrent state %q has no regions", c.ID)
	}
	for _, r := range c.Regions {
		if err := r.check(sc); err != nil {
			return err
		}
	}
	return nil
}

func (c Concurrent) cloneDecl() StateDecl {
	regions := make([]Body, len(c.Regions))
	for i, r := range c.Regions {
		regions[i] = r.clone()
	}
	c.Regions = regions
	return c
}

func compositeHeader(id, title string) string {
	if title == "" {
		return "state " + id + " {"
	}
	return "state " + quote(title) + " as " + id + " {"
}

// Transition connects two states; either end may be [StartEnd].
type Transition struct {
	From  string
	To    string
	Label string
}

func (t Transition) render() string {
	s := t.From + " --> " + t.To
	if t.Label != "" {
		s += " : " + plain(t.Label)
	}
	return s
}

// Body is one state scope: declarations followed by transitions.
type Body struct {
	Decls       []StateDecl
	Transitions []Transition
}

// Declare returns a copy of the body with decls appended.
func (b Body) Declare(decls ...StateDecl) Body {
	out := b.clone()
	out.Decls = append(out.Decls, decls...)
	return out
}

// Connect returns a copy of the body with transitions appended.
func (b Body) Connect(ts ...Transition) Body {
	out := b.clone()
	out.Transitions = append(out.Transitions, ts...)
	return out
}

func (b Body) render(w *writer, depth int) {
	for _, d := range b.Decls {
		d.renderDecl(w, depth)
	}
	for _, t := range b.Transitions {
		w.line(depth, t.render())
	}
}

func (b Body) clone() Body {
	out := Body{Transitions: slices.Clone(b.Transitions)}
	if b.Decls != nil {
		out.Decls = make([]StateDecl, len(b.Decls))
		for i, d := range b.Decls {
			if d != nil {
				out.Decls[i] = d.cloneDecl()
			}
		}
	}
	return out
}

// stateScope collects ids across all scopes for transition checks.
type stateScope struct {
	all map[string]bool
}

// register records every id declared in b and its children, rejecting
// duplicates within a single scope.
func (sc *stateScope) register(b Body) error {
	local := make(map[string]bool, len(b.Decls))
	for _, d := range b.Decls {
		if d == nil {
			return configError("nil state declaration")
		}
		id := d.declID()
		if err := validateID("state", id); err != nil {
			return err
		}
		if local[id] {
			return configError("duplicate state %q", id)
		}
		local[id] = true
		sc.all[id] = true

		switch v := d.(type) {
		case Composite:
			if err := sc.register(v.Body); err != nil {
				return err
			}
		case Concurrent:
			for _, r := range v.Regions {
				if err := sc.register(r); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (b Body) check(sc *stateScope) error {
	for _, d := range b.Decls {
		if err := d.checkDecl(sc); err != nil {
			return err
		}
	}
	for _, t := range b.Transitions {
		for _, end := range []string{t.From, t.To} {
			if end != StartEnd && !sc.all[end] {
				return configError("transition %s --> %s references undeclared state %q", t.From, t.To, end)
			}
		}
	}
	return nil
}

// StateDiagram is an immutable state diagram. Create one with [NewState].
type StateDiagram struct {
	meta
	direction Direction
	body      Body
}

// StateBuilder accumulates the top-level scope of a state diagram.
type StateBuilder struct {
	s StateDiagram
}

// NewState starts an empty state diagram.
func NewState() *StateBuilder {
	return &StateBuilder{}
}

func (b *StateBuilder) Title(title string) *StateBuilder {
	b.s.title = title
	return b
}

func (b *StateBuilder) Config(cfg Config) *StateBuilder {
	b.s.config = &cfg
	return b
}

// Direction sets an explicit layout direction; none is emitted by default.
func (b *StateBuilder) Direction(d Direction) *StateBuilder {
	b.s.direction = d
	return b
}

func (b *StateBuilder) State(states ...State) *StateBuilder {
	for _, s := range states {
		b.s.body.Decls = append(b.s.body.Decls, s)
	}
	return b
}

func (b *StateBuilder) Pseudo(ps ...PseudoState) *StateBuilder {
	for _, p := range ps {
		b.s.body.Decls = append(b.s.body.Decls, p)
	}
	return b
}

func (b *StateBuilder) Composite(cs ...Composite) *StateBuilder {
	for _, c := range cs {
		b.s.body.Decls = append(b.s.body.Decls, c)
	}
	return b
}

func (b *StateBuilder) Concurrent(cs ...Concurrent) *StateBuilder {
	for _, c := range cs {
		b.s.body.Decls = append(b.s.body.Decls, c)
	}
	return b
}

func (b *StateBuilder) Transition(ts ...Transition) *StateBuilder {
	b.s.body.Transitions = append(b.s.body.Transitions, ts...)
	return b
}

// Body appends the declarations and transitions of body to the top-level scope.
func (b *StateBuilder) Body(body Body) *StateBuilder {
	body = body.clone()
	b.s.body.Decls = append(b.s.body.Decls, body.Decls...)
	b.s.body.Transitions = append(b.s.body.Transitions, body.Transitions...)
	return b
}

// Build validates the diagram and returns an immutable copy.
//
// Ids must be unique within their scope and transitions may only reference
// states declared somewhere in the diagram, or the [StartEnd] sentinel.
func (b *StateBuilder) Build() (*StateDiagram, error) {
	s := b.s
	s.body = s.body.clone()

	if err := s.meta.validate(); err != nil {
		return nil, err
	}
	if s.direction != "" {
		if err := s.direction.validate(); err != nil {
			return nil, err
		}
	}

	sc := &stateScope{all: make(map[string]bool)}
	if err := sc.register(s.body); err != nil {
		return nil, err
	}
	if err := s.body.check(sc); err != nil {
		return nil, err
	}
	return &s, nil
}

func (*StateDiagram) Kind() Kind { return KindState }

// Direction returns the explicit direction, or "" when unset.
func (s *StateDiagram) Direction() Direction { return s.direction }

// Body returns a deep copy of the top-level scope.
func (s *StateDiagram) Body() Body { return s.body.clone() }

// Render returns the state diagram body. Within every scope, declarations
// precede transitions so pseudo states are declared before use.
func (s *StateDiagram) Render() string {
	w := &writer{}
	w.line(0, "stateDiagram-v2")
	if s.direction != "" {
		w.line(0, "direction "+string(s.direction))
	}
	s.body.render(w, 0)
	return w.String()
}
