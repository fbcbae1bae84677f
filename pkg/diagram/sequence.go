package diagram

import (
	"slices"
	"strings"
)

// ParticipantType selects how a participant is drawn.
type ParticipantType int

const (
	TypeParticipant ParticipantType = iota
	TypeActor
)

var participantTypeEnum = &enum[ParticipantType]{
	what:  "participant type",
	names: []string{"participant", "actor"},
}

func (t ParticipantType) String() string                { return participantTypeEnum.name(t) }
func (t ParticipantType) MarshalText() ([]byte, error)  { return []byte(t.String()), nil }
func (t *ParticipantType) UnmarshalText(b []byte) error { return participantTypeEnum.unmarshal(t, b) }

// Arrow is one of the eight sequence message arrows.
type Arrow int

const (
	ArrowSolidArrow  Arrow = iota // ->>
	ArrowDottedArrow              // -->>
	ArrowSolid                    // ->
	ArrowDotted                   // -->
	ArrowSolidCross               // -x
	ArrowDottedCross              // --x
	ArrowSolidOpen                // -)
	ArrowDottedOpen               // --)
)

var arrowEnum = &enum[Arrow]{
	what: "message arrow",
	names: []string{
		"solid-arrow", "dotted-arrow", "solid", "dotted",
		"solid-cross", "dotted-cross", "solid-open", "dotted-open",
	},
	aliases: map[string]Arrow{
		"sync":         ArrowSolidArrow,
		"reply":        ArrowDottedArrow,
		"return":       ArrowDottedArrow,
		"async":        ArrowSolidOpen,
		"solid-async":  ArrowSolidOpen,
		"dotted-async": ArrowDottedOpen,
		"solid-line":   ArrowSolid,
		"dotted-line":  ArrowDotted,
	},
}

var arrowTokens = [...]string{
	ArrowSolidArrow:  "->>",
	ArrowDottedArrow: "-->>",
	ArrowSolid:       "->",
	ArrowDotted:      "-->",
	ArrowSolidCross:  "-x",
	ArrowDottedCross: "--x",
	ArrowSolidOpen:   "-)",
	ArrowDottedOpen:  "--)",
}

// ParseArrow parses an arrow name such as "dotted-arrow" or "async".
func ParseArrow(s string) (Arrow, error) { return arrowEnum.parse(s) }

func (a Arrow) String() string                { return arrowEnum.name(a) }
func (a Arrow) MarshalText() ([]byte, error)  { return []byte(a.String()), nil }
func (a *Arrow) UnmarshalText(b []byte) error { return arrowEnum.unmarshal(a, b) }

// Token returns the Mermaid arrow literal.
func (a Arrow) Token() string {
	if !arrowEnum.valid(a) {
		return arrowTokens[ArrowSolidArrow]
	}
	return arrowTokens[a]
}

// NotePosition places a note relative to its participants.
type NotePosition int

const (
	NoteRightOf NotePosition = iota
	NoteLeftOf
	NoteOver
)

var notePositionEnum = &enum[NotePosition]{
	what:  "note position",
	names: []string{"right of", "left of", "over"},
	aliases: map[string]NotePosition{
		"right":    NoteRightOf,
		"right-of": NoteRightOf,
		"left":     NoteLeftOf,
		"left-of":  NoteLeftOf,
	},
}

// ParseNotePosition parses "left", "right of", "over", etc.
func ParseNotePosition(s string) (NotePosition, error) { return notePositionEnum.parse(s) }

func (p NotePosition) String() string                { return notePositionEnum.name(p) }
func (p NotePosition) MarshalText() ([]byte, error)  { return []byte(p.String()), nil }
func (p *NotePosition) UnmarshalText(b []byte) error { return notePositionEnum.unmarshal(p, b) }

// BlockKind is the keyword of a sequence logic block.
type BlockKind int

const (
	BlockAlt BlockKind = iota
	BlockOpt
	BlockLoop
	BlockPar
	BlockCritical
	BlockBreak
)

var blockKindEnum = &enum[BlockKind]{
	what:  "block kind",
	names: []string{"alt", "opt", "loop", "par", "critical", "break"},
}

// blockSeparators holds the keyword between branches; empty means single-branch.
var blockSeparators = [...]string{
	BlockAlt:      "else",
	BlockPar:      "and",
	BlockCritical: "option",
	BlockOpt:      "",
	BlockLoop:     "",
	BlockBreak:    "",
}

// ParseBlockKind parses a block keyword.
func ParseBlockKind(s string) (BlockKind, error) { return blockKindEnum.parse(s) }

func (k BlockKind) String() string                { return blockKindEnum.name(k) }
func (k BlockKind) MarshalText() ([]byte, error)  { return []byte(k.String()), nil }
func (k *BlockKind) UnmarshalText(b []byte) error { return blockKindEnum.unmarshal(k, b) }

// Participant is a sequence lifeline.
type Participant struct {
	ID    string          `json:"id" yaml:"id" toml:"id"`
	Label string          `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Type  ParticipantType `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

func (p Participant) render() string {
	s := p.Type.String() + " " + p.ID
	if p.Label != "" && p.Label != p.ID {
		s += " as " + plain(p.Label)
	}
	return s
}

// Box groups participants under a colored frame.
type Box struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Color   string   `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Members []string `json:"members" yaml:"members" toml:"members"`
}

func (b Box) header() string {
	parts := []string{"box"}
	if b.Color != "" {
		parts = append(parts, b.Color)
	}
	if b.Title != "" {
		parts = append(parts, plain(b.Title))
	}
	return strings.Join(parts, " ")
}

// Statement is an entry in the body of a sequence diagram: a [Message],
// [Note], [Activation] or [Block].
type Statement interface {
	render(w *writer, depth int)
	check(s *seqScope) error
	clone() Statement
}

// Message is an arrow between two participants.
type Message struct {
	From       string
	To         string
	Arrow      Arrow
	Text       string
	Activate   bool // "+" shorthand: activate the receiver
	Deactivate bool // "-" shorthand: deactivate the sender
}

func (m Message) render(w *writer, depth int) {
	var b strings.Builder
	b.WriteString(m.From)
	b.WriteString(m.Arrow.Token())
	if m.Activate {
		b.WriteByte('+')
	}
	if m.Deactivate {
		b.WriteByte('-')
	}
	b.WriteString(m.To)
	b.WriteByte(':')
	if m.Text != "" {
		b.WriteString(" " + plain(m.Text))
	}
	w.line(depth, b.String())
}

func (m Message) check(s *seqScope) error {
	for _, id := range []string{m.From, m.To} {
		if !s.declared[id] {
			return configError("message %s -> %s references undeclared participant %q", m.From, m.To, id)
		}
	}
	if m.Activate && m.Deactivate {
		return configError("message %s -> %s cannot both activate and deactivate", m.From, m.To)
	}
	return arrowEnum.check(m.Arrow)
}

func (m Message) clone() Statement { return m }

// Note annotates one participant, or spans two when placed over them.
type Note struct {
	Position NotePosition
	Targets  []string
	Text     string
}

func (n Note) render(w *writer, depth int) {
	w.line(depth, "Note "+n.Position.String()+" "+strings.Join(n.Targets, ",")+": "+plain(n.Text))
}

func (n Note) check(s *seqScope) error {
	if err := notePositionEnum.check(n.Position); err != nil {
		return err
	}
	limit := 1
	if n.Position == NoteOver {
		limit = 2
	}
	if len(n.Targets) == 0 || len(n.Targets) > limit {
		return configError("note %s takes 1 to %d participants, got %d", n.Position, limit, len(n.Targets))
	}
	for _, id := range n.Targets {
		if !s.declared[id] {
			return configError("note references undeclared participant %q", id)
		}
	}
	return nil
}

func (n Note) clone() Statement {
	n.Targets = slices.Clone(n.Targets)
	return n
}

// Activation toggles a participant's lifeline with an explicit statement.
type Activation struct {
	Participant string
	Active      bool
}

func (a Activation) render(w *writer, depth int) {
	if a.Active {
		w.line(depth, "activate "+a.Participant)
		return
	}
	w.line(depth, "deactivate "+a.Participant)
}

func (a Activation) check(s *seqScope) error {
	if !s.declared[a.Participant] {
		return configError("activation references undeclared participant %q", a.Participant)
	}
	return nil
}

func (a Activation) clone() Statement { return a }

// Branch is one arm of a [Block].
type Branch struct {
	Condition  string
	Statements []Statement
}

// Block is a logic block (alt, opt, loop, par, critical, break) whose
// branches nest further statements.
type Block struct {
	Kind     BlockKind
	Branches []Branch
}

// NewBlock starts a block with its first branch.
func NewBlock(kind BlockKind, condition string, stmts ...Statement) Block {
	return Block{Kind: kind, Branches: []Branch{{Condition: condition, Statements: stmts}}}
}

// With returns a copy of the block with another branch appended
// (rendered as else / and / option).
func (b Block) With(condition string, stmts ...Statement) Block {
	out := b.clone().(Block)
	out.Branches = append(out.Branches, Branch{Condition: condition, Statements: stmts})
	return out
}

func (b Block) render(w *writer, depth int) {
	for i, br := range b.Branches {
		keyword := b.Kind.String()
		if i > 0 {
			keyword = blockSeparators[b.Kind]
		}
		if br.Condition != "" {
			keyword += " " + plain(br.Condition)
		}
		w.line(depth, keyword)
		for _, st := range br.Statements {
			st.render(w, depth+1)
		}
	}
	w.line(depth, "end")
}

func (b Block) check(s *seqScope) error {
	if err := blockKindEnum.check(b.Kind); err != nil {
		return err
	}
	if len(b.Branches) == 0 {
		return configError("%s block has no branches", b.Kind)
	}
	if blockSeparators[b.Kind] == "" && len(b.Branches) > 1 {
		return configError("%s block takes a single branch, got %d", b.Kind, len(b.Branches))
	}
	for _, br := range b.Branches {
		for _, st := range br.Statements {
			if st == nil {
				return configError("%s block contains a nil statement", b.Kind)
			}
			if err := st.check(s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b Block) clone() Statement {
	out := Block{Kind: b.Kind, Branches: make([]Branch, len(b.Branches))}
	for i, br := range b.Branches {
		out.Branches[i] = Branch{Condition: br.Condition, Statements: cloneStatements(br.Statements)}
	}
	return out
}

func cloneStatements(in []Statement) []Statement {
	if in == nil {
		return nil
	}
	out := make([]Statement, len(in))
	for i, st := range in {
		if st != nil {
			out[i] = st.clone()
		}
	}
	return out
}

// seqScope carries the declarations statements are checked against.
type seqScope struct {
	declared map[string]bool
}

// Sequence is an immutable sequence diagram. Create one with [NewSequence].
type Sequence struct {
	meta
	autonumber   bool
	participants []Participant
	boxes        []Box
	statements   []Statement

	boxOf map[string]int // participant id -> box index
}

// SequenceBuilder accumulates participants and statements in insertion order.
type SequenceBuilder struct {
	s Sequence
}

// NewSequence starts an empty sequence diagram.
func NewSequence() *SequenceBuilder {
	return &SequenceBuilder{}
}

func (b *SequenceBuilder) Title(title string) *SequenceBuilder {
	b.s.title = title
	return b
}

func (b *SequenceBuilder) Config(cfg Config) *SequenceBuilder {
	b.s.config = &cfg
	return b
}

func (b *SequenceBuilder) Autonumber(on bool) *SequenceBuilder {
	b.s.autonumber = on
	return b
}

func (b *SequenceBuilder) Participant(ps ...Participant) *SequenceBuilder {
	b.s.participants = append(b.s.participants, ps...)
	return b
}

func (b *SequenceBuilder) Box(boxes ...Box) *SequenceBuilder {
	for _, box := range boxes {
		box.Members = slices.Clone(box.Members)
		b.s.boxes = append(b.s.boxes, box)
	}
	return b
}

// Add appends statements to the diagram body.
func (b *SequenceBuilder) Add(stmts ...Statement) *SequenceBuilder {
	b.s.statements = append(b.s.statements, stmts...)
	return b
}

func (b *SequenceBuilder) Message(msgs ...Message) *SequenceBuilder {
	for _, m := range msgs {
		b.s.statements = append(b.s.statements, m)
	}
	return b
}

func (b *SequenceBuilder) Note(notes ...Note) *SequenceBuilder {
	for _, n := range notes {
		b.s.statements = append(b.s.statements, n)
	}
	return b
}

func (b *SequenceBuilder) Activate(id string) *SequenceBuilder {
	b.s.statements = append(b.s.statements, Activation{Participant: id, Active: true})
	return b
}

func (b *SequenceBuilder) Deactivate(id string) *SequenceBuilder {
	b.s.statements = append(b.s.statements, Activation{Participant: id})
	return b
}

func (b *SequenceBuilder) Block(blocks ...Block) *SequenceBuilder {
	for _, blk := range blocks {
		b.s.statements = append(b.s.statements, blk)
	}
	return b
}

// Build validates the diagram and returns an immutable copy.
//
// Participant ids must be unique, every statement must reference declared
// participants, and each participant may belong to at most one box.
func (b *SequenceBuilder) Build() (*Sequence, error) {
	s := b.s
	s.participants = slices.Clone(s.participants)
	s.boxes = slices.Clone(s.boxes)
	s.statements = cloneStatements(s.statements)

	if err := s.meta.validate(); err != nil {
		return nil, err
	}

	scope := &seqScope{declared: make(map[string]bool, len(s.participants))}
	for _, p := range s.participants {
		if err := validateID("participant", p.ID); err != nil {
			return nil, err
		}
		if scope.declared[p.ID] {
			return nil, configError("duplicate participant %q", p.ID)
		}
		scope.declared[p.ID] = true
		if err := participantTypeEnum.check(p.Type); err != nil {
			return nil, err
		}
	}

	s.boxOf = make(map[string]int)
	for i, box := range s.boxes {
		if len(box.Members) == 0 {
			return nil, configError("box %q has no members", box.Title)
		}
		if strings.ContainsAny(box.Color, " \n\r") {
			return nil, configError("box color %q contains whitespace", box.Color)
		}
		for _, m := range box.Members {
			if !scope.declared[m] {
				return nil, configError("box %q contains undeclared participant %q", box.Title, m)
			}
			if prev, ok := s.boxOf[m]; ok {
				return nil, configError("participant %q is in both box %q and box %q", m, s.boxes[prev].Title, box.Title)
			}
			s.boxOf[m] = i
		}
	}

	for _, st := range s.statements {
		if st == nil {
			return nil, configError("nil statement")
		}
		if err := st.check(scope); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

func (*Sequence) Kind() Kind { return KindSequence }

// Participants returns the participants in insertion order.
func (s *Sequence) Participants() []Participant { return slices.Clone(s.participants) }

// Statements returns a deep copy of the body statements.
func (s *Sequence) Statements() []Statement { return cloneStatements(s.statements) }

// Render returns the sequence body. Boxes are emitted where their first
// member would otherwise appear.
func (s *Sequence) Render() string {
	w := &writer{}
	w.line(0, "sequenceDiagram")
	if s.autonumber {
		w.line(0, "autonumber")
	}

	byID := make(map[string]Participant, len(s.participants))
	for _, p := range s.participants {
		byID[p.ID] = p
	}
	emitted := make(map[int]bool, len(s.boxes))
	for _, p := range s.participants {
		bi, boxed := s.boxOf[p.ID]
		if !boxed {
			w.line(0, p.render())
			continue
		}
		if emitted[bi] {
			continue
		}
		emitted[bi] = true
		box := s.boxes[bi]
		w.line(0, box.header())
		for _, m := range box.Members {
			w.line(1, byID[m].render())
		}
		w.line(0, "end")
	}

	for _, st := range s.statements {
		st.render(w, 0)
	}
	return w.String()
}
