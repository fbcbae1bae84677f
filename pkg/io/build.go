package io

import (
	"strings"

	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Diagram builds the document as a diagram of kind k. With KindUnknown the
// document's own kind field decides.
//
// Malformed document content (an unknown cardinality shorthand, a statement
// with no entry) is reported as PARSE_ERROR; model violations come from the
// diagram builders as CONFIG_ERROR.
func (d *Document) Diagram(k diagram.Kind) (diagram.Diagram, error) {
	if k == diagram.KindUnknown {
		k = d.Kind
	}
	switch k {
	case diagram.KindFlowchart:
		return build(d.flowchart())
	case diagram.KindSequence:
		return build(d.sequence())
	case diagram.KindState:
		return build(d.state())
	case diagram.KindER:
		return build(d.er())
	case diagram.KindPie:
		return build(d.pie())
	case diagram.KindMindmap:
		return build(d.mindmap())
	case diagram.KindJourney:
		return build(d.journey())
	case diagram.KindRequirement:
		return build(d.requirement())
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "document does not name a diagram kind")
}

// build drops the typed result on error so callers never see a non-nil
// interface holding a nil pointer.
func build[T diagram.Diagram](d T, err error) (diagram.Diagram, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}

func parseError(format string, args ...any) error {
	return errs.New(errs.ErrCodeParse, format, args...)
}

func (d *Document) flowchart() (*diagram.Flowchart, error) {
	b := diagram.NewFlowchart().Title(d.Title)
	if d.Config != nil {
		b.Config(*d.Config)
	}
	if d.Direction != "" {
		b.Direction(d.Direction)
	}
	b.Node(d.Nodes...).Link(d.Links...)
	for _, sg := range d.Subgraphs {
		b.Subgraph(sg.flatten()...)
	}
	b.ClassDef(d.ClassDefs...)
	for _, c := range d.Classes {
		b.Class(c.Class, c.Nodes...)
	}
	for _, s := range d.LinkStyles {
		b.LinkStyle(s.Index, s.Style)
	}
	return b.Build()
}

// flatten lists sg followed by its nested subgraphs, each nested id added
// to its parent's members.
func (sg SubgraphDoc) flatten() []diagram.Subgraph {
	self := diagram.Subgraph{ID: sg.ID, Title: sg.Title, Direction: sg.Direction}
	self.Members = append(self.Members, sg.Nodes...)
	self.Members = append(self.Members, sg.Members...)
	var nested []diagram.Subgraph
	for _, child := range sg.Subgraphs {
		self.Members = append(self.Members, child.ID)
		nested = append(nested, child.flatten()...)
	}
	return append([]diagram.Subgraph{self}, nested...)
}

func (d *Document) sequence() (*diagram.Sequence, error) {
	b := diagram.NewSequence().Title(d.Title).Autonumber(d.Autonumber)
	if d.Config != nil {
		b.Config(*d.Config)
	}
	b.Participant(d.Participants...).Box(d.Boxes...)
	for _, m := range d.Messages {
		b.Message(m.message())
	}
	for _, n := range d.Notes {
		b.Note(n.note())
	}
	for _, l := range d.Logic {
		b.Block(l.block())
	}
	for i, s := range d.Statements {
		stmt, err := s.statement()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeParse, err, "statement %d", i)
		}
		b.Add(stmt)
	}
	return b.Build()
}

func (m MessageDoc) message() diagram.Message {
	return diagram.Message{
		From:       m.From,
		To:         m.To,
		Arrow:      m.Type,
		Text:       m.Text,
		Activate:   m.Activate,
		Deactivate: m.Deactivate,
	}
}

func (n NoteDoc) note() diagram.Note {
	return diagram.Note{Position: n.Position, Targets: n.Over, Text: n.Text}
}

func messages(ms []MessageDoc) []diagram.Statement {
	out := make([]diagram.Statement, len(ms))
	for i, m := range ms {
		out[i] = m.message()
	}
	return out
}

func (l LogicDoc) block() diagram.Block {
	blk := diagram.NewBlock(l.Type, l.Condition, messages(l.Messages)...)
	for _, e := range l.ElseBlocks {
		blk = blk.With(e.Condition, messages(e.Messages)...)
	}
	return blk
}

func (s StatementDoc) statement() (diagram.Statement, error) {
	var found []diagram.Statement
	if s.Message != nil {
		found = append(found, s.Message.message())
	}
	if s.Note != nil {
		found = append(found, s.Note.note())
	}
	if s.Activate != "" {
		found = append(found, diagram.Activation{Participant: s.Activate, Active: true})
	}
	if s.Deactivate != "" {
		found = append(found, diagram.Activation{Participant: s.Deactivate})
	}
	if s.Block != nil {
		blk := diagram.Block{Kind: s.Block.Type}
		for _, br := range s.Block.Branches {
			stmts := make([]diagram.Statement, 0, len(br.Statements))
			for _, child := range br.Statements {
				st, err := child.statement()
				if err != nil {
					return nil, err
				}
				stmts = append(stmts, st)
			}
			blk.Branches = append(blk.Branches, diagram.Branch{Condition: br.Condition, Statements: stmts})
		}
		found = append(found, blk)
	}
	if len(found) != 1 {
		return nil, parseError("a statement needs exactly one of message, note, activate, deactivate or block; got %d", len(found))
	}
	return found[0], nil
}

func (d *Document) state() (*diagram.StateDiagram, error) {
	b := diagram.NewState().Title(d.Title)
	if d.Config != nil {
		b.Config(*d.Config)
	}
	if d.Direction != "" {
		b.Direction(d.Direction)
	}
	return b.Body(d.StateScope.body()).Build()
}

// body declares states, pseudo states and nested scopes, then adds the
// explicit transitions followed by the ones implied by choices, forks and
// joins. "[*]" entries in States are skipped: start and end are implicit.
func (s StateScope) body() diagram.Body {
	var b diagram.Body
	for _, st := range s.States {
		if st.ID == diagram.StartEnd {
			continue
		}
		b = b.Declare(diagram.State{ID: st.ID, Label: st.Description})
	}
	for _, c := range s.Choices {
		b = b.Declare(diagram.PseudoState{ID: c.ID, Kind: diagram.PseudoChoice})
	}
	for _, f := range s.Forks {
		b = b.Declare(diagram.PseudoState{ID: f.ID, Kind: diagram.PseudoFork})
	}
	for _, j := range s.Joins {
		b = b.Declare(diagram.PseudoState{ID: j.ID, Kind: diagram.PseudoJoin})
	}
	for _, c := range s.Composites {
		b = b.Declare(diagram.Composite{ID: c.ID, Title: c.Title, Body: c.StateScope.body()})
	}
	for _, c := range s.Concurrents {
		cc := diagram.Concurrent{ID: c.ID, Title: c.Title}
		for _, r := range c.Regions {
			cc.Regions = append(cc.Regions, r.body())
		}
		b = b.Declare(cc)
	}

	for _, t := range s.Transitions {
		b = b.Connect(diagram.Transition{From: t.From, To: t.To, Label: t.Label})
	}
	for _, c := range s.Choices {
		for _, cond := range c.Conditions {
			b = b.Connect(diagram.Transition{From: c.ID, To: cond.Target, Label: cond.Condition})
		}
	}
	for _, f := range s.Forks {
		for _, t := range f.Targets {
			b = b.Connect(diagram.Transition{From: f.ID, To: t})
		}
	}
	for _, j := range s.Joins {
		for _, src := range j.Sources {
			b = b.Connect(diagram.Transition{From: src, To: j.ID})
		}
		if j.Target != "" {
			b = b.Connect(diagram.Transition{From: j.ID, To: j.Target})
		}
	}
	return b
}

func (d *Document) er() (*diagram.ERDiagram, error) {
	b := diagram.NewER().Title(d.Title)
	if d.Config != nil {
		b.Config(*d.Config)
	}
	for _, e := range d.Entities {
		ent := diagram.Entity{Name: e.Name}
		for _, a := range e.Attributes {
			attr, err := a.attribute()
			if err != nil {
				return nil, err
			}
			ent.Attributes = append(ent.Attributes, attr)
		}
		b.Entity(ent)
	}
	for _, r := range d.Relationships {
		rel, err := r.erRelationship()
		if err != nil {
			return nil, err
		}
		b.Relationship(rel)
	}
	return b.Build()
}

func (a AttributeDoc) attribute() (diagram.Attribute, error) {
	attr := diagram.Attribute{Type: a.Type, Name: a.Name, Keys: a.Keys, Comment: a.Comment}
	keys, err := parseKeys(a.Key)
	if err != nil {
		return attr, errs.Wrap(errs.ErrCodeParse, err, "attribute %s", a.Name)
	}
	attr.Keys = append(attr.Keys, keys...)
	return attr, nil
}

// parseKeys reads "PK", "PK,FK" or "none".
func parseKeys(s string) ([]diagram.KeyMarker, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	var out []diagram.KeyMarker
	for _, part := range strings.Split(s, ",") {
		k, err := diagram.ParseKeyMarker(part)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func (r RelationshipDoc) erRelationship() (diagram.Relationship, error) {
	rel := diagram.Relationship{From: r.From, To: r.To, Label: r.Label}
	var err error
	if rel.FromCard, rel.ToCard, err = cardinalityPair(r.Type); err != nil {
		return rel, errs.Wrap(errs.ErrCodeParse, err, "relationship %s -> %s", r.From, r.To)
	}
	if r.FromCardinality != "" {
		if rel.FromCard, err = diagram.ParseCardinality(r.FromCardinality); err != nil {
			return rel, errs.Wrap(errs.ErrCodeParse, err, "relationship %s -> %s", r.From, r.To)
		}
	}
	if r.ToCardinality != "" {
		if rel.ToCard, err = diagram.ParseCardinality(r.ToCardinality); err != nil {
			return rel, errs.Wrap(errs.ErrCodeParse, err, "relationship %s -> %s", r.From, r.To)
		}
	}
	if r.Identifying != nil {
		rel.NonIdentifying = !*r.Identifying
	}
	return rel, nil
}

// cardinalityPair expands a relationship shorthand. The empty string means
// one-to-many.
func cardinalityPair(s string) (from, to diagram.Cardinality, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "one-to-many", "1:n", "1:m":
		return diagram.ExactlyOne, diagram.ZeroOrMore, nil
	case "one-to-one", "1:1":
		return diagram.ExactlyOne, diagram.ExactlyOne, nil
	case "many-to-one", "n:1", "m:1":
		return diagram.ZeroOrMore, diagram.ExactlyOne, nil
	case "many-to-many", "n:n", "m:m", "n:m":
		return diagram.ZeroOrMore, diagram.ZeroOrMore, nil
	}
	return 0, 0, errs.New(errs.ErrCodeInvalidInput,
		"invalid relationship type: %q (must be one-to-one, one-to-many, many-to-one or many-to-many)", s)
}

func (d *Document) pie() (*diagram.Pie, error) {
	b := diagram.NewPie().Title(d.Title).ShowData(d.ShowData).Slices(d.Data...)
	if d.Config != nil {
		b.Config(*d.Config)
	}
	return b.Build()
}

func (d *Document) mindmap() (*diagram.Mindmap, error) {
	b := diagram.NewMindmap().Title(d.Title)
	if d.Config != nil {
		b.Config(*d.Config)
	}
	if d.Root != nil {
		b.Tree(*d.Root)
	}
	return b.Build()
}

func (d *Document) journey() (*diagram.Journey, error) {
	b := diagram.NewJourney().Title(d.Title)
	if d.Config != nil {
		b.Config(*d.Config)
	}
	for _, s := range d.Sections {
		tasks := make([]diagram.Task, len(s.Tasks))
		for i, t := range s.Tasks {
			tasks[i] = diagram.Task{Text: t.Name, Score: t.Score, Actors: t.Actors}
		}
		b.Section(s.Name, tasks...)
	}
	return b.Build()
}

func (d *Document) requirement() (*diagram.RequirementDiagram, error) {
	b := diagram.NewRequirement().Title(d.Title)
	if d.Config != nil {
		b.Config(*d.Config)
	}
	b.Requirement(d.Requirements...)

	alias := make(map[string]string)
	for _, e := range d.Elements {
		b.Element(diagram.Element{ID: e.ID, Kind: e.Type, DocRef: e.DocRef})
		if e.Name != "" && e.Name != e.ID {
			alias[e.Name] = e.ID
		}
	}
	resolve := func(ref string) string {
		if id, ok := alias[ref]; ok {
			return id
		}
		return ref
	}

	for _, r := range d.Relationships {
		if r.Type == "" {
			return nil, parseError("relationship %s -> %s has no type", r.From, r.To)
		}
		kind, err := diagram.ParseRelationKind(r.Type)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeParse, err, "relationship %s -> %s", r.From, r.To)
		}
		b.Relation(diagram.Relation{Source: resolve(r.From), Target: resolve(r.To), Kind: kind})
	}
	return b.Build()
}
