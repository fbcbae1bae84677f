package diagram

import (
	"slices"
)

// RequirementKind selects the requirement block keyword.
type RequirementKind int

const (
	RequirementPlain RequirementKind = iota
	RequirementFunctional
	RequirementInterface
	RequirementPerformance
	RequirementPhysical
	RequirementDesignConstraint
)

var requirementKindEnum = &enum[RequirementKind]{
	what: "requirement kind",
	names: []string{
		"requirement",
		"functionalRequirement",
		"interfaceRequirement",
		"performanceRequirement",
		"physicalRequirement",
		"designConstraint",
	},
	aliases: map[string]RequirementKind{
		"functional":  RequirementFunctional,
		"interface":   RequirementInterface,
		"performance": RequirementPerformance,
		"physical":    RequirementPhysical,
		"design":      RequirementDesignConstraint,
	},
}

func ParseRequirementKind(s string) (RequirementKind, error) { return requirementKindEnum.parse(s) }

func (k RequirementKind) String() string                { return requirementKindEnum.name(k) }
func (k RequirementKind) MarshalText() ([]byte, error)  { return []byte(k.String()), nil }
func (k *RequirementKind) UnmarshalText(b []byte) error { return requirementKindEnum.unmarshal(k, b) }

// Risk is the risk level of a requirement.
type Risk int

const (
	RiskLow Risk = iota
	RiskMedium
	RiskHigh
)

var riskEnum = &enum[Risk]{
	what:    "risk",
	names:   []string{"Low", "Medium", "High"},
	aliases: map[string]Risk{"med": RiskMedium},
}

func ParseRisk(s string) (Risk, error) { return riskEnum.parse(s) }

func (r Risk) String() string                { return riskEnum.name(r) }
func (r Risk) MarshalText() ([]byte, error)  { return []byte(r.String()), nil }
func (r *Risk) UnmarshalText(b []byte) error { return riskEnum.unmarshal(r, b) }

// VerifyMethod is how a requirement is verified.
type VerifyMethod int

const (
	VerifyTest VerifyMethod = iota
	VerifyInspection
	VerifyAnalysis
	VerifyDemonstration
)

var verifyMethodEnum = &enum[VerifyMethod]{
	what:  "verify method",
	names: []string{"Test", "Inspection", "Analysis", "Demonstration"},
	aliases: map[string]VerifyMethod{
		"inspect": VerifyInspection,
		"analyze": VerifyAnalysis,
		"demo":    VerifyDemonstration,
	},
}

func ParseVerifyMethod(s string) (VerifyMethod, error) { return verifyMethodEnum.parse(s) }

func (m VerifyMethod) String() string                { return verifyMethodEnum.name(m) }
func (m VerifyMethod) MarshalText() ([]byte, error)  { return []byte(m.String()), nil }
func (m *VerifyMethod) UnmarshalText(b []byte) error { return verifyMethodEnum.unmarshal(m, b) }

// ElementKind is the type line of an element block.
type ElementKind int

const (
	ElementPlain ElementKind = iota
	ElementSimulation
	ElementTestCase
)

var elementKindEnum = &enum[ElementKind]{
	what:  "element kind",
	names: []string{"element", "simulation", "testCase"},
	aliases: map[string]ElementKind{
		"test": ElementTestCase,
	},
}

func ParseElementKind(s string) (ElementKind, error) { return elementKindEnum.parse(s) }

func (k ElementKind) String() string                { return elementKindEnum.name(k) }
func (k ElementKind) MarshalText() ([]byte, error)  { return []byte(k.String()), nil }
func (k *ElementKind) UnmarshalText(b []byte) error { return elementKindEnum.unmarshal(k, b) }

// RelationKind is the verb of a requirement relation.
type RelationKind int

const (
	RelContains RelationKind = iota
	RelCopies
	RelDerives
	RelSatisfies
	RelVerifies
	RelRefines
	RelTraces
)

var relationKindEnum = &enum[RelationKind]{
	what:  "relation kind",
	names: []string{"contains", "copies", "derives", "satisfies", "verifies", "refines", "traces"},
}

func ParseRelationKind(s string) (RelationKind, error) { return relationKindEnum.parse(s) }

func (k RelationKind) String() string                { return relationKindEnum.name(k) }
func (k RelationKind) MarshalText() ([]byte, error)  { return []byte(k.String()), nil }
func (k *RelationKind) UnmarshalText(b []byte) error { return relationKindEnum.unmarshal(k, b) }

// Requirement is a requirement block. Name identifies the block in the
// diagram and defaults to ID.
type Requirement struct {
	ID     string          `json:"id" yaml:"id" toml:"id"`
	Name   string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Text   string          `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Kind   RequirementKind `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Risk   Risk            `json:"risk,omitempty" yaml:"risk,omitempty" toml:"risk,omitempty"`
	Verify VerifyMethod    `json:"verify_method,omitempty" yaml:"verify_method,omitempty" toml:"verify_method,omitempty"`
}

// BlockName returns Name, or ID when Name is empty.
func (r Requirement) BlockName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

func (r Requirement) render(w *writer) {
	w.line(0, r.Kind.String()+" "+r.BlockName()+" {")
	w.line(1, "id: "+r.ID)
	if r.Text != "" {
		w.line(1, "text: "+quote(r.Text))
	}
	w.line(1, "risk: "+r.Risk.String())
	w.line(1, "verifymethod: "+r.Verify.String())
	w.line(0, "}")
}

// Element is a system element that requirements relate to.
type Element struct {
	ID     string      `json:"id" yaml:"id" toml:"id"`
	Kind   ElementKind `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	DocRef string      `json:"doc_ref,omitempty" yaml:"doc_ref,omitempty" toml:"doc_ref,omitempty"`
}

func (e Element) render(w *writer) {
	w.line(0, "element "+e.ID+" {")
	w.line(1, "type: "+e.Kind.String())
	if e.DocRef != "" {
		w.line(1, "docref: "+plain(e.DocRef))
	}
	w.line(0, "}")
}

// Relation links two blocks. Source and Target may name a block by its
// block name or its requirement id.
type Relation struct {
	Source string       `json:"source" yaml:"source" toml:"source"`
	Target string       `json:"target" yaml:"target" toml:"target"`
	Kind   RelationKind `json:"type" yaml:"type" toml:"type"`
}

// RequirementDiagram is an immutable requirement diagram. Create one with
// [NewRequirement].
type RequirementDiagram struct {
	meta
	requirements []Requirement
	elements     []Element
	relations    []Relation
}

// RequirementBuilder accumulates requirements, elements and relations.
type RequirementBuilder struct {
	d RequirementDiagram
}

func NewRequirement() *RequirementBuilder {
	return &RequirementBuilder{}
}

func (b *RequirementBuilder) Title(title string) *RequirementBuilder {
	b.d.title = title
	return b
}

func (b *RequirementBuilder) Config(cfg Config) *RequirementBuilder {
	b.d.config = &cfg
	return b
}

func (b *RequirementBuilder) Requirement(rs ...Requirement) *RequirementBuilder {
	b.d.requirements = append(b.d.requirements, rs...)
	return b
}

func (b *RequirementBuilder) Element(es ...Element) *RequirementBuilder {
	b.d.elements = append(b.d.elements, es...)
	return b
}

func (b *RequirementBuilder) Relation(rs ...Relation) *RequirementBuilder {
	b.d.relations = append(b.d.relations, rs...)
	return b
}

// Build checks block names for uniqueness and resolves relation endpoints.
// Endpoints given as requirement ids are rewritten to block names.
func (b *RequirementBuilder) Build() (*RequirementDiagram, error) {
	d := b.d
	d.requirements = slices.Clone(d.requirements)
	d.elements = slices.Clone(d.elements)
	d.relations = slices.Clone(d.relations)

	if err := d.meta.validate(); err != nil {
		return nil, err
	}

	blocks := make(map[string]bool)
	ids := make(map[string]string)
	for _, r := range d.requirements {
		if err := validateID("requirement", r.ID); err != nil {
			return nil, err
		}
		name := r.BlockName()
		if err := validateID("requirement name", name); err != nil {
			return nil, err
		}
		if blocks[name] {
			return nil, configError("duplicate requirement block %q", name)
		}
		if _, dup := ids[r.ID]; dup {
			return nil, configError("duplicate requirement id %q", r.ID)
		}
		blocks[name] = true
		ids[r.ID] = name
		if err := requirementKindEnum.check(r.Kind); err != nil {
			return nil, err
		}
		if err := riskEnum.check(r.Risk); err != nil {
			return nil, err
		}
		if err := verifyMethodEnum.check(r.Verify); err != nil {
			return nil, err
		}
	}
	for _, e := range d.elements {
		if err := validateID("element", e.ID); err != nil {
			return nil, err
		}
		if blocks[e.ID] {
			return nil, configError("duplicate requirement block %q", e.ID)
		}
		blocks[e.ID] = true
		if err := elementKindEnum.check(e.Kind); err != nil {
			return nil, err
		}
	}

	resolve := func(ref string) (string, bool) {
		if blocks[ref] {
			return ref, true
		}
		name, ok := ids[ref]
		return name, ok
	}
	for i, rel := range d.relations {
		src, ok := resolve(rel.Source)
		if !ok {
			return nil, configError("relation %s -> %s references undeclared block %q", rel.Source, rel.Target, rel.Source)
		}
		dst, ok := resolve(rel.Target)
		if !ok {
			return nil, configError("relation %s -> %s references undeclared block %q", rel.Source, rel.Target, rel.Target)
		}
		if err := relationKindEnum.check(rel.Kind); err != nil {
			return nil, err
		}
		d.relations[i].Source, d.relations[i].Target = src, dst
	}
	return &d, nil
}

func (*RequirementDiagram) Kind() Kind { return KindRequirement }

func (d *RequirementDiagram) Requirements() []Requirement { return slices.Clone(d.requirements) }

func (d *RequirementDiagram) Elements() []Element { return slices.Clone(d.elements) }

func (d *RequirementDiagram) Relations() []Relation { return slices.Clone(d.relations) }

// Render emits requirements, then elements, then relations.
func (d *RequirementDiagram) Render() string {
	w := &writer{}
	w.line(0, "requirementDiagram")
	for _, r := range d.requirements {
		r.render(w)
	}
	for _, e := range d.elements {
		e.render(w)
	}
	for _, rel := range d.relations {
		w.line(0, rel.Source+" - "+rel.Kind.String()+" -> "+rel.Target)
	}
	return w.String()
}
