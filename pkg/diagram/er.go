package diagram

import (
	"slices"
	"strings"
)

// Cardinality is one side of an ER relationship.
type Cardinality int

const (
	ExactlyOne Cardinality = iota
	ZeroOrOne
	ZeroOrMore
	OneOrMore
)

var cardinalityEnum = &enum[Cardinality]{
	what:  "cardinality",
	names: []string{"exactly-one", "zero-or-one", "zero-or-more", "one-or-more"},
	aliases: map[string]Cardinality{
		"one":      ExactlyOne,
		"||":       ExactlyOne,
		"optional": ZeroOrOne,
		"|o":       ZeroOrOne,
		"o|":       ZeroOrOne,
		"many":     ZeroOrMore,
		"}o":       ZeroOrMore,
		"o{":       ZeroOrMore,
		"}|":       OneOrMore,
		"|{":       OneOrMore,
	},
}

// ParseCardinality parses a cardinality name, alias or crow's-foot token.
func ParseCardinality(s string) (Cardinality, error) { return cardinalityEnum.parse(s) }

func (c Cardinality) String() string                { return cardinalityEnum.name(c) }
func (c Cardinality) MarshalText() ([]byte, error)  { return []byte(c.String()), nil }
func (c *Cardinality) UnmarshalText(b []byte) error { return cardinalityEnum.unmarshal(c, b) }

var (
	leftCardinality  = [...]string{"||", "|o", "}o", "}|"}
	rightCardinality = [...]string{"||", "o|", "o{", "|{"}
)

// KeyMarker marks an attribute as part of a key.
type KeyMarker int

const (
	PrimaryKey KeyMarker = iota
	ForeignKey
	UniqueKey
)

var keyMarkerEnum = &enum[KeyMarker]{
	what:  "key marker",
	names: []string{"PK", "FK", "UK"},
	aliases: map[string]KeyMarker{
		"primary": PrimaryKey,
		"foreign": ForeignKey,
		"unique":  UniqueKey,
	},
}

// ParseKeyMarker parses "PK", "FK" or "UK".
func ParseKeyMarker(s string) (KeyMarker, error) { return keyMarkerEnum.parse(s) }

func (k KeyMarker) String() string                { return keyMarkerEnum.name(k) }
func (k KeyMarker) MarshalText() ([]byte, error)  { return []byte(k.String()), nil }
func (k *KeyMarker) UnmarshalText(b []byte) error { return keyMarkerEnum.unmarshal(k, b) }

// Attribute is one row of an entity.
type Attribute struct {
	Type    string      `json:"type" yaml:"type" toml:"type"`
	Name    string      `json:"name" yaml:"name" toml:"name"`
	Keys    []KeyMarker `json:"keys,omitempty" yaml:"keys,omitempty" toml:"keys,omitempty"`
	Comment string      `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
}

func (a Attribute) render() string {
	s := a.Type + " " + a.Name
	if len(a.Keys) > 0 {
		keys := make([]string, len(a.Keys))
		for i, k := range a.Keys {
			keys[i] = k.String()
		}
		s += " " + strings.Join(keys, ",")
	}
	if a.Comment != "" {
		s += " " + quote(a.Comment)
	}
	return s
}

// Entity is a named table of attributes.
type Entity struct {
	Name       string      `json:"name" yaml:"name" toml:"name"`
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// Relationship connects two entities. Relationships are identifying (a
// solid line) unless NonIdentifying is set.
type Relationship struct {
	From           string      `json:"from" yaml:"from" toml:"from"`
	FromCard       Cardinality `json:"from_cardinality" yaml:"from_cardinality" toml:"from_cardinality"`
	To             string      `json:"to" yaml:"to" toml:"to"`
	ToCard         Cardinality `json:"to_cardinality" yaml:"to_cardinality" toml:"to_cardinality"`
	NonIdentifying bool        `json:"non_identifying,omitempty" yaml:"non_identifying,omitempty" toml:"non_identifying,omitempty"`
	Label          string      `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// Token returns the relationship connector, e.g. "||--o{".
func (r Relationship) Token() string {
	line := "--"
	if r.NonIdentifying {
		line = ".."
	}
	return leftCardinality[r.FromCard] + line + rightCardinality[r.ToCard]
}

// The label is mandatory in the grammar, so an empty one renders as "".
func (r Relationship) render() string {
	return r.From + " " + r.Token() + " " + r.To + " : " + quote(r.Label)
}

// ERDiagram is an immutable entity-relationship diagram. Create one with [NewER].
type ERDiagram struct {
	meta
	entities      []Entity
	relationships []Relationship
}

// ERBuilder accumulates entities and relationships.
type ERBuilder struct {
	d ERDiagram
}

// NewER starts an empty ER diagram.
func NewER() *ERBuilder {
	return &ERBuilder{}
}

func (b *ERBuilder) Title(title string) *ERBuilder {
	b.d.title = title
	return b
}

func (b *ERBuilder) Config(cfg Config) *ERBuilder {
	b.d.config = &cfg
	return b
}

func (b *ERBuilder) Entity(es ...Entity) *ERBuilder {
	b.d.entities = append(b.d.entities, es...)
	return b
}

func (b *ERBuilder) Relationship(rs ...Relationship) *ERBuilder {
	b.d.relationships = append(b.d.relationships, rs...)
	return b
}

// Build validates entity names and relationship endpoints.
func (b *ERBuilder) Build() (*ERDiagram, error) {
	d := b.d
	d.entities = make([]Entity, len(b.d.entities))
	for i, e := range b.d.entities {
		e.Attributes = slices.Clone(e.Attributes)
		for j := range e.Attributes {
			e.Attributes[j].Keys = slices.Clone(e.Attributes[j].Keys)
		}
		d.entities[i] = e
	}
	d.relationships = slices.Clone(d.relationships)

	if err := d.meta.validate(); err != nil {
		return nil, err
	}

	names := make(map[string]bool, len(d.entities))
	for _, e := range d.entities {
		if err := validateID("entity", e.Name); err != nil {
			return nil, err
		}
		if names[e.Name] {
			return nil, configError("duplicate entity %q", e.Name)
		}
		names[e.Name] = true
		for _, a := range e.Attributes {
			if err := validateID("attribute type", a.Type); err != nil {
				return nil, err
			}
			if err := validateID("attribute", a.Name); err != nil {
				return nil, err
			}
			for _, k := range a.Keys {
				if err := keyMarkerEnum.check(k); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, r := range d.relationships {
		for _, end := range []string{r.From, r.To} {
			if !names[end] {
				return nil, configError("relationship %s -> %s references undeclared entity %q", r.From, r.To, end)
			}
		}
		if err := cardinalityEnum.check(r.FromCard); err != nil {
			return nil, err
		}
		if err := cardinalityEnum.check(r.ToCard); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

func (*ERDiagram) Kind() Kind { return KindER }

func (d *ERDiagram) Entities() []Entity { return slices.Clone(d.entities) }

func (d *ERDiagram) Relationships() []Relationship { return slices.Clone(d.relationships) }

// Render emits entities before relationships. Entities without attributes
// are declared by name alone.
func (d *ERDiagram) Render() string {
	w := &writer{}
	w.line(0, "erDiagram")
	for _, e := range d.entities {
		if len(e.Attributes) == 0 {
			w.line(0, e.Name)
			continue
		}
		w.line(0, e.Name+" {")
		for _, a := range e.Attributes {
			w.line(1, a.render())
		}
		w.line(0, "}")
	}
	for _, r := range d.relationships {
		w.line(0, r.render())
	}
	return w.String()
}
