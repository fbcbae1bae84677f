package diagram

import (
	"math"
	"slices"
	"strconv"
)

// Slice is one labelled value of a pie chart.
type Slice struct {
	Label string  `json:"label" yaml:"label" toml:"label"`
	Value float64 `json:"value" yaml:"value" toml:"value"`
}

// Pie is an immutable pie chart. Create one with [NewPie].
type Pie struct {
	meta
	showData bool
	slices   []Slice
}

// PieBuilder accumulates slices.
type PieBuilder struct {
	p Pie
}

// NewPie starts an empty pie chart.
func NewPie() *PieBuilder {
	return &PieBuilder{}
}

func (b *PieBuilder) Title(title string) *PieBuilder {
	b.p.title = title
	return b
}

func (b *PieBuilder) Config(cfg Config) *PieBuilder {
	b.p.config = &cfg
	return b
}

// ShowData renders slice values next to their labels.
func (b *PieBuilder) ShowData(show bool) *PieBuilder {
	b.p.showData = show
	return b
}

func (b *PieBuilder) Slice(label string, value float64) *PieBuilder {
	b.p.slices = append(b.p.slices, Slice{Label: label, Value: value})
	return b
}

func (b *PieBuilder) Slices(ss ...Slice) *PieBuilder {
	b.p.slices = append(b.p.slices, ss...)
	return b
}

// Build rejects negative, infinite and NaN values.
func (b *PieBuilder) Build() (*Pie, error) {
	p := b.p
	p.slices = slices.Clone(p.slices)

	if err := p.meta.validate(); err != nil {
		return nil, err
	}
	for _, s := range p.slices {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, configError("slice %q has non-finite value", s.Label)
		}
		if s.Value < 0 {
			return nil, configError("slice %q has negative value %v", s.Label, s.Value)
		}
	}
	return &p, nil
}

func (*Pie) Kind() Kind { return KindPie }

// The title is part of the pie body, not the frontmatter.
func (*Pie) frontmatterTitle() string { return "" }

func (p *Pie) ShowData() bool { return p.showData }

func (p *Pie) Slices() []Slice { return slices.Clone(p.slices) }

func (p *Pie) Render() string {
	w := &writer{}
	header := "pie"
	if p.showData {
		header += " showData"
	}
	w.line(0, header)
	if p.title != "" {
		w.line(0, "title "+quote(p.title))
	}
	for _, s := range p.slices {
		w.line(0, quote(s.Label)+" : "+strconv.FormatFloat(s.Value, 'f', -1, 64))
	}
	return w.String()
}
