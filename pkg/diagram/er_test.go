package diagram

import (
	"strings"
	"testing"
)

func TestERRender(t *testing.T) {
	d, err := NewER().
		Entity(
			Entity{Name: "CUSTOMER", Attributes: []Attribute{
				{Type: "string", Name: "email", Keys: []KeyMarker{UniqueKey}, Comment: `the "login"`},
				{Type: "int", Name: "id", Keys: []KeyMarker{PrimaryKey, ForeignKey}},
				{Type: "string", Name: "name"},
			}},
			Entity{Name: "ORDER"},
		).
		Relationship(
			Relationship{From: "CUSTOMER", FromCard: ExactlyOne, To: "ORDER", ToCard: ZeroOrMore, Label: "places"},
			Relationship{From: "ORDER", FromCard: OneOrMore, To: "CUSTOMER", ToCard: ZeroOrOne, NonIdentifying: true},
		).
		Build()
	d = mustBuild(t, d, err)

	want := strings.Join([]string{
		"erDiagram",
		"CUSTOMER {",
		`  string email UK "the #quot;login#quot;"`,
		"  int id PK,FK",
		"  string name",
		"}",
		"ORDER",
		`CUSTOMER ||--o{ ORDER : "places"`,
		`ORDER }|..o| CUSTOMER : ""`,
	}, "\n")
	if got := d.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRelationshipToken(t *testing.T) {
	cards := []Cardinality{ExactlyOne, ZeroOrOne, ZeroOrMore, OneOrMore}
	seen := make(map[string]bool)
	for _, from := range cards {
		for _, to := range cards {
			for _, nonID := range []bool{false, true} {
				tok := Relationship{FromCard: from, ToCard: to, NonIdentifying: nonID}.Token()
				if len(tok) != 6 {
					t.Errorf("Token(%v, %v) = %q, want 6 characters", from, to, tok)
				}
				seen[tok] = true
			}
		}
	}
	if len(seen) != 32 {
		t.Errorf("got %d distinct relationship tokens, want 32", len(seen))
	}
}

func TestParseCardinality(t *testing.T) {
	tests := map[string]Cardinality{
		"exactly-one": ExactlyOne,
		"one":         ExactlyOne,
		"optional":    ZeroOrOne,
		"o{":          ZeroOrMore,
		"|{":          OneOrMore,
		"MANY":        ZeroOrMore,
	}
	for in, want := range tests {
		if got, err := ParseCardinality(in); err != nil || got != want {
			t.Errorf("ParseCardinality(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
}

func TestERBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*ERDiagram, error)
	}{
		{"DuplicateEntity", func() (*ERDiagram, error) {
			return NewER().Entity(Entity{Name: "A"}, Entity{Name: "A"}).Build()
		}},
		{"UndeclaredEndpoint", func() (*ERDiagram, error) {
			return NewER().Entity(Entity{Name: "A"}).Relationship(Relationship{From: "A", To: "B"}).Build()
		}},
		{"BadCardinality", func() (*ERDiagram, error) {
			return NewER().Entity(Entity{Name: "A"}).Relationship(Relationship{From: "A", To: "A", ToCard: Cardinality(9)}).Build()
		}},
		{"AttributeWithSpace", func() (*ERDiagram, error) {
			return NewER().Entity(Entity{Name: "A", Attributes: []Attribute{{Type: "int", Name: "bad name"}}}).Build()
		}},
		{"MissingType", func() (*ERDiagram, error) {
			return NewER().Entity(Entity{Name: "A", Attributes: []Attribute{{Name: "id"}}}).Build()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			wantConfigError(t, err)
		})
	}
}
