package diagram

import (
	"strings"
	"testing"
)

func TestRequirementRender(t *testing.T) {
	d, err := NewRequirement().
		Requirement(
			Requirement{ID: "REQ-1", Name: "login", Text: "Users can log in", Kind: RequirementFunctional, Risk: RiskHigh},
			Requirement{ID: "REQ-2", Text: "p99 under 200ms", Kind: RequirementPerformance, Verify: VerifyAnalysis},
		).
		Element(Element{ID: "web", Kind: ElementSimulation, DocRef: "docs/web.md"}).
		Relation(
			Relation{Source: "web", Target: "REQ-1", Kind: RelSatisfies},
			Relation{Source: "login", Target: "REQ-2", Kind: RelDerives},
		).
		Build()
	d = mustBuild(t, d, err)

	want := strings.Join([]string{
		"requirementDiagram",
		"functionalRequirement login {",
		"  id: REQ-1",
		`  text: "Users can log in"`,
		"  risk: High",
		"  verifymethod: Test",
		"}",
		"performanceRequirement REQ-2 {",
		"  id: REQ-2",
		`  text: "p99 under 200ms"`,
		"  risk: Low",
		"  verifymethod: Analysis",
		"}",
		"element web {",
		"  type: simulation",
		"  docref: docs/web.md",
		"}",
		"web - satisfies -> login",
		"login - derives -> REQ-2",
	}, "\n")
	if got := d.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestParseRequirementEnums(t *testing.T) {
	if k, err := ParseRequirementKind("designConstraint"); err != nil || k != RequirementDesignConstraint {
		t.Errorf("ParseRequirementKind(designConstraint) = %v, %v", k, err)
	}
	if r, err := ParseRisk("med"); err != nil || r != RiskMedium {
		t.Errorf("ParseRisk(med) = %v, %v", r, err)
	}
	if m, err := ParseVerifyMethod("demo"); err != nil || m != VerifyDemonstration {
		t.Errorf("ParseVerifyMethod(demo) = %v, %v", m, err)
	}
	if k, err := ParseRelationKind("Traces"); err != nil || k != RelTraces {
		t.Errorf("ParseRelationKind(Traces) = %v, %v", k, err)
	}
	if k, err := ParseElementKind("testcase"); err != nil || k != ElementTestCase {
		t.Errorf("ParseElementKind(testcase) = %v, %v", k, err)
	}
}

func TestRequirementBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*RequirementDiagram, error)
	}{
		{"DuplicateName", func() (*RequirementDiagram, error) {
			return NewRequirement().Requirement(Requirement{ID: "1", Name: "a"}, Requirement{ID: "2", Name: "a"}).Build()
		}},
		{"ElementClashesWithRequirement", func() (*RequirementDiagram, error) {
			return NewRequirement().Requirement(Requirement{ID: "a"}).Element(Element{ID: "a"}).Build()
		}},
		{"UndeclaredSource", func() (*RequirementDiagram, error) {
			return NewRequirement().Requirement(Requirement{ID: "a"}).Relation(Relation{Source: "x", Target: "a"}).Build()
		}},
		{"UndeclaredTarget", func() (*RequirementDiagram, error) {
			return NewRequirement().Requirement(Requirement{ID: "a"}).Relation(Relation{Source: "a", Target: "x"}).Build()
		}},
		{"BadRisk", func() (*RequirementDiagram, error) {
			return NewRequirement().Requirement(Requirement{ID: "a", Risk: Risk(5)}).Build()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			wantConfigError(t, err)
		})
	}
}
