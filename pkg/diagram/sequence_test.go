package diagram

import (
	"strings"
	"testing"
)

func TestSequenceRender(t *testing.T) {
	s, err := NewSequence().
		Autonumber(true).
		Participant(
			Participant{ID: "alice", Label: "Alice", Type: TypeActor},
			Participant{ID: "api", Label: "API"},
			Participant{ID: "db"},
		).
		Box(Box{Title: "Backend", Color: "Aqua", Members: []string{"api", "db"}}).
		Message(Message{From: "alice", To: "api", Text: "login", Activate: true}).
		Block(
			NewBlock(BlockAlt, "valid",
				Message{From: "api", To: "db", Arrow: ArrowSolidOpen, Text: "store"},
				Message{From: "api", To: "alice", Arrow: ArrowDottedArrow, Text: "ok", Deactivate: true},
			).With("invalid",
				NewBlock(BlockLoop, "retry", Message{From: "api", To: "alice", Arrow: ArrowSolidCross}),
			),
		).
		Note(Note{Position: NoteOver, Targets: []string{"alice", "api"}, Text: "done; bye"}).
		Activate("db").
		Deactivate("db").
		Build()
	s = mustBuild(t, s, err)

	want := strings.Join([]string{
		"sequenceDiagram",
		"autonumber",
		"actor alice as Alice",
		"box Aqua Backend",
		"  participant api as API",
		"  participant db",
		"end",
		"alice->>+api: login",
		"alt valid",
		"  api-)db: store",
		"  api-->>-alice: ok",
		"else invalid",
		"  loop retry",
		"    api-xalice:",
		"  end",
		"end",
		"Note over alice,api: done#59; bye",
		"activate db",
		"deactivate db",
	}, "\n")
	if got := s.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestSequenceBoxAtFirstMember(t *testing.T) {
	s, err := NewSequence().
		Participant(Participant{ID: "a"}, Participant{ID: "b"}, Participant{ID: "c"}).
		Box(Box{Members: []string{"c", "a"}}).
		Build()
	s = mustBuild(t, s, err)

	want := "sequenceDiagram\nbox\n  participant c\n  participant a\nend\nparticipant b"
	if got := s.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestArrowTokens(t *testing.T) {
	tests := map[Arrow]string{
		ArrowSolid:       "->",
		ArrowDotted:      "-->",
		ArrowSolidArrow:  "->>",
		ArrowDottedArrow: "-->>",
		ArrowSolidCross:  "-x",
		ArrowDottedCross: "--x",
		ArrowSolidOpen:   "-)",
		ArrowDottedOpen:  "--)",
	}
	seen := make(map[string]bool)
	for a, want := range tests {
		if got := a.Token(); got != want {
			t.Errorf("%v.Token() = %q, want %q", a, got, want)
		}
		seen[a.Token()] = true
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct arrow tokens, want 8", len(seen))
	}
}

func TestParseArrow(t *testing.T) {
	tests := map[string]Arrow{
		"solid-arrow": ArrowSolidArrow,
		"async":       ArrowSolidOpen,
		"Reply":       ArrowDottedArrow,
		"dotted-line": ArrowDotted,
	}
	for in, want := range tests {
		if got, err := ParseArrow(in); err != nil || got != want {
			t.Errorf("ParseArrow(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
}

func TestBlockSeparators(t *testing.T) {
	for kind, sep := range map[BlockKind]string{BlockPar: "and", BlockCritical: "option"} {
		s, err := NewSequence().
			Participant(Participant{ID: "a"}).
			Block(NewBlock(kind, "one").With("two")).
			Build()
		s = mustBuild(t, s, err)
		want := "sequenceDiagram\nparticipant a\n" + kind.String() + " one\n" + sep + " two\nend"
		if got := s.Render(); got != want {
			t.Errorf("Render() = %q, want %q", got, want)
		}
	}
}

func TestSequenceBuildErrors(t *testing.T) {
	base := func() *SequenceBuilder {
		return NewSequence().Participant(Participant{ID: "a"}, Participant{ID: "b"})
	}
	tests := []struct {
		name  string
		build func() (*Sequence, error)
	}{
		{"DuplicateParticipant", func() (*Sequence, error) {
			return base().Participant(Participant{ID: "a"}).Build()
		}},
		{"UndeclaredSender", func() (*Sequence, error) {
			return base().Message(Message{From: "x", To: "a"}).Build()
		}},
		{"UndeclaredInBlock", func() (*Sequence, error) {
			return base().Block(NewBlock(BlockOpt, "", Message{From: "a", To: "x"})).Build()
		}},
		{"BoxUndeclared", func() (*Sequence, error) {
			return base().Box(Box{Members: []string{"x"}}).Build()
		}},
		{"BoxOverlap", func() (*Sequence, error) {
			return base().Box(Box{Members: []string{"a"}}, Box{Members: []string{"a", "b"}}).Build()
		}},
		{"EmptyBox", func() (*Sequence, error) {
			return base().Box(Box{Title: "x"}).Build()
		}},
		{"LoopWithElse", func() (*Sequence, error) {
			return base().Block(NewBlock(BlockLoop, "x").With("y")).Build()
		}},
		{"NoteTooManyTargets", func() (*Sequence, error) {
			return base().Note(Note{Position: NoteLeftOf, Targets: []string{"a", "b"}}).Build()
		}},
		{"NoteNoTargets", func() (*Sequence, error) {
			return base().Note(Note{Position: NoteOver}).Build()
		}},
		{"ActivateUndeclared", func() (*Sequence, error) {
			return base().Activate("x").Build()
		}},
		{"BothToggles", func() (*Sequence, error) {
			return base().Message(Message{From: "a", To: "b", Activate: true, Deactivate: true}).Build()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			wantConfigError(t, err)
		})
	}
}

func TestSequenceStatementsAreCopies(t *testing.T) {
	s, err := NewSequence().
		Participant(Participant{ID: "a"}, Participant{ID: "b"}).
		Note(Note{Position: NoteOver, Targets: []string{"a", "b"}, Text: "x"}).
		Build()
	s = mustBuild(t, s, err)

	n := s.Statements()[0].(Note)
	n.Targets[0] = "b"
	if got := s.Statements()[0].(Note).Targets[0]; got != "a" {
		t.Errorf("Targets[0] = %q after mutating a copy, want a", got)
	}
}
