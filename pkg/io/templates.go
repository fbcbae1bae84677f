package io

import (
	"github.com/matzehuels/mermaid/pkg/diagram"
	errs "github.com/matzehuels/mermaid/pkg/errors"
)

// Template returns a small starter document for kind k, the content
// written by "mermaid new". Each call returns a fresh copy.
func Template(k diagram.Kind) (*Document, error) {
	fn, ok := templates[k]
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "no template for diagram kind %s", k)
	}
	doc := fn()
	doc.Kind = k
	return doc, nil
}

var templates = map[diagram.Kind]func() *Document{
	diagram.KindFlowchart: func() *Document {
		return &Document{
			Title:     "Request flow",
			Direction: diagram.LeftToRight,
			Nodes: []diagram.Node{
				{ID: "start", Label: "Start", Shape: diagram.ShapeStadium},
				{ID: "check", Label: "Valid?", Shape: diagram.ShapeRhombus},
				{ID: "ok", Label: "Handle request"},
				{ID: "fail", Label: "Reject", Shape: diagram.ShapeRounded},
			},
			Links: []diagram.Link{
				{From: "start", To: "check"},
				{From: "check", To: "ok", Label: "yes"},
				{From: "check", To: "fail", Label: "no", Style: diagram.LinkDotted},
			},
		}
	},
	diagram.KindSequence: func() *Document {
		return &Document{
			Title:      "Login",
			Autonumber: true,
			Participants: []diagram.Participant{
				{ID: "user", Label: "User", Type: diagram.TypeActor},
				{ID: "api", Label: "API"},
				{ID: "db", Label: "Database"},
			},
			Messages: []MessageDoc{
				{From: "user", To: "api", Text: "POST /login", Activate: true},
				{From: "api", To: "db", Text: "lookup user"},
				{From: "db", To: "api", Type: diagram.ArrowDottedArrow, Text: "row"},
				{From: "api", To: "user", Type: diagram.ArrowDottedArrow, Text: "session token", Deactivate: true},
			},
			Notes: []NoteDoc{
				{Position: diagram.NoteOver, Over: []string{"api", "db"}, Text: "passwords are hashed"},
			},
		}
	},
	diagram.KindState: func() *Document {
		return &Document{
			Title: "Order",
			StateScope: StateScope{
				States: []StateDoc{
					{ID: "Pending", Description: "awaiting payment"},
					{ID: "Paid"},
					{ID: "Shipped"},
				},
				Transitions: []TransitionDoc{
					{From: diagram.StartEnd, To: "Pending"},
					{From: "Pending", To: "Paid", Label: "pay"},
					{From: "Paid", To: "Shipped", Label: "ship"},
					{From: "Shipped", To: diagram.StartEnd},
				},
			},
		}
	},
	diagram.KindER: func() *Document {
		return &Document{
			Title: "Shop",
			Entities: []EntityDoc{
				{Name: "CUSTOMER", Attributes: []AttributeDoc{
					{Type: "int", Name: "id", Key: "PK"},
					{Type: "string", Name: "email", Key: "UK"},
				}},
				{Name: "ORDER", Attributes: []AttributeDoc{
					{Type: "int", Name: "id", Key: "PK"},
					{Type: "int", Name: "customer_id", Key: "FK"},
				}},
			},
			Relationships: []RelationshipDoc{
				{From: "CUSTOMER", To: "ORDER", Type: "one-to-many", Label: "places"},
			},
		}
	},
	diagram.KindPie: func() *Document {
		return &Document{
			Title:    "Pets adopted",
			ShowData: true,
			Data: []diagram.Slice{
				{Label: "Dogs", Value: 386},
				{Label: "Cats", Value: 85},
				{Label: "Rats", Value: 15},
			},
		}
	},
	diagram.KindMindmap: func() *Document {
		return &Document{
			Root: &diagram.MindmapTree{
				Label: "Project",
				Shape: diagram.MindmapCircle,
				Children: []diagram.MindmapTree{
					{Label: "Goals", Children: []diagram.MindmapTree{{Label: "Ship v1"}}},
					{Label: "Risks", Shape: diagram.MindmapBang},
				},
			},
		}
	},
	diagram.KindJourney: func() *Document {
		return &Document{
			Title: "My working day",
			Sections: []SectionDoc{
				{Name: "Go to work", Tasks: []TaskDoc{
					{Name: "Make tea", Score: 5, Actors: []string{"Me"}},
					{Name: "Commute", Score: 2, Actors: []string{"Me"}},
				}},
				{Name: "Go home", Tasks: []TaskDoc{
					{Name: "Sit down", Score: 5, Actors: []string{"Me"}},
				}},
			},
		}
	},
	diagram.KindRequirement: func() *Document {
		return &Document{
			Title: "Authentication",
			Requirements: []diagram.Requirement{
				{ID: "REQ-1", Name: "login", Text: "Users can log in", Kind: diagram.RequirementFunctional, Risk: diagram.RiskHigh},
			},
			Elements: []ElementDoc{
				{ID: "login_form", Type: diagram.ElementSimulation, DocRef: "docs/login.md"},
			},
			Relationships: []RelationshipDoc{
				{From: "login_form", To: "login", Type: "satisfies"},
			},
		}
	},
}
