package io

import "github.com/matzehuels/mermaid/pkg/diagram"

// Document is the file form of a diagram. A single struct covers every
// kind; fields that do not belong to the document's kind are ignored.
type Document struct {
	Kind      diagram.Kind      `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Title     string            `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Config    *diagram.Config   `json:"config,omitempty" yaml:"config,omitempty" toml:"config,omitempty"`
	Direction diagram.Direction `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`

	// Flowchart
	Nodes      []diagram.Node            `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
	Links      []diagram.Link            `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
	Subgraphs  []SubgraphDoc             `json:"subgraphs,omitempty" yaml:"subgraphs,omitempty" toml:"subgraphs,omitempty"`
	ClassDefs  []diagram.ClassDef        `json:"class_defs,omitempty" yaml:"class_defs,omitempty" toml:"class_defs,omitempty"`
	Classes    []diagram.ClassAssignment `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty"`
	LinkStyles []diagram.LinkStyleDef    `json:"link_styles,omitempty" yaml:"link_styles,omitempty" toml:"link_styles,omitempty"`

	// Sequence. Messages, notes and logic blocks are emitted in that order,
	// followed by Statements, which keeps them interleaved as written.
	Autonumber   bool                  `json:"autonumber,omitempty" yaml:"autonumber,omitempty" toml:"autonumber,omitempty"`
	Participants []diagram.Participant `json:"participants,omitempty" yaml:"participants,omitempty" toml:"participants,omitempty"`
	Boxes        []diagram.Box         `json:"boxes,omitempty" yaml:"boxes,omitempty" toml:"boxes,omitempty"`
	Messages     []MessageDoc          `json:"messages,omitempty" yaml:"messages,omitempty" toml:"messages,omitempty"`
	Notes        []NoteDoc             `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	Logic        []LogicDoc            `json:"logic,omitempty" yaml:"logic,omitempty" toml:"logic,omitempty"`
	Statements   []StatementDoc        `json:"statements,omitempty" yaml:"statements,omitempty" toml:"statements,omitempty"`

	// State
	StateScope `yaml:",inline"`

	// ER and requirement
	Entities      []EntityDoc       `json:"entities,omitempty" yaml:"entities,omitempty" toml:"entities,omitempty"`
	Relationships []RelationshipDoc `json:"relationships,omitempty" yaml:"relationships,omitempty" toml:"relationships,omitempty"`

	// Pie
	ShowData bool            `json:"show_data,omitempty" yaml:"show_data,omitempty" toml:"show_data,omitempty"`
	Data     []diagram.Slice `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`

	// Mindmap
	Root *diagram.MindmapTree `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`

	// Journey
	Sections []SectionDoc `json:"sections,omitempty" yaml:"sections,omitempty" toml:"sections,omitempty"`

	// Requirement
	Requirements []diagram.Requirement `json:"requirements,omitempty" yaml:"requirements,omitempty" toml:"requirements,omitempty"`
	Elements     []ElementDoc          `json:"elements,omitempty" yaml:"elements,omitempty" toml:"elements,omitempty"`
}

// SubgraphDoc is a subgraph with its nested subgraphs written inline.
// Nodes and Members both list member ids.
type SubgraphDoc struct {
	ID        string            `json:"id" yaml:"id" toml:"id"`
	Title     string            `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Direction diagram.Direction `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	Nodes     []string          `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
	Members   []string          `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`
	Subgraphs []SubgraphDoc     `json:"subgraphs,omitempty" yaml:"subgraphs,omitempty" toml:"subgraphs,omitempty"`
}

type MessageDoc struct {
	From       string        `json:"from" yaml:"from" toml:"from"`
	To         string        `json:"to" yaml:"to" toml:"to"`
	Type       diagram.Arrow `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Text       string        `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Activate   bool          `json:"activate,omitempty" yaml:"activate,omitempty" toml:"activate,omitempty"`
	Deactivate bool          `json:"deactivate,omitempty" yaml:"deactivate,omitempty" toml:"deactivate,omitempty"`
}

type NoteDoc struct {
	Position diagram.NotePosition `json:"position" yaml:"position" toml:"position"`
	Over     []string             `json:"over" yaml:"over" toml:"over"`
	Text     string               `json:"text" yaml:"text" toml:"text"`
}

// LogicDoc is a logic block whose branches hold messages only.
type LogicDoc struct {
	Type       diagram.BlockKind `json:"logic_type" yaml:"logic_type" toml:"logic_type"`
	Condition  string            `json:"condition,omitempty" yaml:"condition,omitempty" toml:"condition,omitempty"`
	Messages   []MessageDoc      `json:"messages,omitempty" yaml:"messages,omitempty" toml:"messages,omitempty"`
	ElseBlocks []ElseDoc         `json:"else_blocks,omitempty" yaml:"else_blocks,omitempty" toml:"else_blocks,omitempty"`
}

type ElseDoc struct {
	Condition string       `json:"condition,omitempty" yaml:"condition,omitempty" toml:"condition,omitempty"`
	Messages  []MessageDoc `json:"messages,omitempty" yaml:"messages,omitempty" toml:"messages,omitempty"`
}

// StatementDoc holds exactly one sequence statement.
type StatementDoc struct {
	Message    *MessageDoc `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
	Note       *NoteDoc    `json:"note,omitempty" yaml:"note,omitempty" toml:"note,omitempty"`
	Activate   string      `json:"activate,omitempty" yaml:"activate,omitempty" toml:"activate,omitempty"`
	Deactivate string      `json:"deactivate,omitempty" yaml:"deactivate,omitempty" toml:"deactivate,omitempty"`
	Block      *BlockDoc   `json:"block,omitempty" yaml:"block,omitempty" toml:"block,omitempty"`
}

type BlockDoc struct {
	Type     diagram.BlockKind `json:"type" yaml:"type" toml:"type"`
	Branches []BranchDoc       `json:"branches" yaml:"branches" toml:"branches"`
}

type BranchDoc struct {
	Condition  string         `json:"condition,omitempty" yaml:"condition,omitempty" toml:"condition,omitempty"`
	Statements []StatementDoc `json:"statements,omitempty" yaml:"statements,omitempty" toml:"statements,omitempty"`
}

// StateScope is one level of a state diagram. Composite and concurrent
// states nest further scopes.
type StateScope struct {
	States      []StateDoc      `json:"states,omitempty" yaml:"states,omitempty" toml:"states,omitempty"`
	Transitions []TransitionDoc `json:"transitions,omitempty" yaml:"transitions,omitempty" toml:"transitions,omitempty"`
	Choices     []ChoiceDoc     `json:"choices,omitempty" yaml:"choices,omitempty" toml:"choices,omitempty"`
	Forks       []ForkDoc       `json:"forks,omitempty" yaml:"forks,omitempty" toml:"forks,omitempty"`
	Joins       []JoinDoc       `json:"joins,omitempty" yaml:"joins,omitempty" toml:"joins,omitempty"`
	Composites  []CompositeDoc  `json:"composites,omitempty" yaml:"composites,omitempty" toml:"composites,omitempty"`
	Concurrents []ConcurrentDoc `json:"concurrents,omitempty" yaml:"concurrents,omitempty" toml:"concurrents,omitempty"`
}

type StateDoc struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

type TransitionDoc struct {
	From  string `json:"from" yaml:"from" toml:"from"`
	To    string `json:"to" yaml:"to" toml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// ChoiceDoc declares a choice state and one guarded transition per condition.
type ChoiceDoc struct {
	ID         string         `json:"id" yaml:"id" toml:"id"`
	Conditions []ConditionDoc `json:"conditions,omitempty" yaml:"conditions,omitempty" toml:"conditions,omitempty"`
}

type ConditionDoc struct {
	Condition string `json:"condition" yaml:"condition" toml:"condition"`
	Target    string `json:"target" yaml:"target" toml:"target"`
}

// ForkDoc declares a fork and a transition to each target.
type ForkDoc struct {
	ID      string   `json:"id" yaml:"id" toml:"id"`
	Targets []string `json:"targets,omitempty" yaml:"targets,omitempty" toml:"targets,omitempty"`
}

// JoinDoc declares a join, a transition from each source and one to Target.
type JoinDoc struct {
	ID      string   `json:"id" yaml:"id" toml:"id"`
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty"`
	Target  string   `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
}

type CompositeDoc struct {
	ID         string `json:"id" yaml:"id" toml:"id"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	StateScope `yaml:",inline"`
}

type ConcurrentDoc struct {
	ID      string       `json:"id" yaml:"id" toml:"id"`
	Title   string       `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Regions []StateScope `json:"regions" yaml:"regions" toml:"regions"`
}

type EntityDoc struct {
	Name       string         `json:"name" yaml:"name" toml:"name"`
	Attributes []AttributeDoc `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// AttributeDoc accepts a single Key ("PK", "FK", "UK", "none" or a
// comma-separated list) as well as a Keys list.
type AttributeDoc struct {
	Type    string              `json:"type" yaml:"type" toml:"type"`
	Name    string              `json:"name" yaml:"name" toml:"name"`
	Key     string              `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Keys    []diagram.KeyMarker `json:"keys,omitempty" yaml:"keys,omitempty" toml:"keys,omitempty"`
	Comment string              `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
}

// RelationshipDoc is shared by ER and requirement documents.
//
// In ER documents Type is an optional shorthand ("one-to-many", "1:1", ...)
// that explicit cardinalities override, and Identifying defaults to true.
// In requirement documents Type is the relation kind ("satisfies", ...).
type RelationshipDoc struct {
	From            string `json:"from" yaml:"from" toml:"from"`
	To              string `json:"to" yaml:"to" toml:"to"`
	Type            string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	FromCardinality string `json:"from_cardinality,omitempty" yaml:"from_cardinality,omitempty" toml:"from_cardinality,omitempty"`
	ToCardinality   string `json:"to_cardinality,omitempty" yaml:"to_cardinality,omitempty" toml:"to_cardinality,omitempty"`
	Identifying     *bool  `json:"identifying,omitempty" yaml:"identifying,omitempty" toml:"identifying,omitempty"`
	Label           string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

type SectionDoc struct {
	Name  string    `json:"name" yaml:"name" toml:"name"`
	Tasks []TaskDoc `json:"tasks,omitempty" yaml:"tasks,omitempty" toml:"tasks,omitempty"`
}

type TaskDoc struct {
	Name   string   `json:"name" yaml:"name" toml:"name"`
	Score  int      `json:"score" yaml:"score" toml:"score"`
	Actors []string `json:"actors,omitempty" yaml:"actors,omitempty" toml:"actors,omitempty"`
}

// ElementDoc is a requirement element. Name is an optional alias that
// relationships may use instead of ID.
type ElementDoc struct {
	ID     string              `json:"id" yaml:"id" toml:"id"`
	Name   string              `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type   diagram.ElementKind `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	DocRef string              `json:"doc_ref,omitempty" yaml:"doc_ref,omitempty" toml:"doc_ref,omitempty"`
}
