package diagram

import (
	"slices"
	"strconv"
	"strings"
)

// Task is one step of a journey section. Score is conventionally 1 to 5
// but is not checked.
type Task struct {
	Text   string   `json:"text" yaml:"text" toml:"text"`
	Score  int      `json:"score" yaml:"score" toml:"score"`
	Actors []string `json:"actors,omitempty" yaml:"actors,omitempty" toml:"actors,omitempty"`
}

// Section groups tasks under a heading.
type Section struct {
	Title string `json:"title" yaml:"title" toml:"title"`
	Tasks []Task `json:"tasks,omitempty" yaml:"tasks,omitempty" toml:"tasks,omitempty"`
}

var taskReplacer = strings.NewReplacer(":", "#58;", ",", "#44;")

func (t Task) render() string {
	s := taskReplacer.Replace(plain(t.Text)) + ": " + strconv.Itoa(t.Score)
	if len(t.Actors) > 0 {
		actors := make([]string, len(t.Actors))
		for i, a := range t.Actors {
			actors[i] = taskReplacer.Replace(plain(a))
		}
		s += ": " + strings.Join(actors, ", ")
	}
	return s
}

// Journey is an immutable user journey. Create one with [NewJourney].
type Journey struct {
	meta
	sections []Section
}

// JourneyBuilder accumulates sections.
type JourneyBuilder struct {
	j Journey
}

// NewJourney starts an empty journey.
func NewJourney() *JourneyBuilder {
	return &JourneyBuilder{}
}

func (b *JourneyBuilder) Title(title string) *JourneyBuilder {
	b.j.title = title
	return b
}

func (b *JourneyBuilder) Config(cfg Config) *JourneyBuilder {
	b.j.config = &cfg
	return b
}

func (b *JourneyBuilder) Section(title string, tasks ...Task) *JourneyBuilder {
	b.j.sections = append(b.j.sections, Section{Title: title, Tasks: tasks})
	return b
}

// Task appends a task to the last section, opening an untitled one when
// there is none yet.
func (b *JourneyBuilder) Task(text string, score int, actors ...string) *JourneyBuilder {
	if len(b.j.sections) == 0 {
		b.j.sections = append(b.j.sections, Section{})
	}
	last := &b.j.sections[len(b.j.sections)-1]
	last.Tasks = append(last.Tasks, Task{Text: text, Score: score, Actors: actors})
	return b
}

func (b *JourneyBuilder) Build() (*Journey, error) {
	j := b.j
	j.sections = make([]Section, len(b.j.sections))
	for i, s := range b.j.sections {
		s.Tasks = slices.Clone(s.Tasks)
		for k := range s.Tasks {
			s.Tasks[k].Actors = slices.Clone(s.Tasks[k].Actors)
		}
		j.sections[i] = s
	}

	if err := j.meta.validate(); err != nil {
		return nil, err
	}
	for _, s := range j.sections {
		for _, t := range s.Tasks {
			if strings.TrimSpace(t.Text) == "" {
				return nil, configError("task in section %q has no text", s.Title)
			}
		}
	}
	return &j, nil
}

func (*Journey) Kind() Kind { return KindJourney }

// The title is part of the journey body, not the frontmatter.
func (*Journey) frontmatterTitle() string { return "" }

func (j *Journey) Sections() []Section { return slices.Clone(j.sections) }

// Render emits sections in order; an untitled section renders its tasks
// without a section header.
func (j *Journey) Render() string {
	w := &writer{}
	w.line(0, "journey")
	if j.title != "" {
		w.line(0, "title "+plain(j.title))
	}
	for _, s := range j.sections {
		if s.Title != "" {
			w.line(0, "section "+plain(s.Title))
		}
		for _, t := range s.Tasks {
			w.line(1, t.render())
		}
	}
	return w.String()
}
