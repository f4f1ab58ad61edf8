package seed

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cadence/internal/timeline"
)

type rawDocument struct {
	User       string         `yaml:"user"`
	Goals      []rawGoal      `yaml:"goals"`
	Tasks      []rawTask      `yaml:"tasks"`
	TimeBlocks []rawTimeBlock `yaml:"time_blocks"`
}

type rawGoal struct {
	Key        string `yaml:"key"`
	Title      string `yaml:"title"`
	StartDate  string `yaml:"start_date"`
	TargetDate string `yaml:"target_date"`
}

type rawTask struct {
	Title    string `yaml:"title"`
	Goal     string `yaml:"goal"`
	Priority *int   `yaml:"priority"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
}

type rawTimeBlock struct {
	Title     string `yaml:"title"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	BlockType string `yaml:"block_type"`
	Protected bool   `yaml:"protected"`
}

// Document is a validated seed file for one user.
type Document struct {
	Source     string
	User       string
	Goals      []Goal
	Tasks      []Task
	TimeBlocks []TimeBlock
}

// Goal references may be used by tasks through Key.
type Goal struct {
	Key        string
	Title      string
	StartDate  time.Time
	TargetDate time.Time
}

type Task struct {
	Title    string
	GoalKey  string
	Priority int
	Start    *time.Time
	End      *time.Time
}

type TimeBlock struct {
	Title     string
	Start     time.Time
	End       time.Time
	BlockType string
	Protected bool
}

// ValidationError captures a single field-specific validation issue.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// Parse unmarshals and validates a YAML seed document. Dates and offset-less
// timestamps are interpreted in loc. All problems are reported together as
// ValidationErrors.
func Parse(data []byte, source string, loc *time.Location) (Document, error) {
	if loc == nil {
		loc = time.UTC
	}
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}
	v := validator{source: source, loc: loc}
	doc := v.document(raw)
	if len(v.errs) > 0 {
		return Document{}, v.errs
	}
	return doc, nil
}

type validator struct {
	source string
	loc    *time.Location
	errs   ValidationErrors
}

func (v *validator) fail(field, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{File: v.source, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) document(raw rawDocument) Document {
	doc := Document{Source: v.source, User: strings.TrimSpace(raw.User)}
	if len(raw.Goals)+len(raw.Tasks)+len(raw.TimeBlocks) == 0 {
		v.fail("", "document must contain at least one goal, task or time block")
	}

	keys := make(map[string]struct{})
	for idx, g := range raw.Goals {
		path := fmt.Sprintf("goals[%d]", idx)
		goal := v.goal(g, path)
		if goal.Key != "" {
			if _, exists := keys[goal.Key]; exists {
				v.fail(path+".key", "duplicate goal key %q", goal.Key)
			}
			keys[goal.Key] = struct{}{}
		}
		doc.Goals = append(doc.Goals, goal)
	}

	for idx, t := range raw.Tasks {
		path := fmt.Sprintf("tasks[%d]", idx)
		task := v.task(t, path)
		if task.GoalKey != "" {
			if _, ok := keys[task.GoalKey]; !ok {
				v.fail(path+".goal", "unknown goal key %q", task.GoalKey)
			}
		}
		doc.Tasks = append(doc.Tasks, task)
	}

	for idx, b := range raw.TimeBlocks {
		doc.TimeBlocks = append(doc.TimeBlocks, v.timeBlock(b, fmt.Sprintf("time_blocks[%d]", idx)))
	}
	return doc
}

func (v *validator) goal(raw rawGoal, path string) Goal {
	g := Goal{Key: strings.TrimSpace(raw.Key), Title: strings.TrimSpace(raw.Title)}
	if g.Title == "" {
		v.fail(path+".title", "is required")
	}
	g.StartDate = v.date(raw.StartDate, path+".start_date")
	g.TargetDate = v.date(raw.TargetDate, path+".target_date")
	if !g.StartDate.IsZero() && !g.TargetDate.IsZero() && g.TargetDate.Before(g.StartDate) {
		v.fail(path+".target_date", "must not be before start_date")
	}
	return g
}

func (v *validator) task(raw rawTask, path string) Task {
	t := Task{Title: strings.TrimSpace(raw.Title), GoalKey: strings.TrimSpace(raw.Goal)}
	if t.Title == "" {
		v.fail(path+".title", "is required")
	}
	if raw.Priority != nil {
		if *raw.Priority < 0 || *raw.Priority > 100 {
			v.fail(path+".priority", "must be between 0 and 100")
		}
		t.Priority = *raw.Priority
	}
	if raw.Start == "" && raw.End == "" {
		return t
	}
	if raw.Start == "" || raw.End == "" {
		v.fail(path, "start and end must be set together")
		return t
	}
	start := v.timestamp(raw.Start, path+".start")
	end := v.timestamp(raw.End, path+".end")
	if !start.IsZero() && !end.IsZero() {
		if !start.Before(end) {
			v.fail(path+".end", "must be after start")
		}
		t.Start, t.End = &start, &end
	}
	return t
}

func (v *validator) timeBlock(raw rawTimeBlock, path string) TimeBlock {
	b := TimeBlock{
		Title:     strings.TrimSpace(raw.Title),
		BlockType: strings.TrimSpace(raw.BlockType),
		Protected: raw.Protected,
	}
	if b.Title == "" {
		v.fail(path+".title", "is required")
	}
	b.Start = v.timestamp(raw.Start, path+".start")
	b.End = v.timestamp(raw.End, path+".end")
	if !b.Start.IsZero() && !b.End.IsZero() && !b.Start.Before(b.End) {
		v.fail(path+".end", "must be after start")
	}
	return b
}

func (v *validator) date(value, field string) time.Time {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "is required")
		return time.Time{}
	}
	d, err := timeline.ParseDate(value, v.loc)
	if err != nil {
		v.fail(field, "must be YYYY-MM-DD")
		return time.Time{}
	}
	return d
}

func (v *validator) timestamp(value, field string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		v.fail(field, "is required")
		return time.Time{}
	}
	t, err := timeline.ParseLocalTimestamp(value, v.loc)
	if err != nil {
		v.fail(field, "must be RFC3339 or YYYY-MM-DD HH:MM")
		return time.Time{}
	}
	return t
}
