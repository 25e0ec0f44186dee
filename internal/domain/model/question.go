package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the tracking state of a question.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSolved   Status = "SOLVED"
	StatusRevision Status = "REVISION"
)

const (
	DefaultTopic      = "General"
	DefaultDifficulty = "Medium"
)

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusSolved:
		return StatusSolved, nil
	case StatusRevision:
		return StatusRevision, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSolved, StatusRevision:
		return true
	}
	return false
}

// Question is one tracked problem within a sheet. A question without a URL is a
// section header rather than a solvable problem.
type Question struct {
	ID           string
	Title        string
	URL          string
	Topics       []string
	Difficulty   string
	Status       Status
	IsBookmarked bool
	Notes        string
	SolvedAt     *time.Time
}

// QuestionDetails are the user-editable descriptive fields of a question.
type QuestionDetails struct {
	Title      string
	URL        string
	Topics     []string
	Difficulty string
}

// QuestionPatch describes a positional field update. Nil fields are left untouched.
type QuestionPatch struct {
	Title        *string
	URL          *string
	Topics       []string
	SetTopics    bool
	Difficulty   *string
	IsBookmarked *bool
	Notes        *string
}

// Empty reports whether the patch changes nothing.
func (p QuestionPatch) Empty() bool {
	return p.Title == nil && p.URL == nil && !p.SetTopics && p.Difficulty == nil &&
		p.IsBookmarked == nil && p.Notes == nil
}

// DetailsPatch overwrites the four descriptive fields.
func DetailsPatch(d QuestionDetails) QuestionPatch {
	topics := d.Topics
	if topics == nil {
		topics = []string{}
	}
	return QuestionPatch{
		Title:      &d.Title,
		URL:        &d.URL,
		Topics:     topics,
		SetTopics:  true,
		Difficulty: &d.Difficulty,
	}
}

// Apply writes the patch onto q.
func (p QuestionPatch) Apply(q *Question) {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.URL != nil {
		q.URL = *p.URL
	}
	if p.SetTopics {
		q.Topics = append([]string(nil), p.Topics...)
	}
	if p.Difficulty != nil {
		q.Difficulty = *p.Difficulty
	}
	if p.IsBookmarked != nil {
		q.IsBookmarked = *p.IsBookmarked
	}
	if p.Notes != nil {
		q.Notes = *p.Notes
	}
}

// NewQuestion builds a fresh, untracked question from its details.
func NewQuestion(d QuestionDetails) Question {
	topics := d.Topics
	if topics == nil {
		topics = []string{}
	}
	return Question{
		Title:      d.Title,
		URL:        d.URL,
		Topics:     topics,
		Difficulty: d.Difficulty,
		Status:     StatusPending,
	}
}

// Details returns the descriptive fields of q.
func (q Question) Details() QuestionDetails {
	return QuestionDetails{
		Title:      q.Title,
		URL:        q.URL,
		Topics:     append([]string(nil), q.Topics...),
		Difficulty: q.Difficulty,
	}
}

// IsSectionHeader reports whether q renders as a divider row: no link, or a
// title that just repeats its first topic.
func (q Question) IsSectionHeader() bool {
	if strings.TrimSpace(q.URL) == "" {
		return true
	}
	return len(q.Topics) > 0 && strings.TrimSpace(q.Topics[0]) == strings.TrimSpace(q.Title)
}

// IsSolved reports whether q counts towards the solved counter.
func (q Question) IsSolved() bool {
	return q.Status == StatusSolved
}
