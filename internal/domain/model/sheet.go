package model

import "time"

// Sheet is a named, user-owned, ordered collection of tracked questions.
// TotalQuestions and SolvedQuestions are denormalized and kept in step with
// Questions by every store mutation.
type Sheet struct {
	ID              string
	UserID          string
	Title           string
	TotalQuestions  int
	SolvedQuestions int
	Questions       []Question
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
}

// Question returns the question with the given id and its position.
func (s *Sheet) Question(id string) (*Question, int) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], i
		}
	}
	return nil, -1
}

// Percent returns the rounded solved percentage.
func (s *Sheet) Percent() int {
	return Percent(s.SolvedQuestions, s.TotalQuestions)
}

// Percent rounds solved/total to a whole percentage; 0 when total is 0.
func Percent(solved, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(solved)*100/float64(total) + 0.5)
}

// ClampIndex bounds an insertion index to [0, n].
func ClampIndex(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n {
		return n
	}
	return index
}

// User mirrors the identity provider's principal in the local store.
type User struct {
	ClerkID   string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the opaque authenticated principal handed to the store.
type Identity struct {
	ID    string
	Email string
	Name  string
}

const (
	// DashboardView is the owner's aggregate progress view.
	DashboardView   = "/dashboard"
	sheetViewPrefix = "/sheet/"
)

// SheetView names the detail view of one sheet.
func SheetView(sheetID string) string {
	return sheetViewPrefix + sheetID
}
