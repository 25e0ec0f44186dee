package mongodb

import (
	"time"

	"vertex/internal/domain/model"
)

type userDoc struct {
	ClerkID   string    `bson:"clerkId"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type sheetDoc struct {
	ID              string        `bson:"_id"`
	UserID          string        `bson:"userId"`
	Title           string        `bson:"title"`
	TotalQuestions  int           `bson:"totalQuestions"`
	SolvedQuestions int           `bson:"solvedQuestions"`
	Questions       []questionDoc `bson:"questions"`
	CreatedAt       time.Time     `bson:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt"`
	Version         int64         `bson:"version"`
}

type questionDoc struct {
	ID           string     `bson:"_id"`
	Title        string     `bson:"title"`
	URL          string     `bson:"url"`
	Topics       []string   `bson:"topics"`
	Difficulty   string     `bson:"difficulty"`
	Status       string     `bson:"status"`
	IsBookmarked bool       `bson:"isBookmarked"`
	Notes        string     `bson:"notes"`
	SolvedAt     *time.Time `bson:"solvedAt,omitempty"`
}

func toSheetDoc(s *model.Sheet) sheetDoc {
	questions := make([]questionDoc, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = toQuestionDoc(q)
	}
	return sheetDoc{
		ID:              s.ID,
		UserID:          s.UserID,
		Title:           s.Title,
		TotalQuestions:  s.TotalQuestions,
		SolvedQuestions: s.SolvedQuestions,
		Questions:       questions,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
	}
}

func toQuestionDoc(q model.Question) questionDoc {
	topics := q.Topics
	if topics == nil {
		topics = []string{}
	}
	return questionDoc{
		ID:           q.ID,
		Title:        q.Title,
		URL:          q.URL,
		Topics:       topics,
		Difficulty:   q.Difficulty,
		Status:       string(q.Status),
		IsBookmarked: q.IsBookmarked,
		Notes:        q.Notes,
		SolvedAt:     q.SolvedAt,
	}
}

func (d sheetDoc) model() model.Sheet {
	questions := make([]model.Question, len(d.Questions))
	for i, q := range d.Questions {
		topics := q.Topics
		if topics == nil {
			topics = []string{}
		}
		questions[i] = model.Question{
			ID:           q.ID,
			Title:        q.Title,
			URL:          q.URL,
			Topics:       topics,
			Difficulty:   q.Difficulty,
			Status:       model.Status(q.Status),
			IsBookmarked: q.IsBookmarked,
			Notes:        q.Notes,
			SolvedAt:     q.SolvedAt,
		}
	}
	return model.Sheet{
		ID:              d.ID,
		UserID:          d.UserID,
		Title:           d.Title,
		TotalQuestions:  d.TotalQuestions,
		SolvedQuestions: d.SolvedQuestions,
		Questions:       questions,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Version:         d.Version,
	}
}
