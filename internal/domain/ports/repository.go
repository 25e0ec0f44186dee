package ports

import (
	"context"

	"vertex/internal/domain/model"
)

// SheetRepository is the document-oriented persistence of sheets. Every method is
// scoped to an owner; a sheet owned by someone else behaves as missing and yields
// model.ErrSheetNotFound.
type SheetRepository interface {
	// Insert stores a new sheet, assigning sheet and question IDs and timestamps.
	Insert(ctx context.Context, sheet *model.Sheet) error
	// FindByOwner lists the owner's sheets, newest first.
	FindByOwner(ctx context.Context, ownerID string) ([]model.Sheet, error)
	FindOne(ctx context.Context, ownerID, sheetID string) (*model.Sheet, error)
	// Update loads the whole sheet, applies fn and saves it back. The save fails
	// with model.ErrConflict if the sheet changed in between.
	Update(ctx context.Context, ownerID, sheetID string, fn func(*model.Sheet) error) error
	SetTitle(ctx context.Context, ownerID, sheetID, title string) error
	UpdateQuestion(ctx context.Context, ownerID, sheetID, questionID string, patch model.QuestionPatch) error
	// PushQuestion inserts q at position (clamped to the question count) or appends
	// when position is nil, and increments the total counter. It returns the new ID.
	PushQuestion(ctx context.Context, ownerID, sheetID string, q model.Question, position *int) (string, error)
	// PullQuestion removes a question and decrements the total counter, and the
	// solved counter when the removed question is solved at that moment. Neither
	// goes below zero.
	PullQuestion(ctx context.Context, ownerID, sheetID, questionID string) error
	Delete(ctx context.Context, ownerID, sheetID string) error
}

// UserRepository mirrors identity-provider principals.
type UserRepository interface {
	// EnsureUser creates the user keyed by ClerkID unless it already exists.
	EnsureUser(ctx context.Context, user model.User) error
}
