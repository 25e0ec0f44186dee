package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

const placeholderEmailDomain = "placeholder.vertex.com"

// SheetService is the owner-scoped store of practice sheets. Every operation
// resolves the caller first; mutations refuse without an identity and reads
// come back empty.
type SheetService struct {
	sheets   ports.SheetRepository
	users    ports.UserRepository
	identity ports.IdentityResolver
	views    ports.ViewInvalidator
	logger   ports.Logger
	now      func() time.Time
}

// NewSheetService constructs a SheetService.
func NewSheetService(
	sheets ports.SheetRepository,
	users ports.UserRepository,
	identity ports.IdentityResolver,
	views ports.ViewInvalidator,
	logger ports.Logger,
) *SheetService {
	return &SheetService{
		sheets:   sheets,
		users:    users,
		identity: identity,
		views:    views,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateSheetInput is a title plus the partial records to track.
type CreateSheetInput struct {
	Title     string
	Questions []model.Question
}

// CreateSheetResult reports the outcome of CreateSheet. Failures are carried in
// Error instead of being returned.
type CreateSheetResult struct {
	Success bool
	SheetID string
	Error   string
}

func (s *SheetService) caller(ctx context.Context) (model.Identity, error) {
	principal, ok := s.identity.Resolve(ctx)
	if !ok {
		return model.Identity{}, model.ErrUnauthorized
	}
	return principal, nil
}

// CreateSheet makes sure the caller has a user record and stores a new sheet
// whose questions all start untracked.
func (s *SheetService) CreateSheet(ctx context.Context, in CreateSheetInput) CreateSheetResult {
	principal, err := s.caller(ctx)
	if err != nil {
		return CreateSheetResult{Error: "Unauthorized"}
	}

	user := model.User{ClerkID: principal.ID, Email: principal.Email, Name: principal.Name}
	if strings.TrimSpace(user.Email) == "" {
		user.Email = fmt.Sprintf("%s@%s", principal.ID, placeholderEmailDomain)
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = "User"
	}
	if err := s.users.EnsureUser(ctx, user); err != nil {
		s.logger.Error(ctx, "failed to ensure user", "owner", principal.ID, "error", err)
		return CreateSheetResult{Error: "Failed to create sheet"}
	}

	questions := make([]model.Question, len(in.Questions))
	for i, q := range in.Questions {
		questions[i] = model.NewQuestion(q.Details())
	}
	sheet := &model.Sheet{
		UserID:    principal.ID,
		Title:     in.Title,
		Questions: questions,
	}
	if err := s.sheets.Insert(ctx, sheet); err != nil {
		s.logger.Error(ctx, "failed to insert sheet", "owner", principal.ID, "error", err)
		return CreateSheetResult{Error: "Failed to create sheet"}
	}

	s.logger.Info(ctx, "sheet created", "owner", principal.ID, "sheet", sheet.ID, "questions", len(questions))
	s.invalidate(ctx, principal.ID, "")
	return CreateSheetResult{Success: true, SheetID: sheet.ID}
}

// GetSheets lists the caller's sheets, newest first. Storage failures are
// logged and yield an empty list.
func (s *SheetService) GetSheets(ctx context.Context) []model.Sheet {
	principal, err := s.caller(ctx)
	if err != nil {
		return []model.Sheet{}
	}
	sheets, err := s.sheets.FindByOwner(ctx, principal.ID)
	if err != nil {
		s.logger.Error(ctx, "failed to list sheets", "owner", principal.ID, "error", err)
		return []model.Sheet{}
	}
	return sheets
}

// GetSheet returns nil when the sheet does not exist or belongs to someone else.
func (s *SheetService) GetSheet(ctx context.Context, sheetID string) (*model.Sheet, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, nil
	}
	sheet, err := s.sheets.FindOne(ctx, principal.ID, sheetID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sheet: %w", err)
	}
	return sheet, nil
}

// ToggleStatus moves a question to status, keeping the solved counter and
// SolvedAt in step. It fails with model.ErrConflict if the sheet changed while
// being updated.
func (s *SheetService) ToggleStatus(ctx context.Context, sheetID, questionID string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("toggle status: invalid status %q", status)
	}
	principal, err := s.caller(ctx)
	if err != nil {
		return err
	}

	err = s.sheets.Update(ctx, principal.ID, sheetID, func(sheet *model.Sheet) error {
		q, _ := sheet.Question(questionID)
		if q == nil {
			return model.ErrQuestionNotFound
		}
		applyStatus(sheet, q, status, s.now())
		return nil
	})
	if err != nil {
		return fmt.Errorf("toggle status: %w", err)
	}

	s.invalidate(ctx, principal.ID, sheetID)
	return nil
}

func applyStatus(sheet *model.Sheet, q *model.Question, status model.Status, now time.Time) {
	switch {
	case status == model.StatusSolved && q.Status != model.StatusSolved:
		sheet.SolvedQuestions++
		q.SolvedAt = &now
	case q.Status == model.StatusSolved && status != model.StatusSolved:
		sheet.SolvedQuestions = max(0, sheet.SolvedQuestions-1)
		q.SolvedAt = nil
	}
	q.Status = status
}

// UpdateSheetTitle renames a sheet.
func (s *SheetService) UpdateSheetTitle(ctx context.Context, sheetID, title string) error {
	principal, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if err := s.sheets.SetTitle(ctx, principal.ID, sheetID, title); err != nil {
		return fmt.Errorf("update sheet title: %w", err)
	}
	s.invalidate(ctx, principal.ID, sheetID)
	return nil
}

// ToggleBookmark sets the bookmark flag of one question.
func (s *SheetService) ToggleBookmark(ctx context.Context, sheetID, questionID string, bookmarked bool) error {
	if err := s.patchQuestion(ctx, sheetID, questionID, model.QuestionPatch{IsBookmarked: &bookmarked}); err != nil {
		return fmt.Errorf("toggle bookmark: %w", err)
	}
	return nil
}

// UpdateNotes replaces the notes of one question.
func (s *SheetService) UpdateNotes(ctx context.Context, sheetID, questionID, notes string) error {
	if err := s.patchQuestion(ctx, sheetID, questionID, model.QuestionPatch{Notes: &notes}); err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	return nil
}

// UpdateQuestionDetails overwrites title, url, topics and difficulty.
func (s *SheetService) UpdateQuestionDetails(ctx context.Context, sheetID, questionID string, details model.QuestionDetails) error {
	if err := s.patchQuestion(ctx, sheetID, questionID, model.DetailsPatch(details)); err != nil {
		return fmt.Errorf("update question details: %w", err)
	}
	return nil
}

func (s *SheetService) patchQuestion(ctx context.Context, sheetID, questionID string, patch model.QuestionPatch) error {
	if patch.Empty() {
		return nil
	}
	principal, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if err := s.sheets.UpdateQuestion(ctx, principal.ID, sheetID, questionID, patch); err != nil {
		return err
	}
	s.invalidate(ctx, principal.ID, sheetID)
	return nil
}

// DeleteSheet removes a sheet and everything in it.
func (s *SheetService) DeleteSheet(ctx context.Context, sheetID string) error {
	principal, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if err := s.sheets.Delete(ctx, principal.ID, sheetID); err != nil {
		return fmt.Errorf("delete sheet: %w", err)
	}
	s.logger.Info(ctx, "sheet deleted", "owner", principal.ID, "sheet", sheetID)
	s.invalidate(ctx, principal.ID, sheetID)
	return nil
}

// AddQuestion inserts a new pending question at index, or appends it when
// index is nil. It returns the new question's ID.
func (s *SheetService) AddQuestion(ctx context.Context, sheetID string, details model.QuestionDetails, index *int) (string, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return "", err
	}
	id, err := s.sheets.PushQuestion(ctx, principal.ID, sheetID, model.NewQuestion(details), index)
	if err != nil {
		return "", fmt.Errorf("add question: %w", err)
	}
	s.invalidate(ctx, principal.ID, sheetID)
	return id, nil
}

// DeleteQuestion removes one question; the store decides whether the solved
// counter drops.
func (s *SheetService) DeleteQuestion(ctx context.Context, sheetID, questionID string) error {
	principal, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if err := s.sheets.PullQuestion(ctx, principal.ID, sheetID, questionID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.invalidate(ctx, principal.ID, sheetID)
	return nil
}

func (s *SheetService) invalidate(ctx context.Context, ownerID, sheetID string) {
	if s.views == nil {
		return
	}
	views := []string{model.DashboardView}
	if sheetID != "" {
		views = append(views, model.SheetView(sheetID))
	}
	s.views.Invalidate(ctx, ownerID, views...)
}
