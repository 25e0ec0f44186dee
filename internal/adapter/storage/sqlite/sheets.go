package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vertex/internal/domain/model"
)

const sheetColumns = "id, user_id, title, total_questions, solved_questions, created_at, updated_at, version"

const questionColumns = "id, sheet_id, title, url, topics, difficulty, status, is_bookmarked, notes, solved_at"

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Insert stores sheet and its questions, assigning IDs, timestamps and counters.
func (s *Store) Insert(ctx context.Context, sheet *model.Sheet) error {
	now := s.now()
	if sheet.ID == "" {
		sheet.ID = s.newID()
	}
	sheet.CreatedAt, sheet.UpdatedAt = now, now
	sheet.Version = 1
	sheet.TotalQuestions = len(sheet.Questions)
	sheet.SolvedQuestions = 0
	for i := range sheet.Questions {
		if sheet.Questions[i].ID == "" {
			sheet.Questions[i].ID = s.newID()
		}
		if sheet.Questions[i].IsSolved() {
			sheet.SolvedQuestions++
		}
	}

	const op = "sqlite: insert sheet"
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO sheets ("+sheetColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			sheet.ID, sheet.UserID, sheet.Title, sheet.TotalQuestions, sheet.SolvedQuestions,
			now.UnixNano(), now.UnixNano(), sheet.Version,
		)
		if err != nil {
			return model.NewStorageError(op, err)
		}
		return model.NewStorageError(op, insertQuestions(ctx, tx, sheet.ID, sheet.Questions))
	})
}

func insertQuestions(ctx context.Context, tx *sql.Tx, sheetID string, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO questions (position, "+questionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, q := range questions {
		args, err := questionArgs(sheetID, q)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, append([]any{i}, args...)...); err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}
	return nil
}

func questionArgs(sheetID string, q model.Question) ([]any, error) {
	topics := q.Topics
	if topics == nil {
		topics = []string{}
	}
	encoded, err := json.Marshal(topics)
	if err != nil {
		return nil, fmt.Errorf("encode topics: %w", err)
	}
	var solvedAt sql.NullInt64
	if q.SolvedAt != nil {
		solvedAt = sql.NullInt64{Int64: q.SolvedAt.UnixNano(), Valid: true}
	}
	return []any{
		q.ID, sheetID, q.Title, q.URL, string(encoded), q.Difficulty,
		string(q.Status), q.IsBookmarked, q.Notes, solvedAt,
	}, nil
}

// FindByOwner lists the owner's sheets with their questions, newest first.
func (s *Store) FindByOwner(ctx context.Context, ownerID string) ([]model.Sheet, error) {
	const op = "sqlite: find sheets"
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sheetColumns+" FROM sheets WHERE user_id = ? ORDER BY created_at DESC, rowid DESC",
		ownerID,
	)
	if err != nil {
		return nil, model.NewStorageError(op, err)
	}
	defer rows.Close()

	var sheets []model.Sheet
	index := make(map[string]int)
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, model.NewStorageError(op, err)
		}
		index[sheet.ID] = len(sheets)
		sheets = append(sheets, *sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorageError(op, err)
	}
	rows.Close()
	if len(sheets) == 0 {
		return []model.Sheet{}, nil
	}

	qrows, err := s.db.QueryContext(ctx,
		"SELECT q."+strings.ReplaceAll(questionColumns, ", ", ", q.")+
			" FROM questions q JOIN sheets s ON s.id = q.sheet_id WHERE s.user_id = ? ORDER BY q.sheet_id, q.position",
		ownerID,
	)
	if err != nil {
		return nil, model.NewStorageError(op, err)
	}
	defer qrows.Close()
	for qrows.Next() {
		q, sheetID, err := scanQuestion(qrows)
		if err != nil {
			return nil, model.NewStorageError(op, err)
		}
		if i, ok := index[sheetID]; ok {
			sheets[i].Questions = append(sheets[i].Questions, q)
		}
	}
	if err := qrows.Err(); err != nil {
		return nil, model.NewStorageError(op, err)
	}
	for i := range sheets {
		if sheets[i].Questions == nil {
			sheets[i].Questions = []model.Question{}
		}
	}
	return sheets, nil
}

// FindOne loads one sheet owned by ownerID.
func (s *Store) FindOne(ctx context.Context, ownerID, sheetID string) (*model.Sheet, error) {
	return findOne(ctx, s.db, "sqlite: find sheet", ownerID, sheetID)
}

func findOne(ctx context.Context, db querier, op, ownerID, sheetID string) (*model.Sheet, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+sheetColumns+" FROM sheets WHERE id = ? AND user_id = ?",
		sheetID, ownerID,
	)
	sheet, err := scanSheet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSheetNotFound
	}
	if err != nil {
		return nil, model.NewStorageError(op, err)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE sheet_id = ? ORDER BY position",
		sheetID,
	)
	if err != nil {
		return nil, model.NewStorageError(op, err)
	}
	defer rows.Close()

	sheet.Questions = []model.Question{}
	for rows.Next() {
		q, _, err := scanQuestion(rows)
		if err != nil {
			return nil, model.NewStorageError(op, err)
		}
		sheet.Questions = append(sheet.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorageError(op, err)
	}
	return sheet, nil
}

// Update loads the sheet, applies fn and writes the whole sheet back if nobody
// saved it in the meantime.
func (s *Store) Update(ctx context.Context, ownerID, sheetID string, fn func(*model.Sheet) error) error {
	sheet, err := s.FindOne(ctx, ownerID, sheetID)
	if err != nil {
		return err
	}
	loaded := sheet.Version
	if err := fn(sheet); err != nil {
		return err
	}

	const op = "sqlite: update sheet"
	now := s.now()
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE sheets
			SET title = ?, total_questions = ?, solved_questions = ?, updated_at = ?, version = version + 1
			WHERE id = ? AND user_id = ? AND version = ?`,
			sheet.Title, len(sheet.Questions), max(0, sheet.SolvedQuestions), now.UnixNano(),
			sheetID, ownerID, loaded,
		)
		if err != nil {
			return model.NewStorageError(op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return model.NewStorageError(op, err)
		}
		if n == 0 {
			return model.ErrConflict
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE sheet_id = ?", sheetID); err != nil {
			return model.NewStorageError(op, err)
		}
		for i := range sheet.Questions {
			if sheet.Questions[i].ID == "" {
				sheet.Questions[i].ID = s.newID()
			}
		}
		return model.NewStorageError(op, insertQuestions(ctx, tx, sheetID, sheet.Questions))
	})
}

// SetTitle renames a sheet.
func (s *Store) SetTitle(ctx context.Context, ownerID, sheetID, title string) error {
	const op = "sqlite: set title"
	res, err := s.db.ExecContext(ctx,
		"UPDATE sheets SET title = ?, updated_at = ?, version = version + 1 WHERE id = ? AND user_id = ?",
		title, s.now().UnixNano(), sheetID, ownerID,
	)
	if err != nil {
		return model.NewStorageError(op, err)
	}
	return requireRow(res, op, model.ErrSheetNotFound)
}

// UpdateQuestion applies patch to one question in place.
func (s *Store) UpdateQuestion(ctx context.Context, ownerID, sheetID, questionID string, patch model.QuestionPatch) error {
	const op = "sqlite: update question"
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		if err := touchSheet(ctx, tx, op, ownerID, sheetID, s.now().UnixNano()); err != nil {
			return err
		}

		row := tx.QueryRowContext(ctx,
			"SELECT "+questionColumns+" FROM questions WHERE id = ? AND sheet_id = ?",
			questionID, sheetID,
		)
		q, _, err := scanQuestion(row)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrQuestionNotFound
		}
		if err != nil {
			return model.NewStorageError(op, err)
		}

		patch.Apply(&q)
		args, err := questionArgs(sheetID, q)
		if err != nil {
			return model.NewStorageError(op, err)
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE questions
			SET title = ?, url = ?, topics = ?, difficulty = ?, is_bookmarked = ?, notes = ?
			WHERE id = ?`,
			args[2], args[3], args[4], args[5], args[7], args[8], questionID,
		)
		return model.NewStorageError(op, err)
	})
}

// PushQuestion inserts q at position, shifting later questions down, or appends
// it when position is nil.
func (s *Store) PushQuestion(ctx context.Context, ownerID, sheetID string, q model.Question, position *int) (string, error) {
	const op = "sqlite: push question"
	if q.ID == "" {
		q.ID = s.newID()
	}
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		var total int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM questions q JOIN sheets s ON s.id = q.sheet_id WHERE s.id = ? AND s.user_id = ?",
			sheetID, ownerID,
		).Scan(&total)
		if err != nil {
			return model.NewStorageError(op, err)
		}
		if err := touchSheet(ctx, tx, op, ownerID, sheetID, s.now().UnixNano()); err != nil {
			return err
		}

		at := total
		if position != nil {
			at = model.ClampIndex(*position, total)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE questions SET position = position + 1 WHERE sheet_id = ? AND position >= ?",
			sheetID, at,
		); err != nil {
			return model.NewStorageError(op, err)
		}

		args, err := questionArgs(sheetID, q)
		if err != nil {
			return model.NewStorageError(op, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO questions (position, "+questionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			append([]any{at}, args...)...,
		); err != nil {
			return model.NewStorageError(op, err)
		}

		solved := 0
		if q.IsSolved() {
			solved = 1
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE sheets SET total_questions = total_questions + 1, solved_questions = solved_questions + ? WHERE id = ?",
			solved, sheetID,
		)
		return model.NewStorageError(op, err)
	})
	if err != nil {
		return "", err
	}
	return q.ID, nil
}

// PullQuestion removes a question and closes the gap it leaves. The solved
// counter drops only if the question is solved when the row is deleted.
func (s *Store) PullQuestion(ctx context.Context, ownerID, sheetID, questionID string) error {
	const op = "sqlite: pull question"
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		if err := touchSheet(ctx, tx, op, ownerID, sheetID, s.now().UnixNano()); err != nil {
			return err
		}

		var (
			position int
			status   string
		)
		err := tx.QueryRowContext(ctx,
			"SELECT position, status FROM questions WHERE id = ? AND sheet_id = ?",
			questionID, sheetID,
		).Scan(&position, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrQuestionNotFound
		}
		if err != nil {
			return model.NewStorageError(op, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", questionID); err != nil {
			return model.NewStorageError(op, err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE questions SET position = position - 1 WHERE sheet_id = ? AND position > ?",
			sheetID, position,
		); err != nil {
			return model.NewStorageError(op, err)
		}
		solved := 0
		if model.Status(status) == model.StatusSolved {
			solved = 1
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE sheets
			SET total_questions = MAX(0, total_questions - 1), solved_questions = MAX(0, solved_questions - ?)
			WHERE id = ?`,
			solved, sheetID,
		)
		return model.NewStorageError(op, err)
	})
}

// Delete removes a sheet and its questions.
func (s *Store) Delete(ctx context.Context, ownerID, sheetID string) error {
	const op = "sqlite: delete sheet"
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM sheets WHERE id = ? AND user_id = ?", sheetID, ownerID)
		if err != nil {
			return model.NewStorageError(op, err)
		}
		if err := requireRow(res, op, model.ErrSheetNotFound); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM questions WHERE sheet_id = ?", sheetID)
		return model.NewStorageError(op, err)
	})
}

// touchSheet bumps the sheet's version and update time, failing with
// ErrSheetNotFound when the owner has no such sheet.
func touchSheet(ctx context.Context, tx *sql.Tx, op, ownerID, sheetID string, now int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE sheets SET updated_at = ?, version = version + 1 WHERE id = ? AND user_id = ?",
		now, sheetID, ownerID,
	)
	if err != nil {
		return model.NewStorageError(op, err)
	}
	return requireRow(res, op, model.ErrSheetNotFound)
}

func requireRow(res sql.Result, op string, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return model.NewStorageError(op, err)
	}
	if n == 0 {
		return missing
	}
	return nil
}

func scanSheet(row scanner) (*model.Sheet, error) {
	var (
		sheet                model.Sheet
		createdAt, updatedAt int64
	)
	err := row.Scan(&sheet.ID, &sheet.UserID, &sheet.Title, &sheet.TotalQuestions, &sheet.SolvedQuestions,
		&createdAt, &updatedAt, &sheet.Version)
	if err != nil {
		return nil, err
	}
	sheet.CreatedAt = fromNanos(createdAt)
	sheet.UpdatedAt = fromNanos(updatedAt)
	return &sheet, nil
}

func scanQuestion(row scanner) (model.Question, string, error) {
	var (
		q        model.Question
		sheetID  string
		topics   string
		status   string
		solvedAt sql.NullInt64
	)
	err := row.Scan(&q.ID, &sheetID, &q.Title, &q.URL, &topics, &q.Difficulty, &status,
		&q.IsBookmarked, &q.Notes, &solvedAt)
	if err != nil {
		return model.Question{}, "", err
	}
	if err := json.Unmarshal([]byte(topics), &q.Topics); err != nil {
		return model.Question{}, "", fmt.Errorf("decode topics of %s: %w", q.ID, err)
	}
	if q.Topics == nil {
		q.Topics = []string{}
	}
	q.Status = model.Status(status)
	if solvedAt.Valid {
		t := fromNanos(solvedAt.Int64)
		q.SolvedAt = &t
	}
	return q, sheetID, nil
}
