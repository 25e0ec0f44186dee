//go:build integration

package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex/internal/domain/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("VERTEX_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("VERTEX_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := "vertex_test_" + uuid.NewString()[:8]
	s, err := New(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.client.Database(dbName).Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func pending(title string) model.Question {
	return model.NewQuestion(model.QuestionDetails{Title: title, URL: "https://example.com/" + title})
}

func questionTitles(sheet *model.Sheet) []string {
	out := make([]string, len(sheet.Questions))
	for i, q := range sheet.Questions {
		out[i] = q.Title
	}
	return out
}

func TestSheetLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureUser(ctx, model.User{ClerkID: "alice", Email: "a@example.com", Name: "Alice"}))
	require.NoError(t, s.EnsureUser(ctx, model.User{ClerkID: "alice", Email: "b@example.com", Name: "B"}))
	n, err := s.users.CountDocuments(ctx, map[string]any{"clerkId": "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sheet := &model.Sheet{UserID: "alice", Title: "Blind 75", Questions: []model.Question{pending("a"), pending("b")}}
	require.NoError(t, s.Insert(ctx, sheet))

	got, err := s.FindOne(ctx, "alice", sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, questionTitles(got))
	assert.Equal(t, 2, got.TotalQuestions)

	_, err = s.FindOne(ctx, "bob", sheet.ID)
	assert.ErrorIs(t, err, model.ErrSheetNotFound)

	at := 1
	id, err := s.PushQuestion(ctx, "alice", sheet.ID, pending("mid"), &at)
	require.NoError(t, err)
	neg := -5
	_, err = s.PushQuestion(ctx, "alice", sheet.ID, pending("front"), &neg)
	require.NoError(t, err)

	notes := "remember"
	require.NoError(t, s.UpdateQuestion(ctx, "alice", sheet.ID, id, model.QuestionPatch{Notes: &notes}))
	assert.ErrorIs(t, s.UpdateQuestion(ctx, "alice", sheet.ID, "nope", model.QuestionPatch{Notes: &notes}), model.ErrQuestionNotFound)
	assert.ErrorIs(t, s.UpdateQuestion(ctx, "bob", sheet.ID, id, model.QuestionPatch{Notes: &notes}), model.ErrSheetNotFound)

	err = s.Update(ctx, "alice", sheet.ID, func(sh *model.Sheet) error {
		q, _ := sh.Question(id)
		q.Status = model.StatusSolved
		sh.SolvedQuestions++
		return nil
	})
	require.NoError(t, err)

	got, err = s.FindOne(ctx, "alice", sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"front", "a", "mid", "b"}, questionTitles(got))
	assert.Equal(t, 4, got.TotalQuestions)
	assert.Equal(t, 1, got.SolvedQuestions)
	q, _ := got.Question(id)
	assert.Equal(t, notes, q.Notes)

	err = s.Update(ctx, "alice", sheet.ID, func(*model.Sheet) error {
		return s.SetTitle(ctx, "alice", sheet.ID, "renamed")
	})
	assert.ErrorIs(t, err, model.ErrConflict)

	require.NoError(t, s.PullQuestion(ctx, "alice", sheet.ID, id))
	require.NoError(t, s.PullQuestion(ctx, "alice", sheet.ID, got.Questions[0].ID))
	assert.ErrorIs(t, s.PullQuestion(ctx, "alice", sheet.ID, id), model.ErrQuestionNotFound)

	got, err = s.FindOne(ctx, "alice", sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, []string{"a", "b"}, questionTitles(got))
	assert.Equal(t, 2, got.TotalQuestions)
	assert.Equal(t, 0, got.SolvedQuestions)

	sheets, err := s.FindByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	require.NoError(t, s.Delete(ctx, "alice", sheet.ID))
	assert.ErrorIs(t, s.Delete(ctx, "alice", sheet.ID), model.ErrSheetNotFound)
}
