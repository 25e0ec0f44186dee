package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex/internal/adapter/identity"
	"vertex/internal/adapter/logging"
	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

func TestCreateSheetDefaultsQuestions(t *testing.T) {
	store := newStore(t)
	svc, views := newService(t, store, "alice")

	solved := model.NewQuestion(details("b", "https://b"))
	solved.Status = model.StatusSolved
	solved.IsBookmarked = true
	solved.Notes = "stale"
	solved.ID = "from-import"

	id := mustCreate(t, svc, "T",
		model.NewQuestion(details("a", "https://a")),
		solved,
		model.NewQuestion(details("c", "")),
	)

	sheet := mustGet(t, svc, id)
	assert.Equal(t, "T", sheet.Title)
	assert.Equal(t, "alice", sheet.UserID)
	assert.Equal(t, 3, sheet.TotalQuestions)
	assert.Equal(t, 0, sheet.SolvedQuestions)
	for _, q := range sheet.Questions {
		assert.Equal(t, model.StatusPending, q.Status)
		assert.False(t, q.IsBookmarked)
		assert.Empty(t, q.Notes)
		assert.Nil(t, q.SolvedAt)
		assert.NotEqual(t, "from-import", q.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, questionTitles(sheet))
	assert.Equal(t, invalidation{owner: "alice", views: []string{model.DashboardView}}, views.calls[0])
}

type capturingUsers struct {
	users []model.User
	err   error
}

func (c *capturingUsers) EnsureUser(_ context.Context, u model.User) error {
	c.users = append(c.users, u)
	return c.err
}

func TestCreateSheetEnsuresUser(t *testing.T) {
	store := newStore(t)
	users := &capturingUsers{}
	svc := NewSheetService(store, users, identity.NewStatic(model.Identity{ID: "u1"}), nil, logging.New(nil))

	res := svc.CreateSheet(context.Background(), CreateSheetInput{Title: "x"})
	require.True(t, res.Success)
	require.Len(t, users.users, 1)
	assert.Equal(t, model.User{ClerkID: "u1", Email: "u1@placeholder.vertex.com", Name: "User"}, users.users[0])

	svc = NewSheetService(store, users, identity.NewStatic(model.Identity{ID: "u2", Email: "u2@example.com", Name: "Uma"}), nil, logging.New(nil))
	require.True(t, svc.CreateSheet(context.Background(), CreateSheetInput{Title: "y"}).Success)
	assert.Equal(t, model.User{ClerkID: "u2", Email: "u2@example.com", Name: "Uma"}, users.users[1])
}

func TestCreateSheetFailuresBecomeResults(t *testing.T) {
	store := newStore(t)
	users := &capturingUsers{err: model.NewStorageError("users", errors.New("offline"))}
	svc := NewSheetService(store, users, identity.NewStatic(model.Identity{ID: "u1"}), nil, logging.New(nil))

	res := svc.CreateSheet(context.Background(), CreateSheetInput{Title: "x"})
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to create sheet", res.Error)
	assert.Empty(t, svc.GetSheets(context.Background()))

	require.NoError(t, store.Close())
	svc = NewSheetService(store, &capturingUsers{}, identity.NewStatic(model.Identity{ID: "u1"}), nil, logging.New(nil))
	res = svc.CreateSheet(context.Background(), CreateSheetInput{Title: "x"})
	assert.False(t, res.Success)
	assert.Empty(t, res.SheetID)
}

func TestGetSheetsNewestFirst(t *testing.T) {
	store := newStore(t)
	svc, _ := newService(t, store, "alice")
	mustCreate(t, svc, "first")
	mustCreate(t, svc, "second")

	other, _ := newService(t, store, "bob")
	mustCreate(t, other, "bob's")

	sheets := svc.GetSheets(context.Background())
	require.Len(t, sheets, 2)
	assert.Equal(t, "second", sheets[0].Title)
	assert.Equal(t, "first", sheets[1].Title)
}

func TestGetSheetsStorageFailureIsEmpty(t *testing.T) {
	store := newStore(t)
	svc, _ := newService(t, store, "alice")
	mustCreate(t, svc, "first")
	require.NoError(t, store.Close())

	assert.Empty(t, svc.GetSheets(context.Background()))
	_, err := svc.GetSheet(context.Background(), "anything")
	assert.ErrorIs(t, err, model.ErrStorage)
}

func TestToggleStatusCounters(t *testing.T) {
	store := newStore(t)
	svc, views := newService(t, store, "alice")
	ctx := context.Background()
	id := mustCreate(t, svc, "s", model.NewQuestion(details("a", "https://a")), model.NewQuestion(details("b", "https://b")))
	qid := mustGet(t, svc, id).Questions[0].ID

	require.NoError(t, svc.ToggleStatus(ctx, id, qid, model.StatusSolved))
	sheet := mustGet(t, svc, id)
	assert.Equal(t, 1, sheet.SolvedQuestions)
	require.NotNil(t, sheet.Questions[0].SolvedAt)
	assert.True(t, sheet.Questions[0].SolvedAt.Equal(fixedNow))
	assert.Equal(t, invalidation{owner: "alice", views: []string{model.DashboardView, model.SheetView(id)}}, views.last())

	require.NoError(t, svc.ToggleStatus(ctx, id, qid, model.StatusSolved))
	assert.Equal(t, 1, mustGet(t, svc, id).SolvedQuestions)

	require.NoError(t, svc.ToggleStatus(ctx, id, qid, model.StatusRevision))
	sheet = mustGet(t, svc, id)
	assert.Equal(t, 0, sheet.SolvedQuestions)
	assert.Nil(t, sheet.Questions[0].SolvedAt)
	assert.Equal(t, model.StatusRevision, sheet.Questions[0].Status)

	require.NoError(t, svc.ToggleStatus(ctx, id, qid, model.StatusPending))
	require.NoError(t, svc.ToggleStatus(ctx, id, qid, model.StatusPending))
	assert.Equal(t, 0, mustGet(t, svc, id).SolvedQuestions)

	err := svc.ToggleStatus(ctx, id, qid, model.Status("DONE"))
	assert.Error(t, err)
	assert.ErrorIs(t, svc.ToggleStatus(ctx, id, "missing", model.StatusSolved), model.ErrQuestionNotFound)
	assert.ErrorIs(t, svc.ToggleStatus(ctx, "missing", qid, model.StatusSolved), model.ErrSheetNotFound)
}

func TestApplyStatusFloorsSolved(t *testing.T) {
	sheet := &model.Sheet{Questions: []model.Question{{ID: "q", Status: model.StatusSolved}}}
	q, _ := sheet.Question("q")
	applyStatus(sheet, q, model.StatusPending, fixedNow)
	assert.Equal(t, 0, sheet.SolvedQuestions)
	assert.Equal(t, model.StatusPending, q.Status)
}

type conflictingRepo struct{ untouchable }

func (conflictingRepo) Update(context.Context, string, string, func(*model.Sheet) error) error {
	return model.ErrConflict
}

func TestToggleStatusConflict(t *testing.T) {
	repo := conflictingRepo{}
	svc := NewSheetService(repo, repo, identity.NewStatic(model.Identity{ID: "alice"}), nil, logging.New(nil))
	err := svc.ToggleStatus(context.Background(), "s", "q", model.StatusSolved)
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestQuestionFieldUpdates(t *testing.T) {
	store := newStore(t)
	svc, views := newService(t, store, "alice")
	ctx := context.Background()
	id := mustCreate(t, svc, "s", model.NewQuestion(details("a", "https://a")))
	qid := mustGet(t, svc, id).Questions[0].ID
	require.NoError(t, svc.ToggleStatus(ctx, id, qid, model.StatusSolved))

	require.NoError(t, svc.ToggleBookmark(ctx, id, qid, true))
	require.NoError(t, svc.UpdateNotes(ctx, id, qid, "sliding window"))
	require.NoError(t, svc.UpdateQuestionDetails(ctx, id, qid, model.QuestionDetails{
		Title: "A2", URL: "https://a2", Topics: []string{"Strings"}, Difficulty: "Hard",
	}))
	require.NoError(t, svc.UpdateSheetTitle(ctx, id, "renamed"))
	assert.Equal(t, invalidation{owner: "alice", views: []string{model.DashboardView, model.SheetView(id)}}, views.last())

	sheet := mustGet(t, svc, id)
	q := sheet.Questions[0]
	assert.Equal(t, "renamed", sheet.Title)
	assert.Equal(t, "A2", q.Title)
	assert.Equal(t, "https://a2", q.URL)
	assert.Equal(t, []string{"Strings"}, q.Topics)
	assert.Equal(t, "Hard", q.Difficulty)
	assert.True(t, q.IsBookmarked)
	assert.Equal(t, "sliding window", q.Notes)
	assert.Equal(t, model.StatusSolved, q.Status)
	assert.Equal(t, 1, sheet.SolvedQuestions)
	assert.Equal(t, 1, sheet.TotalQuestions)

	require.NoError(t, svc.ToggleBookmark(ctx, id, qid, false))
	assert.False(t, mustGet(t, svc, id).Questions[0].IsBookmarked)

	assert.ErrorIs(t, svc.UpdateNotes(ctx, id, "missing", "x"), model.ErrQuestionNotFound)
	assert.ErrorIs(t, svc.UpdateSheetTitle(ctx, "missing", "x"), model.ErrSheetNotFound)
}

func TestAddQuestion(t *testing.T) {
	store := newStore(t)
	svc, _ := newService(t, store, "alice")
	ctx := context.Background()
	id := mustCreate(t, svc, "s",
		model.NewQuestion(details("old0", "u")),
		model.NewQuestion(details("old1", "u")),
		model.NewQuestion(details("old2", "u")),
	)

	at := 1
	qid, err := svc.AddQuestion(ctx, id, details("new", "https://new"), &at)
	require.NoError(t, err)

	sheet := mustGet(t, svc, id)
	assert.Equal(t, []string{"old0", "new", "old1", "old2"}, questionTitles(sheet))
	assert.Equal(t, 4, sheet.TotalQuestions)
	added, pos := sheet.Question(qid)
	require.NotNil(t, added)
	assert.Equal(t, 1, pos)
	assert.Equal(t, model.StatusPending, added.Status)

	_, err = svc.AddQuestion(ctx, id, details("tail", "u"), nil)
	require.NoError(t, err)
	sheet = mustGet(t, svc, id)
	assert.Equal(t, "tail", sheet.Questions[4].Title)
	assert.Equal(t, 5, sheet.TotalQuestions)

	_, err = svc.AddQuestion(ctx, "missing", details("x", "u"), nil)
	assert.ErrorIs(t, err, model.ErrSheetNotFound)
}

func TestDeleteQuestion(t *testing.T) {
	store := newStore(t)
	svc, _ := newService(t, store, "alice")
	ctx := context.Background()
	id := mustCreate(t, svc, "s",
		model.NewQuestion(details("a", "u")),
		model.NewQuestion(details("b", "u")),
	)
	sheet := mustGet(t, svc, id)
	solvedID, pendingID := sheet.Questions[0].ID, sheet.Questions[1].ID
	require.NoError(t, svc.ToggleStatus(ctx, id, solvedID, model.StatusSolved))

	require.NoError(t, svc.DeleteQuestion(ctx, id, pendingID))
	sheet = mustGet(t, svc, id)
	assert.Equal(t, 1, sheet.TotalQuestions)
	assert.Equal(t, 1, sheet.SolvedQuestions)

	require.NoError(t, svc.DeleteQuestion(ctx, id, solvedID))
	sheet = mustGet(t, svc, id)
	assert.Equal(t, 0, sheet.TotalQuestions)
	assert.Equal(t, 0, sheet.SolvedQuestions)

	assert.ErrorIs(t, svc.DeleteQuestion(ctx, id, solvedID), model.ErrQuestionNotFound)
	assert.ErrorIs(t, svc.DeleteQuestion(ctx, "missing", solvedID), model.ErrSheetNotFound)
}

// togglingRepo flips a question back to pending right before the pull lands.
type togglingRepo struct {
	ports.SheetRepository
	before func()
}

func (r togglingRepo) PullQuestion(ctx context.Context, ownerID, sheetID, questionID string) error {
	r.before()
	return r.SheetRepository.PullQuestion(ctx, ownerID, sheetID, questionID)
}

func TestDeleteQuestionRacingToggle(t *testing.T) {
	store := newStore(t)
	direct, _ := newService(t, store, "alice")
	ctx := context.Background()
	id := mustCreate(t, direct, "s",
		model.NewQuestion(details("a", "u")),
		model.NewQuestion(details("b", "u")),
	)
	sheet := mustGet(t, direct, id)
	a, b := sheet.Questions[0].ID, sheet.Questions[1].ID
	require.NoError(t, direct.ToggleStatus(ctx, id, a, model.StatusSolved))
	require.NoError(t, direct.ToggleStatus(ctx, id, b, model.StatusSolved))

	repo := togglingRepo{SheetRepository: store, before: func() {
		require.NoError(t, direct.ToggleStatus(ctx, id, a, model.StatusPending))
	}}
	svc := NewSheetService(repo, store, identity.NewStatic(model.Identity{ID: "alice"}), nil, logging.New(nil))
	require.NoError(t, svc.DeleteQuestion(ctx, id, a))

	sheet = mustGet(t, direct, id)
	assert.Equal(t, 1, sheet.TotalQuestions)
	assert.Equal(t, 1, sheet.SolvedQuestions)
	assert.Equal(t, []string{"b"}, questionTitles(sheet))
}

func TestEmptyPatchSkipsStorage(t *testing.T) {
	views := &recordingViews{}
	svc := NewSheetService(untouchable{}, untouchable{}, identity.NewStatic(model.Identity{ID: "alice"}), views, logging.New(nil))
	require.NoError(t, svc.patchQuestion(context.Background(), "s", "q", model.QuestionPatch{}))
	assert.Empty(t, views.calls)
}

func TestDeleteSheet(t *testing.T) {
	store := newStore(t)
	svc, views := newService(t, store, "alice")
	ctx := context.Background()
	id := mustCreate(t, svc, "s")

	require.NoError(t, svc.DeleteSheet(ctx, id))
	assert.Equal(t, invalidation{owner: "alice", views: []string{model.DashboardView, model.SheetView(id)}}, views.last())

	sheet, err := svc.GetSheet(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, sheet)
	assert.ErrorIs(t, svc.DeleteSheet(ctx, id), model.ErrSheetNotFound)
}

func TestOtherOwnersSheetIsInvisible(t *testing.T) {
	store := newStore(t)
	alice, _ := newService(t, store, "alice")
	bob, _ := newService(t, store, "bob")
	ctx := context.Background()
	id := mustCreate(t, alice, "private", model.NewQuestion(details("a", "u")))
	qid := mustGet(t, alice, id).Questions[0].ID

	sheet, err := bob.GetSheet(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, sheet)
	assert.Empty(t, bob.GetSheets(ctx))

	assert.ErrorIs(t, bob.ToggleStatus(ctx, id, qid, model.StatusSolved), model.ErrSheetNotFound)
	assert.ErrorIs(t, bob.ToggleBookmark(ctx, id, qid, true), model.ErrSheetNotFound)
	assert.ErrorIs(t, bob.UpdateSheetTitle(ctx, id, "mine"), model.ErrSheetNotFound)
	assert.ErrorIs(t, bob.DeleteQuestion(ctx, id, qid), model.ErrSheetNotFound)
	assert.ErrorIs(t, bob.DeleteSheet(ctx, id), model.ErrSheetNotFound)

	sheet = mustGet(t, alice, id)
	assert.Equal(t, "private", sheet.Title)
	assert.Equal(t, 0, sheet.SolvedQuestions)
}

func TestNoIdentityNeverTouchesStorage(t *testing.T) {
	repo := untouchable{}
	views := &recordingViews{}
	svc := NewSheetService(repo, repo, identity.NewStatic(model.Identity{}), views, logging.New(nil))
	ctx := context.Background()

	res := svc.CreateSheet(ctx, CreateSheetInput{Title: "x"})
	assert.False(t, res.Success)
	assert.Equal(t, "Unauthorized", res.Error)

	assert.Empty(t, svc.GetSheets(ctx))
	sheet, err := svc.GetSheet(ctx, "s")
	assert.NoError(t, err)
	assert.Nil(t, sheet)

	at := 0
	mutations := map[string]error{
		"ToggleStatus":          svc.ToggleStatus(ctx, "s", "q", model.StatusSolved),
		"UpdateSheetTitle":      svc.UpdateSheetTitle(ctx, "s", "t"),
		"ToggleBookmark":        svc.ToggleBookmark(ctx, "s", "q", true),
		"UpdateNotes":           svc.UpdateNotes(ctx, "s", "q", "n"),
		"DeleteSheet":           svc.DeleteSheet(ctx, "s"),
		"UpdateQuestionDetails": svc.UpdateQuestionDetails(ctx, "s", "q", details("t", "u")),
		"DeleteQuestion":        svc.DeleteQuestion(ctx, "s", "q"),
	}
	_, addErr := svc.AddQuestion(ctx, "s", details("t", "u"), &at)
	mutations["AddQuestion"] = addErr

	for name, err := range mutations {
		assert.ErrorIs(t, err, model.ErrUnauthorized, name)
	}
	assert.Empty(t, views.calls)
}
