package usecase

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vertex/internal/adapter/identity"
	"vertex/internal/adapter/logging"
	"vertex/internal/adapter/storage/sqlite"
	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

var fixedNow = time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)

type invalidation struct {
	owner string
	views []string
}

type recordingViews struct {
	mu    sync.Mutex
	calls []invalidation
}

func (r *recordingViews) Invalidate(_ context.Context, ownerID string, views ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, invalidation{owner: ownerID, views: views})
}

func (r *recordingViews) last() invalidation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return invalidation{}
	}
	return r.calls[len(r.calls)-1]
}

// untouchable panics on any storage call.
type untouchable struct {
	ports.SheetRepository
	ports.UserRepository
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "vertex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newService(t *testing.T, store *sqlite.Store, owner string) (*SheetService, *recordingViews) {
	t.Helper()
	views := &recordingViews{}
	svc := NewSheetService(store, store, identity.NewStatic(model.Identity{ID: owner}), views, logging.New(nil))
	svc.now = func() time.Time { return fixedNow }
	return svc, views
}

func details(title, url string) model.QuestionDetails {
	return model.QuestionDetails{Title: title, URL: url, Topics: []string{"Arrays"}, Difficulty: "Easy"}
}

func mustCreate(t *testing.T, svc *SheetService, title string, questions ...model.Question) string {
	t.Helper()
	res := svc.CreateSheet(context.Background(), CreateSheetInput{Title: title, Questions: questions})
	require.True(t, res.Success, res.Error)
	return res.SheetID
}

func mustGet(t *testing.T, svc *SheetService, sheetID string) *model.Sheet {
	t.Helper()
	sheet, err := svc.GetSheet(context.Background(), sheetID)
	require.NoError(t, err)
	require.NotNil(t, sheet)
	return sheet
}

func questionTitles(sheet *model.Sheet) []string {
	out := make([]string, len(sheet.Questions))
	for i, q := range sheet.Questions {
		out[i] = q.Title
	}
	return out
}
