package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"vertex/internal/domain/model"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()

	got, ok := NewStatic(model.Identity{ID: " alice ", Name: "Alice"}).Resolve(ctx)
	assert.True(t, ok)
	assert.Equal(t, model.Identity{ID: "alice", Name: "Alice"}, got)

	_, ok = NewStatic(model.Identity{ID: "  "}).Resolve(ctx)
	assert.False(t, ok)

	var nilStatic *Static
	_, ok = nilStatic.Resolve(ctx)
	assert.False(t, ok)
}

func TestContextResolver(t *testing.T) {
	bob := model.Identity{ID: "bob"}
	ctx := NewContext(context.Background(), bob)

	got, ok := ContextResolver{}.Resolve(ctx)
	assert.True(t, ok)
	assert.Equal(t, bob, got)

	_, ok = ContextResolver{}.Resolve(context.Background())
	assert.False(t, ok)

	fallback := ContextResolver{Fallback: NewStatic(model.Identity{ID: "cli"})}
	got, ok = fallback.Resolve(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "cli", got.ID)

	got, ok = fallback.Resolve(ctx)
	assert.True(t, ok)
	assert.Equal(t, "bob", got.ID)

	_, ok = ContextResolver{}.Resolve(NewContext(context.Background(), model.Identity{}))
	assert.False(t, ok)
}
