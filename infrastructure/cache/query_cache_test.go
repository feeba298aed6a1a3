package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/observability"
)

func newCache() *InMemoryQueryCache {
	return NewInMemoryQueryCache(observability.NewCollector("studyplatform"))
}

func flashcard(id string) ports.Artifact {
	return ports.PersistedFlashcard{ID: id, Title: id, GroupID: "group-1"}
}

func TestQueryCache_GetMissThenHit(t *testing.T) {
	c := newCache()
	ctx := context.Background()
	key := ports.CacheKey{Resource: "flashcards", GroupID: "group-1"}

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []ports.Artifact{flashcard("fc-1")})
	items, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "fc-1", items[0].ArtifactID())
}

func TestQueryCache_AppendCreatesAndExtends(t *testing.T) {
	c := newCache()
	ctx := context.Background()
	key := ports.CacheKey{Resource: "flashcards", GroupID: "group-1"}

	c.Append(ctx, key, flashcard("fc-1"))
	c.Append(ctx, key, flashcard("fc-2"), flashcard("fc-3"))

	items, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.Equal(t, "fc-1", items[0].ArtifactID())
	assert.Equal(t, "fc-3", items[2].ArtifactID())
}

func TestQueryCache_KeysAreIndependent(t *testing.T) {
	c := newCache()
	ctx := context.Background()
	keyA := ports.CacheKey{Resource: "mindmaps", GroupID: "group-1", SubjectID: "subj-1"}
	keyB := ports.CacheKey{Resource: "mindmaps", GroupID: "group-1", SubjectID: "subj-2"}

	c.Append(ctx, keyA, flashcard("a"))
	c.Append(ctx, keyB, flashcard("b"))

	itemsA, _ := c.Get(ctx, keyA)
	itemsB, _ := c.Get(ctx, keyB)
	require.Len(t, itemsA, 1)
	require.Len(t, itemsB, 1)
	assert.NotEqual(t, itemsA[0].ArtifactID(), itemsB[0].ArtifactID())
}

func TestQueryCache_ReturnedSliceIsIsolated(t *testing.T) {
	c := newCache()
	ctx := context.Background()
	key := ports.CacheKey{Resource: "flashcards", GroupID: "group-1"}

	c.Set(ctx, key, []ports.Artifact{flashcard("fc-1")})
	items, _ := c.Get(ctx, key)
	items[0] = flashcard("mutated")

	again, _ := c.Get(ctx, key)
	assert.Equal(t, "fc-1", again[0].ArtifactID())
}

func TestQueryCache_Invalidate(t *testing.T) {
	c := newCache()
	ctx := context.Background()
	key := ports.CacheKey{Resource: "quizzes", GroupID: "group-1", SubjectID: "subj-1"}

	c.Set(ctx, key, []ports.Artifact{flashcard("qz-1")})
	c.Invalidate(ctx, key)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestQueryCache_ConcurrentAppends(t *testing.T) {
	c := newCache()
	ctx := context.Background()
	key := ports.CacheKey{Resource: "flashcards", GroupID: "group-1"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Append(ctx, key, flashcard(fmt.Sprintf("fc-%d", i)))
		}(i)
	}
	wg.Wait()

	items, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Len(t, items, 50)
}
