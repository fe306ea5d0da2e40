package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewIndexRebuild(t *testing.T) {
	ix := NewViewIndex[int]()
	entries := []Entry[int]{
		{Key: MakeKey("A", 1), Handle: 0},
		{Key: MakeKey("A", 2), Handle: 1},
		{Key: MakeKey("B", 1), Handle: 2},
	}
	ix.Rebuild(entries)

	require.Equal(t, 3, ix.Len())
	for _, e := range entries {
		h, ok := ix.HandleFor(e.Key)
		require.True(t, ok)
		k, ok := ix.KeyFor(h)
		require.True(t, ok)
		assert.Equal(t, e.Key, k)
		assert.Equal(t, e.Handle, h)
	}

	_, ok := ix.HandleFor(MakeKey("C", 1))
	assert.False(t, ok, "unknown key should miss")
	_, ok = ix.KeyFor(99)
	assert.False(t, ok, "unknown handle should miss")
}

func TestViewIndexRebuildReplaces(t *testing.T) {
	ix := NewViewIndex[string]()
	ix.Rebuild([]Entry[string]{{Key: "A_1", Handle: "row-a"}})
	ix.Rebuild([]Entry[string]{{Key: "B_1", Handle: "row-b"}})

	_, ok := ix.HandleFor("A_1")
	assert.False(t, ok, "old entries must not survive a rebuild")
	_, ok = ix.KeyFor("row-a")
	assert.False(t, ok)

	h, ok := ix.HandleFor("B_1")
	require.True(t, ok)
	assert.Equal(t, "row-b", h)
}

func TestViewIndexEmpty(t *testing.T) {
	ix := NewViewIndex[int]()
	ix.Rebuild([]Entry[int]{{Key: "A_1", Handle: 1}})
	ix.Rebuild(nil)

	assert.Equal(t, 0, ix.Len())
	_, ok := ix.HandleFor("A_1")
	assert.False(t, ok)
}

func TestViewIndexLastWriteWins(t *testing.T) {
	ix := NewViewIndex[int]()
	ix.Rebuild([]Entry[int]{
		{Key: "A_1", Handle: 0},
		{Key: "B_1", Handle: 1},
		{Key: "A_1", Handle: 2},
	})

	h, ok := ix.HandleFor("A_1")
	require.True(t, ok)
	assert.Equal(t, 2, h)

	_, ok = ix.KeyFor(0)
	assert.False(t, ok, "overwritten handle must lose its key")

	k, ok := ix.KeyFor(2)
	require.True(t, ok)
	assert.Equal(t, HitKey("A_1"), k)
	assert.Equal(t, 2, ix.Len())
}

func TestViewIndexDuplicateHandle(t *testing.T) {
	ix := NewViewIndex[int]()
	ix.Rebuild([]Entry[int]{
		{Key: "A_1", Handle: 5},
		{Key: "B_1", Handle: 5},
	})

	k, ok := ix.KeyFor(5)
	require.True(t, ok)
	assert.Equal(t, HitKey("B_1"), k)
	_, ok = ix.HandleFor("A_1")
	assert.False(t, ok)
}
