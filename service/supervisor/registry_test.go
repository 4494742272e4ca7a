package supervisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	assert.Empty(t, registry.IDs())

	handles := []*fakeHandle{newFakeHandle(3), newFakeHandle(1), newFakeHandle(2)}
	for _, h := range handles {
		require.NoError(t, registry.Add(h))
	}
	assert.Equal(t, []int{3, 1, 2}, registry.IDs(), "launch order is kept")
	assert.Error(t, registry.Add(newFakeHandle(1)), "live duplicate")

	found, ok := registry.Lookup(1)
	assert.True(t, ok)
	assert.Same(t, handles[1], found)
	_, ok = registry.Lookup(9)
	assert.False(t, ok)

	assert.Empty(t, registry.Reap())
	handles[1].exit()
	assert.Equal(t, []int{1}, registry.Reap())
	assert.Equal(t, []int{3, 2}, registry.IDs())
	assert.Empty(t, registry.Reap())

	handles[0].exit()
	handles[2].exit()
	assert.Equal(t, []int{3, 2}, registry.Reap())
	assert.Empty(t, registry.IDs())
}

func TestRegistry_ReplaceDead(t *testing.T) {
	registry := NewRegistry()
	old := newFakeHandle(7)
	require.NoError(t, registry.Add(old))
	old.exit()

	reused := newFakeHandle(7)
	require.NoError(t, registry.Add(reused))
	assert.Equal(t, []int{7}, registry.IDs())
	found, _ := registry.Lookup(7)
	assert.Same(t, reused, found)
}
