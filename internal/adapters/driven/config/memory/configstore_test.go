package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"backend.url":   "http://localhost:5000",
		"backend.burst": int64(7),
		"backend.rate":  2.5,
	})

	assert.Equal(t, "http://localhost:5000", store.GetString("backend.url"))
	assert.Equal(t, 7, store.GetInt("backend.burst"))
	assert.InDelta(t, 2.5, store.GetFloat("backend.rate"), 0.0001)
	assert.InDelta(t, 7.0, store.GetFloat("backend.burst"), 0.0001)

	// Wrong types read as zero values
	assert.Empty(t, store.GetString("backend.burst"))
	assert.Zero(t, store.GetInt("backend.url"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("chat.mode")
	assert.False(t, ok)

	require.NoError(t, store.Set("chat.mode", "agent"))
	val, ok := store.Get("chat.mode")
	assert.True(t, ok)
	assert.Equal(t, "agent", val)

	require.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
