package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStore_GetMiss(t *testing.T) {
	store := NewCacheStore(setupTestDB(t))

	value, ok := store.Get("https://api.github.com/repos/acme/widgets/pulls/7/comments")

	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestCacheStore_SetGetRoundTrip(t *testing.T) {
	store := NewCacheStore(setupTestDB(t))
	key := "https://api.github.com/repos/acme/widgets/pulls/7/comments?page=1"
	response := []byte("HTTP/1.1 200 OK\r\nETag: \"abc\"\r\n\r\n[]")

	store.Set(key, response)

	value, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, response, value)
}

func TestCacheStore_SetReplaces(t *testing.T) {
	store := NewCacheStore(setupTestDB(t))
	key := "https://api.github.com/graphql"

	store.Set(key, []byte("first"))
	store.Set(key, []byte("second"))

	value, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("second"), value)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestCacheStore_Delete(t *testing.T) {
	store := NewCacheStore(setupTestDB(t))
	key := "https://api.github.com/repos/acme/widgets/pulls/7/reviews"

	store.Set(key, []byte("payload"))
	store.Delete(key)

	_, ok := store.Get(key)
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	store.Delete("never-stored")
}

func TestCacheStore_Size(t *testing.T) {
	store := NewCacheStore(setupTestDB(t))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	store.Set("a", []byte("1"))
	store.Set("b", []byte("2"))

	size, err = store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	// setupTestDB already migrated once; a second run is a no-op.
	require.NoError(t, RunMigrations(db.Writer))
}
