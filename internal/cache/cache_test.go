package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	require.NoError(t, c.Put("key", []byte("value")))

	data, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), data)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_HashMismatch(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	hash := HashBytes([]byte("content v1"))
	require.NoError(t, c.PutWithHash("key", hash, []byte("result")))

	data, ok := c.GetWithHash("key", hash)
	assert.True(t, ok)
	assert.Equal(t, []byte("result"), data)

	// a changed file hash invalidates the entry
	_, ok = c.GetWithHash("key", HashBytes([]byte("content v2")))
	assert.False(t, ok)
}

func TestCache_Disabled(t *testing.T) {
	c, err := New("", 1, false)
	require.NoError(t, err)

	require.NoError(t, c.Put("key", []byte("value")))
	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	require.NoError(t, c.Put("key", []byte("value")))
	require.NoError(t, c.Clear())

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("hello"))
	b := HashBytes([]byte("hello"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashBytes([]byte("world")))
}

func TestCache_KeyWithPathSeparators(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	key := "staticize:v1:/some/abs/path/File.java"
	require.NoError(t, c.Put(key, []byte("x")))

	data, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), data)
}
