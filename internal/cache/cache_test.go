package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("embed", "hashing", "The Customer shall pay")
	b := Key("embed", "hashing", "The Customer shall pay")
	c := Key("embed", "openai", "The Customer shall pay")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "lexdiff:v1:"))
	// parts are separated so shifting text between parts changes the key
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vectors")
	c := NewDiskCache(dir, time.Hour)

	key := Key("x")
	require.NoError(t, c.Set(key, []byte(`[0.1,0.2]`), 0))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte(`[0.1,0.2]`), got)

	// sharded by hash prefix, no temp files left behind
	name := strings.TrimPrefix(key, keyPrefix)
	entries, err := os.ReadDir(filepath.Join(dir, name[:2]))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, name[2:]+".cache", entries[0].Name())

	require.NoError(t, c.Delete(key))
	require.NoError(t, c.Delete(key))
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestDiskCache_ExpiredAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	require.NoError(t, c.Set("old", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, ok := c.Get("old")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cache"), []byte("{"), 0644))
	_, ok = c.Get("bad")
	assert.False(t, ok)
	_, err := os.Stat(filepath.Join(dir, "bad.cache"))
	assert.True(t, os.IsNotExist(err))
}

func TestLayeredCache_Promotes(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Hour)
	mem := NewMemoryCache(time.Hour, time.Minute)
	c := NewLayered(mem, disk)

	require.NoError(t, disk.Set("k", []byte("v"), 0))
	_, ok := mem.Get("k")
	require.False(t, ok)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	got, ok = mem.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestLayeredCache_SetWritesBoth(t *testing.T) {
	c := NewLayeredCache(time.Hour, t.TempDir(), time.Hour)
	require.NoError(t, c.Set("k", []byte("v"), 0))

	_, ok := c.memory.Get("k")
	assert.True(t, ok)
	_, ok = c.disk.Get("k")
	assert.True(t, ok)

	require.NoError(t, c.Clear())
	_, ok = c.Get("k")
	assert.False(t, ok)
}
