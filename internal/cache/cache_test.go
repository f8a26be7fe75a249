package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	assert.Equal(t, "/project/dist/.apisurface-cache", Path("/project/dist", "/project/classes"))
	assert.Equal(t, "/project/build/classes.apisurface-cache", Path("", "/project/build/classes"))
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "a.jar")
	require.NoError(t, os.WriteFile(path, []byte("jar-bytes"), 0o644))
	hash1 := HashFile(path)
	assert.NotEmpty(t, hash1, "HashFile returned empty for existing file")

	path2 := filepath.Join(dir, "b.jar")
	require.NoError(t, os.WriteFile(path2, []byte("jar-bytes"), 0o644))
	assert.Equal(t, hash1, HashFile(path2), "expected identical content to hash identically")

	path3 := filepath.Join(dir, "c.jar")
	require.NoError(t, os.WriteFile(path3, []byte("different-bytes"), 0o644))
	assert.NotEqual(t, hash1, HashFile(path3), "expected different content to hash differently")

	assert.Empty(t, HashFile(filepath.Join(dir, "missing.jar")), "expected empty hash for a missing file")
}

func TestHashLocationsIsOrderIndependent(t *testing.T) {
	a := HashLocations([]string{"hash-1", "hash-2", "hash-3"})
	b := HashLocations([]string{"hash-3", "hash-1", "hash-2"})
	assert.Equal(t, a, b, "expected order-independent hash")
}

func TestHashLocationsDiffersOnContent(t *testing.T) {
	a := HashLocations([]string{"hash-1", "hash-2"})
	b := HashLocations([]string{"hash-1", "hash-3"})
	assert.NotEqual(t, a, b, "expected different location hashes to produce different combined hashes")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idx", ".apisurface-cache")

	c := New("combined-hash", map[string]string{
		"com.example.UserResource": "/project/classes.jar",
	})
	require.NoError(t, Save(path, c))

	loaded := Load(path)
	require.NotNil(t, loaded)
	assert.Equal(t, "combined-hash", loaded.ClasspathHash)
	assert.Equal(t, "/project/classes.jar", loaded.Index["com.example.UserResource"])
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	assert.Nil(t, Load(filepath.Join(t.TempDir(), "nope")))
}

func TestLoadInvalidJSONReturnsNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".apisurface-cache")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	assert.Nil(t, Load(path))
}

func TestIsValid(t *testing.T) {
	c := New("current-hash", nil)
	assert.True(t, c.IsValid("current-hash"), "expected cache to be valid for a matching hash")
	assert.False(t, c.IsValid("other-hash"), "expected cache to be invalid for a mismatched hash")

	stale := &Cache{V: SchemaVersion - 1, ClasspathHash: "current-hash"}
	assert.False(t, stale.IsValid("current-hash"), "expected cache to be invalid for a stale schema version")

	var nilCache *Cache
	assert.False(t, nilCache.IsValid("current-hash"), "expected a nil cache to be invalid")
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".apisurface-cache")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	Delete(path)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected the cache file to be removed")
}
