package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDict(t *testing.T, dir, file string, words ...string) []byte {
	t.Helper()
	data, err := bdic.Compile(words, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), data, 0o644))
	return data
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"en-US-dict.bdic", "English (United States) - en-US-dict.bdic"},
		{"de-medical.bdic", "German - de-medical.bdic"},
		{"en-ZZ-slang.bdic", "English - en-ZZ-slang.bdic"},
		{"xx-unknown.bdic", "xx-unknown.bdic"},
		{"custom.bdic", "custom.bdic"},
		{"EN-us-shout.bdic", "EN-us-shout.bdic"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelFor(tt.file))
		})
	}
}

func TestResolverCustomLanguages(t *testing.T) {
	r := Resolver{Languages: Languages{"xx": "Klingon"}}
	assert.Equal(t, "Klingon - xx-unknown.bdic", r.LabelFor("xx-unknown.bdic"))
	assert.Equal(t, "en-US-dict.bdic", r.LabelFor("en-US-dict.bdic"))

	code, ok := Code("pt-BR-words.bdic")
	assert.True(t, ok)
	assert.Equal(t, "pt-BR", code)
	_, ok = Code("words.bdic")
	assert.False(t, ok)
}

func TestParseFileName(t *testing.T) {
	name, on, ok := ParseFileName("en-US-dict.bdic")
	assert.True(t, ok)
	assert.True(t, on)
	assert.Equal(t, "en-US-dict", name)

	name, on, ok = ParseFileName("custom.bdic.disabled")
	assert.True(t, ok)
	assert.False(t, on)
	assert.Equal(t, "custom", name)

	_, _, ok = ParseFileName("custom.txt")
	assert.False(t, ok)

	assert.Equal(t, "custom.bdic", FileName("custom", true))
	assert.Equal(t, "custom.bdic.disabled", FileName("custom", false))
}

func TestCatalogLoad(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "en-US-dict.bdic", "color", "flavor")
	writeDict(t, dir, "custom.bdic", "gopher", "spelldict")
	writeDict(t, dir, "de-medical.bdic.disabled", "arzt", "pflege")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.txt"), []byte("gopher\n"), 0o644))

	cat := New(NewDirStore(dir))
	assert.False(t, cat.Loaded())
	require.NoError(t, cat.Load())
	assert.True(t, cat.Loaded())

	entries := cat.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "custom", entries[0].Name)
	assert.Equal(t, "en-US-dict", entries[1].Name)
	assert.Equal(t, "English (United States) - en-US-dict.bdic", entries[1].Label)
	assert.Equal(t, "de-medical", entries[2].Name)
	assert.False(t, entries[2].Enabled)

	assert.Equal(t, []string{"custom", "en-US-dict"}, cat.Enabled())

	e, ok := cat.Lookup("de-medical.bdic.disabled")
	assert.True(t, ok)
	assert.Equal(t, "de-medical", e.Name)
}

func TestCatalogToggleKeepsBytes(t *testing.T) {
	dir := t.TempDir()
	want := writeDict(t, dir, "en-US-dict.bdic", "color", "flavor")

	cat := New(NewDirStore(dir))
	require.NoError(t, cat.Load())

	require.NoError(t, cat.Disable("en-US-dict"))
	assert.NoFileExists(t, filepath.Join(dir, "en-US-dict.bdic"))
	got, err := os.ReadFile(filepath.Join(dir, "en-US-dict.bdic.disabled"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Empty(t, cat.Enabled())

	require.NoError(t, cat.Toggle("en-US-dict"))
	got, err = os.ReadFile(filepath.Join(dir, "en-US-dict.bdic"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"en-US-dict"}, cat.Enabled())

	// Enabling an enabled dictionary is a no-op.
	require.NoError(t, cat.Enable("en-US-dict"))
	assert.FileExists(t, filepath.Join(dir, "en-US-dict.bdic"))
}

func TestCatalogUnknownDictionary(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "custom.bdic", "gopher", "spelldict")

	cat := New(NewDirStore(dir))
	require.NoError(t, cat.Load())

	err := cat.Disable("custom", "nope")
	assert.ErrorIs(t, err, ErrUnknownDictionary)
	assert.FileExists(t, filepath.Join(dir, "custom.bdic.disabled"))

	assert.ErrorIs(t, cat.Toggle("nope"), ErrUnknownDictionary)
}

func TestCatalogMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	cat := New(NewDirStore(dir))

	err := cat.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "list", se.Op)
	assert.Contains(t, se.Hint(), "Missing dictionary folder")
	assert.False(t, cat.Loaded())
}

func TestStorageErrorHint(t *testing.T) {
	dir := t.TempDir()
	store := NewDirStore(dir)

	_, err := store.Read("nope.bdic")
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Missing dictionary file: "+filepath.Join(dir, "nope.bdic"), se.Hint())

	missing := NewDirStore(filepath.Join(dir, "gone"))
	err = missing.Replace("custom.bdic", []byte("x"))
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Missing dictionary folder: "+missing.Dir, se.Hint())

	se = &StorageError{Op: "write", Path: filepath.Join(dir, "a.bdic"), Err: os.ErrPermission}
	assert.Equal(t, "No read/write permission to dictionary folder: "+dir, se.Hint())
}

func TestDirStoreReplaceAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dicts")
	store := NewDirStore(dir)
	require.NoError(t, store.Ensure())

	require.NoError(t, store.Replace("custom.txt", []byte("a\n")))
	require.NoError(t, store.Replace("custom.txt", []byte("a\nb\n")))
	data, err := store.Read("custom.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"custom.txt"}, names)

	require.NoError(t, store.Remove("custom.txt"))
	require.NoError(t, store.Remove("custom.txt"))
	_, err = store.Read("custom.txt")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestSeed(t *testing.T) {
	src := t.TempDir()
	writeDict(t, src, "en-US-dict.bdic", "color", "flavor")
	writeDict(t, src, "de-medical.bdic", "arzt", "pflege")
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.bdic"), []byte("not a dictionary"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "README"), []byte("ignored"), 0o644))

	dst := t.TempDir()
	results, err := Seed(src, NewDirStore(dst), map[string]bool{"de-medical": true})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byName := map[string]SeedResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	assert.Equal(t, SeedFailed, byName["broken"].Status)
	assert.Error(t, byName["broken"].Err)
	assert.Equal(t, SeedSkipped, byName["de-medical"].Status)
	assert.Equal(t, SeedInstalled, byName["en-US-dict"].Status)

	assert.FileExists(t, filepath.Join(dst, "en-US-dict.bdic"))
	assert.NoFileExists(t, filepath.Join(dst, "de-medical.bdic"))
	assert.NoFileExists(t, filepath.Join(dst, "broken.bdic"))

	_, err = Seed(filepath.Join(src, "missing"), NewDirStore(dst), nil)
	assert.ErrorIs(t, err, ErrStorage)
}
