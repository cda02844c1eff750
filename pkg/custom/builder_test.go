package custom

import (
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/bastiangx/spelldict/pkg/catalog"
	"github.com/bastiangx/spelldict/pkg/wordlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T, opts ...Option) (*Builder, string) {
	t.Helper()
	dir := t.TempDir()
	return New(catalog.NewDirStore(dir), "custom", opts...), dir
}

func readFile(t *testing.T, dir, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return data
}

func randomWords(r *rand.Rand, n int) []string {
	const letters = "abcdefghijklmnopqrstuvwxyzäöüßABC'-"
	runes := []rune(letters)
	words := make([]string, n)
	for i := range words {
		l := 1 + r.Intn(10)
		var sb strings.Builder
		for j := 0; j < l; j++ {
			sb.WriteRune(runes[r.Intn(len(runes))])
		}
		words[i] = sb.String()
	}
	return words
}

func TestBuildRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		b, dir := newBuilder(t)
		words := randomWords(r, 2+r.Intn(300))
		// duplicates and padding
		words = append(words, words[0], "  "+words[1]+"\t", "")

		want := slices.Clone(words[:len(words)-3])
		slices.Sort(want)
		want = slices.Compact(want)

		res, err := b.Build(words)
		require.NoError(t, err)
		if len(want) < wordlist.MinWords {
			continue
		}
		assert.Equal(t, wordlist.WordList(want), res.Words)
		assert.True(t, res.Written)

		d, err := bdic.ReadFile(filepath.Join(dir, "custom.bdic"))
		require.NoError(t, err)
		assert.Equal(t, want, d.Stems())
		assert.Equal(t, strings.Join(want, "\n"), string(readFile(t, dir, "custom.txt")))
	}
}

func TestBuildFiller(t *testing.T) {
	b, dir := newBuilder(t)

	res, err := b.Build([]string{"cat"})
	require.NoError(t, err)
	assert.Equal(t, wordlist.WordList{"a", "cat"}, res.Words)
	assert.Contains(t, res.Notice, "'a'")

	d, err := bdic.ReadFile(filepath.Join(dir, "custom.bdic"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "cat"}, d.Stems())
}

func TestBuildEmptyDeletes(t *testing.T) {
	b, dir := newBuilder(t)
	_, err := b.Build([]string{"alpha", "beta"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "custom.bdic"))

	res, err := b.Build([]string{"", "  "})
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.NoFileExists(t, filepath.Join(dir, "custom.bdic"))
	assert.Empty(t, readFile(t, dir, "custom.txt"))

	words, err := b.Words()
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestDeleteTwiceWritesNothing(t *testing.T) {
	b, dir := newBuilder(t)
	_, err := b.Build([]string{"alpha", "beta"})
	require.NoError(t, err)

	res, err := b.Delete()
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.True(t, res.Written)
	info, err := os.Stat(filepath.Join(dir, "custom.txt"))
	require.NoError(t, err)

	res, err = b.Rebuild()
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.False(t, res.Written)

	again, err := os.Stat(filepath.Join(dir, "custom.txt"))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())
}

// artifactFailStore refuses to write compiled dictionaries.
type artifactFailStore struct {
	*catalog.DirStore
}

func (s artifactFailStore) Replace(name string, data []byte) error {
	if strings.HasSuffix(name, bdic.Ext) {
		return &catalog.StorageError{Op: "write", Path: s.Path(name), Err: os.ErrPermission}
	}
	return s.DirStore.Replace(name, data)
}

func TestFirstBuildWritesMirrorFirst(t *testing.T) {
	dir := t.TempDir()
	failing := New(artifactFailStore{catalog.NewDirStore(dir)}, "custom")

	_, err := failing.Build([]string{"zebra", "apple"})
	require.ErrorIs(t, err, catalog.ErrStorage)
	assert.NoFileExists(t, filepath.Join(dir, "custom.bdic"))
	assert.Equal(t, "apple\nzebra", string(readFile(t, dir, "custom.txt")))

	b := New(catalog.NewDirStore(dir), "custom")
	res, err := b.Rebuild()
	require.NoError(t, err)
	assert.True(t, res.Written)
	d, err := bdic.ReadFile(filepath.Join(dir, "custom.bdic"))
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "zebra"}, d.Stems())
}

func TestBuildInvalidCharacterWritesNothing(t *testing.T) {
	b, dir := newBuilder(t)
	_, err := b.Build([]string{"alpha", "beta"})
	require.NoError(t, err)
	artifact := readFile(t, dir, "custom.bdic")
	mirror := readFile(t, dir, "custom.txt")

	_, err = b.Build([]string{"dog", "cat/food"})
	var ice *wordlist.InvalidCharacterError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, "cat/food", ice.Word)

	assert.Equal(t, artifact, readFile(t, dir, "custom.bdic"))
	assert.Equal(t, mirror, readFile(t, dir, "custom.txt"))
}

func TestBuildUnchangedSkipsWrite(t *testing.T) {
	b, dir := newBuilder(t)
	_, err := b.Build([]string{"beta", "alpha"})
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(dir, "custom.bdic"))
	require.NoError(t, err)

	res, err := b.Build([]string{"alpha", "beta", "alpha"})
	require.NoError(t, err)
	assert.False(t, res.Written)

	again, err := os.Stat(filepath.Join(dir, "custom.bdic"))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())
}

func TestAddWord(t *testing.T) {
	b, dir := newBuilder(t)

	res, err := b.AddWord("gopher")
	require.NoError(t, err)
	assert.Equal(t, wordlist.WordList{"a", "gopher"}, res.Words)

	res, err = b.AddWord("spelldict")
	require.NoError(t, err)
	assert.Equal(t, wordlist.WordList{"a", "gopher", "spelldict"}, res.Words)
	assert.Empty(t, res.Notice)

	words, err := b.Words()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "gopher", "spelldict"}, words)

	_, err = b.AddWord("bad/word")
	assert.ErrorIs(t, err, wordlist.ErrInvalidCharacter)
	assert.Equal(t, "a\ngopher\nspelldict", string(readFile(t, dir, "custom.txt")))
}

func TestBuildKeepsDisabledState(t *testing.T) {
	b, dir := newBuilder(t)
	_, err := b.Build([]string{"alpha", "beta"})
	require.NoError(t, err)

	cat := catalog.New(catalog.NewDirStore(dir))
	require.NoError(t, cat.Load())
	require.NoError(t, cat.Disable("custom"))

	_, err = b.AddWord("gamma")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "custom.bdic"))

	d, err := bdic.ReadFile(filepath.Join(dir, "custom.bdic.disabled"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, d.Stems())

	_, err = b.Delete()
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "custom.bdic.disabled"))
}

func TestBuildWithAffixRules(t *testing.T) {
	b, dir := newBuilder(t)
	aff := "SET UTF-8\nSFX A Y 1\nSFX A 0 s .\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.aff"), []byte(aff), 0o644))

	res, err := b.Build([]string{"cat/A", "dog", "cat"})
	require.NoError(t, err)
	assert.Equal(t, wordlist.WordList{"cat", "cat/A", "dog"}, res.Words)

	d, err := bdic.ReadFile(filepath.Join(dir, "custom.bdic"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, d.Stems())
	assert.Equal(t, []string{"cat/A", "dog"}, d.Words())
	assert.Equal(t, []string{"SFX A Y 1", "SFX A 0 s ."}, d.Affix.Rules)

	strict := New(catalog.NewDirStore(dir), "custom", WithStrictSeparator(true))
	_, err = strict.Build([]string{"cat/A", "dog"})
	assert.ErrorIs(t, err, wordlist.ErrInvalidCharacter)
}

func TestBuildMalformedAffix(t *testing.T) {
	b, dir := newBuilder(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.aff"), []byte("SFX A Y\n"), 0o644))

	_, err := b.Build([]string{"alpha", "beta"})
	assert.ErrorIs(t, err, bdic.ErrMalformedAffix)
	assert.NoFileExists(t, filepath.Join(dir, "custom.bdic"))
	assert.NoFileExists(t, filepath.Join(dir, "custom.txt"))
}

func TestBuildMissingStore(t *testing.T) {
	b := New(catalog.NewDirStore(filepath.Join(t.TempDir(), "missing")), "custom")
	_, err := b.Build([]string{"alpha", "beta"})
	assert.ErrorIs(t, err, catalog.ErrStorage)
}
