package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/bastiangx/spelldict/pkg/catalog"
	"github.com/bastiangx/spelldict/pkg/custom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*InputHandler, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	data, err := bdic.Compile([]string{"gopher", "golang", "spell", "checker"}, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en-US-dict.bdic"), data, 0o644))
	off, err := bdic.Compile([]string{"disabled", "words"}, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de-off.bdic.disabled"), off, 0o644))

	store := catalog.NewDirStore(dir)
	var out bytes.Buffer
	h, err := NewInputHandler(catalog.New(store), custom.New(store, "custom"), 3, &out)
	require.NoError(t, err)
	return h, dir, &out
}

func TestKnown(t *testing.T) {
	h, _, _ := setup(t)
	assert.True(t, h.Known("gopher"))
	assert.True(t, h.Known("Gopher"))
	assert.False(t, h.Known("GOPHER"))
	assert.False(t, h.Known("words"), "disabled dictionaries are not loaded")
	assert.False(t, h.Known("gophre"))
}

func TestSuggest(t *testing.T) {
	h, _, _ := setup(t)
	assert.Contains(t, h.Suggest("gophr"), "gopher")
	assert.LessOrEqual(t, len(h.Suggest("go")), 3)
}

func TestStartAddsWords(t *testing.T) {
	h, dir, out := setup(t)

	in := strings.NewReader("gopher gophr\n\n+spelldict\nspelldict\n")
	require.NoError(t, h.Start(in))

	text := out.String()
	assert.Contains(t, text, "gophr")
	assert.Contains(t, text, "added spelldict")
	assert.True(t, h.Known("spelldict"))

	d, err := bdic.ReadFile(filepath.Join(dir, "custom.bdic"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "spelldict"}, d.Stems())
}

func TestAddInvalidWord(t *testing.T) {
	h, dir, _ := setup(t)
	require.NoError(t, h.Start(strings.NewReader("+cat/food\n")))
	assert.NoFileExists(t, filepath.Join(dir, "custom.bdic"))
}
