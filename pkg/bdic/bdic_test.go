package bdic

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedCopy(words []string) []string {
	out := append([]string(nil), words...)
	sort.Strings(out)
	return out
}

func TestCompileRoundTrip(t *testing.T) {
	many := make([]string, 0, 40)
	for c := 'a'; c <= 'z'; c++ {
		many = append(many, "q"+string(c))
	}
	many = append(many, "q", "qu", "quit")

	large := make([]string, 0, 6000)
	for i := 0; i < 6000; i++ {
		large = append(large, fmt.Sprintf("zz%05dlongsuffixtext", i))
	}
	large = append(large, "a", "b", "c")

	tests := []struct {
		name  string
		words []string
	}{
		{"two words", []string{"cat", "dog"}},
		{"shared prefixes", []string{"a", "ab", "abc", "abd", "b", "ba"}},
		{"word ends inside branch", []string{"car", "card", "care", "cared", "cars"}},
		{"utf8", []string{"café", "naïve", "straße", "日本語", "日本"}},
		{"capitals", []string{"I", "a", "Anki", "anki"}},
		{"lookup node", many},
		{"wide offsets", large},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blob, err := Compile(tc.words, nil)
			require.NoError(t, err)

			d, err := Parse(blob)
			require.NoError(t, err)
			assert.Equal(t, sortedCopy(tc.words), d.Stems())
			assert.Equal(t, sortedCopy(tc.words), d.Words())
			assert.Equal(t, len(tc.words), d.Len())
			for _, w := range tc.words {
				assert.True(t, d.Contains(w), "missing %q", w)
			}
		})
	}
}

func TestCompileDeterministic(t *testing.T) {
	words := []string{"delta", "alpha", "charlie", "bravo", "echo", "alphabet"}
	first, err := Compile(words, nil)
	require.NoError(t, err)
	second, err := Compile(words, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	shuffled := append([]string(nil), words...)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	third, err := Compile(shuffled, nil)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestCompileHeader(t *testing.T) {
	blob, err := Compile([]string{"a", "cat"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "BDic", string(blob[:4]))
	assert.Equal(t, MajorVersion, binary.LittleEndian.Uint16(blob[4:]))
	assert.Equal(t, MinorVersion, binary.LittleEndian.Uint16(blob[6:]))
	assert.Equal(t, uint32(HeaderSize), binary.LittleEndian.Uint32(blob[8:]))

	d, err := Parse(blob)
	require.NoError(t, err)
	assert.True(t, d.Affix.Empty())
	assert.Equal(t, len(blob), d.Size)
}

func TestCompileNoWords(t *testing.T) {
	_, err := Compile(nil, nil)
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestCompileAffixFlags(t *testing.T) {
	aff := []byte("SET UTF-8\nTRY esianrtolcdugmphbyfvkwz\n\n# suffixes\nSFX A Y 1\nSFX A   0   s/B   .\nSFX B Y 1\nSFX B 0 ed .\nREP 1\nREP f ph\n")
	words := []string{"walk/A", "talk/AB", "talk/B", "run"}

	blob, err := Compile(words, aff)
	require.NoError(t, err)
	d, err := Parse(blob)
	require.NoError(t, err)

	// "B" is created by the continuation class before any word is read
	assert.Equal(t, []string{"B", "AB", "A"}, d.Affix.Groups)
	assert.Equal(t, []string{"SFX A Y 1", "SFX A 0 s/1 .", "SFX B Y 1", "SFX B 0 ed ."}, d.Affix.Rules)
	assert.Equal(t, []Replacement{{From: "f", To: "ph"}}, d.Affix.Replacements)
	assert.Equal(t, []string{"SET UTF-8", "TRY esianrtolcdugmphbyfvkwz"}, d.Affix.Other)

	assert.Equal(t, []string{"run", "talk", "walk"}, d.Stems())
	assert.Equal(t, []string{"run", "talk/B", "talk/AB", "walk/A"}, d.Words())

	e, ok := d.Lookup("talk")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, e.Affixes)
}

func TestCompileIndexedGroups(t *testing.T) {
	aff := []byte("AF 2\nAF A # plural\nAF AB\nSFX A Y 1\nSFX A 0 s .\n")
	blob, err := Compile([]string{"cat/1", "dog/2", "fish"}, aff)
	require.NoError(t, err)

	d, err := Parse(blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "AB"}, d.Affix.Groups)
	assert.Equal(t, []string{"cat/A", "dog/AB", "fish"}, d.Words())

	_, err = Compile([]string{"cat/3", "dog"}, aff)
	assert.ErrorIs(t, err, ErrMalformedAffix)
}

func TestCompileManyAffixesPerWord(t *testing.T) {
	words := []string{"base"}
	for i := 0; i < 40; i++ {
		words = append(words, fmt.Sprintf("stem/F%02d", i))
	}
	blob, err := Compile(words, nil)
	require.NoError(t, err)

	d, err := Parse(blob)
	require.NoError(t, err)
	e, ok := d.Lookup("stem")
	require.True(t, ok)
	assert.Len(t, e.Affixes, maxAffixesPerWord)
}

func TestParseAffixCharset(t *testing.T) {
	aff := []byte("SET ISO8859-1\nTRY \xe9a\n")
	a, err := ParseAffix(aff)
	require.NoError(t, err)
	assert.Equal(t, []string{"SET UTF-8", "TRY éa"}, a.Other)
}

func TestParseAffixMalformed(t *testing.T) {
	tests := []struct {
		name string
		aff  string
	}{
		{"nul byte", "TRY ab\x00c\n"},
		{"unknown charset", "SET KLINGON-1\n"},
		{"short rule", "SFX A Y\n"},
		{"bad cross product", "SFX A X 1\n"},
		{"short rep", "REP 1\nREP f\n"},
		{"bad af count", "AF many\n"},
		{"undefined continuation", "AF 1\nAF A\nSFX A Y 1\nSFX A 0 s/7 .\n"},
		{"invalid utf8", "TRY \xff\xfe\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAffix([]byte(tc.aff))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedAffix)

			_, err = Compile([]string{"a", "b"}, []byte(tc.aff))
			assert.ErrorIs(t, err, ErrMalformedAffix)
		})
	}
}

func TestParseErrors(t *testing.T) {
	blob, err := Compile([]string{"alpha", "beta"}, nil)
	require.NoError(t, err)

	t.Run("truncated header", func(t *testing.T) {
		_, err := Parse(blob[:10])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad signature", func(t *testing.T) {
		bad := append([]byte(nil), blob...)
		copy(bad, "XDic")
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("version", func(t *testing.T) {
		bad := append([]byte(nil), blob...)
		binary.LittleEndian.PutUint16(bad[4:], 9)
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("digest", func(t *testing.T) {
		bad := append([]byte(nil), blob...)
		bad[len(bad)-1] ^= 0xFF
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrDigestMismatch)

		var fe *FormatError
		assert.True(t, errors.As(err, &fe))
	})
}

func TestWithPrefix(t *testing.T) {
	blob, err := Compile([]string{"card", "care", "cat", "dog", "car"}, nil)
	require.NoError(t, err)
	d, err := Parse(blob)
	require.NoError(t, err)

	assert.Equal(t, []string{"car", "card", "care"}, d.WithPrefix("car"))
	assert.Empty(t, d.WithPrefix("x"))
	assert.False(t, d.Contains("ca"))
}
