// Package wordlist turns a user-edited word list into the sorted, unique list
// the bdic compiler expects.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Separator is the character that splits a dictionary entry into word and
// affix flags, so plain words may not contain it.
const Separator = '/'

// MinWords is the smallest list the spell-check engine accepts.
const MinWords = 2

// Filler words appended to a single-word list, in order of preference.
var Fillers = []string{"a", "I"}

var (
	// ErrEmpty means the list holds no words. Callers treat it as a request
	// to delete the custom dictionary.
	ErrEmpty = errors.New("word list is empty")
	// ErrInvalidCharacter is matched by *InvalidCharacterError.
	ErrInvalidCharacter = errors.New("word contains invalid character")
)

// InvalidCharacterError names the first offending word.
type InvalidCharacterError struct {
	Word string
	Char rune
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("One of the words contain invalid character '%c': %q", e.Char, e.Word)
}

func (e *InvalidCharacterError) Unwrap() error { return ErrInvalidCharacter }

// WordList is a sorted list of unique words.
type WordList []string

// Contains reports whether w is in the list.
func (l WordList) Contains(w string) bool {
	_, found := slices.BinarySearch(l, w)
	return found
}

// Result is the outcome of a successful Normalize.
type Result struct {
	Words WordList
	// Filler is the word appended to reach MinWords, empty if none was.
	Filler string
	// Notice is a message for the user when the list was changed beyond
	// sorting and deduplication.
	Notice string
}

type options struct {
	affixRules      bool
	strictSeparator bool
}

// Option configures Normalize.
type Option func(*options)

// WithAffixRules tells Normalize the dictionary already has affix rules, so
// entries may carry "word/flags".
func WithAffixRules(exists bool) Option {
	return func(o *options) { o.affixRules = exists }
}

// WithStrictSeparator rejects the separator even when affix rules exist.
func WithStrictSeparator(strict bool) Option {
	return func(o *options) { o.strictSeparator = strict }
}

// Normalize trims, deduplicates and sorts raw, pads a single word with a
// filler and validates the separator. It returns ErrEmpty when nothing is
// left and an *InvalidCharacterError when a word may not be compiled.
func Normalize(raw []string, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	words := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.TrimSpace(w)
		if w != "" {
			words = append(words, w)
		}
	}
	slices.Sort(words)
	words = slices.Compact(words)

	if len(words) == 0 {
		return nil, ErrEmpty
	}

	res := &Result{}
	if len(words) < MinWords {
		res.Filler = filler(words)
		res.Notice = fmt.Sprintf("Additionally added word '%s' because a dictionary must contain at least %d words.", res.Filler, MinWords)
		words = append(words, res.Filler)
		slices.Sort(words)
	}

	if !o.affixRules || o.strictSeparator {
		for _, w := range words {
			if strings.ContainsRune(w, Separator) {
				return nil, &InvalidCharacterError{Word: w, Char: Separator}
			}
		}
	}

	res.Words = WordList(words)
	return res, nil
}

func filler(words []string) string {
	for _, f := range Fillers {
		if !slices.Contains(words, f) {
			return f
		}
	}
	return Fillers[len(Fillers)-1]
}

// ParseText splits a plain-text word list into lines. CRLF line endings and a
// UTF-8 byte order mark are accepted.
func ParseText(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		words = append(words, strings.TrimRight(line, "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return words, nil
}

// FormatText renders words the way the plain-text mirror is stored: one word
// per line without a trailing newline.
func FormatText(words []string) []byte {
	return []byte(strings.Join(words, "\n"))
}
