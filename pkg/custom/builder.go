/*
Package custom builds the user's personal dictionary.

Three files in the dictionary store belong to it, all named after the
configured custom name:

	custom.bdic   compiled artifact (custom.bdic.disabled when disabled)
	custom.txt    plain-text mirror, one word per line, used for editing
	custom.aff    optional affix rules, never written by the builder

Every build replaces the artifact first and the mirror second, each in one
step. A crash in between leaves the mirror stale, never the artifact. When
no mirror exists yet it is written before the artifact, so an artifact never
appears without one.
*/
package custom

import (
	"bytes"
	"errors"
	"io/fs"
	"sync"

	"github.com/bastiangx/spelldict/internal/logger"
	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/bastiangx/spelldict/pkg/catalog"
	"github.com/bastiangx/spelldict/pkg/wordlist"
	"github.com/charmbracelet/log"
)

const (
	MirrorExt = ".txt"
	AffixExt  = ".aff"
)

// BuildResult describes what a build did.
type BuildResult struct {
	Words wordlist.WordList
	// Notice is a message for the user, such as the filler word note.
	Notice string
	// Deleted is set when the list was empty and the artifact was removed.
	Deleted bool
	// Written is false when the artifact and mirror already held the result.
	Written bool
}

// Builder compiles the custom word list into the dictionary store.
// Builds are serialized; one Builder should own a given name.
type Builder struct {
	store  catalog.Store
	name   string
	strict bool
	log    *log.Logger

	mu sync.Mutex
}

// Option configures a Builder.
type Option func(*Builder)

// WithStrictSeparator rejects '/' in words even when affix rules exist.
func WithStrictSeparator(strict bool) Option {
	return func(b *Builder) { b.strict = strict }
}

// WithLogger replaces the builder's logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// New returns a builder for the dictionary called name in store.
func New(store catalog.Store, name string, opts ...Option) *Builder {
	b := &Builder{store: store, name: name, log: logger.New("custom")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the dictionary name.
func (b *Builder) Name() string { return b.name }

// MirrorFile is the plain-text mirror's file name.
func (b *Builder) MirrorFile() string { return b.name + MirrorExt }

// AffixFile is the affix rules' file name.
func (b *Builder) AffixFile() string { return b.name + AffixExt }

// ArtifactFile is the compiled dictionary's current file name. A disabled
// dictionary stays disabled across builds.
func (b *Builder) ArtifactFile() (string, error) {
	files, err := b.store.List()
	if err != nil {
		return "", err
	}
	disabled := catalog.FileName(b.name, false)
	for _, f := range files {
		if f == disabled {
			return disabled, nil
		}
	}
	return catalog.FileName(b.name, true), nil
}

// Words returns the words in the mirror. A missing mirror is an empty list.
func (b *Builder) Words() ([]string, error) {
	data, err := b.readOptional(b.MirrorFile())
	if err != nil || data == nil {
		return nil, err
	}
	return wordlist.ParseText(bytes.NewReader(data))
}

// Build normalizes words and replaces the custom dictionary with them. An
// empty list deletes the dictionary. Validation and compile errors leave
// both files untouched.
func (b *Builder) Build(words []string) (*BuildResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.build(words)
}

// AddWord appends word to the current list and rebuilds.
func (b *Builder) AddWord(word string) (*BuildResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	words, err := b.Words()
	if err != nil {
		return nil, err
	}
	return b.build(append(words, word))
}

// Rebuild compiles the mirror as it is on disk.
func (b *Builder) Rebuild() (*BuildResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	words, err := b.Words()
	if err != nil {
		return nil, err
	}
	return b.build(words)
}

// Delete removes the artifact and empties the mirror.
func (b *Builder) Delete() (*BuildResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.delete()
}

func (b *Builder) build(words []string) (*BuildResult, error) {
	aff, err := b.readOptional(b.AffixFile())
	if err != nil {
		return nil, err
	}

	res, err := wordlist.Normalize(words,
		wordlist.WithAffixRules(aff != nil),
		wordlist.WithStrictSeparator(b.strict))
	if errors.Is(err, wordlist.ErrEmpty) {
		return b.delete()
	}
	if err != nil {
		return nil, err
	}

	blob, err := bdic.Compile(res.Words, aff)
	if err != nil {
		return nil, err
	}
	mirror := wordlist.FormatText(res.Words)

	artifact, err := b.ArtifactFile()
	if err != nil {
		return nil, err
	}
	result := &BuildResult{Words: res.Words, Notice: res.Notice}

	currentMirror, err := b.readOptional(b.MirrorFile())
	if err != nil {
		return nil, err
	}
	// Without a mirror the artifact would be the only copy of the words.
	if currentMirror == nil {
		if err := b.store.Replace(b.MirrorFile(), mirror); err != nil {
			return nil, err
		}
		currentMirror = mirror
		result.Written = true
	}

	current, err := b.readOptional(artifact)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(current, blob) {
		if err := b.store.Replace(artifact, blob); err != nil {
			return nil, err
		}
		result.Written = true
	}

	if !bytes.Equal(currentMirror, mirror) {
		if err := b.store.Replace(b.MirrorFile(), mirror); err != nil {
			return nil, err
		}
		result.Written = true
	}

	if result.Written {
		b.log.Info("Custom dictionary built", "file", artifact, "words", len(res.Words))
	} else {
		b.log.Debug("Custom dictionary unchanged", "file", artifact)
	}
	if res.Notice != "" {
		b.log.Info(res.Notice)
	}
	return result, nil
}

func (b *Builder) delete() (*BuildResult, error) {
	result := &BuildResult{Words: wordlist.WordList{}, Deleted: true}
	for _, enabled := range []bool{true, false} {
		name := catalog.FileName(b.name, enabled)
		current, err := b.readOptional(name)
		if err != nil {
			return nil, err
		}
		if current == nil {
			continue
		}
		if err := b.store.Remove(name); err != nil {
			return nil, err
		}
		result.Written = true
	}

	mirror, err := b.readOptional(b.MirrorFile())
	if err != nil {
		return nil, err
	}
	if mirror == nil || len(mirror) > 0 {
		if err := b.store.Replace(b.MirrorFile(), nil); err != nil {
			return nil, err
		}
		result.Written = true
	}

	if result.Written {
		b.log.Info("Custom dictionary deleted", "name", b.name)
	} else {
		b.log.Debug("Custom dictionary already empty", "name", b.name)
	}
	return result, nil
}

// readOptional reads name from the store, returning nil data when it does
// not exist.
func (b *Builder) readOptional(name string) ([]byte, error) {
	data, err := b.store.Read(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
