/*
Package catalog keeps track of the dictionaries installed in a dictionary
directory and which of them the spell-check engine should load.

A file named "<name>.bdic" is enabled; "<name>.bdic.disabled" is disabled.
Enabling and disabling only renames files, so the bytes of a dictionary never
change with its state.

	cat := catalog.New(catalog.NewDirStore(dir))
	if err := cat.Load(); err != nil {
		return err
	}
	engine.SetSpellCheckLanguages(cat.Enabled())
*/
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/charmbracelet/log"
)

// ErrUnknownDictionary is returned for names not present in the catalog.
var ErrUnknownDictionary = errors.New("unknown dictionary")

// Entry is one dictionary file in the catalog.
type Entry struct {
	// Name identifies the dictionary for the engine: the file name without
	// its extension and state suffix.
	Name    string
	File    string
	Enabled bool
	Label   string
}

// Catalog is the set of dictionaries in a Store. It holds no state until Load.
type Catalog struct {
	store    Store
	resolver Resolver

	mu      sync.RWMutex
	entries []Entry
	loaded  bool
}

// New returns a catalog over store labeling entries with DefaultLanguages.
func New(store Store) *Catalog {
	return &Catalog{store: store, resolver: Resolver{Languages: DefaultLanguages}}
}

// WithLanguages replaces the label table.
func (c *Catalog) WithLanguages(langs Languages) *Catalog {
	c.resolver = Resolver{Languages: langs}
	return c
}

// Store returns the underlying store.
func (c *Catalog) Store() Store {
	return c.store
}

// Load reads the store for the first time.
func (c *Catalog) Load() error {
	return c.Refresh()
}

// Refresh rereads the store. On error the previous entries are kept.
func (c *Catalog) Refresh() error {
	files, err := c.store.List()
	if err != nil {
		return err
	}

	var enabled, disabled []Entry
	for _, f := range files {
		name, on, ok := ParseFileName(f)
		if !ok {
			continue
		}
		e := Entry{Name: name, File: f, Enabled: on, Label: c.resolver.LabelFor(f)}
		if on {
			enabled = append(enabled, e)
		} else {
			disabled = append(disabled, e)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i].Name < enabled[j].Name })
	sort.Slice(disabled, func(i, j int) bool { return disabled[i].Name < disabled[j].Name })

	c.mu.Lock()
	c.entries = append(enabled, disabled...)
	c.loaded = true
	c.mu.Unlock()

	log.Debugf("Catalog refreshed: %d enabled, %d disabled", len(enabled), len(disabled))
	return nil
}

// Loaded reports whether Load succeeded at least once.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Entries returns enabled dictionaries followed by disabled ones, each group
// sorted by name.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Enabled returns the names the engine should load.
func (c *Catalog) Enabled() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var names []string
	for _, e := range c.entries {
		if e.Enabled {
			names = append(names, e.Name)
		}
	}
	return names
}

// Lookup finds an entry by name or file name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if e.Name == name || e.File == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Enable renames the named disabled dictionaries to their enabled form.
func (c *Catalog) Enable(names ...string) error {
	return c.setState(true, names)
}

// Disable renames the named enabled dictionaries to their disabled form.
func (c *Catalog) Disable(names ...string) error {
	return c.setState(false, names)
}

// Toggle flips the state of one dictionary.
func (c *Catalog) Toggle(name string) error {
	e, ok := c.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDictionary, name)
	}
	return c.setState(!e.Enabled, []string{name})
}

func (c *Catalog) setState(enable bool, names []string) error {
	var errs []error
	for _, name := range names {
		e, ok := c.Lookup(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownDictionary, name))
			continue
		}
		if e.Enabled == enable {
			continue
		}
		to := FileName(e.Name, enable)
		if err := c.store.Rename(e.File, to); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Debugf("Renamed %s -> %s", e.File, to)
	}
	if err := c.Refresh(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseFileName splits a dictionary file name into its name and state.
func ParseFileName(file string) (name string, enabled bool, ok bool) {
	switch {
	case strings.HasSuffix(file, bdic.Ext):
		return strings.TrimSuffix(file, bdic.Ext), true, true
	case strings.HasSuffix(file, bdic.Ext+bdic.DisabledSuffix):
		return strings.TrimSuffix(file, bdic.Ext+bdic.DisabledSuffix), false, true
	}
	return "", false, false
}

// FileName is the file a dictionary is stored under in the given state.
func FileName(name string, enabled bool) string {
	if enabled {
		return name + bdic.Ext
	}
	return name + bdic.Ext + bdic.DisabledSuffix
}
