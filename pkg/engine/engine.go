// Package engine is the extension point between spelldict and the host's
// spell-check engine. The host registers nothing itself; it calls
// Hooks.Attach once its rendering component exists.
package engine

import (
	"sync"

	"github.com/bastiangx/spelldict/pkg/catalog"
	"github.com/bastiangx/spelldict/pkg/config"
	"github.com/charmbracelet/log"
)

// Engine is the part of the host spell checker spelldict drives.
type Engine interface {
	SetSpellCheckEnabled(enabled bool)
	SpellCheckEnabled() bool
	// SetSpellCheckLanguages sets the dictionaries to load, by name.
	SetSpellCheckLanguages(names []string)
}

// Hook configures a freshly attached engine.
type Hook func(Engine)

// Hooks is an ordered set of callbacks run against every attached engine.
type Hooks struct {
	mu    sync.Mutex
	hooks []Hook
}

// Register appends h. Hooks run in registration order.
func (h *Hooks) Register(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Attach runs every registered hook against e.
func (h *Hooks) Attach(e Engine) {
	h.mu.Lock()
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	for _, hook := range hooks {
		hook(e)
	}
}

// Len returns the number of registered hooks.
func (h *Hooks) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.hooks)
}

// Setup returns the default hook: it loads the catalog's enabled
// dictionaries and turns checking on when prefs ask for it at startup.
func Setup(cat *catalog.Catalog, prefs config.SpellConfig) Hook {
	return func(e Engine) {
		if !cat.Loaded() {
			if err := cat.Load(); err != nil {
				log.Warnf("Dictionary catalog unavailable: %v", err)
			}
		}
		names := cat.Enabled()
		e.SetSpellCheckLanguages(names)
		e.SetSpellCheckEnabled(prefs.AutoStartup)
		log.Debugf("Engine attached: %d dictionaries, enabled=%t", len(names), prefs.AutoStartup)
	}
}

// Suspend turns checking off while fn runs and restores the previous state
// afterwards, so the engine never reads a dictionary being replaced. A non-nil
// cat is refreshed and its enabled list handed to e before restoring.
func Suspend(e Engine, cat *catalog.Catalog, fn func() error) error {
	was := e.SpellCheckEnabled()
	if was {
		e.SetSpellCheckEnabled(false)
	}
	err := fn()
	if cat != nil {
		if rerr := cat.Refresh(); rerr != nil {
			log.Warnf("Failed to refresh dictionary catalog: %v", rerr)
		} else {
			e.SetSpellCheckLanguages(cat.Enabled())
		}
	}
	if was {
		e.SetSpellCheckEnabled(true)
	}
	return err
}
