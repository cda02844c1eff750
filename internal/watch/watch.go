// Package watch rebuilds the custom dictionary when its plain-text mirror is
// edited, and refreshes the catalog when dictionary files come and go.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/spelldict/internal/logger"
	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/bastiangx/spelldict/pkg/catalog"
	"github.com/bastiangx/spelldict/pkg/custom"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay collapses the burst of events one editor save produces.
const DefaultDelay = 150 * time.Millisecond

// Watcher watches a dictionary directory.
type Watcher struct {
	dir     string
	builder *custom.Builder
	cat     *catalog.Catalog
	delay   time.Duration
	log     *log.Logger

	// OnBuild is called after every rebuild triggered by the mirror.
	OnBuild func(*custom.BuildResult, error)
	// OnCatalog is called after the catalog was refreshed.
	OnCatalog func()

	fsw *fsnotify.Watcher
}

// New watches dir. builder and cat may be nil to skip that half.
func New(dir string, builder *custom.Builder, cat *catalog.Catalog) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// The directory is watched rather than the file: editors replace files
	// by renaming, which drops a watch on the file itself.
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, &catalog.StorageError{Op: "watch", Path: dir, Err: err}
	}
	return &Watcher{
		dir:     dir,
		builder: builder,
		cat:     cat,
		delay:   DefaultDelay,
		log:     logger.New("watch"),
		fsw:     fsw,
	}, nil
}

// SetDelay changes the debounce delay.
func (w *Watcher) SetDelay(d time.Duration) {
	w.delay = d
}

// Run handles events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var mirrorTimer, catalogTimer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			switch {
			case w.builder != nil && name == w.builder.MirrorFile():
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					mirrorTimer = time.After(w.delay)
				}
			case w.cat != nil && isDictionary(name):
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					catalogTimer = time.After(w.delay)
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error", "err", err)
		case <-mirrorTimer:
			mirrorTimer = nil
			w.rebuild()
		case <-catalogTimer:
			catalogTimer = nil
			w.refresh()
		}
	}
}

func (w *Watcher) rebuild() {
	res, err := w.builder.Rebuild()
	switch {
	case err != nil:
		w.log.Error("Rebuild failed", "err", err)
	case res.Written:
		w.log.Info("Rebuilt custom dictionary", "words", len(res.Words), "deleted", res.Deleted)
	}
	if w.OnBuild != nil {
		w.OnBuild(res, err)
	}
}

func (w *Watcher) refresh() {
	if err := w.cat.Refresh(); err != nil {
		w.log.Warn("Catalog refresh failed", "err", err)
		return
	}
	w.log.Debug("Catalog refreshed", "enabled", len(w.cat.Enabled()))
	if w.OnCatalog != nil {
		w.OnCatalog()
	}
}

func isDictionary(name string) bool {
	return strings.HasSuffix(name, bdic.Ext) || strings.HasSuffix(name, bdic.Ext+bdic.DisabledSuffix)
}
