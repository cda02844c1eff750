package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/charmbracelet/log"
)

// SeedStatus is the outcome for one bundled dictionary.
type SeedStatus string

const (
	SeedInstalled SeedStatus = "installed"
	SeedSkipped   SeedStatus = "skipped"
	SeedFailed    SeedStatus = "failed"
)

// SeedResult records what Seed did with one bundled dictionary.
type SeedResult struct {
	Name   string
	Status SeedStatus
	Err    error
}

// Seed copies the bundled .bdic files of srcDir into store. Names marked in
// installed are skipped so a dictionary the user removed is not brought back.
// A failing file is recorded and the rest are still processed; only an
// unreadable srcDir is returned as an error.
func Seed(srcDir string, store Store, installed map[string]bool) ([]SeedResult, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, &StorageError{Op: "list", Path: srcDir, Err: err}
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && filepath.Ext(e.Name()) == bdic.Ext {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	results := make([]SeedResult, 0, len(files))
	for _, f := range files {
		name, _, _ := ParseFileName(f)
		if installed[name] {
			results = append(results, SeedResult{Name: name, Status: SeedSkipped})
			continue
		}
		if err := installOne(filepath.Join(srcDir, f), f, store); err != nil {
			log.Warnf("Failed to install bundled dictionary %s: %v", f, err)
			results = append(results, SeedResult{Name: name, Status: SeedFailed, Err: err})
			continue
		}
		log.Debugf("Installed bundled dictionary %s", f)
		results = append(results, SeedResult{Name: name, Status: SeedInstalled})
	}
	return results, nil
}

func installOne(src, file string, store Store) error {
	if err := bdic.Sniff(src); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	return store.Replace(file, data)
}
