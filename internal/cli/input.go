// Package cli is an interactive checker for trying the enabled dictionaries
// and the custom dictionary from a terminal.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/spelldict/internal/utils"
	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/bastiangx/spelldict/pkg/catalog"
	"github.com/bastiangx/spelldict/pkg/custom"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sajari/fuzzy"
)

// AddPrefix marks an input line as a word to add to the custom dictionary.
const AddPrefix = "+"

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	suggestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

// InputHandler reads words from stdin and reports whether the enabled
// dictionaries know them, with near words for the unknown ones.
type InputHandler struct {
	cat          *catalog.Catalog
	builder      *custom.Builder
	suggestLimit int

	dicts []*bdic.Dictionary
	model *fuzzy.Model

	out          io.Writer
	requestCount int
}

// NewInputHandler loads the enabled dictionaries of cat. builder may be nil,
// which disables adding words.
func NewInputHandler(cat *catalog.Catalog, builder *custom.Builder, limit int, out io.Writer) (*InputHandler, error) {
	h := &InputHandler{
		cat:          cat,
		builder:      builder,
		suggestLimit: limit,
		out:          out,
	}
	if err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload rereads the catalog and retrains the suggestion model.
func (h *InputHandler) Reload() error {
	start := time.Now()
	if err := h.cat.Refresh(); err != nil {
		return err
	}

	model := fuzzy.NewModel()
	model.SetDepth(2)
	model.SetThreshold(1)

	var dicts []*bdic.Dictionary
	total := 0
	for _, e := range h.cat.Entries() {
		if !e.Enabled {
			continue
		}
		data, err := h.cat.Store().Read(e.File)
		if err != nil {
			return err
		}
		d, err := bdic.Parse(data)
		if err != nil {
			log.Warnf("Skipping %s: %v", e.File, err)
			continue
		}
		for _, stem := range d.Stems() {
			model.TrainWord(strings.ToLower(stem))
		}
		total += d.Len()
		dicts = append(dicts, d)
	}

	h.dicts = dicts
	h.model = model
	log.Debugf("Loaded %d dictionaries (%s words) in %v", len(dicts), utils.FormatWithCommas(total), time.Since(start))
	return nil
}

// Known reports whether any enabled dictionary contains word, as typed or
// with its first letter lowered.
func (h *InputHandler) Known(word string) bool {
	lower := lowerFirst(word)
	for _, d := range h.dicts {
		if d.Contains(word) || d.Contains(lower) {
			return true
		}
	}
	return false
}

// Suggest returns up to the handler's limit of near words.
func (h *InputHandler) Suggest(word string) []string {
	s := h.model.SpellCheckSuggestions(strings.ToLower(word), h.suggestLimit+1)
	return utils.DedupeSuggestions(word, s, h.suggestLimit)
}

// Start runs the input loop until in ends.
func (h *InputHandler) Start(in io.Reader) error {
	fmt.Fprintln(h.out, dimStyle.Render("spelldict checker: type words and press Enter, '+word' adds a word (Ctrl+D to exit)"))
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	if word, ok := strings.CutPrefix(line, AddPrefix); ok {
		h.addWord(strings.TrimSpace(word))
		return
	}

	start := time.Now()
	for _, word := range strings.Fields(line) {
		word = strings.Trim(word, ".,;:!?\"()[]")
		if !utils.IsCheckable(word) {
			continue
		}
		if h.Known(word) {
			fmt.Fprintf(h.out, "%s %s\n", okStyle.Render("✓"), word)
			continue
		}
		suggestions := h.Suggest(word)
		if len(suggestions) == 0 {
			fmt.Fprintf(h.out, "%s %s\n", missStyle.Render("✗"), word)
			continue
		}
		fmt.Fprintf(h.out, "%s %s  %s\n", missStyle.Render("✗"), word,
			suggestStyle.Render(strings.Join(suggestions, ", ")))
	}
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), line)
}

func (h *InputHandler) addWord(word string) {
	if h.builder == nil {
		log.Error("No custom dictionary configured")
		return
	}
	if word == "" {
		log.Error("Nothing to add")
		return
	}
	res, err := h.builder.AddWord(word)
	if err != nil {
		log.Error("Could not add word", "word", word, "err", err)
		return
	}
	if res.Notice != "" {
		log.Info(res.Notice)
	}
	fmt.Fprintf(h.out, "%s added %s (%s words)\n", okStyle.Render("+"), word, utils.FormatWithCommas(len(res.Words)))
	if err := h.Reload(); err != nil {
		log.Warnf("Reload failed: %v", err)
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
