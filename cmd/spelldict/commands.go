package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bastiangx/spelldict/internal/cli"
	"github.com/bastiangx/spelldict/internal/utils"
	"github.com/bastiangx/spelldict/internal/watch"
	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/bastiangx/spelldict/pkg/catalog"
	"github.com/bastiangx/spelldict/pkg/config"
	"github.com/bastiangx/spelldict/pkg/custom"
	"github.com/bastiangx/spelldict/pkg/server"
	"github.com/bastiangx/spelldict/pkg/wordlist"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c4a7e7"))
	enabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

// env holds what every command needs, resolved once from flags and config.
type env struct {
	cfg     *config.Config
	cfgPath string
	store   *catalog.DirStore
	cat     *catalog.Catalog
	builder *custom.Builder
}

func newEnv(configPath, dictDir string) (*env, error) {
	cfg, cfgPath, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return nil, err
	}
	dir := cfg.DictDir()
	if dictDir != "" {
		dir = utils.ExpandPath(dictDir)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(cfgPath))
	log.Debugf("Using dictionary dir: (%s)", dir)
	if pr, err := utils.NewPathResolver(); err == nil {
		log.Debug("Runtime", "info", pr.GetRuntimeInfo())
	}

	store := catalog.NewDirStore(dir)
	if status := utils.CheckDirStatus(dir); status.Error != nil {
		log.Warnf("Dictionary dir unavailable: %v", status.Error)
	} else if !status.Writable {
		log.Warnf("Dictionary dir is read-only: %s", dir)
	}
	return &env{
		cfg:     cfg,
		cfgPath: cfgPath,
		store:   store,
		cat:     catalog.New(store),
		builder: custom.New(store, cfg.Dict.CustomName),
	}, nil
}

type command struct {
	name string
	help string
	run  func(e *env, args []string) error
}

var commands = []command{
	{"build", "Build the custom dictionary from a word list file ('-' for stdin)", runBuild},
	{"add", "Add words to the custom dictionary", runAdd},
	{"words", "Print the words of the custom dictionary", runWords},
	{"compile", "Compile a word list to a .bdic file", runCompile},
	{"inspect", "Decode a .bdic file", runInspect},
	{"list", "List installed dictionaries", runList},
	{"enable", "Enable dictionaries by name", runEnable},
	{"disable", "Disable dictionaries by name", runDisable},
	{"label", "Show the display label for a file name", runLabel},
	{"seed", "Install bundled dictionaries", runSeed},
	{"check", "Check words interactively", runCheck},
	{"serve", "Serve msgpack IPC on stdin/stdout", runServe},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// fatal logs err, with a remediation hint for storage failures, and exits.
func fatal(err error) {
	var se *catalog.StorageError
	if errors.As(err, &se) {
		log.Error(err)
		log.Info(se.Hint())
		os.Exit(1)
	}
	log.Fatal(err)
}

func needArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s %s", AppName, usage)
	}
	return nil
}

func readWordFile(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		if err := bdic.ExpectFormat(path, bdic.FormatWordList); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return wordlist.ParseText(r)
}

func reportBuild(res *custom.BuildResult) {
	switch {
	case res.Deleted:
		log.Info("Custom dictionary deleted: the word list is empty")
	case !res.Written:
		log.Info("Custom dictionary unchanged", "words", utils.FormatWithCommas(len(res.Words)))
	default:
		log.Info("Custom dictionary written", "words", utils.FormatWithCommas(len(res.Words)))
	}
	if res.Notice != "" {
		log.Info(res.Notice)
	}
}

func runBuild(e *env, args []string) error {
	if err := needArgs(args, 1, "build <words.txt|->"); err != nil {
		return err
	}
	words, err := readWordFile(args[0])
	if err != nil {
		return err
	}
	res, err := e.builder.Build(words)
	if err != nil {
		return err
	}
	reportBuild(res)
	return nil
}

func runAdd(e *env, args []string) error {
	if err := needArgs(args, 1, "add <word>..."); err != nil {
		return err
	}
	for _, w := range args {
		res, err := e.builder.AddWord(w)
		if err != nil {
			return err
		}
		reportBuild(res)
	}
	return nil
}

func runWords(e *env, _ []string) error {
	words, err := e.builder.Words()
	if err != nil {
		return err
	}
	for _, w := range words {
		fmt.Println(w)
	}
	return nil
}

func runCompile(_ *env, args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	affPath := fs.String("aff", "", "Affix rules file")
	fs.Parse(args)
	if err := needArgs(fs.Args(), 2, "compile [-aff file.aff] <words.txt|-> <out.bdic>"); err != nil {
		return err
	}

	words, err := readWordFile(fs.Arg(0))
	if err != nil {
		return err
	}
	var aff []byte
	if *affPath != "" {
		if err := bdic.ValidateFileFormat(*affPath, bdic.FormatAffix); err != nil {
			return err
		}
		if aff, err = os.ReadFile(*affPath); err != nil {
			return err
		}
	}
	res, err := wordlist.Normalize(words, wordlist.WithAffixRules(aff != nil))
	if err != nil {
		return err
	}
	if res.Notice != "" {
		log.Info(res.Notice)
	}
	blob, err := bdic.Compile(res.Words, aff)
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(fs.Arg(1), blob, 0o644); err != nil {
		return err
	}
	log.Info("Compiled", "file", fs.Arg(1), "words", utils.FormatWithCommas(len(res.Words)),
		"size", utils.FormatBytes(int64(len(blob))))
	return nil
}

func runInspect(e *env, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	prefix := fs.String("prefix", "", "Only list words with this prefix")
	limit := fs.Int("limit", 50, "Number of words to list (0 for none)")
	fs.Parse(args)
	if err := needArgs(fs.Args(), 1, "inspect [-prefix p] [-limit n] <file.bdic|name>"); err != nil {
		return err
	}

	path := fs.Arg(0)
	if !utils.FileExists(path) {
		if err := e.cat.Load(); err != nil {
			return err
		}
		entry, ok := e.cat.Lookup(path)
		if !ok {
			return fmt.Errorf("%w: %s", catalog.ErrUnknownDictionary, path)
		}
		path = e.store.Path(entry.File)
	}
	if err := bdic.ExpectFormat(path, bdic.FormatBDIC); err != nil {
		return err
	}
	d, err := bdic.ReadFile(path)
	if err != nil {
		return err
	}

	info := server.Describe(filepath.Base(path), d, *prefix, *limit)
	fmt.Println(headerStyle.Render(catalog.LabelFor(info.File)))
	fmt.Printf("  version       %s\n", info.Version)
	fmt.Printf("  size          %s\n", info.SizeLabel)
	fmt.Printf("  words         %s\n", utils.FormatWithCommas(info.WordCount))
	fmt.Printf("  affix groups  %d\n", info.AffixGroups)
	fmt.Printf("  affix rules   %d\n", info.AffixRules)
	fmt.Printf("  replacements  %d\n", info.Replacements)
	if d.Affix.Comment != "" {
		fmt.Printf("  comment       %s\n", d.Affix.Comment)
	}
	for _, w := range info.Words {
		fmt.Println("  " + w)
	}
	return nil
}

func runList(e *env, _ []string) error {
	if err := e.cat.Load(); err != nil {
		return err
	}
	entries := e.cat.Entries()
	if len(entries) == 0 {
		log.Info("No dictionaries installed", "dir", e.store.Dir)
		return nil
	}
	for _, entry := range entries {
		size := "?"
		if st, err := os.Stat(e.store.Path(entry.File)); err == nil {
			size = utils.FormatBytes(st.Size())
		}
		status := enabledStyle.Render("on ")
		if !entry.Enabled {
			status = offStyle.Render("off")
		}
		if err := bdic.Sniff(e.store.Path(entry.File)); err != nil {
			log.Debugf("Invalid dictionary %s: %v", entry.File, err)
			status = offStyle.Render("bad")
		}
		fmt.Printf("%s  %-40s %8s  %s\n", status, entry.Name, size, entry.Label)
	}
	return nil
}

func runEnable(e *env, args []string) error {
	if err := needArgs(args, 1, "enable <name>..."); err != nil {
		return err
	}
	if err := e.cat.Load(); err != nil {
		return err
	}
	return e.cat.Enable(args...)
}

func runDisable(e *env, args []string) error {
	if err := needArgs(args, 1, "disable <name>..."); err != nil {
		return err
	}
	if err := e.cat.Load(); err != nil {
		return err
	}
	return e.cat.Disable(args...)
}

func runLabel(_ *env, args []string) error {
	if err := needArgs(args, 1, "label <file>..."); err != nil {
		return err
	}
	for _, f := range args {
		fmt.Println(catalog.LabelFor(f))
	}
	return nil
}

func runSeed(e *env, _ []string) error {
	src := e.cfg.BundledDir()
	if src == "" {
		return errors.New("no bundled dictionaries found; set [dict] bundled_dir in the config")
	}
	if err := e.store.Ensure(); err != nil {
		return err
	}
	results, err := catalog.Seed(src, e.store, e.cfg.Installed)
	if err != nil {
		return err
	}
	var installed []string
	for _, r := range results {
		switch r.Status {
		case catalog.SeedInstalled:
			installed = append(installed, r.Name)
			log.Info("Installed", "name", r.Name)
		case catalog.SeedSkipped:
			log.Debug("Skipped", "name", r.Name)
		case catalog.SeedFailed:
			log.Warn("Failed", "name", r.Name, "err", r.Err)
		}
	}
	if err := e.cfg.MarkInstalled(e.cfgPath, installed...); err != nil {
		return err
	}
	log.Info("Seed finished", "new", len(installed), "installed", strings.Join(e.cfg.InstalledNames(), ", "))
	return nil
}

func runCheck(e *env, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	limit := fs.Int("limit", 5, "Number of suggestions per unknown word")
	fs.Parse(args)

	h, err := cli.NewInputHandler(e.cat, e.builder, *limit, os.Stdout)
	if err != nil {
		return err
	}
	return h.Start(os.Stdin)
}

func runServe(e *env, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := e.cat.Load(); err != nil {
		log.Warnf("Dictionary catalog unavailable: %v", err)
	}

	if e.cfg.Server.Watch {
		w, err := watch.New(e.store.Dir, e.builder, e.cat)
		if err != nil {
			log.Warnf("Watching disabled: %v", err)
		} else {
			go w.Run(ctx)
		}
	}

	srv := server.NewServer(server.Options{
		Catalog:    e.cat,
		Builder:    e.builder,
		Config:     e.cfg,
		ConfigPath: e.cfgPath,
		Version:    Version,
	})
	showStartupInfo(e.store.Dir)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		log.Debug("Interrupted")
		return nil
	}
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dictDir string) {
	log.Debug("===========")
	log.Debug(" spelldict ")
	log.Debug("===========")
	log.Debugf("Version: %s", Version)
	log.Debugf("Process ID: [ %d ]", os.Getpid())
	log.Debugf("dictionary dir: ( %s )", dictDir)
	log.Debug("status: ready")
}
