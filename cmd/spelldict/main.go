// Copyright 2025 The spelldict Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the spelldict command.

spelldict manages the spell-check dictionaries (.bdic files) of a host
application's embedded renderer, and compiles the user's personal word list
into one of them.

# Usage

	spelldict [flags] <command> [args]

Build the custom dictionary from a word list, one word per line:

	spelldict build words.txt

Add a single word, or list the words of the custom dictionary:

	spelldict add gopher
	spelldict words

Manage installed dictionaries:

	spelldict list
	spelldict disable en-US-dict
	spelldict enable en-US-dict
	spelldict seed

Decode a compiled dictionary, or compile a word list to any path:

	spelldict inspect -prefix car -limit 20 en-US-dict.bdic
	spelldict compile -aff en.aff words.txt out.bdic

Try the enabled dictionaries interactively:

	spelldict check

Serve msgpack IPC for the host on stdin/stdout, rebuilding the custom
dictionary when its mirror (custom.txt) is edited:

	spelldict serve

# Configuration

The TOML config is created with defaults on first run:

	[spell]
	check_during_review = false
	auto_startup = false
	duck_mode = false
	bold_text = true

	[dict]
	dir = "~/.config/spelldict/dictionaries"
	bundled_dir = ""
	custom_name = "custom"

	[server]
	watch = true

# Command Line Flags

	-config string
	    Path to a config file (default [UserConfigDir]/spelldict/config.toml)
	-dir string
	    Dictionary directory, overriding the config
	-d  Enable debug mode with detailed logging
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/spelldict/internal/logger"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "spelldict"
	gh      = "https://github.com/bastiangx/spelldict"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <command> [args]\n\nCommands:\n", AppName)
	for _, c := range commands {
		fmt.Fprintf(out, "  %-9s %s\n", c.name, c.help)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

// main parses the global flags and hands off to a command.
func main() {
	configPath := flag.String("config", "", "Path to config file")
	dictDir := flag.String("dir", "", "Dictionary directory (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	showVersion := flag.Bool("version", false, "Show current version")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := lookupCommand(args[0])
	if !ok {
		log.Errorf("Unknown command: %s", args[0])
		usage()
		os.Exit(2)
	}

	env, err := newEnv(*configPath, *dictDir)
	if err != nil {
		fatal(err)
	}
	if cmd.name != "serve" {
		sigHandler()
	}
	if err := cmd.run(env, args[1:]); err != nil {
		fatal(err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ spelldict ] Spell-check dictionaries, compiled.")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}
