// Copyright 2025 The KeyServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the keyboard suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

KeyServe corrects words typed on a soft keyboard. It walks a compiled binary
trie with a budget of proximity, insertion, omission and substitution errors
and ranks the words it reaches by frequency and correction cost. It can operate
as a MessagePack IPC server for integration with input methods, or as a CLI
application for testing and debugging.

# Usage

Start the server with default settings:

	keyserve

Use a custom dictionary and enable debug mode:

	keyserve -dict /path/to/words.dict -d

Run in CLI mode for interactive testing:

	keyserve -c -limit 10

Compile a word list into a binary trie:

	keyserve -dict words.txt -build words.dict

The dictionary may be a compiled .dict trie, a word list (.txt) or a directory
of ranked dict_*.bin chunks. Lists and chunks are compiled in memory on load.

# Configuration

Runtime configuration is read from ~/.config/keyserve/config.toml, created with
defaults if it doesn't exist:

	[engine]
	max_errors = 2
	max_errors_two_words = 1
	suggest_missing_space = true
	full_edit_distance = false

	[server]
	max_limit = 18
	max_input = 48

	[dict]
	path = "data/words.dict"

# Command Line Flags

	-dict string
	    Dictionary path (default from config)
	-config string
	    Config file path
	-reset-config
	    Rewrite the default config.toml with builtin defaults
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to print in CLI mode
	-full
	    Allow substitutions of unrelated keys
	-umlaut
	    Explore German umlaut digraphs
	-build string
	    Compile the dictionary to this path and exit
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/keyserve/internal/cli"
	"github.com/bastiangx/keyserve/internal/logger"
	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/config"
	"github.com/bastiangx/keyserve/pkg/dictionary"
	"github.com/bastiangx/keyserve/pkg/flags"
	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/server"
	"github.com/bastiangx/keyserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "keyserve"
	gh      = "https://github.com/bastiangx/keyserve"
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

// main wires config, dictionary and engine, then hands over to the server or
// the CLI loop.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dictPath := flag.String("dict", "", "Dictionary path: .dict trie, .txt word list or chunk directory")
	configPath := flag.String("config", "", "Config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to print in CLI mode (default from config)")
	fullEdit := flag.Bool("full", false, "Allow substitutions of unrelated keys")
	umlaut := flag.Bool("umlaut", false, "Explore German umlaut digraphs regardless of the dictionary header")
	buildPath := flag.String("build", "", "Compile the dictionary to this path and exit")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config.toml with builtin defaults")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Info("Config file rebuilt with defaults")
	}

	cfg, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", usedConfig)

	path := cfg.Dict.Path
	if *dictPath != "" {
		path = *dictPath
	}
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	resolved, err := pathResolver.ResolveDictPath(path)
	if err != nil {
		log.Fatalf("Failed to resolve dictionary: %v", err)
	}

	dict, err := dictionary.Load(resolved, dictionary.BuildOptions{
		GermanUmlautProcessing: cfg.Dict.GermanUmlaut,
		MaxWordLength:          cfg.Engine.MaxWordLength,
	})
	if err != nil {
		log.Fatalf("Failed to load dictionary %s: %v", resolved, err)
	}
	defer dict.Close()
	log.Debugf("Loaded %s from %s", dict.Format, resolved)

	if *buildPath != "" {
		if err := dict.Save(*buildPath); err != nil {
			log.Fatalf("Failed to write %s: %v", *buildPath, err)
		}
		log.Infof("Wrote %s", *buildPath)
		return
	}

	opts := cfg.Engine.Options()
	opts.Logger = logger.New("engine")
	engine, err := suggest.New(dict.Bytes(), opts)
	if err != nil {
		log.Fatalf("Failed to init engine: %v", err)
	}

	f := engine.DefaultFlags() | cfg.Engine.Flags()
	if *fullEdit {
		f |= flags.UseFullEditDistance
	}
	if *umlaut {
		f |= flags.RequiresGermanUmlautProcessing
	}

	var layout *proximity.Layout
	if cfg.CLI.UseLayout {
		layout = proximity.QWERTY()
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		n := cfg.CLI.DefaultLimit
		if *limit > 0 {
			n = *limit
		}
		log.Debug("Input info:", "limit", n, "flags", f, "noFilter", cfg.CLI.DefaultNoFilter)
		inputHandler := cli.NewInputHandler(engine, layout, f, n, cfg.CLI.DefaultNoFilter, os.Stderr)
		if err := inputHandler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	cfg.Engine.FullEditDistance = f.Has(flags.UseFullEditDistance)
	cfg.Engine.UmlautDigraphs = f.Has(flags.RequiresGermanUmlautProcessing)
	srv := server.NewServer(engine, layout, cfg, usedConfig, os.Stdin, os.Stdout)
	showStartupInfo(resolved)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
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
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ KeyServe ] Fuzzy suggestions for soft keyboards")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dictPath string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Info("===========")
	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dict: ( %s )", dictPath)
	log.Info("status: ready")
}
