// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordtrie autocomplete index as an IPC server,
an HTTP API or an interactive CLI.

wordtrie keeps a set of lowercase terms in a 26-way trie and answers prefix
queries, optionally limited to a window of completion lengths. Terms are
loaded from free text: every whitespace separated token longer than two
characters is lowercased and stored.

# Usage

Start the msgpack IPC server on stdin/stdout, preloading a corpus:

	wordtrie -load corpus.txt

Serve the HTTP API instead:

	wordtrie -http -load corpus.txt,names.lst

Run the interactive shell with debug logging:

	wordtrie -c -d -load corpus.txt

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first
run under ~/.config/wordtrie/config.toml unless -config points elsewhere:

	[index]
	min_word_length = 2
	min_prefix_length = 2
	short_prefix_min_len = 3
	unbounded_window = 189819
	cache_size = 512

	[server]
	max_limit = 64
	max_prefix = 60
	http_addr = "127.0.0.1:7878"

	[cli]
	default_window = 0
	default_limit = 24

# Command Line Flags

	-version    Show current version
	-d          Enable debug mode with detailed logging
	-c          Run the CLI instead of the IPC server
	-http       Serve the HTTP API instead of the IPC server
	-config     Path to a config file
	-load       Comma separated dictionary files to load at startup
	-window     Default window for CLI queries (0 for unbounded)
	-limit      Number of completions the CLI prints (0 for all)
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "wordtrie"
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

// main only manages the flow: flags, config, index and the chosen front end.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	httpMode := flag.Bool("http", false, "Serve the HTTP API instead of msgpack IPC")
	configPath := flag.String("config", "", "Path to a config file")
	loadFiles := flag.String("load", "", "Comma separated dictionary files to load at startup")
	window := flag.Int("window", defaultConfig.CLI.DefaultWindow, "Default window for CLI queries (0 for unbounded)")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of completions the CLI prints (0 for all)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	appConfig, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(usedPath))

	index := suggest.NewPrefixMatchesWithOptions(trie.New(), appConfig.Index.SuggestOptions())

	if files := utils.SplitList(*loadFiles); len(files) > 0 {
		loader := dictionary.NewLoader(index)
		total, err := loader.LoadFiles(files...)
		if err != nil {
			log.Fatalf("Failed to load dictionaries: %v", err)
		}
		log.Debug("Dictionaries loaded", "files", len(files), "terms", total)
	} else {
		log.Warn("No dictionary given, starting with an empty index...")
	}

	// window and limit flags override the config only when set explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			appConfig.CLI.DefaultWindow = *window
		case "limit":
			appConfig.CLI.DefaultLimit = *limit
		}
	})

	switch {
	case *cliMode:
		sigHandler()
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"window", appConfig.CLI.DefaultWindow,
			"limit", appConfig.CLI.DefaultLimit)
		inputHandler := cli.NewInputHandler(index, appConfig.CLI.DefaultWindow, appConfig.CLI.DefaultLimit).
			WithConfig(appConfig, usedPath)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}

	case *httpMode:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		srv := server.NewHTTPServer(index, appConfig)
		showStartupInfo(index.Size(), "http://"+srv.Addr())
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}

	default:
		sigHandler()
		log.Debug("spawning IPC")
		srv := server.NewServer(index, appConfig)
		showStartupInfo(index.Size(), "stdin/stdout")
		if err := srv.Start(); err != nil {
			log.Fatalf("Failed to run server: %v", err)
		}
	}
}

// printVersion shows the styled version banner.
func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ wordtrie ] prefix completions from a 26-way trie")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(terms int, endpoint string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("terms: %s", utils.FormatWithCommas(terms))
	log.Infof("serving on: %s", endpoint)
	log.Info("status: ready")
}
