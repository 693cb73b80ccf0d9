// chatai TUI - a terminal chat client for a locally running Ollama model.
//
// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	chatmgr "github.com/chatai-dev/chatai-tui/internal/chat"
	"github.com/chatai-dev/chatai-tui/internal/cli"
	"github.com/chatai-dev/chatai-tui/internal/config"
	"github.com/chatai-dev/chatai-tui/internal/identity"
	"github.com/chatai-dev/chatai-tui/internal/ollama"
	"github.com/chatai-dev/chatai-tui/internal/storage"
	"github.com/chatai-dev/chatai-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd, args := cli.Parse()

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if args.Model != "" {
		cfg.Ollama.Model = args.Model
	}

	switch cmd {
	case cli.CmdTUI:
		return runTUI(cfg)
	case cli.CmdStatus:
		return cli.HandleStatus(cfg, args)
	case cli.CmdConfig:
		return cli.HandleConfig(cfg, args)
	case cli.CmdVersion:
		cli.PrintVersion()
		return 0
	case cli.CmdHelp:
		if args.Subcommand != "" {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args.Subcommand)
			cli.PrintUsage()
			return 2
		}
		cli.PrintUsage()
		return 0
	default:
		cli.PrintUsage()
		return 2
	}
}

// loadConfig loads from an explicit path when given, the default
// locations otherwise. A broken config file falls back to defaults with
// a warning rather than refusing to start.
func loadConfig(args cli.Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFromPath(args.ConfigPath)
	}
	cfg, err := config.Load()
	if cfg != nil && err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		return cfg, nil
	}
	return cfg, err
}

// runTUI wires the store, backend client, and state managers together
// and runs the Bubble Tea program.
func runTUI(cfg *config.Config) int {
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open storage: %v\n", err)
		return 1
	}
	defer store.Close()

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.URL,
		DefaultModel: cfg.Ollama.Model,
		Timeout:      time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
	})

	toaster := ui.NewToaster()

	session := identity.NewManager(store,
		identity.WithNotifier(toaster),
		identity.WithVerifier(identity.NewMockVerifier(
			time.Duration(cfg.Auth.LoginDelayMs)*time.Millisecond)),
	)

	manager := chatmgr.NewManager(store, client,
		chatmgr.WithModel(cfg.Ollama.Model),
		chatmgr.WithTimeout(time.Duration(cfg.Ollama.TimeoutSecs)*time.Second),
	)

	app := ui.NewApp(session, manager, client)
	program := tea.NewProgram(app, tea.WithAltScreen())
	toaster.Attach(program)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openStore builds the configured storage backend.
func openStore(cfg *config.Config) (storage.Store, error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		configDir, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(configDir, "data")
	}

	switch strings.ToLower(cfg.Storage.Backend) {
	case "sqlite":
		return storage.NewSQLiteStore(filepath.Join(dir, "chatai.db"))
	default:
		return storage.NewFileStoreWithDir(dir)
	}
}
