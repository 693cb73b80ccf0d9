// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for chatai.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Model      string
	ConfigPath string
	JSON       bool

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after command extraction)
	Raw []string
}

const usageText = `chatai - local AI chat in your terminal

Chatai is a single-screen chat client for a locally running Ollama model.
Conversations are saved per user and restored on the next start.

Usage:
  chatai                     Start the chat TUI (default)
  chatai status, s           Check the Ollama backend and show settings
  chatai config show         Print the active configuration
  chatai config get <key>    Read one setting (dot notation, e.g. ollama.model)
  chatai config set <key> <value>
                             Change one setting and save it
  chatai config path         Print the config file location
  chatai version             Print version information
  chatai help                Show this help

Global flags:
  --model NAME               Override the completion model for this run
  --config PATH              Load configuration from a specific file
  --json                     Machine-readable output (status, config show)

Environment:
  CHATAI_OLLAMA_URL          Ollama base URL (default http://127.0.0.1:11434)
  CHATAI_MODEL               Completion model (default llama3.2:1b)
  CHATAI_STORAGE_BACKEND     "file" or "sqlite"
  CHATAI_STORAGE_DIR         Data directory (default ~/.chatai/data)

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("chatai version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list. Split out from Parse so
// tests can drive it directly.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	// No command defaults to the TUI
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui", "chat":
		return CmdTUI, args

	case "status", "s":
		return CmdStatus, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown commands fall through to help rather than the TUI, so
		// a typo doesn't silently take over the terminal.
		args.Subcommand = cmd
		return CmdHelp, args
	}
}

// parseGlobalFlags extracts flags valid for every command.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	remaining := make([]string, 0, len(argv))

	i := 0
	for i < len(argv) {
		switch arg := argv[i]; arg {
		case "--model", "-m":
			if i+1 < len(argv) {
				args.Model = argv[i+1]
				i += 2
				continue
			}
			i++
		case "--config":
			if i+1 < len(argv) {
				args.ConfigPath = argv[i+1]
				i += 2
				continue
			}
			i++
		case "--json":
			args.JSON = true
			i++
		default:
			if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			} else if strings.HasPrefix(arg, "--config=") {
				args.ConfigPath = strings.TrimPrefix(arg, "--config=")
			} else {
				remaining = append(remaining, arg)
			}
			i++
		}
	}

	return remaining, args
}

// parseConfigArgs fills the config-command fields: subcommand, key, value.
func parseConfigArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Subcommand = parser.Subcommand()
	args.ConfigKey = parser.Positional(1)
	args.ConfigVal = parser.Positional(2)
	if parser.BoolFlag("json") {
		args.JSON = true
	}
}
