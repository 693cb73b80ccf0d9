// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"get", "--format", "json"},
			wantSub: "get",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "json" {
					t.Errorf("Flag(format) = %q, want json", p.Flag("format"))
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"set", "--backend=sqlite"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("backend") != "sqlite" {
					t.Errorf("Flag(backend) = %q, want sqlite", p.Flag("backend"))
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"show", "--json"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:    "explicit boolean flag",
			args:    []string{"show", "--json=false"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be false")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"set", "ollama.model", "llama3.2:3b"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 3 {
					t.Errorf("PositionalCount() = %d, want 3", p.PositionalCount())
				}
				if p.Positional(1) != "ollama.model" {
					t.Errorf("Positional(1) = %q", p.Positional(1))
				}
				joined := strings.Join(p.PositionalFrom(1), " ")
				if joined != "ollama.model llama3.2:3b" {
					t.Errorf("PositionalFrom(1) joined = %q", joined)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_HasFlag(t *testing.T) {
	p := NewArgParser([]string{"show", "--json", "--format", "toml"})
	if !p.HasFlag("json") {
		t.Error("HasFlag(json) should be true")
	}
	if !p.HasFlag("--format") {
		t.Error("HasFlag(--format) should be true")
	}
	if p.HasFlag("missing") {
		t.Error("HasFlag(missing) should be false")
	}
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"empty defaults to TUI", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"chat alias", []string{"chat"}, CmdTUI},
		{"status", []string{"status"}, CmdStatus},
		{"status short", []string{"s"}, CmdStatus},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"unknown command", []string{"frobnicate"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tt.argv)
			if cmd != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--model", "mistral:7b", "--json", "status"})
	if cmd != CmdStatus {
		t.Fatalf("cmd = %v, want CmdStatus", cmd)
	}
	if args.Model != "mistral:7b" {
		t.Errorf("Model = %q", args.Model)
	}
	if !args.JSON {
		t.Error("JSON should be true")
	}

	_, args = ParseArgs([]string{"--config=/tmp/alt.toml"})
	if args.ConfigPath != "/tmp/alt.toml" {
		t.Errorf("ConfigPath = %q", args.ConfigPath)
	}
}

func TestParseArgs_ConfigSubcommands(t *testing.T) {
	cmd, args := ParseArgs([]string{"config", "set", "ollama.model", "phi3:mini"})
	if cmd != CmdConfig {
		t.Fatalf("cmd = %v, want CmdConfig", cmd)
	}
	if args.Subcommand != "set" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if args.ConfigKey != "ollama.model" {
		t.Errorf("ConfigKey = %q", args.ConfigKey)
	}
	if args.ConfigVal != "phi3:mini" {
		t.Errorf("ConfigVal = %q", args.ConfigVal)
	}

	_, args = ParseArgs([]string{"config", "show", "--json"})
	if args.Subcommand != "show" || !args.JSON {
		t.Errorf("Subcommand = %q, JSON = %v", args.Subcommand, args.JSON)
	}
}
