// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chatai-dev/chatai-tui/internal/config"
	"github.com/chatai-dev/chatai-tui/internal/ollama"
	"github.com/chatai-dev/chatai-tui/internal/ui/styles"
)

// statusProbeTimeout bounds the backend health check.
const statusProbeTimeout = 5 * time.Second

// statusReport is the JSON shape of `chatai status --json`.
type statusReport struct {
	OllamaURL      string `json:"ollama_url"`
	OllamaRunning  bool   `json:"ollama_running"`
	Model          string `json:"model"`
	StorageBackend string `json:"storage_backend"`
	Version        string `json:"version"`
}

// HandleStatus checks the Ollama backend and prints the active settings.
// Returns a non-zero exit code when the backend is unreachable so the
// command is scriptable.
func HandleStatus(cfg *config.Config, args Args) int {
	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.URL,
		DefaultModel: cfg.Ollama.Model,
		Timeout:      statusProbeTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), statusProbeTimeout)
	defer cancel()
	running := client.CheckRunning(ctx) == nil

	if args.JSON {
		report := statusReport{
			OllamaURL:      cfg.Ollama.URL,
			OllamaRunning:  running,
			Model:          cfg.Ollama.Model,
			StorageBackend: cfg.Storage.Backend,
			Version:        Version,
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Println(`{"error": "failed to encode status"}`)
			return 1
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(styles.Title.Render("chatai status"))
		fmt.Println()
		fmt.Printf("  Ollama:   %s (%s)\n", styles.RenderStatus(running, statusWord(running)), cfg.Ollama.URL)
		fmt.Printf("  Model:    %s\n", cfg.Ollama.Model)
		fmt.Printf("  Storage:  %s\n", cfg.Storage.Backend)
		fmt.Printf("  Version:  %s\n", Version)
		if !running {
			fmt.Println()
			fmt.Println(styles.Hint.Render("  Start Ollama with: ollama serve"))
		}
	}

	if !running {
		return 1
	}
	return 0
}

func statusWord(running bool) string {
	if running {
		return "running"
	}
	return "not running"
}
