// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chatai-dev/chatai-tui/internal/config"
	"github.com/chatai-dev/chatai-tui/internal/ui/styles"
)

// HandleConfig implements the `chatai config` subcommands: show, get,
// set, path. Returns an exit code.
func HandleConfig(cfg *config.Config, args Args) int {
	switch args.Subcommand {
	case "", "show":
		return configShow(cfg, args.JSON)

	case "get":
		if args.ConfigKey == "" {
			fmt.Fprintln(os.Stderr, styles.RenderError("usage: chatai config get <key>"))
			return 2
		}
		val, err := cfg.Get(args.ConfigKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			return 1
		}
		fmt.Printf("%v\n", val)
		return 0

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			fmt.Fprintln(os.Stderr, styles.RenderError("usage: chatai config set <key> <value>"))
			return 2
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			return 1
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			return 1
		}
		if err := config.Save(cfg); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError("failed to save config: "+err.Error()))
			return 1
		}
		fmt.Println(styles.RenderSuccess(fmt.Sprintf("%s = %s", args.ConfigKey, args.ConfigVal)))
		return 0

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintln(os.Stderr, styles.RenderError("unknown config subcommand: "+args.Subcommand))
		fmt.Fprintln(os.Stderr, "valid subcommands: show, get, set, path")
		return 2
	}
}

// configShow prints the full active configuration.
func configShow(cfg *config.Config, asJSON bool) int {
	if asJSON {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError("failed to encode config"))
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Println(styles.Title.Render("chatai configuration"))
	fmt.Println()
	for _, key := range config.GetAllKeys() {
		val, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %-22s %v\n", key, val)
	}
	return 0
}
