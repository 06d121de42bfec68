// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/HathorNetwork/ledger-app-hathor/internal/transport"
)

type shellState struct {
	client     *transport.Client
	socketPath string
}

// errExit signals the REPL loop to stop.
var errExit = errors.New("exit")

func completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("version"),
		readline.PcItem("address"),
		readline.PcItem("xpub"),
		readline.PcItem("sign"),
		readline.PcItem("connect"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)
}

func startREPL(state *shellState) {
	fmt.Println("htrshell - Hathor device shell")
	fmt.Println("Type 'help' for available commands or 'quit' to exit")

	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".htrshell_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "\033[32mhtr>\033[0m ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Printf("Error: cannot initialize readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Printf("Error: %v\n", err)
			break
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if err := state.executeCommand(fields[0], fields[1:]); err != nil {
			if errors.Is(err, errExit) {
				break
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}
