// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// htrsignerd is the Hathor signing device daemon. It holds the wallet seed,
// listens on a Unix socket for host commands, and puts every address
// disclosure and transaction signature behind an on-screen operator approval.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HathorNetwork/ledger-app-hathor/cmd/htrsignerd/internal/tui"
	"github.com/HathorNetwork/ledger-app-hathor/internal/crypto"
	"github.com/HathorNetwork/ledger-app-hathor/internal/device"
	"github.com/HathorNetwork/ledger-app-hathor/internal/keys"
	"github.com/HathorNetwork/ledger-app-hathor/internal/security"
	"github.com/HathorNetwork/ledger-app-hathor/internal/util"
	"github.com/HathorNetwork/ledger-app-hathor/internal/version"
)

func main() {
	dataDirFlag := flag.String("d", "", "data directory (default: HTRSIGNER_DATA)")
	initSeed := flag.Bool("init", false, "create a new encrypted seed and exit")
	headless := flag.Bool("headless", false, "run without the terminal screen (auto-approves everything)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("htrsignerd " + version.String())
		return
	}

	util.InitLogger()
	log := util.Logger

	dataDir := util.RequireDeviceDataDir(*dataDirFlag)
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create data directory: %v\n", err)
		os.Exit(1)
	}

	config := util.LoadDeviceConfig(dataDir)
	socketPath := util.ResolvePath(config.SocketPath, dataDir)
	seedPath := util.ResolvePath(config.SeedPath, dataDir)

	if *initSeed {
		if err := initSeedFile(seedPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	hardenProcess(config)

	passphrase, err := obtainPassphrase("Seed passphrase: ", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed, err := crypto.ReadSeedFile(seedPath, passphrase)
	crypto.ZeroBytes(passphrase)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: no seed at %s (run 'htrsignerd -init' first)\n", seedPath)
		} else {
			fmt.Fprintf(os.Stderr, "Error: cannot open seed: %v\n", err)
		}
		os.Exit(1)
	}

	wallet, err := keys.NewWallet(seed)
	crypto.ZeroBytes(seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot derive wallet: %v\n", err)
		os.Exit(1)
	}
	defer wallet.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var display device.Display
	var screen *tui.Screen
	if *headless || config.AutoApprove {
		log.Warn("running headless, all confirmations auto-approved")
		display = &device.AutoApproveDisplay{Log: log}
	} else {
		screen = tui.NewScreen(socketPath)
		display = screen
	}

	dev := device.New(wallet, display, log)

	if config.ShouldWatchSeed() {
		if err := startSeedWatcher(ctx, dev, screen, seedPath); err != nil {
			log.Warn("seed watcher unavailable", "error", err)
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("device listening", "socket", socketPath, "version", version.String())
		serveErr <- dev.ListenAndServe(ctx, socketPath)
	}()

	if screen != nil {
		// The screen owns the foreground; quitting it shuts the daemon down.
		go func() {
			select {
			case <-ctx.Done():
			case err := <-serveErr:
				if err != nil {
					log.Error("listener failed", "error", err)
				}
			}
			screen.Quit()
		}()
		if err := screen.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: screen failed: %v\n", err)
			os.Exit(1)
		}
		cancel()
		return
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// hardenProcess locks memory and disables core dumps so key material never
// reaches disk. Failures are fatal only when the config demands protection.
func hardenProcess(config util.DeviceConfig) {
	log := util.Logger

	if err := security.DisableCoreDumps(); err != nil {
		if config.RequireMemoryProtection {
			fmt.Fprintf(os.Stderr, "Error: cannot disable core dumps: %v\n", err)
			os.Exit(1)
		}
		log.Warn("core dumps still enabled", "error", err)
	}

	if os.Getenv("HTRSIGNER_DISABLE_MLOCK") != "" {
		return
	}
	if err := security.LockMemory(); err != nil {
		if config.RequireMemoryProtection {
			fmt.Fprintf(os.Stderr, "Error: cannot lock memory: %v\n", err)
			os.Exit(1)
		}
		log.Warn("memory not locked, seed may swap to disk", "error", err)
	}
}
