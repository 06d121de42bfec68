// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// htrshell is an interactive host shell for the Hathor signing device. It
// speaks the device protocol over the daemon's Unix socket: query the app
// version, display addresses on the device, fetch the account xpub, and
// stream transactions for review and signing.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HathorNetwork/ledger-app-hathor/internal/transport"
	"github.com/HathorNetwork/ledger-app-hathor/internal/util"
	"github.com/HathorNetwork/ledger-app-hathor/internal/version"
)

func main() {
	dataDirFlag := flag.String("d", "", "device data directory (default: HTRSIGNER_DATA)")
	socketFlag := flag.String("s", "", "device socket path (overrides data directory)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("htrshell " + version.String())
		return
	}

	util.InitLogger()

	socketPath := *socketFlag
	if socketPath == "" {
		dataDir := util.GetDeviceDataDir(*dataDirFlag)
		if dataDir == "" {
			fmt.Fprintln(os.Stderr, "Error: no device socket specified")
			fmt.Fprintln(os.Stderr, "Use -s <socket>, -d <dir>, or set HTRSIGNER_DATA")
			os.Exit(1)
		}
		config := util.LoadDeviceConfig(dataDir)
		socketPath = util.ResolvePath(config.SocketPath, dataDir)
	}
	socketPath = filepath.Clean(socketPath)

	client := transport.NewClient(socketPath)
	if err := client.Dial(); err != nil {
		fmt.Printf("Warning: device not reachable at %s: %v\n", socketPath, err)
		fmt.Println("Run 'connect' once htrsignerd is up")
	}
	defer client.Close()

	startREPL(&shellState{client: client, socketPath: socketPath})
}
