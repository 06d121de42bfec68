// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/HathorNetwork/ledger-app-hathor/cmd/htrsignerd/internal/tui"
	"github.com/HathorNetwork/ledger-app-hathor/internal/device"
	"github.com/HathorNetwork/ledger-app-hathor/internal/util"
)

// startSeedWatcher locks the device if the seed envelope changes on disk.
// The running wallet would no longer match the stored seed, so the only safe
// reaction is to stop signing until the daemon is restarted.
func startSeedWatcher(ctx context.Context, dev *device.Device, screen *tui.Screen, seedPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create file watcher: %w", err)
	}

	// Watch the directory; editors replace files rather than write in place.
	if err := watcher.Add(filepath.Dir(seedPath)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("cannot watch seed directory: %w", err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()

		// Debounce so a single save does not fire several lockouts.
		var debounce *time.Timer
		const debounceDelay = 500 * time.Millisecond

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(seedPath) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					util.Logger.Warn("seed file changed on disk, locking device", "path", seedPath)
					// Release any approval the command loop is blocked on
					// first; Lockout needs the device mutex that loop holds.
					if screen != nil {
						screen.NotifyLocked()
					}
					dev.Lockout()
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				util.Logger.Warn("seed watcher error", "error", err)
			}
		}
	}()
	return nil
}
