// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/juju/fslock"
)

const lockPollInterval = 100 * time.Millisecond

// WithCacheLock runs action while holding the lockfile at lockFilePath.
// It blocks until the lock is obtained or ctx is done, logging once when
// another process already holds it.
//
// The extension cache itself does no locking, so every caller touching a
// cache folder from the command line goes through here.
func WithCacheLock(ctx context.Context, lockFilePath string, action func() error) error {
	if err := EnsureDirs(filepath.Dir(lockFilePath)); err != nil {
		return err
	}

	lock := fslock.New(lockFilePath)
	err := lock.TryLock()
	switch {
	case errors.Is(err, fslock.ErrLocked):
		slog.Info("waiting for cache lock", "file", lockFilePath)
		if err := pollLock(ctx, lock); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release cache lock", "file", lockFilePath, "err", err.Error())
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return action()
}

// fslock has no context-aware wait
func pollLock(ctx context.Context, lock *fslock.Lock) error {
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		err := lock.TryLock()
		if err == nil {
			return nil
		}
		if !errors.Is(err, fslock.ErrLocked) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
