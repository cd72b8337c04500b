// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extension

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/builtincommand"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/extensionmanager"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/packagelock"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
	"github.com/wixtoolset/wix-sub033/pkg/wixapp"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
)

// exit code of a failed cache operation
const failureExitCode = 2

type extensionCmd struct {
	config *wixconfig.Config
	global bool
}

func Cmd(config *wixconfig.Config) *cobra.Command {
	c := &extensionCmd{config: config}
	cmd := &cobra.Command{
		Use:   string(builtincommand.Extension),
		Short: "manage the extension cache",
		Long: "Manage extensions cached for the current project (.wix/extensions) " +
			"or, with --global, for the current user. Project scope changes are pinned in " +
			wixconfig.ProjectExtensionLockFile + ".",
	}
	cmd.PersistentFlags().BoolVarP(&c.global, "global", "g", false, "use the user cache instead of the project cache")

	cmd.AddCommand(
		c.addCmd(),
		c.removeCmd(),
		c.listCmd(),
		c.restoreCmd(),
		publishCmd(config),
	)
	return cmd
}

// withCache runs action against a cache manager while holding the cache
// lock. Failures exit with failureExitCode.
func (c *extensionCmd) withCache(ctx context.Context, action func(*extcache.Manager) error) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	messenger := messaging.NewMessenger(slog.Default())
	manager, err := extensionmanager.New(c.config, wd).CacheManager(messenger)
	if err != nil {
		return err
	}

	err = utils.WithCacheLock(ctx, wixconfig.CacheLockFile(c.config.UserExtensionCache), func() error {
		return action(manager)
	})
	if err == nil {
		err = messenger.Err()
	}
	return wixapp.WithExitCode(failureExitCode, err)
}

// updateLock applies change to the project lock file. Global operations
// leave it alone.
func (c *extensionCmd) updateLock(change func(*packagelock.ExtensionLock) bool) error {
	if c.global {
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	path := c.config.ProjectExtensionLock(wd)
	lock, err := packagelock.Read(path)
	if err != nil {
		return err
	}
	if !change(lock) {
		return nil
	}
	return lock.Write(path)
}
