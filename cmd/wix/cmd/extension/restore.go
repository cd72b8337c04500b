// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extension

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/packagelock"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
)

var ErrLockOutOfSync = errors.New("project extension cache does not match " + wixconfig.ProjectExtensionLockFile)

func (c *extensionCmd) restoreCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "cache every extension version pinned in " + wixconfig.ProjectExtensionLockFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if c.global {
				return fmt.Errorf("restore only applies to the project cache")
			}
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			lock, err := packagelock.Read(c.config.ProjectExtensionLock(wd))
			if err != nil {
				return err
			}

			return c.withCache(cmd.Context(), func(m *extcache.Manager) error {
				cached, err := m.List(cmd.Context(), false, "")
				if err != nil {
					return err
				}
				missing := lock.Missing(cached)
				if len(missing) == 0 {
					cmd.Println("all pinned extensions are cached")
					return nil
				}

				refs := lo.Map(missing, func(e *packagelock.Extension, _ int) string { return e.Reference() })
				if check {
					return fmt.Errorf("%w: missing %s", ErrLockOutOfSync, strings.Join(refs, ", "))
				}
				for _, ref := range refs {
					if _, err := m.Add(cmd.Context(), false, ref); err != nil {
						return err
					}
					cmd.Printf("restored %s\n", ref)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "only verify the pinned versions are cached")
	return cmd
}
