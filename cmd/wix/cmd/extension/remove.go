// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extension

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/packagelock"
)

var ErrNotCached = errors.New("extension is not cached")

func (c *extensionCmd) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>[/<version>]",
		Short: "remove an extension version, or every version of it, from the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return c.withCache(cmd.Context(), func(m *extcache.Manager) error {
				r, err := extcache.ParseReference(args[0])
				if err != nil {
					return err
				}
				removed, err := m.Remove(cmd.Context(), c.global, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("%w: %s", ErrNotCached, args[0])
				}
				cmd.Printf("removed %s\n", args[0])

				return c.updateLock(func(l *packagelock.ExtensionLock) bool {
					if r.Version == nil {
						return l.Remove(r.Id, "")
					}
					return l.Remove(r.Id, r.Version.Original())
				})
			})
		},
	}
}
