// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extension

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/packagelock"
	"github.com/wixtoolset/wix-sub033/pkg/versions"
)

func (c *extensionCmd) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <id>[/<version>]",
		Short:   "download an extension into the cache",
		Example: "  wix extension add WixToolset.UI.wixext/4.0.1\n  wix extension add -g WixToolset.Util.wixext",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return c.withCache(cmd.Context(), func(m *extcache.Manager) error {
				added, err := m.Add(cmd.Context(), c.global, args[0])
				if err != nil {
					return err
				}
				if added {
					cmd.Printf("added %s\n", args[0])
				} else {
					cmd.Printf("%s is already cached\n", args[0])
				}
				return c.pin(cmd.Context(), m, args[0])
			})
		},
	}
}

// pin records the version ref now resolves to in the project cache.
func (c *extensionCmd) pin(ctx context.Context, m *extcache.Manager, ref string) error {
	if c.global {
		return nil
	}
	r, err := extcache.ParseReference(ref)
	if err != nil {
		return err
	}

	version := ""
	if r.Version != nil {
		version = r.Version.Original()
	} else {
		cached, err := m.List(ctx, false, r.Id)
		if err != nil {
			return err
		}
		exts := versions.New(cached, nil)
		if len(exts) == 0 {
			return fmt.Errorf("%s is not cached after adding it", r.Id)
		}
		latest, ok := exts[0].Versions.Latest()
		if !ok {
			return fmt.Errorf("no intact version of %s is cached", r.Id)
		}
		version = latest.Version.Original()
	}

	return c.updateLock(func(l *packagelock.ExtensionLock) bool {
		l.Set(r.Id, version)
		return true
	})
}
