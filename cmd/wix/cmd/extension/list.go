// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extension

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/versions"
)

func (c *extensionCmd) listCmd() *cobra.Command {
	var output string
	var remote bool

	cmd := &cobra.Command{
		Use:   "list [<id>[/<version>]]",
		Short: "list cached extensions",
		Long: `list cached extensions

	project cache entries are always listed, user cache entries only with --global.
	damaged entries lack their <id>.dll or <id>.exe entry point.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}

			return c.withCache(cmd.Context(), func(m *extcache.Manager) error {
				cached, err := m.List(cmd.Context(), c.global, ref)
				if err != nil {
					return err
				}

				var available map[string][]*semver.Version
				if remote {
					if available, err = remoteVersions(cmd.Context(), m, ref, cached); err != nil {
						return err
					}
				}

				switch output {
				case "table":
					cmd.Println(versions.New(cached, available).Table())
				case "json":
					data, err := json.MarshalIndent(versions.New(cached, available), "", "    ")
					if err != nil {
						return err
					}
					cmd.Println(string(data))
				case "yaml":
					data, err := yaml.Marshal(cached)
					if err != nil {
						return err
					}
					cmd.Print(string(data))
				default:
					return fmt.Errorf("output format not supported: %s", output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, yaml")
	cmd.Flags().BoolVarP(&remote, "all", "A", false, "also list versions offered by the configured sources")
	return cmd
}

// remoteVersions asks every source for the versions of the listed ids. A
// failing source is logged and skipped.
func remoteVersions(ctx context.Context, m *extcache.Manager, ref string, cached []extcache.CachedExtension) (map[string][]*semver.Version, error) {
	ids := lo.Uniq(lo.Map(cached, func(c extcache.CachedExtension, _ int) string { return c.Id }))
	if ref != "" {
		r, err := extcache.ParseReference(ref)
		if err != nil {
			return nil, err
		}
		ids = lo.Uniq(append(ids, r.Id))
	}

	result := map[string][]*semver.Version{}
	for _, id := range ids {
		for _, source := range m.Sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			vs, err := source.Versions(ctx, id)
			if err != nil {
				slog.Warn("failed to list extension versions", "source", source.Name(), "id", id, "err", err.Error())
				continue
			}
			result[id] = append(result[id], vs...)
		}
	}
	return result, nil
}
