// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extension

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/extpublish"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig/wixremote"
)

type publishFlags struct {
	dryRun, includeGitInfo, insecure bool
	annotations                      map[string]string
	registry, registryAuth           string
}

func publishCmd(config *wixconfig.Config) *cobra.Command {
	f := publishFlags{}

	cmd := &cobra.Command{
		Use:     "publish <id> <version> <path-to-nupkg>",
		Short:   "Publish an extension package to an OCI registry",
		Example: "  wix extension publish Acme.Tools.wixext 1.2.3 dist/Acme.Tools.wixext.1.2.3.nupkg",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := semver.NewVersion(args[1])
			if err != nil {
				return fmt.Errorf("invalid version argument: %w", err)
			}
			cmd.SilenceUsage = true

			publishConfig := &extpublish.Config{
				Id:             args[0],
				Version:        version,
				PackagePath:    args[2],
				DryRun:         f.dryRun,
				IncludeGitInfo: f.includeGitInfo,
				Annotations:    f.annotations,
			}

			var client *wixremote.Remote
			if !f.dryRun {
				registry := strings.TrimRight(f.registry, "/")
				if registry == "" {
					registry = config.Registry
				}
				authPath := f.registryAuth
				if authPath == "" {
					authPath = config.RegistryAuthPath
				}
				if client, err = wixremote.New(registry, authPath, f.insecure || config.Insecure); err != nil {
					return err
				}
			}

			desc, err := extpublish.New(publishConfig, cmd).Publish(cmd.Context(), client)
			if err != nil {
				return err
			}
			if desc != nil {
				cmd.Printf("published %s (%s)\n", publishConfig.Destination(client.Registry), desc.Digest)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "d", false, "don't actually push to the registry")
	cmd.Flags().BoolVar(&f.includeGitInfo, "include-git-info", false, "include git info as annotations on the published manifest")
	cmd.Flags().StringToStringVarP(&f.annotations, "annotations", "a", map[string]string{}, "annotations to include in the published OCI artifact")

	cmd.Flags().StringVar(&f.registry, "registry", "", "OCI registry to use for pushing, defaults to the configured registry")
	cmd.Flags().BoolVar(&f.insecure, "insecure", false, "use http instead of https for OCI registry")
	cmd.Flags().StringVar(&f.registryAuth, "auth", "", "path to a config file similar to docker’s config.json to use for authenticating to the OCI registry. Defaults to docker's config.json")

	return cmd
}
