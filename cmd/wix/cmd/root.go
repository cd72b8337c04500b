// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/cmd/wix/cmd/bind"
	"github.com/wixtoolset/wix-sub033/cmd/wix/cmd/doctor"
	"github.com/wixtoolset/wix-sub033/cmd/wix/cmd/extension"
	"github.com/wixtoolset/wix-sub033/cmd/wix/cmd/login"
	"github.com/wixtoolset/wix-sub033/pkg/builtincommand"
	"github.com/wixtoolset/wix-sub033/pkg/logging"
	"github.com/wixtoolset/wix-sub033/pkg/wixapp"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
	"github.com/wixtoolset/wix-sub033/pkg/wixversion"
)

const WixName = "wix"

func RootCmd(ctx context.Context, app *wixapp.App) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   WixName,
		Short: "installer toolset",
	}

	defer app.SetOutputStreams(cmd)

	if len(app.OsArgs) == 0 {
		return nil, fmt.Errorf("App.OsArgs must contain at least one entry similar to os.Args")
	}
	cmd.SetArgs(app.OsArgs[1:])

	var logOut io.Writer = os.Stderr
	if app.Stderr != nil {
		logOut = app.Stderr
	}
	if err := logging.InitLoggingTo(logOut); err != nil {
		return nil, err
	}

	config, err := wixconfig.Get()
	if err != nil {
		return nil, err
	}
	if builtincommand.UsesCache(app.OsArgs) {
		if err := config.EnsureDirs(); err != nil {
			return nil, err
		}
	}

	cmd.AddCommand(
		extension.Cmd(config),
		login.Cmd(config),
		bind.Cmd(config),
		doctor.Cmd(),
		versionCmd(),
	)

	version, err := yaml.Marshal(wixversion.Get())
	if err != nil {
		return nil, err
	}
	cmd.Version = string(version)
	cmd.SetVersionTemplate("{{.Version}}")

	return cmd, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   string(builtincommand.Version),
		Short: "show the toolset version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(wixversion.GetToolsetVersion())
			return nil
		},
	}
}
