// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package login

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdx/go-netrc"
	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/builtincommand"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

var (
	ErrNoCredentials   = errors.New("no credentials given")
	ErrNetrcNoMachine  = errors.New("netrc has no entry for host")
	ErrConflictingFlag = errors.New("conflicting credential flags")
)

// netrcEnvVar overrides the location of the netrc file, as curl and git do
const netrcEnvVar = "NETRC"

type loginCmd struct {
	username, password string
	netrcHost          string
	passwordStdin      bool
	useNativeStore     bool
}

func Cmd(config *wixconfig.Config) *cobra.Command {
	c := &loginCmd{}
	cmd := &cobra.Command{
		Use: string(builtincommand.Login),
		Short: "authenticate to the extension registry",
		Long: "Authenticate to the extension registry and store the credentials in the auth config file " +
			"(" + wixconfig.RegistryAuthConfigPathEnvVar + " or registry-auth-path in " + wixconfig.ConfigFileName +
			", docker's config.json otherwise). The same credentials are used for extension feeds.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := c.credentials(cmd.InOrStdin())
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			if err := c.login(cmd.Context(), config, creds); err != nil {
				return err
			}
			cmd.Println("Successfully logged in.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&c.username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&c.password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&c.passwordStdin, "password-stdin", false, "take the password from stdin")
	cmd.Flags().BoolVar(&c.useNativeStore, "use-native-cred-store", false, "store credentials in the system's credential store instead of plaintext in the auth config file")
	cmd.Flags().StringVarP(&c.netrcHost, "netrc", "n", "", "log in using the login and password of a netrc machine")

	return cmd
}

func (c *loginCmd) login(ctx context.Context, config *wixconfig.Config, creds auth.Credential) error {
	opts := credentials.StoreOptions{
		AllowPlaintextPut:        true,
		DetectDefaultNativeStore: c.useNativeStore,
	}

	var store credentials.Store
	var err error
	if config.RegistryAuthPath != "" {
		store, err = credentials.NewStore(config.RegistryAuthPath, opts)
	} else {
		store, err = credentials.NewStoreFromDocker(opts)
	}
	if err != nil {
		return err
	}

	host, err := registryHost(config.Registry)
	if err != nil {
		return err
	}
	slog.Debug("logging in", "registry", host, "auth-config-path", config.RegistryAuthPath)

	reg, err := remote.NewRegistry(host)
	if err != nil {
		return err
	}
	reg.PlainHTTP = config.Insecure
	return credentials.Login(ctx, store, reg, creds)
}

// registryHost drops any scheme and repository path from a configured registry.
func registryHost(registry string) (string, error) {
	if !strings.Contains(registry, "://") {
		registry = "https://" + registry
	}
	u, err := url.Parse(registry)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid registry %q", registry)
	}
	return u.Host, nil
}

func (c *loginCmd) credentials(stdin io.Reader) (auth.Credential, error) {
	if c.netrcHost != "" {
		if c.username != "" || c.password != "" || c.passwordStdin {
			return auth.EmptyCredential, fmt.Errorf("%w: --netrc can't be used with other options", ErrConflictingFlag)
		}
		return netrcCredentials(netrcPath(), c.netrcHost)
	}

	if c.username == "" {
		return auth.EmptyCredential, fmt.Errorf("%w: --username is required", ErrNoCredentials)
	}
	switch {
	case c.passwordStdin && c.password != "":
		return auth.EmptyCredential, fmt.Errorf("%w: --password and --password-stdin", ErrConflictingFlag)
	case c.password != "":
		return auth.Credential{Username: c.username, Password: c.password}, nil
	case c.passwordStdin:
		p, err := io.ReadAll(stdin)
		if err != nil {
			return auth.EmptyCredential, fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return auth.Credential{Username: c.username, Password: strings.TrimRight(string(p), "\r\n")}, nil
	default:
		return auth.EmptyCredential, fmt.Errorf("%w: password must be provided via --password or --password-stdin", ErrNoCredentials)
	}
}

func netrcPath() string {
	if p, ok := os.LookupEnv(netrcEnvVar); ok && p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".netrc"
	}
	return filepath.Join(home, ".netrc")
}

func netrcCredentials(path, host string) (auth.Credential, error) {
	n, err := netrc.Parse(path)
	if err != nil {
		return auth.EmptyCredential, err
	}
	machine := n.Machine(host)
	if machine == nil {
		return auth.EmptyCredential, fmt.Errorf("%w %q in %s", ErrNetrcNoMachine, host, path)
	}
	return auth.Credential{
		Username: machine.Get("login"),
		Password: machine.Get("password"),
	}, nil
}
