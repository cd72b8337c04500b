// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package login

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oras.land/oras-go/v2/registry/remote/auth"
)

func TestCredentials(t *testing.T) {
	testcases := []struct {
		name  string
		cmd   loginCmd
		stdin string
		want  auth.Credential
		err   error
	}{
		{name: "password flag", cmd: loginCmd{username: "u", password: "p"}, want: auth.Credential{Username: "u", Password: "p"}},
		{name: "password stdin", cmd: loginCmd{username: "u", passwordStdin: true}, stdin: "secret\n", want: auth.Credential{Username: "u", Password: "secret"}},
		{name: "no username", cmd: loginCmd{password: "p"}, err: ErrNoCredentials},
		{name: "no password", cmd: loginCmd{username: "u"}, err: ErrNoCredentials},
		{name: "both passwords", cmd: loginCmd{username: "u", password: "p", passwordStdin: true}, err: ErrConflictingFlag},
		{name: "netrc with username", cmd: loginCmd{username: "u", netrcHost: "h"}, err: ErrConflictingFlag},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cmd.credentials(strings.NewReader(tc.stdin))
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNetrc(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".netrc")
	require.NoError(t, os.WriteFile(path, []byte("machine ghcr.io\n  login octo\n  password hunter2\n"), 0o600))
	t.Setenv(netrcEnvVar, path)

	c := loginCmd{netrcHost: "ghcr.io"}
	got, err := c.credentials(nil)
	require.NoError(t, err)
	assert.Equal(t, auth.Credential{Username: "octo", Password: "hunter2"}, got)

	c = loginCmd{netrcHost: "example.com"}
	_, err = c.credentials(nil)
	assert.ErrorIs(t, err, ErrNetrcNoMachine)
}

func TestRegistryHost(t *testing.T) {
	for in, want := range map[string]string{
		"ghcr.io/wixtoolset":         "ghcr.io",
		"localhost:5000":             "localhost:5000",
		"http://localhost:5000/repo": "localhost:5000",
	} {
		got, err := registryHost(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
