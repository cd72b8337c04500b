// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-containerregistry/pkg/registry"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/extpublish"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig/wixremote"
	"oras.land/oras-go/v2/registry/remote/auth"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

// NupkgBytes builds an extension package for id holding wixext4/<id>.dll
// plus any extra entries, keyed by their path in the archive.
func NupkgBytes(t *testing.T, id, version string, extra map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := map[string]string{
		id + ".nuspec": "<package><metadata><id>" + id + "</id><version>" + version + "</version></metadata></package>",
		extcache.PackageRootFolder + "/" + id + ".dll": "MZ " + id + " " + version,
	}
	for name, content := range extra {
		entries[name] = content
	}
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// BuildNupkg writes NupkgBytes to <dir>/<id>.<version>.nupkg and returns its path.
func BuildNupkg(t *testing.T, dir, id, version string) string {
	path := filepath.Join(dir, strings.ToLower(id)+"."+version+".nupkg")
	require.NoError(t, os.WriteFile(path, NupkgBytes(t, id, version, nil), 0o644))
	return path
}

// PushExtension publishes a generated package for id/version to the registry behind client.
func PushExtension(t *testing.T, ctx context.Context, client *wixremote.Remote, id, version string) {
	v, err := semver.NewVersion(version)
	require.NoError(t, err)

	config := &extpublish.Config{
		Id:          id,
		Version:     v,
		PackagePath: BuildNupkg(t, t.TempDir(), id, version),
	}
	_, err = extpublish.New(config, utils.WriterPrinter{Out: io.Discard, Err: io.Discard}).Publish(ctx, client)
	require.NoError(t, err)
}

func StartRegistry(t *testing.T) (client *wixremote.Remote, reg *httptest.Server) {
	reg = httptest.NewServer(registry.New())
	t.Cleanup(func() { reg.Close() })
	regUrl := strings.TrimPrefix(reg.URL, "http://")

	t.Setenv(wixconfig.OciRegistryEnvVar, regUrl)
	t.Setenv(wixconfig.RegistryAuthConfigPathEnvVar, TestdataPath(t, "empty-docker-config.json"))
	t.Setenv(wixconfig.AllowInsecureRegistryEnvVar, "true")

	return getRemote(reg), reg
}

func getRemote(registry *httptest.Server) *wixremote.Remote {
	prefix := "http://"
	insecure := strings.HasPrefix(registry.URL, prefix)
	if !insecure {
		prefix = "https://"
	}
	return wixremote.NewWithCustomClient(strings.TrimPrefix(registry.URL, prefix), &auth.Client{Client: registry.Client()}, insecure)
}

type CommonSetupSuite struct {
	suite.Suite
}

func (suite *CommonSetupSuite) SetupTest() {
	// a fresh WIX_HOME per test, otherwise every test shares the default one
	tmpWixHome, deleteFn, err := utils.MkdirTemp("", "")
	suite.Require().NoError(err)
	suite.T().Setenv(wixconfig.WixHomeEnvVar, tmpWixHome)
	suite.T().Cleanup(func() {
		_ = deleteFn()
	})
}

func Context(t *testing.T) context.Context {
	ctx, stopFn := context.WithCancel(context.Background())
	t.Cleanup(stopFn)
	return ctx
}
