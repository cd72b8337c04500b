// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ocisource_test

import (
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/extcache/ocisource"
	"github.com/wixtoolset/wix-sub033/pkg/testutil"
)

func TestDownloadFromRegistry(t *testing.T) {
	ctx := testutil.Context(t)
	client, _ := testutil.StartRegistry(t)
	testutil.PushExtension(t, ctx, client, "Foo.wixext", "1.0")
	testutil.PushExtension(t, ctx, client, "Foo.wixext", "2.3")

	source := ocisource.New(client, filepath.Join(t.TempDir(), "oci-layout"))

	versions, err := source.Versions(ctx, "Foo.wixext")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "2.3", versions[1].Original())

	data, err := source.Download(ctx, "Foo.wixext", versions[1])
	require.NoError(t, err)
	files, err := extcache.PackageFiles(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"wixext4/Foo.wixext.dll"}, files)

	_, err = source.Download(ctx, "Foo.wixext", semver.MustParse("9.9"))
	assert.ErrorIs(t, err, extcache.ErrPackageNotFound)
}

func TestManagerWithRegistrySource(t *testing.T) {
	ctx := testutil.Context(t)
	client, _ := testutil.StartRegistry(t)
	for _, v := range []string{"1.0", "2.3"} {
		testutil.PushExtension(t, ctx, client, "foo", v)
	}

	cache := t.TempDir()
	m := &extcache.Manager{
		Locations: []extcache.CacheLocation{{Scope: extcache.ScopeProject, Path: cache}},
		Sources:   []extcache.PackageSource{ocisource.New(client, "")},
	}
	added, err := m.Add(ctx, false, "foo")
	require.NoError(t, err)
	assert.True(t, added)
	assert.FileExists(t, filepath.Join(cache, "foo", "2.3", extcache.PackageRootFolder, "foo.dll"))
}
