// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package feedsource_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/extcache/feedsource"
	"github.com/wixtoolset/wix-sub033/pkg/testutil"
)

func startFeed(t *testing.T) *httptest.Server {
	pkg := testutil.NupkgBytes(t, "WixToolset.UI.wixext", "4.0.1", nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v3/wixtoolset.ui.wixext/index.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"versions":["4.0.1","3.14.0","not-semver","4.0.0-rc.1"]}`))
	})
	mux.HandleFunc("GET /v3/wixtoolset.ui.wixext/4.0.1/wixtoolset.ui.wixext.4.0.1.nupkg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pkg)
	})
	mux.HandleFunc("GET /v3/broken.wixext/index.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestVersions(t *testing.T) {
	srv := startFeed(t)
	source := feedsource.New(srv.URL+"/v3/", srv.Client())
	ctx := testutil.Context(t)

	versions, err := source.Versions(ctx, "WixToolset.UI.wixext")
	require.NoError(t, err)
	assert.Equal(t, []string{"3.14.0", "4.0.0-rc.1", "4.0.1"}, lo.Map(versions, func(v *semver.Version, _ int) string {
		return v.Original()
	}))

	versions, err = source.Versions(ctx, "unknown.wixext")
	require.NoError(t, err)
	assert.Empty(t, versions)

	_, err = source.Versions(ctx, "broken.wixext")
	assert.ErrorContains(t, err, "500")
}

func TestDownload(t *testing.T) {
	srv := startFeed(t)
	source := feedsource.New(srv.URL+"/v3", nil)
	ctx := testutil.Context(t)

	data, err := source.Download(ctx, "WixToolset.UI.wixext", semver.MustParse("4.0.1"))
	require.NoError(t, err)
	_, err = extcache.PackageFiles(data)
	require.NoError(t, err)

	_, err = source.Download(ctx, "WixToolset.UI.wixext", semver.MustParse("5.0.0"))
	assert.ErrorIs(t, err, extcache.ErrPackageNotFound)
}

func TestManagerFallsBackToFeed(t *testing.T) {
	srv := startFeed(t)
	cache := t.TempDir()
	m := &extcache.Manager{
		Locations: []extcache.CacheLocation{{Scope: extcache.ScopeUser, Path: cache}},
		Sources: []extcache.PackageSource{
			feedsource.New(srv.URL+"/broken", nil),
			feedsource.New(srv.URL+"/v3", nil),
		},
	}

	added, err := m.Add(testutil.Context(t), true, "WixToolset.UI.wixext")
	require.NoError(t, err)
	assert.True(t, added)

	found, err := m.List(testutil.Context(t), true, "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "wixtoolset.ui.wixext", found[0].Id)
	assert.Equal(t, "4.0.1", found[0].Version)
	assert.False(t, found[0].Damaged)
}
