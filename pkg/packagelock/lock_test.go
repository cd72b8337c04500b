// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packagelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/schema"
)

func TestReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".wix", "extensions.lock.yaml")

	l, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, l.Extensions)

	l.Set("WixToolset.Util.wixext", "4.0.1")
	l.Set("Acme.wixext", "1.0")
	l.Set("wixtoolset.util.wixext", "5.0.0")
	require.NoError(t, l.Write(path))

	read, err := Read(path)
	require.NoError(t, err)
	want := []*Extension{
		{Id: "Acme.wixext", Version: "1.0"},
		{Id: "wixtoolset.util.wixext", Version: "5.0.0"},
	}
	if diff := cmp.Diff(want, read.Extensions); diff != "" {
		t.Errorf("extensions mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRejectsForeignDocuments(t *testing.T) {
	_, err := ReadContents([]byte("apiVersion: wixtoolset.org/v9\nkind: ExtensionLock\n"))
	assert.ErrorIs(t, err, ErrInvalidExtensionLock)
	assert.ErrorIs(t, err, schema.ErrUnsupportedSchema)

	path := filepath.Join(t.TempDir(), "lock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extensions: ["), 0o644))
	_, err = Read(path)
	assert.ErrorIs(t, err, ErrInvalidExtensionLock)
}

func TestRemove(t *testing.T) {
	l := New()
	l.Set("a.wixext", "1.0")
	l.Set("b.wixext", "2.0")

	assert.False(t, l.Remove("a.wixext", "9.9"))
	assert.True(t, l.Remove("A.WIXEXT", "1.0"))
	assert.True(t, l.Remove("b.wixext", ""))
	assert.Empty(t, l.Extensions)
}

func TestMissing(t *testing.T) {
	l := New()
	l.Set("a.wixext", "1.0")
	l.Set("b.wixext", "2.0")
	l.Set("c.wixext", "3.0")

	missing := l.Missing([]extcache.CachedExtension{
		{Id: "a.wixext", Version: "1.0"},
		{Id: "b.wixext", Version: "2.0", Damaged: true},
		{Id: "c.wixext", Version: "3.1"},
	})
	require.Len(t, missing, 2)
	assert.Equal(t, []string{"b.wixext/2.0", "c.wixext/3.0"}, []string{missing[0].Reference(), missing[1].Reference()})
}
