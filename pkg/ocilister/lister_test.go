// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ocilister_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/ocilister"
	"github.com/wixtoolset/wix-sub033/pkg/testutil"
)

func TestIsFloaty(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"latest", true},
		{"main", true},
		{"4.0.1.generic", true},

		{"2.3", false},
		{"4.0.1", false},
		{"5.0.0-rc.1", false},
	}
	for _, tc := range tests {
		t.Run(tc.tag, func(t *testing.T) {
			assert.Equal(t, tc.want, ocilister.IsFloaty(tc.tag))
		})
	}
}

func TestListExtensionVersions(t *testing.T) {
	ctx := testutil.Context(t)
	client, _ := testutil.StartRegistry(t)

	versions, err := ocilister.ListExtensionVersions(ctx, client, "Missing.wixext")
	require.NoError(t, err)
	assert.Empty(t, versions)

	for _, v := range []string{"2.3", "1.0", "10.0.1"} {
		testutil.PushExtension(t, ctx, client, "Foo.wixext", v)
	}
	versions, err = ocilister.ListExtensionVersions(ctx, client, "Foo.wixext")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "1.0", versions[0].Original())
	assert.Equal(t, "2.3", versions[1].Original())
	assert.Equal(t, "10.0.1", versions[2].Original())
}
