// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extcache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		ref         string
		wantId      string
		wantVersion string
	}{
		{"WixToolset.UI.wixext", "WixToolset.UI.wixext", ""},
		{"foo/2.3", "foo", "2.3"},
		{" foo/4.0.1-rc.1 ", "foo", "4.0.1-rc.1"},
	}
	for _, tc := range tests {
		t.Run(tc.ref, func(t *testing.T) {
			r, err := ParseReference(tc.ref)
			require.NoError(t, err)
			assert.Equal(t, tc.wantId, r.Id)
			if tc.wantVersion == "" {
				assert.Nil(t, r.Version)
				return
			}
			require.NotNil(t, r.Version)
			assert.Equal(t, tc.wantVersion, r.Version.Original())
			assert.Equal(t, strings.TrimSpace(tc.ref), r.String())
		})
	}
}

func TestParseReferenceInvalid(t *testing.T) {
	for _, ref := range []string{"", "/1.0", "foo/not-a-version", "foo/1.0/extra", "..", `a\b`} {
		t.Run(ref, func(t *testing.T) {
			_, err := ParseReference(ref)
			require.Error(t, err)
			assert.True(t, messaging.IsKind(err, messaging.InvalidExtensionReference))
		})
	}
}

func TestPackageFiles(t *testing.T) {
	_, err := PackageFiles([]byte("not a zip"))
	assert.Error(t, err)
}
