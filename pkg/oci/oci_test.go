// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorAnnotationsRoundTrip(t *testing.T) {
	annotations := map[string]string{}
	DescriptorAnnotations{Id: "WixToolset.Util.wixext", Version: semver.MustParse("2.3")}.AppendToMap(annotations)
	assert.Equal(t, "2.3", annotations[DescriptorVersionAnnotation])

	v, err := VersionFromDescriptorAnnotations(annotations)
	require.NoError(t, err)
	assert.Equal(t, "2.3.0", v.String())

	_, err = VersionFromDescriptorAnnotations(nil)
	assert.ErrorContains(t, err, DescriptorVersionAnnotation)
}

func TestExtensionRepoName(t *testing.T) {
	assert.Equal(t, "wixext/wixtoolset.util.wixext", ExtensionRepoName("WixToolset.Util.wixext"))
}
