// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSchema(t *testing.T) {
	want := New("ExtensionLock", "v1")
	assert.Equal(t, "wixtoolset.org/v1", want.APIVersion)

	assert.NoError(t, want.ValidateSchema(New("ExtensionLock", "v1")))
	for _, target := range []ManifestMeta{
		{},
		{Kind: "ExtensionLock"},
		New("Other", "v1"),
		New("ExtensionLock", "v2"),
	} {
		assert.ErrorIs(t, want.ValidateSchema(target), ErrUnsupportedSchema, target)
	}
}
