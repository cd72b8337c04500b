// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package wixversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaultsToUnknown(t *testing.T) {
	old := ToolsetVersion
	t.Cleanup(func() { ToolsetVersion = old })

	ToolsetVersion = ""
	assert.Equal(t, "unknown", Get().Version)
	assert.Equal(t, "wix/unknown", UserAgent())

	ToolsetVersion = "4.0.1"
	assert.Equal(t, "wix/4.0.1", UserAgent())
}
