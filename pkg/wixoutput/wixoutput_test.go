// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package wixoutput

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

func TestCreateOpenExtract(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "payload.txt")
	require.NoError(t, os.WriteFile(payload, []byte("embedded bytes"), 0o644))

	intermediate := symbols.NewIntermediate(symbols.LevelCompiled)
	section := intermediate.AddSection(symbols.NewSection("lib", symbols.SectionTypeFragment))
	section.AddSymbol(symbols.PropertySymbolDefinition.NewSymbol(nil, "P"))

	lib := filepath.Join(dir, "my lib.wixlib")
	require.NoError(t, Create(lib, intermediate, map[int]string{3: payload, 1: payload}))

	out, err := Open(lib)
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Close() })

	path, err := PathFromURI(out.BaseURI)
	require.NoError(t, err)
	assert.Equal(t, lib, path)

	loaded, err := out.Intermediate()
	require.NoError(t, err)
	assert.Equal(t, intermediate.Id, loaded.Id)
	assert.Equal(t, []int{1, 3}, out.EmbeddedIndexes())

	dest := filepath.Join(dir, "extract", "nested", "3")
	require.NoError(t, out.ExtractEmbedded(3, dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "embedded bytes", string(data))

	assert.ErrorIs(t, out.ExtractEmbedded(7, filepath.Join(dir, "x")), ErrNoEmbeddedFile)
	assert.NoFileExists(t, filepath.Join(dir, "x"))
}

func TestCreateRemovesPartialContainer(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "broken.wixlib")
	err := Create(lib, symbols.NewIntermediate(symbols.LevelCompiled), map[int]string{0: filepath.Join(dir, "missing")})
	assert.Error(t, err)
	assert.NoFileExists(t, lib)
}

func TestPathFromURIRejectsOtherSchemes(t *testing.T) {
	_, err := PathFromURI("https://example.invalid/lib.wixlib")
	assert.Error(t, err)
}
