// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bind

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
	"github.com/wixtoolset/wix-sub033/pkg/variables"
)

func TestBuildBindVariableCache(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.exe")
	writeFile(t, src, "12345")

	intermediate := symbols.NewIntermediate(symbols.LevelResolved)
	section := intermediate.AddSection(symbols.NewSection("Product", symbols.SectionTypePackage))

	version := section.AddSymbol(symbols.PropertySymbolDefinition.NewSymbol(nil, "ProductVersion"))
	require.NoError(t, symbols.Property{Symbol: version}.SetValue("1.2.3"))
	pending := section.AddSymbol(symbols.PropertySymbolDefinition.NewSymbol(nil, "Pending"))
	require.NoError(t, symbols.Property{Symbol: pending}.SetValue("!(bind.fileVersion.app)"))

	onDisk := symbols.File{Symbol: section.AddSymbol(symbols.FileSymbolDefinition.NewSymbol(nil, "app"))}
	require.NoError(t, onDisk.SetSource(symbols.NewExternalPath(src)))
	require.NoError(t, onDisk.SetFileSize(999))
	require.NoError(t, onDisk.Set(int(symbols.FileVersion), "4.5.6.7"))
	require.NoError(t, onDisk.Set(int(symbols.FileLanguage), "1033"))

	recorded := symbols.File{Symbol: section.AddSymbol(symbols.FileSymbolDefinition.NewSymbol(nil, "lib"))}
	require.NoError(t, recorded.SetSource(symbols.NewExternalPath(filepath.Join(dir, "missing.dll"))))
	require.NoError(t, recorded.SetFileSize(42))

	cache := BuildBindVariableCache(intermediate)
	assert.Equal(t, map[string]string{
		"property.ProductVersion": "1.2.3",
		"fileversion.app":         "4.5.6.7",
		"filelanguage.app":        "1033",
		"filesize.app":            "5",
		"filesize.lib":            "42",
	}, cache)
}

func TestResolveDelayedFields(t *testing.T) {
	m := messaging.NewMessenger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	resolver := variables.NewResolver(nil)

	intermediate := symbols.NewIntermediate(symbols.LevelResolved)
	section := intermediate.AddSection(symbols.NewSection("Product", symbols.SectionTypePackage))
	newProperty := func(id, value string) *symbols.Symbol {
		sym := section.AddSymbol(symbols.PropertySymbolDefinition.NewSymbol(nil, id))
		require.NoError(t, symbols.Property{Symbol: sym}.SetValue(value))
		return sym
	}
	banner := section.AddSymbol(symbols.WixVariableSymbolDefinition.NewSymbol(symbols.NewSourceLineNumber("product.wxs", 7), "Banner"))
	require.NoError(t, banner.Set(int(symbols.WixVariableValue), "Setup !(bind.property.Full)"))
	full := newProperty("Full", "!(bind.property.Short).4")
	newProperty("Short", "1.2.3")
	unknown := section.AddSymbol(symbols.WixVariableSymbolDefinition.NewSymbol(symbols.NewSourceLineNumber("product.wxs", 9), "Unknown"))
	require.NoError(t, unknown.Set(int(symbols.WixVariableValue), "!(bind.fileVersion.nope)"))

	delayed := []DelayedField{
		{Symbol: banner, Field: banner.Field(int(symbols.WixVariableValue))},
		{Symbol: full, Field: full.Field(int(symbols.PropertyValue))},
		{Symbol: unknown, Field: unknown.Field(int(symbols.WixVariableValue))},
	}

	cmd := &ResolveDelayedFieldsCommand{
		Messaging:        m,
		DelayedFields:    delayed,
		VariableCache:    BuildBindVariableCache(intermediate),
		VariableResolver: resolver,
	}
	cmd.Execute()

	assert.Equal(t, "1.2.3.4", symbols.Property{Symbol: full}.Value())
	assert.Equal(t, "Setup 1.2.3.4", symbols.WixVariable{Symbol: banner}.Value())
	assert.Equal(t, "!(bind.fileVersion.nope)", symbols.WixVariable{Symbol: unknown}.Value())

	require.Len(t, m.Errors(), 1)
	assert.True(t, messaging.IsKind(m.Errors()[0], messaging.UnresolvedBindReference))
	assert.Equal(t, 9, m.Errors()[0].SourceLineNumbers.LineNumber)
}
