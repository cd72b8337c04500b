// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

func directory(t *testing.T, section *symbols.Section, id, parent, name string) {
	sym := section.AddSymbol(symbols.DirectorySymbolDefinition.NewSymbol(nil, id))
	require.NoError(t, sym.Set(int(symbols.DirectoryParentDirectoryRef), parent))
	require.NoError(t, sym.Set(int(symbols.DirectoryName), name))
}

func file(t *testing.T, section *symbols.Section, id, dir, name string, source symbols.PathValue) {
	sym := section.AddSymbol(symbols.FileSymbolDefinition.NewSymbol(nil, id))
	require.NoError(t, sym.Set(int(symbols.FileDirectoryRef), dir))
	require.NoError(t, sym.Set(int(symbols.FileName), name))
	require.NoError(t, sym.Set(int(symbols.FileSource), source))
}

func TestPlanFileTransfers(t *testing.T) {
	intermediate := symbols.NewIntermediate(symbols.LevelResolved)
	section := intermediate.AddSection(symbols.NewSection("main", symbols.SectionTypePackage))
	directory(t, section, "TARGETDIR", "", "SourceDir")
	directory(t, section, "ProgramFilesFolder", "TARGETDIR", ".")
	directory(t, section, "INSTALLFOLDER", "ProgramFilesFolder", "ACME~1|Acme Tools")
	directory(t, section, "BinFolder", "INSTALLFOLDER", "bin")

	file(t, section, "app", "BinFolder", "APP~1.EXE|app.exe", symbols.NewExternalPath("/src/app.exe"))
	file(t, section, "readme", "INSTALLFOLDER", "", symbols.NewExternalPath("/src/README.txt"))
	file(t, section, "payload", "BinFolder", "p.bin", symbols.NewEmbeddedPath("file:///lib.wixlib", 1))

	transfers, err := PlanFileTransfers(intermediate, "/out", false)
	require.NoError(t, err)
	require.Len(t, transfers, 2)

	assert.Equal(t, filepath.Join("/out", "Acme Tools", "bin", "app.exe"), transfers[0].Destination)
	assert.Equal(t, "/src/app.exe", transfers[0].Source)
	assert.Equal(t, filepath.Join("/out", "Acme Tools", "README.txt"), transfers[1].Destination)
	assert.False(t, transfers[1].Move)
}

func TestPlanFileTransfersRejectsDirectoryCycles(t *testing.T) {
	intermediate := symbols.NewIntermediate(symbols.LevelResolved)
	section := intermediate.AddSection(symbols.NewSection("main", symbols.SectionTypePackage))
	directory(t, section, "A", "B", "a")
	directory(t, section, "B", "A", "b")
	file(t, section, "f", "A", "f.txt", symbols.NewExternalPath("/src/f.txt"))

	_, err := PlanFileTransfers(intermediate, "/out", false)
	assert.ErrorContains(t, err, "its own ancestor")
}
