// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

// rootDirectory ids stand for the layout root itself
var rootDirectory = map[string]bool{"TARGETDIR": true, "SourceDir": true}

// PlanFileTransfers lays every File symbol with an external source out under
// layoutDir, following its directory chain.
func PlanFileTransfers(intermediate *symbols.Intermediate, layoutDir string, move bool) ([]FileTransfer, error) {
	dirs := map[string]symbols.Directory{}
	for _, section := range intermediate.Sections {
		for _, sym := range section.SymbolsOf(symbols.DirectorySymbolDefinition) {
			dirs[sym.Id()] = symbols.Directory{Symbol: sym}
		}
	}

	var transfers []FileTransfer
	for _, section := range intermediate.Sections {
		for _, sym := range section.SymbolsOf(symbols.FileSymbolDefinition) {
			file := symbols.File{Symbol: sym}
			source, ok := file.Source()
			if !ok || source.Embed || source.Path == "" {
				continue
			}

			dir, err := directoryPath(dirs, file.DirectoryRef())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sym.SourceLineNumbers, err)
			}
			name := longName(file.Name())
			if name == "" {
				name = filepath.Base(source.Path)
			}
			dest := filepath.Join(layoutDir, dir, name)
			transfers = append(transfers, NewFileTransfer(source.Path, dest, move, sym.SourceLineNumbers))
		}
	}
	return transfers, nil
}

// directoryPath joins the names from the root down to id.
func directoryPath(dirs map[string]symbols.Directory, id string) (string, error) {
	var parts []string
	seen := map[string]bool{}
	for id != "" && !rootDirectory[id] {
		if seen[id] {
			return "", fmt.Errorf("directory %q is its own ancestor", id)
		}
		seen[id] = true

		d, ok := dirs[id]
		if !ok {
			return "", fmt.Errorf("unknown directory %q", id)
		}
		if name := longName(d.Name()); name != "" && name != "." {
			parts = append(parts, name)
		}
		id = d.ParentDirectoryRef()
	}
	return filepath.Join(lo.Reverse(parts)...), nil
}

// longName picks the long half of a "short|long" name.
func longName(name string) string {
	if _, long, ok := strings.Cut(name, "|"); ok {
		return long
	}
	return name
}
