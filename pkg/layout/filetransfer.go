// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"

	"github.com/wixtoolset/wix-sub033/pkg/symbols"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
)

// FileTransfer is one pending copy or move into the layout.
type FileTransfer struct {
	Source            string
	Destination       string
	Move              bool
	SourceLineNumbers *symbols.SourceLineNumber

	// Redundant is set when Source and Destination name the same file
	Redundant bool
}

func NewFileTransfer(source, destination string, move bool, sln *symbols.SourceLineNumber) FileTransfer {
	return FileTransfer{
		Source:            source,
		Destination:       destination,
		Move:              move,
		SourceLineNumbers: sln,
		Redundant:         utils.SamePath(source, destination),
	}
}

func (t FileTransfer) String() string {
	op := "copy"
	if t.Move {
		op = "move"
	}
	return fmt.Sprintf("%s %s -> %s", op, t.Source, t.Destination)
}
