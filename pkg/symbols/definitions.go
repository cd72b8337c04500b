// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type SymbolDefinitionType int

const (
	SymbolDefinitionTypeProperty SymbolDefinitionType = iota
	SymbolDefinitionTypeDirectory
	SymbolDefinitionTypeComponent
	SymbolDefinitionTypeFile
	SymbolDefinitionTypeMedia
	SymbolDefinitionTypeBinary
	SymbolDefinitionTypeIcon
	SymbolDefinitionTypeWixVariable
	SymbolDefinitionTypeWixCustomTable
	SymbolDefinitionTypeWixCustomTableColumn
	SymbolDefinitionTypeWixCustomTableCell
	SymbolDefinitionTypeWixBundlePayload
)

func newDefinition(t SymbolDefinitionType, name string, fields []FieldDefinition) *SymbolDefinition {
	return &SymbolDefinition{Type: t, Name: name, FieldDefinitions: fields}
}

// Definitions lists every shipped symbol definition, ordered by type.
var Definitions = []*SymbolDefinition{
	PropertySymbolDefinition,
	DirectorySymbolDefinition,
	ComponentSymbolDefinition,
	FileSymbolDefinition,
	MediaSymbolDefinition,
	BinarySymbolDefinition,
	IconSymbolDefinition,
	WixVariableSymbolDefinition,
	WixCustomTableSymbolDefinition,
	WixCustomTableColumnSymbolDefinition,
	WixCustomTableCellSymbolDefinition,
	WixBundlePayloadSymbolDefinition,
}

func (t SymbolDefinitionType) String() string {
	if t < 0 || int(t) >= len(Definitions) {
		return fmt.Sprintf("SymbolDefinitionType(%d)", int(t))
	}
	return Definitions[t].Name
}

// DefinitionByName finds a definition case-insensitively.
func DefinitionByName(name string) (*SymbolDefinition, bool) {
	return lo.Find(Definitions, func(d *SymbolDefinition) bool {
		return strings.EqualFold(d.Name, name)
	})
}
