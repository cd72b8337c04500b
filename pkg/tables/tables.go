// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tables projects resolved symbols onto Windows Installer style
// tables: one table per symbol definition plus one per custom table.
package tables

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

type ColumnType int

const (
	ColumnTypeString ColumnType = iota
	ColumnTypeLocalized
	ColumnTypeNumber
	// ColumnTypeObject is a binary stream; the row holds the path of its file
	ColumnTypeObject
)

func (t ColumnType) String() string {
	switch t {
	case ColumnTypeString:
		return "string"
	case ColumnTypeLocalized:
		return "localized"
	case ColumnTypeNumber:
		return "number"
	case ColumnTypeObject:
		return "object"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

type ColumnDefinition struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	Nullable   bool
}

type TableDefinition struct {
	Name    string
	Columns []ColumnDefinition
	// SymbolIdIsPrimaryKey prepends the symbol id as the Id column
	SymbolIdIsPrimaryKey bool
}

func (t *TableDefinition) ColumnIndex(name string) (int, bool) {
	i := slices.IndexFunc(t.Columns, func(c ColumnDefinition) bool { return c.Name == name })
	return i, i >= 0
}

func (t *TableDefinition) PrimaryKeys() []string {
	return lo.FilterMap(t.Columns, func(c ColumnDefinition, _ int) (string, bool) {
		return c.Name, c.PrimaryKey
	})
}

const IdColumn = "Id"

// idKeyed are the definitions whose symbol id is the row's primary key.
var idKeyed = map[symbols.SymbolDefinitionType]bool{
	symbols.SymbolDefinitionTypeProperty:         true,
	symbols.SymbolDefinitionTypeDirectory:        true,
	symbols.SymbolDefinitionTypeComponent:        true,
	symbols.SymbolDefinitionTypeFile:             true,
	symbols.SymbolDefinitionTypeBinary:           true,
	symbols.SymbolDefinitionTypeIcon:             true,
	symbols.SymbolDefinitionTypeWixVariable:      true,
	symbols.SymbolDefinitionTypeWixCustomTable:   true,
	symbols.SymbolDefinitionTypeWixBundlePayload: true,
}

// localized are the string columns translated per culture.
var localized = map[string]bool{
	"Directory/Name":               true,
	"File/Name":                    true,
	"Media/DiskPrompt":             true,
	"Media/VolumeLabel":            true,
	"Property/Value":               true,
	"WixBundlePayload/Description": true,
	"WixBundlePayload/DisplayName": true,
}

// DefinitionFor derives the table of a symbol definition.
func DefinitionFor(def *symbols.SymbolDefinition) *TableDefinition {
	table := &TableDefinition{Name: def.Name, SymbolIdIsPrimaryKey: idKeyed[def.Type]}
	if table.SymbolIdIsPrimaryKey {
		table.Columns = append(table.Columns, ColumnDefinition{Name: IdColumn, Type: ColumnTypeString, PrimaryKey: true})
	}
	for _, fd := range def.FieldDefinitions {
		table.Columns = append(table.Columns, ColumnDefinition{
			Name:     fd.Name,
			Type:     columnType(def.Name, fd),
			Nullable: true,
		})
	}
	return table
}

func columnType(table string, fd symbols.FieldDefinition) ColumnType {
	switch fd.Type {
	case symbols.FieldTypeNumber:
		return ColumnTypeNumber
	case symbols.FieldTypePath, symbols.FieldTypeObject:
		return ColumnTypeObject
	}
	if localized[table+"/"+fd.Name] {
		return ColumnTypeLocalized
	}
	return ColumnTypeString
}

// Row is one table row; Values line up with Table.Columns and hold string,
// int64 or nil.
type Row struct {
	Table             *TableDefinition
	SourceLineNumbers *symbols.SourceLineNumber
	Values            []any
}

// Rows projects every symbol of section onto the table of its definition,
// in symbol order. Custom table cells become rows of their custom table.
func Rows(section *symbols.Section) []*Row {
	defs := map[*symbols.SymbolDefinition]*TableDefinition{}
	var rows []*Row
	for _, sym := range section.Symbols {
		if sym.Definition == symbols.WixCustomTableCellSymbolDefinition {
			continue
		}
		table, ok := defs[sym.Definition]
		if !ok {
			table = DefinitionFor(sym.Definition)
			defs[sym.Definition] = table
		}
		rows = append(rows, symbolRow(table, sym))
	}
	return append(rows, CustomRows(section)...)
}

func symbolRow(table *TableDefinition, sym *symbols.Symbol) *Row {
	row := &Row{Table: table, SourceLineNumbers: sym.SourceLineNumbers}
	if table.SymbolIdIsPrimaryKey {
		row.Values = append(row.Values, sym.Id())
	}
	for _, field := range sym.Fields() {
		row.Values = append(row.Values, fieldValue(field))
	}
	return row
}

func fieldValue(f *symbols.Field) any {
	if f.IsNull() {
		return nil
	}
	switch f.Type {
	case symbols.FieldTypeNumber:
		n, _ := f.AsNumber()
		return n
	case symbols.FieldTypePath:
		p, _ := f.AsPath()
		if p.Embed {
			return p.String()
		}
		return p.Path
	default:
		return f.AsString()
	}
}
