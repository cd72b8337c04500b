// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package tables

import (
	"strconv"

	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

// CustomTableDefinition builds the table of a WixCustomTable from its columns,
// in the order the table names them.
func CustomTableDefinition(table symbols.WixCustomTable, columns map[string]symbols.WixCustomTableColumn) *TableDefinition {
	def := &TableDefinition{Name: table.Id()}
	for _, name := range table.ColumnNames() {
		col, ok := columns[symbols.CustomColumnKey(table.Id(), name)]
		if !ok {
			def.Columns = append(def.Columns, ColumnDefinition{Name: name, Nullable: true})
			continue
		}
		def.Columns = append(def.Columns, ColumnDefinition{
			Name:       name,
			Type:       customColumnType(col),
			PrimaryKey: col.PrimaryKey(),
			Nullable:   col.Nullable(),
		})
	}
	return def
}

func customColumnType(col symbols.WixCustomTableColumn) ColumnType {
	switch col.FieldType() {
	case symbols.FieldTypeNumber:
		return ColumnTypeNumber
	case symbols.FieldTypeObject, symbols.FieldTypePath:
		return ColumnTypeObject
	}
	if col.Localizable() {
		return ColumnTypeLocalized
	}
	return ColumnTypeString
}

// CustomRows gathers the cells of every custom table of section into rows,
// one per RowId in order of first appearance.
func CustomRows(section *symbols.Section) []*Row {
	columns := map[string]symbols.WixCustomTableColumn{}
	for _, sym := range section.SymbolsOf(symbols.WixCustomTableColumnSymbolDefinition) {
		col := symbols.WixCustomTableColumn{Symbol: sym}
		columns[symbols.CustomColumnKey(col.TableRef(), col.Name())] = col
	}
	defs := map[string]*TableDefinition{}
	for _, sym := range section.SymbolsOf(symbols.WixCustomTableSymbolDefinition) {
		table := symbols.WixCustomTable{Symbol: sym}
		if table.Unreal() {
			continue
		}
		defs[table.Id()] = CustomTableDefinition(table, columns)
	}

	type rowKey struct{ table, id string }
	byKey := map[rowKey]*Row{}
	var rows []*Row
	for _, sym := range section.SymbolsOf(symbols.WixCustomTableCellSymbolDefinition) {
		cell := symbols.WixCustomTableCell{Symbol: sym}
		def, ok := defs[cell.TableRef()]
		if !ok {
			continue
		}
		i, ok := def.ColumnIndex(cell.ColumnRef())
		if !ok {
			continue
		}

		key := rowKey{cell.TableRef(), cell.RowId()}
		row, ok := byKey[key]
		if !ok {
			row = &Row{Table: def, SourceLineNumbers: sym.SourceLineNumbers, Values: make([]any, len(def.Columns))}
			byKey[key] = row
			rows = append(rows, row)
		}
		row.Values[i] = cellValue(def.Columns[i], cell.Data())
	}
	return rows
}

func cellValue(col ColumnDefinition, data string) any {
	if data == "" && col.Nullable {
		return nil
	}
	if col.Type == ColumnTypeNumber {
		if n, err := strconv.ParseInt(data, 10, 64); err == nil {
			return n
		}
	}
	return data
}
