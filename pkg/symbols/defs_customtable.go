// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import "strings"

type WixCustomTableField int

const (
	WixCustomTableColumnNames WixCustomTableField = iota
	WixCustomTableUnreal
	wixCustomTableFieldCount
)

var WixCustomTableSymbolDefinition = newDefinition(SymbolDefinitionTypeWixCustomTable, "WixCustomTable", []FieldDefinition{
	WixCustomTableColumnNames: {Name: "ColumnNames", Type: FieldTypeString},
	WixCustomTableUnreal:      {Name: "Unreal", Type: FieldTypeNumber},
})

// ColumnNameSeparator joins the column names of a custom table.
const ColumnNameSeparator = "\t"

type WixCustomTable struct{ *Symbol }

func (t WixCustomTable) ColumnNames() []string {
	names := fieldAt(t.Symbol, WixCustomTableColumnNames).AsString()
	if names == "" {
		return nil
	}
	return strings.Split(names, ColumnNameSeparator)
}

// Unreal tables are known to the toolset but never written to the database.
func (t WixCustomTable) Unreal() bool { return fieldAt(t.Symbol, WixCustomTableUnreal).AsBool() }

type WixCustomTableColumnField int

const (
	WixCustomTableColumnTableRef WixCustomTableColumnField = iota
	WixCustomTableColumnName
	WixCustomTableColumnType
	WixCustomTableColumnPrimaryKey
	WixCustomTableColumnNullable
	WixCustomTableColumnLocalizable
	wixCustomTableColumnFieldCount
)

var WixCustomTableColumnSymbolDefinition = newDefinition(SymbolDefinitionTypeWixCustomTableColumn, "WixCustomTableColumn", []FieldDefinition{
	WixCustomTableColumnTableRef:    {Name: "TableRef", Type: FieldTypeString},
	WixCustomTableColumnName:        {Name: "Name", Type: FieldTypeString},
	WixCustomTableColumnType:        {Name: "Type", Type: FieldTypeNumber},
	WixCustomTableColumnPrimaryKey:  {Name: "PrimaryKey", Type: FieldTypeNumber},
	WixCustomTableColumnNullable:    {Name: "Nullable", Type: FieldTypeNumber},
	WixCustomTableColumnLocalizable: {Name: "Localizable", Type: FieldTypeNumber},
})

type WixCustomTableColumn struct{ *Symbol }

func (c WixCustomTableColumn) TableRef() string  { return fieldAt(c.Symbol, WixCustomTableColumnTableRef).AsString() }
func (c WixCustomTableColumn) Name() string      { return fieldAt(c.Symbol, WixCustomTableColumnName).AsString() }
func (c WixCustomTableColumn) PrimaryKey() bool  { return fieldAt(c.Symbol, WixCustomTableColumnPrimaryKey).AsBool() }
func (c WixCustomTableColumn) Nullable() bool    { return fieldAt(c.Symbol, WixCustomTableColumnNullable).AsBool() }
func (c WixCustomTableColumn) Localizable() bool { return fieldAt(c.Symbol, WixCustomTableColumnLocalizable).AsBool() }

// FieldType is the declared type of the column; cells are stored as strings
// regardless, and an Object column holds the path of a binary stream.
func (c WixCustomTableColumn) FieldType() FieldType {
	n, ok := fieldAt(c.Symbol, WixCustomTableColumnType).AsNumber()
	if !ok {
		return FieldTypeString
	}
	return FieldType(n)
}

// CustomColumnKey identifies a column of a custom table.
func CustomColumnKey(tableRef, columnRef string) string {
	return tableRef + "/" + columnRef
}

type WixCustomTableCellField int

const (
	WixCustomTableCellTableRef WixCustomTableCellField = iota
	WixCustomTableCellColumnRef
	WixCustomTableCellRowId
	WixCustomTableCellData
	wixCustomTableCellFieldCount
)

var WixCustomTableCellSymbolDefinition = newDefinition(SymbolDefinitionTypeWixCustomTableCell, "WixCustomTableCell", []FieldDefinition{
	WixCustomTableCellTableRef:  {Name: "TableRef", Type: FieldTypeString},
	WixCustomTableCellColumnRef: {Name: "ColumnRef", Type: FieldTypeString},
	WixCustomTableCellRowId:     {Name: "RowId", Type: FieldTypeString},
	WixCustomTableCellData:      {Name: "Data", Type: FieldTypeString},
})

// WixCustomTableCellDataIndex is the position of the cell's data field.
const WixCustomTableCellDataIndex = int(WixCustomTableCellData)

type WixCustomTableCell struct{ *Symbol }

func (c WixCustomTableCell) TableRef() string  { return fieldAt(c.Symbol, WixCustomTableCellTableRef).AsString() }
func (c WixCustomTableCell) ColumnRef() string { return fieldAt(c.Symbol, WixCustomTableCellColumnRef).AsString() }
func (c WixCustomTableCell) RowId() string     { return fieldAt(c.Symbol, WixCustomTableCellRowId).AsString() }
func (c WixCustomTableCell) Data() string      { return fieldAt(c.Symbol, WixCustomTableCellData).AsString() }

func (c WixCustomTableCell) ColumnKey() string {
	return CustomColumnKey(c.TableRef(), c.ColumnRef())
}
