// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bind

import (
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
	"github.com/wixtoolset/wix-sub033/pkg/variables"
)

// ResolveFieldsCommand resolves the variables of every string field and the
// file of every path field of one intermediate. Failures are written to
// Messaging and only skip the field that failed.
type ResolveFieldsCommand struct {
	Messaging                *messaging.Messenger
	BuildingPatch            bool
	VariableResolver         *variables.Resolver
	FileResolver             *FileResolver
	IntermediateFolder       string
	Intermediate             *symbols.Intermediate
	AllowUnresolvedVariables bool

	// DelayedFields hold bind references only resolvable after binding files
	DelayedFields []DelayedField
	// ExtractEmbeddedFiles are the embedded files the resolved paths point at
	ExtractEmbeddedFiles *ExtractEmbeddedFiles

	customColumns map[string]symbols.WixCustomTableColumn
}

func (c *ResolveFieldsCommand) Execute() {
	c.DelayedFields = nil
	c.ExtractEmbeddedFiles = NewExtractEmbeddedFiles()
	c.customColumns = nil

	for _, section := range c.Intermediate.Sections {
		for _, sym := range section.Symbols {
			for i, field := range sym.Fields() {
				if field.IsNull() {
					continue
				}

				switch c.effectiveType(sym, i) {
				case symbols.FieldTypeString:
					c.resolveString(sym, field)
				case symbols.FieldTypePath:
					c.resolvePath(sym, field)
				case symbols.FieldTypeObject:
					if field.Type == symbols.FieldTypeString {
						c.resolveCellPath(sym, field)
					}
				}
			}
		}
	}
}

// effectiveType is the field's own type, except for custom table cell data:
// cells of an Object column are paths, every other cell is a string.
func (c *ResolveFieldsCommand) effectiveType(sym *symbols.Symbol, i int) symbols.FieldType {
	if sym.Definition != symbols.WixCustomTableCellSymbolDefinition || i != symbols.WixCustomTableCellDataIndex {
		return sym.Field(i).Type
	}

	if c.customColumns == nil {
		c.customColumns = map[string]symbols.WixCustomTableColumn{}
		for _, section := range c.Intermediate.Sections {
			for _, colSym := range section.SymbolsOf(symbols.WixCustomTableColumnSymbolDefinition) {
				col := symbols.WixCustomTableColumn{Symbol: colSym}
				c.customColumns[symbols.CustomColumnKey(col.TableRef(), col.Name())] = col
			}
		}
	}

	col, ok := c.customColumns[symbols.WixCustomTableCell{Symbol: sym}.ColumnKey()]
	if ok && col.FieldType() == symbols.FieldTypeObject {
		return symbols.FieldTypeObject
	}
	return symbols.FieldTypeString
}

func (c *ResolveFieldsCommand) resolveString(sym *symbols.Symbol, field *symbols.Field) {
	res, err := c.VariableResolver.ResolveVariables(sym.SourceLineNumbers, field.AsString(), !c.AllowUnresolvedVariables)
	if err != nil {
		c.Messaging.Write(err)
		return
	}
	if res.UpdatedValue {
		if err := field.Set(res.Value); err != nil {
			c.Messaging.Write(err)
			return
		}
	}
	if res.DelayedResolve {
		c.DelayedFields = append(c.DelayedFields, DelayedField{Symbol: sym, Field: field})
	}
}

func (c *ResolveFieldsCommand) resolvePath(sym *symbols.Symbol, field *symbols.Field) {
	pv, ok := field.AsPath()
	if !ok {
		return
	}

	if pv.Embed && c.BuildingPatch {
		if external, ok := c.unstick(sym, field); ok {
			pv = external
		}
	}

	if pv.Embed {
		dest := c.ExtractEmbeddedFiles.Add(pv.BaseURI, pv.EmbeddedFileIndex, c.IntermediateFolder)
		if err := field.Set(symbols.NewExternalPath(dest)); err != nil {
			c.Messaging.Write(err)
		}
		return
	}

	resolved, ok := c.resolveFile(sym, pv.Path)
	if ok && resolved != pv.Path {
		if err := field.Set(symbols.NewExternalPath(resolved)); err != nil {
			c.Messaging.Write(err)
		}
	}
}

// unstick switches an embedded path back to the prior build's external source
// when a variable in that source now resolves to a new, non-default value,
// so a patch does not reuse a stale embedded payload.
func (c *ResolveFieldsCommand) unstick(sym *symbols.Symbol, field *symbols.Field) (symbols.PathValue, bool) {
	prev, ok := field.BaselineAsPath()
	if !ok || prev.Embed || prev.Path == "" || !variables.HasReference(prev.Path) {
		return symbols.PathValue{}, false
	}

	res, err := c.VariableResolver.ResolveVariables(sym.SourceLineNumbers, prev.Path, false)
	if err != nil || !res.UpdatedValue || res.IsDefault {
		return symbols.PathValue{}, false
	}

	external := symbols.NewExternalPath(res.Value)
	if err := field.Set(external); err != nil {
		c.Messaging.Write(err)
		return symbols.PathValue{}, false
	}
	return external, true
}

// resolveCellPath resolves a custom table cell declared as a binary column,
// whose data is the path of the stream's file.
func (c *ResolveFieldsCommand) resolveCellPath(sym *symbols.Symbol, field *symbols.Field) {
	source := field.AsString()
	resolved, ok := c.resolveFile(sym, source)
	if ok && resolved != source {
		if err := field.Set(resolved); err != nil {
			c.Messaging.Write(err)
		}
	}
}

func (c *ResolveFieldsCommand) resolveFile(sym *symbols.Symbol, source string) (string, bool) {
	res, err := c.VariableResolver.ResolveVariables(sym.SourceLineNumbers, source, false)
	if err != nil {
		c.Messaging.Write(err)
		return "", false
	}

	resolved, err := c.FileResolver.ResolveFile(res.Value, sym.Definition, sym.SourceLineNumbers, BindStageNormal)
	if err != nil {
		c.Messaging.Write(err)
		return "", false
	}
	return resolved, true
}
