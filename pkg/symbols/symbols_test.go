// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionFieldCounts(t *testing.T) {
	counts := map[*SymbolDefinition]int{
		PropertySymbolDefinition:             int(propertyFieldCount),
		DirectorySymbolDefinition:            int(directoryFieldCount),
		ComponentSymbolDefinition:            int(componentFieldCount),
		FileSymbolDefinition:                 int(fileFieldCount),
		MediaSymbolDefinition:                int(mediaFieldCount),
		BinarySymbolDefinition:               int(binaryFieldCount),
		IconSymbolDefinition:                 int(iconFieldCount),
		WixVariableSymbolDefinition:          int(wixVariableFieldCount),
		WixCustomTableSymbolDefinition:       int(wixCustomTableFieldCount),
		WixCustomTableColumnSymbolDefinition: int(wixCustomTableColumnFieldCount),
		WixCustomTableCellSymbolDefinition:   int(wixCustomTableCellFieldCount),
		WixBundlePayloadSymbolDefinition:     int(wixBundlePayloadFieldCount),
	}
	require.Len(t, counts, len(Definitions))

	for i, def := range Definitions {
		assert.Equal(t, SymbolDefinitionType(i), def.Type, def.Name)
		assert.Len(t, def.FieldDefinitions, counts[def], def.Name)
		for _, fd := range def.FieldDefinitions {
			assert.NotEmpty(t, fd.Name, "%s has a gap in its field enum", def.Name)
		}
	}
}

func TestDefinitionByName(t *testing.T) {
	def, ok := DefinitionByName("file")
	require.True(t, ok)
	assert.Same(t, FileSymbolDefinition, def)
	assert.Equal(t, "File", SymbolDefinitionTypeFile.String())

	_, ok = DefinitionByName("NoSuchTable")
	assert.False(t, ok)
}

func TestSymbolIdIsImmutable(t *testing.T) {
	sym := PropertySymbolDefinition.NewSymbol(nil, "")
	require.NoError(t, sym.SetId("ProductName"))
	require.NoError(t, sym.SetId("ProductName"))
	assert.ErrorIs(t, sym.SetId("Other"), ErrIdAlreadyAssigned)
	assert.Equal(t, "ProductName", sym.Id())
}

func TestFieldTypeEnforced(t *testing.T) {
	f := FileSymbolDefinition.NewSymbol(nil, "f1")
	assert.ErrorIs(t, f.Set(int(FileName), 42), ErrFieldTypeMismatch)
	assert.ErrorIs(t, f.Set(int(FileSource), "C:\\a.txt"), ErrFieldTypeMismatch)
	assert.ErrorIs(t, f.Set(int(FileSource), PathValue{Embed: true, BaseURI: "file:///x.wixlib", Path: "a"}), ErrInvalidPathValue)

	require.NoError(t, f.Set(int(FileFileSize), 12))
	n, ok := f.Field(int(FileFileSize)).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)

	file := File{f}
	require.NoError(t, file.SetSource(NewExternalPath("a.txt")))
	src, ok := file.Source()
	require.True(t, ok)
	assert.Equal(t, "a.txt", src.Path)
	assert.True(t, f.Field(int(FileSource)).Modified())

	require.NoError(t, f.Set(int(FileSource), nil))
	assert.True(t, f.Field(int(FileSource)).IsNull())
}

func TestFieldKeepsReplacedValue(t *testing.T) {
	prop := PropertySymbolDefinition.NewSymbol(nil, "ProductName")
	f := prop.Field(int(PropertyValue))
	require.NoError(t, f.SetBaseline("Old Name"))

	require.NoError(t, f.Set("!(loc.X)"))
	assert.Nil(t, f.PreviousData())

	require.NoError(t, f.Set("resolved"))
	assert.Equal(t, "resolved", f.Data())
	prev, ok := f.PreviousAsString()
	require.True(t, ok)
	assert.Equal(t, "!(loc.X)", prev)

	// setting the same value again is not a change
	require.NoError(t, f.Set("resolved"))
	assert.Equal(t, "!(loc.X)", f.PreviousData())
	assert.Equal(t, "Old Name", f.Baseline())

	raw := FileSymbolDefinition.NewSymbol(nil, "f").Field(int(FileSource))
	require.NoError(t, raw.Set(NewEmbeddedPath("file:///a.wixlib", 1)))
	require.NoError(t, raw.Set(NewExternalPath("a.txt")))
	prevPath, ok := raw.PreviousAsPath()
	require.True(t, ok)
	assert.True(t, prevPath.Embed)
	_, ok = raw.BaselineAsPath()
	assert.False(t, ok)
}

func TestFieldByName(t *testing.T) {
	sym := WixCustomTableCellSymbolDefinition.NewSymbol(nil, "")
	f, ok := sym.FieldByName("Data")
	require.True(t, ok)
	assert.Same(t, sym.Field(WixCustomTableCellDataIndex), f)
	_, ok = sym.FieldByName("Nope")
	assert.False(t, ok)
}

func TestObjectFieldMarshalsValues(t *testing.T) {
	def := &SymbolDefinition{Name: "Blob", FieldDefinitions: []FieldDefinition{{Name: "Payload", Type: FieldTypeObject}}}
	sym := def.NewSymbol(nil, "")
	require.NoError(t, sym.Set(0, map[string]int{"a": 1}))
	raw, ok := sym.Field(0).AsObject()
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(raw))
	assert.Equal(t, json.RawMessage(raw), sym.Field(0).Data())
}

func TestSourceLineNumberChain(t *testing.T) {
	inner := NewSourceLineNumber("inc.wxi", 3)
	inner.Parent = NewSourceLineNumber("product.wxs", 12)
	assert.Equal(t, "inc.wxi(3)", inner.String())
	assert.Equal(t, "inc.wxi(3) <- product.wxs(12)", inner.Chain())
	var none *SourceLineNumber
	assert.Equal(t, "", none.String())
}

func TestLevelCannotMoveBackwards(t *testing.T) {
	i := NewIntermediate(LevelLinked)
	assert.NotEmpty(t, i.Id)
	require.NoError(t, i.UpdateLevel(LevelResolved))
	assert.Error(t, i.UpdateLevel(LevelCompiled))
	assert.Equal(t, LevelResolved, i.Level)
}
