// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bind

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wixtoolset/wix-sub033/pkg/extensibility"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
	"github.com/wixtoolset/wix-sub033/pkg/variables"
	"github.com/wixtoolset/wix-sub033/pkg/wixoutput"
)

type ResolveFieldsSuite struct {
	suite.Suite

	dir          string
	payload      string
	messenger    *messaging.Messenger
	intermediate *symbols.Intermediate
	section      *symbols.Section
}

func TestResolveFields(t *testing.T) {
	suite.Run(t, new(ResolveFieldsSuite))
}

func (s *ResolveFieldsSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.payload = filepath.Join(s.dir, "payload")
	writeFile(s.T(), filepath.Join(s.payload, "readme.txt"), "readme")
	writeFile(s.T(), filepath.Join(s.payload, "v2", "readme.txt"), "readme v2")
	writeFile(s.T(), filepath.Join(s.payload, "logo.bmp"), "bmp")

	s.messenger = messaging.NewMessenger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.intermediate = symbols.NewIntermediate(symbols.LevelLinked)
	s.section = s.intermediate.AddSection(symbols.NewSection("Product", symbols.SectionTypePackage))
}

func (s *ResolveFieldsSuite) command(resolver *variables.Resolver, extensions *extensibility.Registry) *ResolveFieldsCommand {
	return &ResolveFieldsCommand{
		Messaging:          s.messenger,
		VariableResolver:   resolver,
		FileResolver:       NewFileResolver([]BindPath{{Path: s.payload}}, extensibility.Providers[ResolverExtension](extensions)),
		IntermediateFolder: filepath.Join(s.dir, "obj"),
		Intermediate:       s.intermediate,
	}
}

func (s *ResolveFieldsSuite) resolver(vars map[string]string) *variables.Resolver {
	loc := symbols.NewLocalization("en-us")
	for id, v := range vars {
		loc.Variables[id] = &symbols.BindVariable{Id: id, Value: v}
	}
	return variables.NewResolver(loc)
}

func (s *ResolveFieldsSuite) symbol(def *symbols.SymbolDefinition, id string, line int) *symbols.Symbol {
	return s.section.AddSymbol(def.NewSymbol(symbols.NewSourceLineNumber("product.wxs", line), id))
}

func (s *ResolveFieldsSuite) TestStringFields() {
	name := s.symbol(symbols.PropertySymbolDefinition, "ProductName", 1)
	s.Require().NoError(name.Set(int(symbols.PropertyValue), "!(loc.Name) Setup"))
	version := s.symbol(symbols.PropertySymbolDefinition, "Display", 2)
	s.Require().NoError(version.Set(int(symbols.PropertyValue), "v!(bind.property.ProductVersion)"))
	broken := s.symbol(symbols.PropertySymbolDefinition, "Broken", 3)
	s.Require().NoError(broken.Set(int(symbols.PropertyValue), "!(loc.Missing)"))
	after := s.symbol(symbols.PropertySymbolDefinition, "After", 4)
	s.Require().NoError(after.Set(int(symbols.PropertyValue), "!(loc.Name)"))

	cmd := s.command(s.resolver(map[string]string{"Name": "Foo"}), nil)
	cmd.Execute()

	s.Equal("Foo Setup", symbols.Property{Symbol: name}.Value())
	s.Equal("v!(bind.property.ProductVersion)", symbols.Property{Symbol: version}.Value())
	s.Equal("!(loc.Missing)", symbols.Property{Symbol: broken}.Value())
	s.Equal("Foo", symbols.Property{Symbol: after}.Value(), "an error must not stop the pass")
	s.Equal("!(loc.Name) Setup", name.Field(int(symbols.PropertyValue)).PreviousData())
	s.Nil(version.Field(int(symbols.PropertyValue)).PreviousData())

	s.Require().Len(cmd.DelayedFields, 1)
	s.Same(version, cmd.DelayedFields[0].Symbol)
	s.Same(version.Field(int(symbols.PropertyValue)), cmd.DelayedFields[0].Field)

	s.Require().Len(s.messenger.Errors(), 1)
	s.True(messaging.IsKind(s.messenger.Errors()[0], messaging.UnknownLocalizationVariable))
	s.Equal(3, s.messenger.Errors()[0].SourceLineNumbers.LineNumber)
}

func (s *ResolveFieldsSuite) TestAllowUnresolvedVariables() {
	p := s.symbol(symbols.PropertySymbolDefinition, "P", 1)
	s.Require().NoError(p.Set(int(symbols.PropertyValue), "!(loc.Missing)"))

	cmd := s.command(s.resolver(nil), nil)
	cmd.AllowUnresolvedVariables = true
	cmd.Execute()
	s.False(s.messenger.EncounteredError())
}

func (s *ResolveFieldsSuite) TestExternalPaths() {
	readme := s.symbol(symbols.FileSymbolDefinition, "readme", 10)
	s.Require().NoError(symbols.File{Symbol: readme}.SetSource(symbols.NewExternalPath(`SourceDir\!(loc.Dir)\readme.txt`)))
	missing := s.symbol(symbols.FileSymbolDefinition, "missing", 11)
	s.Require().NoError(symbols.File{Symbol: missing}.SetSource(symbols.NewExternalPath(`nope.txt`)))

	cmd := s.command(s.resolver(map[string]string{"Dir": "v2"}), nil)
	cmd.Execute()

	src, ok := symbols.File{Symbol: readme}.Source()
	s.Require().True(ok)
	s.Equal(filepath.Join(s.payload, "v2", "readme.txt"), src.Path)

	src, _ = symbols.File{Symbol: missing}.Source()
	s.Equal("nope.txt", src.Path)
	s.Require().Len(s.messenger.Errors(), 1)
	s.True(messaging.IsKind(s.messenger.Errors()[0], messaging.FileNotFound))
	s.Equal(11, s.messenger.Errors()[0].SourceLineNumbers.LineNumber)
}

func (s *ResolveFieldsSuite) TestResolverExtensionFallback() {
	extra := filepath.Join(s.dir, "elsewhere.dll")
	writeFile(s.T(), extra, "dll")
	binary := s.symbol(symbols.BinarySymbolDefinition, "CA", 1)
	s.Require().NoError(binary.Set(int(symbols.BinaryData), symbols.NewExternalPath("ca.dll")))

	registry := extensibility.NewRegistry()
	extensibility.Register[ResolverExtension](registry, staticResolver{"ca.dll": extra})

	s.command(s.resolver(nil), registry).Execute()
	got, _ := binary.Field(int(symbols.BinaryData)).AsPath()
	s.Equal(extra, got.Path)
	s.False(s.messenger.EncounteredError())
}

func (s *ResolveFieldsSuite) TestCustomTableCells() {
	table := s.symbol(symbols.WixCustomTableSymbolDefinition, "Assets", 1)
	s.Require().NoError(table.Set(int(symbols.WixCustomTableColumnNames), "Id\tImage"))

	idCol := s.symbol(symbols.WixCustomTableColumnSymbolDefinition, "Assets/Id", 2)
	s.Require().NoError(idCol.Set(int(symbols.WixCustomTableColumnTableRef), "Assets"))
	s.Require().NoError(idCol.Set(int(symbols.WixCustomTableColumnName), "Id"))
	s.Require().NoError(idCol.Set(int(symbols.WixCustomTableColumnType), int64(symbols.FieldTypeString)))

	imgCol := s.symbol(symbols.WixCustomTableColumnSymbolDefinition, "Assets/Image", 3)
	s.Require().NoError(imgCol.Set(int(symbols.WixCustomTableColumnTableRef), "Assets"))
	s.Require().NoError(imgCol.Set(int(symbols.WixCustomTableColumnName), "Image"))
	s.Require().NoError(imgCol.Set(int(symbols.WixCustomTableColumnType), int64(symbols.FieldTypeObject)))

	cell := func(column, data string, line int) *symbols.Symbol {
		c := s.symbol(symbols.WixCustomTableCellSymbolDefinition, "", line)
		s.Require().NoError(c.Set(int(symbols.WixCustomTableCellTableRef), "Assets"))
		s.Require().NoError(c.Set(int(symbols.WixCustomTableCellColumnRef), column))
		s.Require().NoError(c.Set(int(symbols.WixCustomTableCellRowId), "row1"))
		s.Require().NoError(c.Set(int(symbols.WixCustomTableCellData), data))
		return c
	}
	idCell := cell("Id", "!(loc.Name)", 4)
	imgCell := cell("Image", "logo.bmp", 5)

	s.command(s.resolver(map[string]string{"Name": "Foo"}), nil).Execute()

	s.Equal("Foo", symbols.WixCustomTableCell{Symbol: idCell}.Data())
	s.Equal(filepath.Join(s.payload, "logo.bmp"), symbols.WixCustomTableCell{Symbol: imgCell}.Data())
	s.False(s.messenger.EncounteredError())
}

func (s *ResolveFieldsSuite) TestEmbeddedPathsAreExtracted() {
	lib := filepath.Join(s.dir, "ui.wixlib")
	s.Require().NoError(wixoutput.Create(lib, symbols.NewIntermediate(symbols.LevelCompiled), map[int]string{
		0: filepath.Join(s.payload, "logo.bmp"),
		1: filepath.Join(s.payload, "readme.txt"),
	}))
	uri, err := wixoutput.URIFromPath(lib)
	s.Require().NoError(err)

	a := s.symbol(symbols.BinarySymbolDefinition, "A", 1)
	s.Require().NoError(a.Set(int(symbols.BinaryData), symbols.NewEmbeddedPath(uri, 1)))
	b := s.symbol(symbols.IconSymbolDefinition, "B", 2)
	s.Require().NoError(b.Set(int(symbols.IconData), symbols.NewEmbeddedPath(uri, 1)))

	cmd := s.command(s.resolver(nil), nil)
	cmd.Execute()

	want := EmbeddedFilePath(uri, 1, filepath.Join(s.dir, "obj"))
	gotA, _ := a.Field(int(symbols.BinaryData)).AsPath()
	gotB, _ := b.Field(int(symbols.IconData)).AsPath()
	s.Equal(symbols.NewExternalPath(want), gotA)
	s.Equal(symbols.NewExternalPath(want), gotB)
	s.Equal(1, cmd.ExtractEmbeddedFiles.Len())

	extract := &ExtractEmbeddedFilesCommand{Messaging: s.messenger, FilesWithEmbeddedFiles: cmd.ExtractEmbeddedFiles}
	extract.Execute()
	s.Equal([]string{want}, extract.ExtractedFiles)
	data, err := os.ReadFile(want)
	s.Require().NoError(err)
	s.Equal("readme", string(data))
}

func (s *ResolveFieldsSuite) TestPatchUnsticksChangedEmbeddedPath() {
	uri := "file:///old/product.wixpdb"
	changed := s.symbol(symbols.FileSymbolDefinition, "changed", 1)
	field := changed.Field(int(symbols.FileSource))
	s.Require().NoError(field.Set(symbols.NewEmbeddedPath(uri, 0)))
	s.Require().NoError(field.SetBaseline(symbols.NewExternalPath(`!(loc.Dir)\readme.txt`)))

	defaulted := s.symbol(symbols.FileSymbolDefinition, "defaulted", 2)
	s.Require().NoError(defaulted.Field(int(symbols.FileSource)).Set(symbols.NewEmbeddedPath(uri, 1)))
	s.Require().NoError(defaulted.Field(int(symbols.FileSource)).SetBaseline(symbols.NewExternalPath(`!(loc.Other=v2)\readme.txt`)))

	cmd := s.command(s.resolver(map[string]string{"Dir": "v2"}), nil)
	cmd.BuildingPatch = true
	cmd.Execute()

	got, _ := field.AsPath()
	s.Equal(filepath.Join(s.payload, "v2", "readme.txt"), got.Path)

	got, _ = defaulted.Field(int(symbols.FileSource)).AsPath()
	s.Equal(EmbeddedFilePath(uri, 1, filepath.Join(s.dir, "obj")), got.Path, "a default value must not unstick")
	s.Equal(1, cmd.ExtractEmbeddedFiles.Len())
}

func TestEmbeddedFilePathIsDeterministic(t *testing.T) {
	a := EmbeddedFilePath("file:///a.wixlib", 3, "obj")
	assert.Equal(t, a, EmbeddedFilePath("file:///a.wixlib", 3, "obj"))
	assert.NotEqual(t, a, EmbeddedFilePath("file:///b.wixlib", 3, "obj"))
	assert.Equal(t, "3", filepath.Base(a))
	assert.Len(t, filepath.Base(filepath.Dir(a)), 16)
}

func TestExtractReportsUnreadableContainers(t *testing.T) {
	m := messaging.NewMessenger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	files := NewExtractEmbeddedFiles()
	files.Add("file:///definitely/missing.wixlib", 0, t.TempDir())

	cmd := &ExtractEmbeddedFilesCommand{Messaging: m, FilesWithEmbeddedFiles: files}
	cmd.Execute()
	require.Len(t, m.Errors(), 1)
	assert.True(t, messaging.IsKind(m.Errors()[0], messaging.EmbeddedFileExtractionFailed))
	assert.Empty(t, cmd.ExtractedFiles)
}
