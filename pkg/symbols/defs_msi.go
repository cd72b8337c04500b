// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

type PropertyField int

const (
	PropertyValue PropertyField = iota
	propertyFieldCount
)

var PropertySymbolDefinition = newDefinition(SymbolDefinitionTypeProperty, "Property", []FieldDefinition{
	PropertyValue: {Name: "Value", Type: FieldTypeString},
})

type Property struct{ *Symbol }

func (p Property) Value() string { return fieldAt(p.Symbol, PropertyValue).AsString() }
func (p Property) SetValue(v string) error { return fieldAt(p.Symbol, PropertyValue).Set(v) }

type DirectoryField int

const (
	DirectoryParentDirectoryRef DirectoryField = iota
	DirectoryName
	DirectoryShortName
	DirectoryComponentGuidGenerationSeed
	directoryFieldCount
)

var DirectorySymbolDefinition = newDefinition(SymbolDefinitionTypeDirectory, "Directory", []FieldDefinition{
	DirectoryParentDirectoryRef:          {Name: "ParentDirectoryRef", Type: FieldTypeString},
	DirectoryName:                        {Name: "Name", Type: FieldTypeString},
	DirectoryShortName:                   {Name: "ShortName", Type: FieldTypeString},
	DirectoryComponentGuidGenerationSeed: {Name: "ComponentGuidGenerationSeed", Type: FieldTypeString},
})

type Directory struct{ *Symbol }

func (d Directory) ParentDirectoryRef() string {
	return fieldAt(d.Symbol, DirectoryParentDirectoryRef).AsString()
}
func (d Directory) Name() string { return fieldAt(d.Symbol, DirectoryName).AsString() }

type ComponentField int

const (
	ComponentComponentId ComponentField = iota
	ComponentDirectoryRef
	ComponentCondition
	ComponentKeyPath
	ComponentAttributes
	componentFieldCount
)

var ComponentSymbolDefinition = newDefinition(SymbolDefinitionTypeComponent, "Component", []FieldDefinition{
	ComponentComponentId:  {Name: "ComponentId", Type: FieldTypeString},
	ComponentDirectoryRef: {Name: "DirectoryRef", Type: FieldTypeString},
	ComponentCondition:    {Name: "Condition", Type: FieldTypeString},
	ComponentKeyPath:      {Name: "KeyPath", Type: FieldTypeString},
	ComponentAttributes:   {Name: "Attributes", Type: FieldTypeNumber},
})

type Component struct{ *Symbol }

func (c Component) ComponentId() string { return fieldAt(c.Symbol, ComponentComponentId).AsString() }
func (c Component) DirectoryRef() string { return fieldAt(c.Symbol, ComponentDirectoryRef).AsString() }
func (c Component) Condition() string { return fieldAt(c.Symbol, ComponentCondition).AsString() }
func (c Component) KeyPath() string { return fieldAt(c.Symbol, ComponentKeyPath).AsString() }

type FileField int

const (
	FileComponentRef FileField = iota
	FileName
	FileShortName
	FileFileSize
	FileVersion
	FileLanguage
	FileAttributes
	FileDirectoryRef
	FileDiskId
	FileSource
	FilePatchGroup
	FileSequence
	fileFieldCount
)

var FileSymbolDefinition = newDefinition(SymbolDefinitionTypeFile, "File", []FieldDefinition{
	FileComponentRef: {Name: "ComponentRef", Type: FieldTypeString},
	FileName:         {Name: "Name", Type: FieldTypeString},
	FileShortName:    {Name: "ShortName", Type: FieldTypeString},
	FileFileSize:     {Name: "FileSize", Type: FieldTypeNumber},
	FileVersion:      {Name: "Version", Type: FieldTypeString},
	FileLanguage:     {Name: "Language", Type: FieldTypeString},
	FileAttributes:   {Name: "Attributes", Type: FieldTypeNumber},
	FileDirectoryRef: {Name: "DirectoryRef", Type: FieldTypeString},
	FileDiskId:       {Name: "DiskId", Type: FieldTypeNumber},
	FileSource:       {Name: "Source", Type: FieldTypePath},
	FilePatchGroup:   {Name: "PatchGroup", Type: FieldTypeNumber},
	FileSequence:     {Name: "Sequence", Type: FieldTypeNumber},
})

// File attribute bits
const (
	FileAttributeReadOnly   = 0x1
	FileAttributeHidden     = 0x2
	FileAttributeSystem     = 0x4
	FileAttributeVital      = 0x200
	FileAttributeCompressed = 0x4000
)

type File struct{ *Symbol }

func (f File) ComponentRef() string { return fieldAt(f.Symbol, FileComponentRef).AsString() }
func (f File) Name() string { return fieldAt(f.Symbol, FileName).AsString() }
func (f File) DirectoryRef() string { return fieldAt(f.Symbol, FileDirectoryRef).AsString() }
func (f File) Version() string { return fieldAt(f.Symbol, FileVersion).AsString() }
func (f File) Language() string { return fieldAt(f.Symbol, FileLanguage).AsString() }

func (f File) FileSize() (int64, bool) { return fieldAt(f.Symbol, FileFileSize).AsNumber() }
func (f File) DiskId() (int64, bool) { return fieldAt(f.Symbol, FileDiskId).AsNumber() }

func (f File) Source() (PathValue, bool) { return fieldAt(f.Symbol, FileSource).AsPath() }
func (f File) SetSource(p PathValue) error {
	return fieldAt(f.Symbol, FileSource).Set(p)
}

func (f File) SetFileSize(n int64) error { return fieldAt(f.Symbol, FileFileSize).Set(n) }

type MediaField int

const (
	MediaDiskId MediaField = iota
	MediaLastSequence
	MediaDiskPrompt
	MediaCabinet
	MediaVolumeLabel
	MediaSource
	mediaFieldCount
)

var MediaSymbolDefinition = newDefinition(SymbolDefinitionTypeMedia, "Media", []FieldDefinition{
	MediaDiskId:       {Name: "DiskId", Type: FieldTypeNumber},
	MediaLastSequence: {Name: "LastSequence", Type: FieldTypeNumber},
	MediaDiskPrompt:   {Name: "DiskPrompt", Type: FieldTypeString},
	MediaCabinet:      {Name: "Cabinet", Type: FieldTypeString},
	MediaVolumeLabel:  {Name: "VolumeLabel", Type: FieldTypeString},
	MediaSource:       {Name: "Source", Type: FieldTypeString},
})

type Media struct{ *Symbol }

func (m Media) DiskId() (int64, bool) { return fieldAt(m.Symbol, MediaDiskId).AsNumber() }
func (m Media) Cabinet() string { return fieldAt(m.Symbol, MediaCabinet).AsString() }

type BinaryField int

const (
	BinaryData BinaryField = iota
	binaryFieldCount
)

var BinarySymbolDefinition = newDefinition(SymbolDefinitionTypeBinary, "Binary", []FieldDefinition{
	BinaryData: {Name: "Data", Type: FieldTypePath},
})

type IconField int

const (
	IconData IconField = iota
	iconFieldCount
)

var IconSymbolDefinition = newDefinition(SymbolDefinitionTypeIcon, "Icon", []FieldDefinition{
	IconData: {Name: "Data", Type: FieldTypePath},
})

type WixVariableField int

const (
	WixVariableValue WixVariableField = iota
	WixVariableOverridable
	wixVariableFieldCount
)

var WixVariableSymbolDefinition = newDefinition(SymbolDefinitionTypeWixVariable, "WixVariable", []FieldDefinition{
	WixVariableValue:       {Name: "Value", Type: FieldTypeString},
	WixVariableOverridable: {Name: "Overridable", Type: FieldTypeNumber},
})

type WixVariable struct{ *Symbol }

func (w WixVariable) Value() string { return fieldAt(w.Symbol, WixVariableValue).AsString() }
func (w WixVariable) Overridable() bool { return fieldAt(w.Symbol, WixVariableOverridable).AsBool() }
