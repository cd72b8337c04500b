// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

type WixBundlePayloadField int

const (
	WixBundlePayloadName WixBundlePayloadField = iota
	WixBundlePayloadSourceFile
	WixBundlePayloadDownloadUrl
	WixBundlePayloadCompressed
	WixBundlePayloadHash
	WixBundlePayloadFileSize
	WixBundlePayloadVersion
	WixBundlePayloadDisplayName
	WixBundlePayloadDescription
	WixBundlePayloadContainerRef
	wixBundlePayloadFieldCount
)

var WixBundlePayloadSymbolDefinition = newDefinition(SymbolDefinitionTypeWixBundlePayload, "WixBundlePayload", []FieldDefinition{
	WixBundlePayloadName:         {Name: "Name", Type: FieldTypeString},
	WixBundlePayloadSourceFile:   {Name: "SourceFile", Type: FieldTypePath},
	WixBundlePayloadDownloadUrl:  {Name: "DownloadUrl", Type: FieldTypeString},
	WixBundlePayloadCompressed:   {Name: "Compressed", Type: FieldTypeNumber},
	WixBundlePayloadHash:         {Name: "Hash", Type: FieldTypeString},
	WixBundlePayloadFileSize:     {Name: "FileSize", Type: FieldTypeNumber},
	WixBundlePayloadVersion:      {Name: "Version", Type: FieldTypeString},
	WixBundlePayloadDisplayName:  {Name: "DisplayName", Type: FieldTypeString},
	WixBundlePayloadDescription:  {Name: "Description", Type: FieldTypeString},
	WixBundlePayloadContainerRef: {Name: "ContainerRef", Type: FieldTypeString},
})

type WixBundlePayload struct{ *Symbol }

func (p WixBundlePayload) Name() string { return fieldAt(p.Symbol, WixBundlePayloadName).AsString() }

func (p WixBundlePayload) SourceFile() (PathValue, bool) {
	return fieldAt(p.Symbol, WixBundlePayloadSourceFile).AsPath()
}

func (p WixBundlePayload) Compressed() bool {
	return fieldAt(p.Symbol, WixBundlePayloadCompressed).AsBool()
}
