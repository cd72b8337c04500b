// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package localization

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

func TestParseFile(t *testing.T) {
	loc, err := ParseFile(filepath.Join("testdata", "en-us.wxl"))
	require.NoError(t, err)

	assert.Equal(t, "en-us", loc.Culture)
	assert.Equal(t, 1252, loc.Codepage)
	assert.Equal(t, 1033, loc.Language)
	require.Len(t, loc.Variables, 3)
	assert.Equal(t, "!(loc.ProductName) Pro", loc.Variables["Edition"].Value)

	banner := loc.Variables["Banner"]
	assert.Equal(t, "default banner", banner.Value)
	assert.True(t, banner.Overridable)
	assert.Equal(t, 5, banner.SourceLineNumbers.LineNumber)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := map[string]string{
		"missing id":       `<WixLocalization xmlns="` + Namespace + `"><String Value="x"/></WixLocalization>`,
		"unknown element":  `<WixLocalization xmlns="` + Namespace + `"><Text Id="a"/></WixLocalization>`,
		"bad overridable":  `<WixLocalization xmlns="` + Namespace + `"><String Id="a" Overridable="maybe"/></WixLocalization>`,
		"wrong namespace":  `<WixLocalization><String Id="a"/></WixLocalization>`,
		"duplicate string": `<WixLocalization xmlns="` + Namespace + `"><String Id="a" Value="1"/><String Id="a" Value="2"/></WixLocalization>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc), name+".wxl")
			require.Error(t, err)
			_, ok := messaging.KindOf(err)
			assert.True(t, ok, "expected a diagnostic, got %v", err)
		})
	}
}

func TestMerge(t *testing.T) {
	a := symbols.NewLocalization("en-us")
	a.Variables["Banner"] = &symbols.BindVariable{Id: "Banner", Value: "a", Overridable: true}
	a.Variables["Name"] = &symbols.BindVariable{Id: "Name", Value: "Foo"}

	b := symbols.NewLocalization("en-us")
	b.Variables["Banner"] = &symbols.BindVariable{Id: "Banner", Value: "b"}

	merged, err := Merge("en-us", a, b)
	require.NoError(t, err)
	assert.Equal(t, "b", merged.Variables["Banner"].Value)
	assert.Equal(t, "Foo", merged.Variables["Name"].Value)

	c := symbols.NewLocalization("en-us")
	c.Variables["Name"] = &symbols.BindVariable{Id: "Name", Value: "Bar"}
	_, err = Merge("en-us", a, c)
	assert.True(t, messaging.IsKind(err, messaging.DuplicateLocalizationIdentifier))
}

func TestForCultureFallsBackToNeutral(t *testing.T) {
	enUS, err := ParseFile(filepath.Join("testdata", "en-us.wxl"))
	require.NoError(t, err)
	neutral, err := ParseFile(filepath.Join("testdata", "neutral.wxl"))
	require.NoError(t, err)

	merged, err := ForCulture("EN-US", []*symbols.Localization{neutral, enUS})
	require.NoError(t, err)
	assert.Equal(t, "default banner", merged.Variables["Banner"].Value)
	assert.Equal(t, "https://example.invalid/support", merged.Variables["Support"].Value)
	assert.Equal(t, 1252, merged.Codepage)
}

func TestParseCodepage(t *testing.T) {
	cp, err := ParseCodepage("UTF-8")
	require.NoError(t, err)
	assert.Equal(t, 65001, cp)
	_, err = ParseCodepage("klingon")
	assert.Error(t, err)
}
