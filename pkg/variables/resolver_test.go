// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

func newTestResolver(vars map[string]string) *Resolver {
	loc := symbols.NewLocalization("en-us")
	for id, value := range vars {
		loc.Variables[id] = &symbols.BindVariable{Id: id, Value: value}
	}
	return NewResolver(loc)
}

var sln = symbols.NewSourceLineNumber("product.wxs", 3)

func TestResolveVariables(t *testing.T) {
	r := newTestResolver(map[string]string{
		"ProductName": "Foo",
		"Edition":     "!(loc.ProductName) Pro",
		"Versioned":   "!(loc.ProductName) !(bind.property.ProductVersion)",
	})

	tests := []struct {
		name  string
		input string
		want  Resolution
	}{
		{"no tokens is idempotent", "plain text", Resolution{Value: "plain text"}},
		{"escape unescapes without substitution", "a !!(loc.ProductName) b", Resolution{Value: "a !(loc.ProductName) b", UpdatedValue: true}},
		{"recursive loc", "!(loc.Edition)", Resolution{Value: "Foo Pro", UpdatedValue: true}},
		{"bind is delayed", "v!(bind.property.ProductVersion)", Resolution{Value: "v!(bind.property.ProductVersion)", DelayedResolve: true}},
		{"delayed through loc", "!(loc.Versioned)", Resolution{Value: "Foo !(bind.property.ProductVersion)", UpdatedValue: true, DelayedResolve: true}},
		{"default used", "!(loc.Missing=Bar)", Resolution{Value: "Bar", UpdatedValue: true, IsDefault: true}},
		{"default ignored when known", "!(loc.ProductName=Bar)", Resolution{Value: "Foo", UpdatedValue: true}},
		{"not a variable namespace", "!(env.PATH) !(nope)", Resolution{Value: "!(env.PATH) !(nope)"}},
		{"bindpath left alone", "!(bindpath.payload)\\a.txt", Resolution{Value: "!(bindpath.payload)\\a.txt"}},
		{"unterminated", "x !(loc.ProductName", Resolution{Value: "x !(loc.ProductName"}},
		{"adjacent tokens", "!(loc.ProductName)!(loc.ProductName)", Resolution{Value: "FooFoo", UpdatedValue: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.ResolveVariables(sln, tc.input, true)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnknownVariable(t *testing.T) {
	r := newTestResolver(nil)

	_, err := r.ResolveVariables(sln, "!(loc.Missing)", true)
	require.Error(t, err)
	assert.True(t, messaging.IsKind(err, messaging.UnknownLocalizationVariable))
	assert.ErrorContains(t, err, "Missing")
	assert.ErrorContains(t, err, "product.wxs(3)")

	got, err := r.ResolveVariables(sln, "!(loc.Missing)", false)
	require.NoError(t, err)
	assert.Equal(t, Resolution{Value: "!(loc.Missing)"}, got)

	_, err = r.ResolveVariables(sln, "!(wix.Missing)", true)
	assert.True(t, messaging.IsKind(err, messaging.UnknownWixVariable))
}

func TestCircularLocalization(t *testing.T) {
	r := newTestResolver(map[string]string{
		"A":    "!(loc.B)",
		"B":    "x !(loc.A)",
		"Self": "!(loc.Self)",
	})
	for _, input := range []string{"!(loc.A)", "!(loc.Self)"} {
		_, err := r.ResolveVariables(sln, input, false)
		assert.True(t, messaging.IsKind(err, messaging.CircularLocalizationReference), input)
	}

	// repeated, non circular references are fine
	r = newTestResolver(map[string]string{"A": "a", "B": "!(loc.A)!(loc.A)"})
	got, err := r.ResolveVariables(sln, "!(loc.B)-!(loc.A)", true)
	require.NoError(t, err)
	assert.Equal(t, "aa-a", got.Value)
}

func TestWixVariables(t *testing.T) {
	r := newTestResolver(nil)
	require.NoError(t, r.AddVariable(sln, "Banner", "default.bmp", true))
	require.NoError(t, r.AddVariable(sln, "Banner", "custom.bmp", false))
	require.NoError(t, r.AddVariable(sln, "Banner", "ignored.bmp", true))

	err := r.AddVariable(sln, "Banner", "again.bmp", false)
	assert.True(t, messaging.IsKind(err, messaging.DuplicateWixVariable))

	got, err := r.ResolveVariables(sln, "!(wix.Banner)", true)
	require.NoError(t, err)
	assert.Equal(t, "custom.bmp", got.Value)
	assert.Equal(t, 1, r.VariableCount())
}

func TestAddWixVariablesFromIntermediate(t *testing.T) {
	i := symbols.NewIntermediate(symbols.LevelLinked)
	section := i.AddSection(symbols.NewSection("", symbols.SectionTypePackage))
	v := section.AddSymbol(symbols.WixVariableSymbolDefinition.NewSymbol(sln, "Dialog"))
	require.NoError(t, v.Set(int(symbols.WixVariableValue), "dlg.bmp"))

	r := newTestResolver(nil)
	require.NoError(t, r.AddWixVariables(i))
	got, err := r.ResolveVariables(sln, "!(wix.Dialog)", true)
	require.NoError(t, err)
	assert.Equal(t, "dlg.bmp", got.Value)
}

func TestResolveBindVariables(t *testing.T) {
	r := newTestResolver(nil)
	cache := map[string]string{
		"property.ProductVersion": "1.2.3",
		"fileversion.app":         "4.5.6",
	}

	got, err := r.ResolveBindVariables(sln, "v!(bind.property.ProductVersion) !(bind.FileVersion.app) !(loc.X)", cache, true)
	require.NoError(t, err)
	assert.Equal(t, Resolution{Value: "v1.2.3 4.5.6 !(loc.X)", UpdatedValue: true}, got)

	_, err = r.ResolveBindVariables(sln, "!(bind.fileSize.nope)", cache, true)
	assert.True(t, messaging.IsKind(err, messaging.UnresolvedBindReference))

	got, err = r.ResolveBindVariables(sln, "!(bind.fileSize.nope)", cache, false)
	require.NoError(t, err)
	assert.True(t, got.DelayedResolve)
	assert.False(t, got.UpdatedValue)
}

func TestHasReference(t *testing.T) {
	assert.True(t, HasReference("!(bindpath.x)\\a"))
	assert.True(t, HasReference("a !(loc.B)"))
	assert.False(t, HasReference("a !!(loc.B)"))
	assert.False(t, HasReference("C:\\plain"))
}

func TestBindPathReference(t *testing.T) {
	name, rest, ok := BindPathReference("!(bindpath.payload)\\bin\\a.dll")
	require.True(t, ok)
	assert.Equal(t, "payload", name)
	assert.Equal(t, "\\bin\\a.dll", rest)

	_, _, ok = BindPathReference("payload\\a.dll")
	assert.False(t, ok)
}
