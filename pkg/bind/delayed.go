// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bind

import (
	"os"
	"strconv"

	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
	"github.com/wixtoolset/wix-sub033/pkg/variables"
)

// DelayedField is a string field still holding !(bind.*) references.
type DelayedField struct {
	Symbol *symbols.Symbol
	Field  *symbols.Field
}

const (
	BindKindProperty     = "property"
	BindKindFileVersion  = "fileVersion"
	BindKindFileLanguage = "fileLanguage"
	BindKindFileSize     = "fileSize"
)

// BuildBindVariableCache collects the values !(bind.KIND.NAME) references can
// name once files are bound: every property, and the version, language and
// size of every file. Values still holding references are left out.
func BuildBindVariableCache(intermediate *symbols.Intermediate) map[string]string {
	cache := map[string]string{}
	put := func(kind, id, value string) {
		if id == "" || variables.HasReference(value) {
			return
		}
		cache[variables.BindCacheKey(kind+"."+id)] = value
	}

	for _, section := range intermediate.Sections {
		for _, sym := range section.Symbols {
			switch sym.Definition {
			case symbols.PropertySymbolDefinition:
				put(BindKindProperty, sym.Id(), symbols.Property{Symbol: sym}.Value())
			case symbols.FileSymbolDefinition:
				file := symbols.File{Symbol: sym}
				if v := file.Version(); v != "" {
					put(BindKindFileVersion, sym.Id(), v)
				}
				if l := file.Language(); l != "" {
					put(BindKindFileLanguage, sym.Id(), l)
				}
				if size, ok := fileSize(file); ok {
					put(BindKindFileSize, sym.Id(), strconv.FormatInt(size, 10))
				}
			}
		}
	}
	return cache
}

func fileSize(file symbols.File) (int64, bool) {
	if src, ok := file.Source(); ok && !src.Embed && src.Path != "" {
		if info, err := os.Stat(src.Path); err == nil && info.Mode().IsRegular() {
			return info.Size(), true
		}
	}
	return file.FileSize()
}

// ResolveDelayedFieldsCommand substitutes the bind references left by
// ResolveFieldsCommand. Properties are resolved first and fed back into the
// cache, so other fields can reference a property that itself was delayed.
type ResolveDelayedFieldsCommand struct {
	Messaging        *messaging.Messenger
	DelayedFields    []DelayedField
	VariableCache    map[string]string
	VariableResolver *variables.Resolver
}

func (c *ResolveDelayedFieldsCommand) Execute() {
	if c.VariableCache == nil {
		c.VariableCache = map[string]string{}
	}

	var rest []DelayedField
	for _, df := range c.DelayedFields {
		if df.Symbol.Definition != symbols.PropertySymbolDefinition {
			rest = append(rest, df)
			continue
		}
		if value, ok := c.resolve(df); ok {
			c.VariableCache[variables.BindCacheKey(BindKindProperty+"."+df.Symbol.Id())] = value
		}
	}

	for _, df := range rest {
		c.resolve(df)
	}
}

func (c *ResolveDelayedFieldsCommand) resolve(df DelayedField) (string, bool) {
	res, err := c.VariableResolver.ResolveBindVariables(df.Symbol.SourceLineNumbers, df.Field.AsString(), c.VariableCache, true)
	if err != nil {
		c.Messaging.Write(err)
		return "", false
	}
	if res.UpdatedValue {
		if err := df.Field.Set(res.Value); err != nil {
			c.Messaging.Write(err)
			return "", false
		}
	}
	return res.Value, true
}
