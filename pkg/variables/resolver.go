// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package variables

import (
	"maps"
	"slices"
	"strings"

	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

// Resolution is the outcome of resolving one string.
type Resolution struct {
	Value string
	// UpdatedValue is true iff Value differs from the input
	UpdatedValue bool
	// DelayedResolve is true when Value still holds bind references
	DelayedResolve bool
	// IsDefault is true when a token's default was used for an unknown variable
	IsDefault bool
}

// Resolver substitutes localization and wix variables. It is built once per
// culture and is not safe for concurrent use.
type Resolver struct {
	locVariables map[string]*symbols.BindVariable
	wixVariables map[string]*symbols.BindVariable
}

// NewResolver resolves loc variables from localization, which may be nil.
func NewResolver(localization *symbols.Localization) *Resolver {
	r := &Resolver{
		locVariables: map[string]*symbols.BindVariable{},
		wixVariables: map[string]*symbols.BindVariable{},
	}
	if localization != nil {
		for id, v := range localization.Variables {
			r.locVariables[id] = v
		}
	}
	return r
}

func (r *Resolver) VariableCount() int {
	return len(r.locVariables) + len(r.wixVariables)
}

// AddVariable defines a wix variable. A later definition replaces an
// overridable one; an overridable definition never replaces a fixed one;
// two fixed definitions conflict.
func (r *Resolver) AddVariable(sln *symbols.SourceLineNumber, name, value string, overridable bool) error {
	existing, ok := r.wixVariables[name]
	if ok && !existing.Overridable {
		if overridable {
			return nil
		}
		return messaging.New(messaging.DuplicateWixVariable, sln, "wix variable %q is already defined at %s", name, existing.SourceLineNumbers)
	}
	r.wixVariables[name] = &symbols.BindVariable{SourceLineNumbers: sln, Id: name, Value: value, Overridable: overridable}
	return nil
}

// AddWixVariables defines every WixVariable symbol of intermediate.
func (r *Resolver) AddWixVariables(intermediate *symbols.Intermediate) error {
	for _, section := range intermediate.Sections {
		for _, sym := range section.SymbolsOf(symbols.WixVariableSymbolDefinition) {
			v := symbols.WixVariable{Symbol: sym}
			if err := r.AddVariable(sym.SourceLineNumbers, sym.Id(), v.Value(), v.Overridable()); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveVariables substitutes !(loc.X) and !(wix.X) tokens in value and
// unescapes !!(...) tokens. !(bind.K.X) tokens are left for a later phase and
// flag the result as delayed. Unknown variables are an error when
// errorOnUnknown, otherwise they stay in place.
func (r *Resolver) ResolveVariables(sln *symbols.SourceLineNumber, value string, errorOnUnknown bool) (Resolution, error) {
	res, err := r.resolve(sln, value, errorOnUnknown, map[string]bool{})
	if err != nil {
		return Resolution{Value: value}, err
	}
	res.UpdatedValue = res.Value != value
	return res, nil
}

func (r *Resolver) resolve(sln *symbols.SourceLineNumber, value string, errorOnUnknown bool, visiting map[string]bool) (Resolution, error) {
	var res Resolution
	out, err := rewrite(value, func(t token) (string, error) {
		switch t.namespace {
		case NamespaceBind:
			res.DelayedResolve = true
			return t.text, nil
		case NamespaceLoc, NamespaceWix:
		default:
			return t.text, nil
		}

		table, unknownKind := r.locVariables, messaging.UnknownLocalizationVariable
		if t.namespace == NamespaceWix {
			table, unknownKind = r.wixVariables, messaging.UnknownWixVariable
		}

		v, ok := table[t.name]
		if !ok {
			if t.hasDefault {
				res.IsDefault = true
				return t.defaultValue, nil
			}
			if errorOnUnknown {
				return "", messaging.New(unknownKind, sln, "%s variable %q is not defined", t.namespace, t.name)
			}
			return t.text, nil
		}

		key := t.namespace + "." + t.name
		if visiting[key] {
			return "", messaging.New(messaging.CircularLocalizationReference, sln, "%s references itself through %s", key, strings.Join(visitOrder(visiting), ", "))
		}
		visiting[key] = true
		nested, err := r.resolve(sln, v.Value, errorOnUnknown, visiting)
		delete(visiting, key)
		if err != nil {
			return "", err
		}
		res.DelayedResolve = res.DelayedResolve || nested.DelayedResolve
		res.IsDefault = res.IsDefault || nested.IsDefault
		return nested.Value, nil
	})
	if err != nil {
		return Resolution{}, err
	}
	res.Value = out
	return res, nil
}

func visitOrder(visiting map[string]bool) []string {
	return slices.Sorted(maps.Keys(visiting))
}

// ResolveBindVariables substitutes !(bind.KIND.NAME) tokens from cache, keyed
// by "KIND.NAME" with a case-insensitive KIND. Other tokens are left alone.
func (r *Resolver) ResolveBindVariables(sln *symbols.SourceLineNumber, value string, cache map[string]string, errorOnUnknown bool) (Resolution, error) {
	var res Resolution
	out, err := rewrite(value, func(t token) (string, error) {
		if t.namespace != NamespaceBind {
			return t.text, nil
		}
		if v, ok := cache[BindCacheKey(t.name)]; ok {
			return v, nil
		}
		if t.hasDefault {
			res.IsDefault = true
			return t.defaultValue, nil
		}
		if errorOnUnknown {
			return "", messaging.New(messaging.UnresolvedBindReference, sln, "bind variable %q could not be resolved", t.name)
		}
		res.DelayedResolve = true
		return t.text, nil
	})
	if err != nil {
		return Resolution{Value: value}, err
	}
	res.Value = out
	res.UpdatedValue = out != value
	return res, nil
}

// BindCacheKey normalizes "KIND.NAME" so KIND matches case-insensitively.
func BindCacheKey(kindAndName string) string {
	kind, name, ok := strings.Cut(kindAndName, ".")
	if !ok {
		return kindAndName
	}
	return strings.ToLower(kind) + "." + name
}
