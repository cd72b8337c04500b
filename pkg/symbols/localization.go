// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"maps"
	"slices"
)

// BindVariable is a named string value, keyed case-sensitively by Id.
// Its value may reference other localization or bind variables.
type BindVariable struct {
	SourceLineNumbers *SourceLineNumber `json:"sourceLineNumbers,omitempty"`
	Id                string            `json:"id"`
	Value             string            `json:"value"`
	Overridable       bool              `json:"overridable,omitempty"`
}

// Localization is the variable table of one culture.
type Localization struct {
	Culture   string                   `json:"culture,omitempty"`
	Codepage  int                      `json:"codepage,omitempty"`
	Language  int                      `json:"language,omitempty"`
	Variables map[string]*BindVariable `json:"-"`
}

func NewLocalization(culture string) *Localization {
	return &Localization{Culture: culture, Variables: map[string]*BindVariable{}}
}

// SortedVariables returns the variables ordered by id.
func (l *Localization) SortedVariables() []*BindVariable {
	ids := slices.Sorted(maps.Keys(l.Variables))
	out := make([]*BindVariable, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.Variables[id])
	}
	return out
}
