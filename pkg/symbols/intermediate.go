// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Level int

const (
	LevelNone Level = iota
	LevelCompiled
	LevelLinked
	LevelResolved
	LevelFullyBound
)

var levelNames = map[Level]string{
	LevelNone:       "",
	LevelCompiled:   "compiled",
	LevelLinked:     "linked",
	LevelResolved:   "resolved",
	LevelFullyBound: "fullyBound",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

func ParseLevel(s string) (Level, error) {
	l, ok := lo.FindKey(levelNames, s)
	if !ok {
		return LevelNone, fmt.Errorf("unknown intermediate level %q", s)
	}
	return l, nil
}

type SectionType string

const (
	SectionTypeFragment SectionType = "fragment"
	SectionTypePackage  SectionType = "package"
	SectionTypeModule   SectionType = "module"
	SectionTypePatch    SectionType = "patch"
	SectionTypeBundle   SectionType = "bundle"
)

type Section struct {
	Id      string
	Type    SectionType
	Symbols []*Symbol
}

func NewSection(id string, t SectionType) *Section {
	return &Section{Id: id, Type: t}
}

func (s *Section) AddSymbol(sym *Symbol) *Symbol {
	s.Symbols = append(s.Symbols, sym)
	return sym
}

// SymbolsOf returns the section's symbols of definition def, in order.
func (s *Section) SymbolsOf(def *SymbolDefinition) []*Symbol {
	return lo.Filter(s.Symbols, func(sym *Symbol, _ int) bool {
		return sym.Definition == def
	})
}

// Intermediate is one unit of the build pipeline: the sections produced by a
// compile, link or bind step, and the localizations that travel with them.
type Intermediate struct {
	Id            string
	Level         Level
	Sections      []*Section
	Localizations []*Localization
}

func NewIntermediate(level Level) *Intermediate {
	return &Intermediate{Id: uuid.NewString(), Level: level}
}

// UpdateLevel advances the intermediate; moving backwards is an error.
func (i *Intermediate) UpdateLevel(l Level) error {
	if l < i.Level {
		return fmt.Errorf("intermediate %s is already %s, cannot move back to %s", i.Id, i.Level, l)
	}
	i.Level = l
	return nil
}

func (i *Intermediate) AddSection(s *Section) *Section {
	i.Sections = append(i.Sections, s)
	return s
}

// AllSymbols flattens every section, keeping section and symbol order.
func (i *Intermediate) AllSymbols() []*Symbol {
	return lo.FlatMap(i.Sections, func(s *Section, _ int) []*Symbol {
		return s.Symbols
	})
}

func (i *Intermediate) LocalizationFor(culture string) (*Localization, bool) {
	return lo.Find(i.Localizations, func(l *Localization) bool {
		return l.Culture == culture
	})
}
