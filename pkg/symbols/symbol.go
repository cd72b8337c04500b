// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

var ErrIdAlreadyAssigned = errors.New("symbol id already assigned")

// SymbolDefinition declares the ordered, typed fields of one kind of symbol.
// Definitions are process-wide values and must not be modified.
type SymbolDefinition struct {
	Type             SymbolDefinitionType
	Name             string
	FieldDefinitions []FieldDefinition
}

// NewSymbol creates a symbol with one null field per field definition.
func (d *SymbolDefinition) NewSymbol(sln *SourceLineNumber, id string) *Symbol {
	return &Symbol{
		Definition:        d,
		SourceLineNumbers: sln,
		id:                id,
		fields: lo.Map(d.FieldDefinitions, func(fd FieldDefinition, _ int) *Field {
			return newField(fd)
		}),
	}
}

func (d *SymbolDefinition) FieldIndex(name string) (int, bool) {
	_, i, ok := lo.FindIndexOf(d.FieldDefinitions, func(fd FieldDefinition) bool {
		return fd.Name == name
	})
	return i, ok
}

// Symbol is one record of the intermediate model. Its field count and order
// always match Definition.FieldDefinitions.
type Symbol struct {
	Definition        *SymbolDefinition
	SourceLineNumbers *SourceLineNumber

	id     string
	fields []*Field
}

func (s *Symbol) Id() string { return s.id }

// SetId assigns the identifier; once set it cannot change.
func (s *Symbol) SetId(id string) error {
	if s.id != "" && s.id != id {
		return fmt.Errorf("%w: %s %q cannot become %q", ErrIdAlreadyAssigned, s.Definition.Name, s.id, id)
	}
	s.id = id
	return nil
}

func (s *Symbol) Fields() []*Field { return s.fields }

// Field returns the field at position i, panicking when out of range like a slice index.
func (s *Symbol) Field(i int) *Field { return s.fields[i] }

func (s *Symbol) FieldByName(name string) (*Field, bool) {
	i, ok := s.Definition.FieldIndex(name)
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// Set is shorthand for s.Field(i).Set(v).
func (s *Symbol) Set(i int, v any) error {
	return s.fields[i].Set(v)
}

func (s *Symbol) String() string {
	if s.id == "" {
		return s.Definition.Name
	}
	return fmt.Sprintf("%s:%s", s.Definition.Name, s.id)
}

// fieldAt reads a field by its definition's field enum.
func fieldAt[E ~int](s *Symbol, e E) *Field {
	return s.fields[int(e)]
}
