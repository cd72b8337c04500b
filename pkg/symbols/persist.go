// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"
)

var ErrInvalidIntermediate = errors.New("invalid intermediate")

type intermediateJSON struct {
	Id            string             `json:"id"`
	Level         string             `json:"level"`
	Sections      []sectionJSON      `json:"sections"`
	Localizations []localizationJSON `json:"localizations,omitempty"`
}

type sectionJSON struct {
	Id      string       `json:"id,omitempty"`
	Type    SectionType  `json:"type"`
	Symbols []symbolJSON `json:"symbols"`
}

type symbolJSON struct {
	Type              string            `json:"type"`
	Id                string            `json:"id,omitempty"`
	SourceLineNumbers *SourceLineNumber `json:"sourceLineNumbers,omitempty"`
	Fields            []json.RawMessage `json:"fields"`
	Previous          []json.RawMessage `json:"previous,omitempty"`
}

type localizationJSON struct {
	*Localization
	Variables []*BindVariable `json:"variables"`
}

var jsonNull = json.RawMessage("null")

// Save writes the intermediate in its persisted JSON form.
func (i *Intermediate) Save(w io.Writer) error {
	doc := intermediateJSON{
		Id:    i.Id,
		Level: i.Level.String(),
		Sections: lo.Map(i.Sections, func(s *Section, _ int) sectionJSON {
			return sectionJSON{Id: s.Id, Type: s.Type, Symbols: lo.Map(s.Symbols, func(sym *Symbol, _ int) symbolJSON {
				return encodeSymbol(sym)
			})}
		}),
		Localizations: lo.Map(i.Localizations, func(l *Localization, _ int) localizationJSON {
			return localizationJSON{Localization: l, Variables: l.SortedVariables()}
		}),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func encodeSymbol(sym *Symbol) symbolJSON {
	out := symbolJSON{
		Type:              sym.Definition.Name,
		Id:                sym.Id(),
		SourceLineNumbers: sym.SourceLineNumbers,
		Fields:            make([]json.RawMessage, len(sym.fields)),
	}

	hasPrevious := lo.SomeBy(sym.fields, func(f *Field) bool { return f.persistedPrevious() != nil })
	if hasPrevious {
		out.Previous = make([]json.RawMessage, len(sym.fields))
	}
	for idx, f := range sym.fields {
		out.Fields[idx] = encodeValue(f.data)
		if hasPrevious {
			out.Previous[idx] = encodeValue(f.persistedPrevious())
		}
	}
	return out
}

func encodeValue(v any) json.RawMessage {
	if v == nil {
		return jsonNull
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw
	}
	// strings, int64 and PathValue cannot fail to marshal
	raw, _ := json.Marshal(v)
	return raw
}

// Load reads an intermediate written by Save.
func Load(r io.Reader) (*Intermediate, error) {
	var doc intermediateJSON
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIntermediate, err)
	}

	level, err := ParseLevel(doc.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIntermediate, err)
	}

	out := &Intermediate{Id: doc.Id, Level: level}
	for _, sj := range doc.Sections {
		section := NewSection(sj.Id, sj.Type)
		for _, symj := range sj.Symbols {
			sym, err := decodeSymbol(symj)
			if err != nil {
				return nil, fmt.Errorf("%w: section %q: %w", ErrInvalidIntermediate, sj.Id, err)
			}
			section.AddSymbol(sym)
		}
		out.AddSection(section)
	}

	for _, lj := range doc.Localizations {
		if lj.Localization == nil {
			lj.Localization = &Localization{}
		}
		loc := lj.Localization
		loc.Variables = lo.SliceToMap(lj.Variables, func(v *BindVariable) (string, *BindVariable) {
			return v.Id, v
		})
		out.Localizations = append(out.Localizations, loc)
	}
	return out, nil
}

func decodeSymbol(symj symbolJSON) (*Symbol, error) {
	def, ok := DefinitionByName(symj.Type)
	if !ok {
		return nil, fmt.Errorf("unknown symbol type %q", symj.Type)
	}
	if len(symj.Fields) != len(def.FieldDefinitions) {
		return nil, fmt.Errorf("%s %q has %d fields, definition declares %d", def.Name, symj.Id, len(symj.Fields), len(def.FieldDefinitions))
	}
	if symj.Previous != nil && len(symj.Previous) != len(def.FieldDefinitions) {
		return nil, fmt.Errorf("%s %q has %d previous fields, definition declares %d", def.Name, symj.Id, len(symj.Previous), len(def.FieldDefinitions))
	}

	sym := def.NewSymbol(symj.SourceLineNumbers, symj.Id)
	for idx, f := range sym.fields {
		v, err := decodeValue(f.Type, symj.Fields[idx])
		if err != nil {
			return nil, fmt.Errorf("%s %q field %s: %w", def.Name, symj.Id, f.Name, err)
		}
		if err := f.Set(v); err != nil {
			return nil, err
		}
		if symj.Previous != nil {
			prev, err := decodeValue(f.Type, symj.Previous[idx])
			if err != nil {
				return nil, fmt.Errorf("%s %q previous %s: %w", def.Name, symj.Id, f.Name, err)
			}
			if err := f.SetBaseline(prev); err != nil {
				return nil, err
			}
		}
		// loading is not a modification
		f.previous = nil
		f.modified = false
	}
	return sym, nil
}

func decodeValue(t FieldType, raw json.RawMessage) (any, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, nil
	}

	switch t {
	case FieldTypeString:
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case FieldTypeNumber:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return n.Int64()
	case FieldTypePath:
		var p PathValue
		err := json.Unmarshal(raw, &p)
		return p, err
	case FieldTypeObject:
		return json.RawMessage(append([]byte(nil), raw...)), nil
	default:
		return nil, fmt.Errorf("unknown field type %s", t)
	}
}
