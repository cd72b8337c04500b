// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrFieldTypeMismatch = errors.New("field type mismatch")

// Field is one typed, nullable cell of a symbol. A nil data value is null.
//
// The runtime type of the data always matches Type:
// string for String, int64 for Number, PathValue for Path and
// json.RawMessage for Object.
//
// A field remembers two earlier values. PreviousData is what the field held
// before its last change in this build, so a resolution pass can be compared
// against the authored value. Baseline is the value recorded by a prior build,
// which patch builds consult.
type Field struct {
	Name string
	Type FieldType

	data     any
	previous any
	baseline any
	modified bool
}

func newField(def FieldDefinition) *Field {
	return &Field{Name: def.Name, Type: def.Type}
}

func (f *Field) Data() any         { return f.data }
func (f *Field) PreviousData() any { return f.previous }
func (f *Field) Baseline() any     { return f.baseline }
func (f *Field) Modified() bool    { return f.modified }
func (f *Field) IsNull() bool      { return f.data == nil }

// Set replaces the data, marking the field modified. nil clears it.
// When the value changes, the replaced one becomes PreviousData.
func (f *Field) Set(v any) error {
	normalized, err := f.normalize(v)
	if err != nil {
		return err
	}
	if !sameValue(f.data, normalized) {
		f.previous = f.data
		f.data = normalized
	}
	f.modified = true
	return nil
}

// SetBaseline records the value the field had in a prior build.
func (f *Field) SetBaseline(v any) error {
	normalized, err := f.normalize(v)
	if err != nil {
		return err
	}
	f.baseline = normalized
	return nil
}

// persistedPrevious is the earlier value written alongside the data: the
// value replaced in this build, else the prior build's.
func (f *Field) persistedPrevious() any {
	if f.previous != nil {
		return f.previous
	}
	return f.baseline
}

func sameValue(a, b any) bool {
	rawA, okA := a.(json.RawMessage)
	rawB, okB := b.(json.RawMessage)
	if okA || okB {
		return okA && okB && bytes.Equal(rawA, rawB)
	}
	return a == b
}

func (f *Field) normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	mismatch := func() error {
		return fmt.Errorf("%w: field %s is %s, got %T", ErrFieldTypeMismatch, f.Name, f.Type, v)
	}

	switch f.Type {
	case FieldTypeString:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch()
		}
		return s, nil
	case FieldTypeNumber:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case bool:
			if n {
				return int64(1), nil
			}
			return int64(0), nil
		default:
			return nil, mismatch()
		}
	case FieldTypePath:
		var p PathValue
		switch pv := v.(type) {
		case PathValue:
			p = pv
		case *PathValue:
			if pv == nil {
				return nil, nil
			}
			p = *pv
		default:
			return nil, mismatch()
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		return p, nil
	case FieldTypeObject:
		if raw, ok := v.(json.RawMessage); ok {
			return raw, nil
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		return json.RawMessage(raw), nil
	default:
		return nil, fmt.Errorf("field %s has unknown type %s", f.Name, f.Type)
	}
}

// AsString renders the data as a string whatever the field type. Null is "".
func (f *Field) AsString() string {
	switch d := f.data.(type) {
	case nil:
		return ""
	case string:
		return d
	case int64:
		return strconv.FormatInt(d, 10)
	case PathValue:
		return d.String()
	case json.RawMessage:
		return string(d)
	default:
		return fmt.Sprint(d)
	}
}

func (f *Field) AsNumber() (int64, bool) {
	n, ok := f.data.(int64)
	return n, ok
}

func (f *Field) AsBool() bool {
	n, ok := f.AsNumber()
	return ok && n != 0
}

func (f *Field) AsPath() (PathValue, bool) {
	p, ok := f.data.(PathValue)
	return p, ok
}

func (f *Field) AsObject() (json.RawMessage, bool) {
	raw, ok := f.data.(json.RawMessage)
	return raw, ok
}

func (f *Field) PreviousAsString() (string, bool) {
	s, ok := f.previous.(string)
	return s, ok
}

func (f *Field) PreviousAsPath() (PathValue, bool) {
	p, ok := f.previous.(PathValue)
	return p, ok
}

// BaselineAsPath returns the prior build's path value, if any.
func (f *Field) BaselineAsPath() (PathValue, bool) {
	p, ok := f.baseline.(PathValue)
	return p, ok
}
