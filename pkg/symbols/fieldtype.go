// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"fmt"
	"strings"
)

type FieldType int

const (
	FieldTypeString FieldType = iota
	FieldTypeNumber
	FieldTypePath
	FieldTypeObject
)

var fieldTypeNames = [...]string{
	FieldTypeString: "string",
	FieldTypeNumber: "number",
	FieldTypePath:   "path",
	FieldTypeObject: "object",
}

func (t FieldType) String() string {
	if t < 0 || int(t) >= len(fieldTypeNames) {
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
	return fieldTypeNames[t]
}

func ParseFieldType(s string) (FieldType, error) {
	for i, name := range fieldTypeNames {
		if strings.EqualFold(name, s) {
			return FieldType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field type %q", s)
}

// FieldDefinition is one column of a symbol definition.
type FieldDefinition struct {
	Name string
	Type FieldType
}
