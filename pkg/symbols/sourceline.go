// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"fmt"
	"strings"
)

// SourceLineNumber is the provenance of a symbol: the authored file and line,
// and for included or preprocessed content the location that pulled it in.
type SourceLineNumber struct {
	FileName   string            `json:"file"`
	LineNumber int               `json:"line,omitempty"`
	Parent     *SourceLineNumber `json:"parent,omitempty"`
}

func NewSourceLineNumber(fileName string, line int) *SourceLineNumber {
	return &SourceLineNumber{FileName: fileName, LineNumber: line}
}

// String renders the innermost location, e.g. "product.wxs(12)".
func (s *SourceLineNumber) String() string {
	if s == nil {
		return ""
	}
	if s.LineNumber <= 0 {
		return s.FileName
	}
	return fmt.Sprintf("%s(%d)", s.FileName, s.LineNumber)
}

// Chain renders the whole include chain, innermost first.
func (s *SourceLineNumber) Chain() string {
	var parts []string
	for cur := s; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.String())
	}
	return strings.Join(parts, " <- ")
}
