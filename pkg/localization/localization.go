// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package localization loads .wxl localization files and merges them into
// the per-culture variable tables the variable resolver reads.
package localization

import (
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

const Namespace = "http://wixtoolset.org/schemas/v4/wxl"

//go:embed wxl.xsd
var schemaFS embed.FS

var loadSchema = sync.OnceValues(func() (*xsd.Schema, error) {
	return xsd.Load(schemaFS, "wxl.xsd")
})

type wxlString struct {
	Id          string  `xml:"Id,attr"`
	Value       *string `xml:"Value,attr"`
	Overridable string  `xml:"Overridable,attr"`
	Text        string  `xml:",chardata"`
}

func ParseFile(path string) (*symbols.Localization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse validates and decodes one WixLocalization document. name is used as
// the source file of every variable.
func Parse(r io.Reader, name string) (*symbols.Localization, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("loading localization schema: %w", err)
	}
	if err := schema.Validate(bytes.NewReader(data)); err != nil {
		return nil, validationError(name, err)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var loc *symbols.Localization
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, messaging.Wrap(messaging.InvalidLocalizationFile, symbols.NewSourceLineNumber(name, 0), err, "malformed localization file")
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		line, _ := dec.InputPos()
		sln := symbols.NewSourceLineNumber(name, line)

		switch start.Name.Local {
		case "WixLocalization":
			loc, err = newLocalization(start, sln)
			if err != nil {
				return nil, err
			}
		case "String":
			var s wxlString
			if err := dec.DecodeElement(&s, &start); err != nil {
				return nil, messaging.Wrap(messaging.InvalidLocalizationFile, sln, err, "malformed String element")
			}
			if err := add(loc, &symbols.BindVariable{
				SourceLineNumbers: sln,
				Id:                s.Id,
				Value:             lo.FromPtrOr(s.Value, strings.TrimSpace(s.Text)),
				Overridable:       s.Overridable == "yes",
			}); err != nil {
				return nil, err
			}
		}
	}
	if loc == nil {
		return nil, messaging.New(messaging.InvalidLocalizationFile, symbols.NewSourceLineNumber(name, 0), "no WixLocalization element")
	}
	return loc, nil
}

func newLocalization(start xml.StartElement, sln *symbols.SourceLineNumber) (*symbols.Localization, error) {
	loc := symbols.NewLocalization("")
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "Culture":
			loc.Culture = strings.ToLower(attr.Value)
		case "Codepage":
			cp, err := ParseCodepage(attr.Value)
			if err != nil {
				return nil, messaging.Wrap(messaging.InvalidLocalizationFile, sln, err, "invalid Codepage")
			}
			loc.Codepage = cp
		case "Language":
			lang, err := strconv.Atoi(attr.Value)
			if err != nil {
				return nil, messaging.Wrap(messaging.InvalidLocalizationFile, sln, err, "invalid Language")
			}
			loc.Language = lang
		}
	}
	return loc, nil
}

var namedCodepages = map[string]int{
	"utf-8":        65001,
	"windows-1252": 1252,
	"us-ascii":     20127,
}

func ParseCodepage(s string) (int, error) {
	if cp, ok := namedCodepages[strings.ToLower(s)]; ok {
		return cp, nil
	}
	cp, err := strconv.Atoi(s)
	if err != nil || cp < 0 {
		return 0, fmt.Errorf("unknown codepage %q", s)
	}
	return cp, nil
}

func validationError(name string, err error) error {
	vs, ok := xsderrors.AsValidations(err)
	if !ok || len(vs) == 0 {
		return messaging.Wrap(messaging.InvalidLocalizationFile, symbols.NewSourceLineNumber(name, 0), err, "localization file failed schema validation")
	}
	first := vs[0]
	return messaging.Wrap(messaging.InvalidLocalizationFile, symbols.NewSourceLineNumber(name, first.Line), err,
		"localization file failed schema validation (%s): %s", first.Code, first.Message)
}

// add defines v in loc, applying the overridable rules of Merge.
func add(loc *symbols.Localization, v *symbols.BindVariable) error {
	existing, ok := loc.Variables[v.Id]
	if !ok || existing.Overridable {
		loc.Variables[v.Id] = v
		return nil
	}
	if v.Overridable {
		return nil
	}
	return messaging.New(messaging.DuplicateLocalizationIdentifier, v.SourceLineNumbers,
		"localization string %q is already defined at %s", v.Id, existing.SourceLineNumbers)
}

// Merge folds localizations of one culture into a single variable table, in
// order. A later definition replaces an overridable one, a fixed definition
// defined twice is an error.
func Merge(culture string, locs ...*symbols.Localization) (*symbols.Localization, error) {
	merged := symbols.NewLocalization(culture)
	for _, loc := range locs {
		if merged.Codepage == 0 {
			merged.Codepage = loc.Codepage
		}
		if merged.Language == 0 {
			merged.Language = loc.Language
		}
		for _, v := range loc.SortedVariables() {
			if err := add(merged, v); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}

// ForCulture merges the localizations matching culture, then the neutral ones
// (no culture) as fallbacks.
func ForCulture(culture string, locs []*symbols.Localization) (*symbols.Localization, error) {
	culture = strings.ToLower(culture)
	exact := lo.Filter(locs, func(l *symbols.Localization, _ int) bool { return l.Culture == culture })
	neutral := lo.Filter(locs, func(l *symbols.Localization, _ int) bool { return l.Culture == "" })

	merged, err := Merge(culture, exact...)
	if err != nil {
		return nil, err
	}
	for _, l := range neutral {
		for _, v := range l.SortedVariables() {
			if _, ok := merged.Variables[v.Id]; !ok {
				merged.Variables[v.Id] = v
			}
		}
	}
	return merged, nil
}
