// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package variables

import "strings"

const (
	NamespaceLoc      = "loc"
	NamespaceWix      = "wix"
	NamespaceBind     = "bind"
	NamespaceBindPath = "bindpath"
)

// token is one !(namespace.name) or !(namespace.name=default) reference.
type token struct {
	namespace    string
	name         string
	defaultValue string
	hasDefault   bool
	// text is the token as authored, without any escape
	text string
}

func knownNamespace(ns string) bool {
	switch ns {
	case NamespaceLoc, NamespaceWix, NamespaceBind, NamespaceBindPath:
		return true
	}
	return false
}

// parseToken parses the text between "!(" and ")".
func parseToken(inner string) (token, bool) {
	ns, rest, ok := strings.Cut(inner, ".")
	if !ok || !knownNamespace(ns) || rest == "" {
		return token{}, false
	}
	t := token{namespace: ns, text: "!(" + inner + ")"}
	t.name, t.defaultValue, t.hasDefault = strings.Cut(rest, "=")
	if t.name == "" {
		return token{}, false
	}
	return t, true
}

// rewrite walks value and replaces every variable token with what fn returns.
// An escaped token "!!(ns.name)" becomes the literal "!(ns.name)" without fn
// being asked about it. Text that only looks like a token is copied as is.
func rewrite(value string, fn func(t token) (string, error)) (string, error) {
	if !strings.Contains(value, "!(") {
		return value, nil
	}

	var b strings.Builder
	b.Grow(len(value))
	i := 0
	for i < len(value) {
		rel := strings.Index(value[i:], "!(")
		if rel < 0 {
			break
		}
		pos := i + rel
		escaped := pos > i && value[pos-1] == '!'

		end := strings.IndexByte(value[pos+2:], ')')
		if end < 0 {
			break
		}
		inner := value[pos+2 : pos+2+end]
		next := pos + 2 + end + 1

		t, ok := parseToken(inner)
		if !ok {
			b.WriteString(value[i : pos+2])
			i = pos + 2
			continue
		}

		if escaped {
			b.WriteString(value[i : pos-1])
			b.WriteString(t.text)
			i = next
			continue
		}

		b.WriteString(value[i:pos])
		replacement, err := fn(t)
		if err != nil {
			return value, err
		}
		b.WriteString(replacement)
		i = next
	}
	b.WriteString(value[i:])
	return b.String(), nil
}

// HasReference reports whether value holds an unescaped variable token of any namespace.
func HasReference(value string) bool {
	found := false
	_, _ = rewrite(value, func(t token) (string, error) {
		found = true
		return t.text, nil
	})
	return found
}

// BindPathReference splits "!(bindpath.NAME)rest" into NAME and rest.
func BindPathReference(value string) (name, rest string, ok bool) {
	const prefix = "!(" + NamespaceBindPath + "."
	if !strings.HasPrefix(value, prefix) {
		return "", "", false
	}
	end := strings.IndexByte(value, ')')
	if end < 0 {
		return "", "", false
	}
	name = value[len(prefix):end]
	if name == "" {
		return "", "", false
	}
	return name, value[end+1:], true
}
