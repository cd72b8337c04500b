// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extcache

import "fmt"

type Scope int

const (
	ScopeProject Scope = iota
	ScopeUser
)

func (s Scope) String() string {
	switch s {
	case ScopeProject:
		return "project"
	case ScopeUser:
		return "user"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CacheLocation is one folder extensions are cached in.
type CacheLocation struct {
	Scope Scope
	Path  string
}
