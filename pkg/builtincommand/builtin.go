// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package builtincommand

import (
	"github.com/samber/lo"
)

type BuiltinCommand string

const (
	Extension BuiltinCommand = "extension"
	Login     BuiltinCommand = "login"
	Bind      BuiltinCommand = "bind"
	Doctor    BuiltinCommand = "doctor"
	Version   BuiltinCommand = "version"
)

var BuiltinCommands = []BuiltinCommand{Extension, Login, Bind, Doctor, Version}

// usesCache are the commands reading or writing extension caches
var usesCache = []BuiltinCommand{Extension, Bind}

func IsBuiltinCommand(args []string) bool {
	if len(args) > 1 {
		return lo.Contains(BuiltinCommands, BuiltinCommand(args[1]))
	}
	return false
}

// UsesCache reports whether the command named by args touches the extension
// caches, which therefore must exist before it runs.
func UsesCache(args []string) bool {
	return len(args) > 1 && lo.Contains(usesCache, BuiltinCommand(args[1]))
}
