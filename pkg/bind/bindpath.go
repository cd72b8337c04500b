// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bind

import (
	"fmt"
	"strings"
)

type BindStage int

const (
	// BindStageNormal paths resolve the sources of the build being bound
	BindStageNormal BindStage = iota
	// BindStageTarget paths resolve the target image of a patch
	BindStageTarget
	// BindStageUpdated paths resolve the updated image of a patch
	BindStageUpdated
)

func (s BindStage) String() string {
	switch s {
	case BindStageNormal:
		return "normal"
	case BindStageTarget:
		return "target"
	case BindStageUpdated:
		return "updated"
	}
	return fmt.Sprintf("BindStage(%d)", int(s))
}

// BindPath is a candidate root directory for relative sources. Named bind
// paths are only used by !(bindpath.NAME) references.
type BindPath struct {
	Name  string
	Path  string
	Stage BindStage
}

// ParseBindPath parses the command line form "[name=]path".
func ParseBindPath(s string, stage BindStage) (BindPath, error) {
	name, path, named := strings.Cut(s, "=")
	if !named {
		path, name = name, ""
	}
	if path == "" {
		return BindPath{}, fmt.Errorf("bind path %q has no directory", s)
	}
	return BindPath{Name: name, Path: path, Stage: stage}, nil
}

func (b BindPath) String() string {
	if b.Name == "" {
		return b.Path
	}
	return b.Name + "=" + b.Path
}
