// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bind

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
	"github.com/wixtoolset/wix-sub033/pkg/variables"
)

// ResolverExtension is asked for sources the bind paths cannot find.
type ResolverExtension interface {
	ResolveFile(source string, def *symbols.SymbolDefinition, sln *symbols.SourceLineNumber, stage BindStage) (string, bool)
}

const sourceDirPrefix = `SourceDir\`

type FileResolver struct {
	bindPaths  []BindPath
	extensions []ResolverExtension
}

func NewFileResolver(bindPaths []BindPath, extensions []ResolverExtension) *FileResolver {
	return &FileResolver{bindPaths: bindPaths, extensions: extensions}
}

// ResolveFile finds the file authored as source. In order it tries the
// !(bindpath.NAME) prefix against named bind paths, a relative source against
// every unnamed bind path of stage, the source itself, then the resolver
// extensions.
func (r *FileResolver) ResolveFile(source string, def *symbols.SymbolDefinition, sln *symbols.SourceLineNumber, stage BindStage) (string, error) {
	var checked []string
	exists := func(candidate string) bool {
		checked = append(checked, candidate)
		return fileExists(candidate)
	}

	if name, rest, ok := variables.BindPathReference(source); ok {
		for _, bp := range r.stagePaths(stage) {
			if !strings.EqualFold(bp.Name, name) {
				continue
			}
			if candidate := filepath.Join(bp.Path, nativePath(rest)); exists(candidate) {
				return candidate, nil
			}
		}
	} else {
		native := nativePath(stripSourceDir(source))
		if !filepath.IsAbs(native) {
			for _, bp := range r.stagePaths(stage) {
				if bp.Name != "" {
					continue
				}
				if candidate := filepath.Join(bp.Path, native); exists(candidate) {
					return candidate, nil
				}
			}
		}
		if exists(nativePath(source)) {
			return nativePath(source), nil
		}
	}

	for _, ext := range r.extensions {
		if resolved, ok := ext.ResolveFile(source, def, sln, stage); ok {
			slog.Debug("file resolved by extension", "source", source, "path", resolved)
			return resolved, nil
		}
	}

	return "", messaging.New(messaging.FileNotFound, sln, "the system cannot find the file %q with type %q (checked: %s)",
		source, defName(def), strings.Join(checked, ", "))
}

func (r *FileResolver) stagePaths(stage BindStage) []BindPath {
	return lo.Filter(r.bindPaths, func(bp BindPath, _ int) bool { return bp.Stage == stage })
}

func stripSourceDir(source string) string {
	if len(source) >= len(sourceDirPrefix) && strings.EqualFold(source[:len(sourceDirPrefix)], sourceDirPrefix) {
		return source[len(sourceDirPrefix):]
	}
	return source
}

// nativePath accepts authored paths with either separator.
func nativePath(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func defName(def *symbols.SymbolDefinition) string {
	if def == nil {
		return ""
	}
	return def.Name
}
