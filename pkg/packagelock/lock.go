// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packagelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/schema"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
)

const (
	ExtensionLockKind    = "ExtensionLock"
	ExtensionLockVersion = "v1"
)

var ErrInvalidExtensionLock = errors.New("invalid extension lock")

// ExtensionLock pins the extension versions a project was built with.
type ExtensionLock struct {
	schema.ManifestMeta `yaml:",inline"`
	Extensions          []*Extension `yaml:"extensions"`
}

type Extension struct {
	Id      string `yaml:"id"`
	Version string `yaml:"version"`
}

func (e *Extension) Reference() string {
	return e.Id + "/" + e.Version
}

func New() *ExtensionLock {
	return &ExtensionLock{ManifestMeta: schema.New(ExtensionLockKind, ExtensionLockVersion)}
}

// Read returns an empty lock when path does not exist.
func Read(path string) (*ExtensionLock, error) {
	bytes, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	return ReadContents(bytes)
}

func ReadContents(contents []byte) (*ExtensionLock, error) {
	var l ExtensionLock
	if err := yaml.Unmarshal(contents, &l); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExtensionLock, err)
	}
	if err := New().ValidateSchema(l.ManifestMeta); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExtensionLock, err)
	}
	return &l, nil
}

func (l *ExtensionLock) Write(path string) error {
	slices.SortFunc(l.Extensions, func(a, b *Extension) int {
		return strings.Compare(strings.ToLower(a.Id), strings.ToLower(b.Id))
	})
	bytes, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	if err := utils.EnsureDirs(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0o644)
}

// Set pins id to version, replacing any earlier pin of the same id.
func (l *ExtensionLock) Set(id, version string) {
	if e, ok := l.find(id); ok {
		e.Id, e.Version = id, version
		return
	}
	l.Extensions = append(l.Extensions, &Extension{Id: id, Version: version})
}

// Remove drops the pin of id. With a version, only a pin of that version.
func (l *ExtensionLock) Remove(id, version string) bool {
	before := len(l.Extensions)
	l.Extensions = lo.Reject(l.Extensions, func(e *Extension, _ int) bool {
		return strings.EqualFold(e.Id, id) && (version == "" || e.Version == version)
	})
	return len(l.Extensions) != before
}

func (l *ExtensionLock) find(id string) (*Extension, bool) {
	return lo.Find(l.Extensions, func(e *Extension) bool { return strings.EqualFold(e.Id, id) })
}

// Missing lists the pins without an intact cached copy.
func (l *ExtensionLock) Missing(cached []extcache.CachedExtension) []*Extension {
	return lo.Reject(l.Extensions, func(e *Extension, _ int) bool {
		return lo.ContainsBy(cached, func(c extcache.CachedExtension) bool {
			return !c.Damaged && strings.EqualFold(c.Id, e.Id) && c.Version == e.Version
		})
	})
}
