// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
)

var ErrNoCacheLocation = errors.New("no extension cache location for scope")

// CachedExtension is one extension version found in a cache folder.
type CachedExtension struct {
	Id      string `json:"id" yaml:"id"`
	Version string `json:"version" yaml:"version"`
	Damaged bool   `json:"damaged" yaml:"damaged"`
	Scope   Scope  `json:"scope" yaml:"scope"`
	Path    string `json:"path" yaml:"path"`
}

// Manager adds, removes and lists extensions in the cache folders given by
// Locations, downloading from Sources. Callers serialize access to a cache folder.
type Manager struct {
	Locations []CacheLocation
	Sources   []PackageSource
	Messaging *messaging.Messenger
}

// Add downloads ref into the cache of the given scope. Without a version the
// greatest version any source offers is used. It reports whether anything
// was added; an intact cached copy is left alone.
func (m *Manager) Add(ctx context.Context, global bool, ref string) (bool, error) {
	r, err := ParseReference(ref)
	if err != nil {
		return false, err
	}
	location, err := m.location(global)
	if err != nil {
		return false, err
	}

	source := PackageSource(nil)
	version := r.Version
	if version == nil {
		source, version, err = m.resolveLatest(ctx, r.Id)
		if err != nil {
			return false, err
		}
		if version == nil {
			return false, messaging.New(messaging.ExtensionNotFound, nil, "no package source has extension %s", r.Id)
		}
		slog.Info("resolved extension version", "extension", r.Id, "version", version.Original(), "source", source.Name())
	}

	target, _, err := versionFolder(location.Path, r.Id, version)
	if err != nil {
		return false, err
	}
	if hasEntryPoint(target, r.Id) {
		slog.Debug("extension already cached", "path", target)
		return false, nil
	}

	data, err := m.download(ctx, source, r.Id, version)
	if err != nil {
		return false, err
	}

	zr, err := openPackage(data)
	if err != nil {
		return false, messaging.Wrap(messaging.InvalidExtensionPackage, nil, err, "extension %s/%s", r.Id, version.Original())
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := install(target, func(staging string) error { return extractPackage(zr, staging) }); err != nil {
		return false, err
	}

	slog.Info("cached extension", "extension", r.Id, "version", version.Original(), "path", target)
	return true, nil
}

// resolveLatest picks the strictly greatest version across all sources,
// the first source to offer it winning. Failing sources are warnings.
func (m *Manager) resolveLatest(ctx context.Context, id string) (PackageSource, *semver.Version, error) {
	var best *semver.Version
	var bestSource PackageSource
	for _, source := range m.Sources {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		versions, err := source.Versions(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			m.warn(source, err)
			continue
		}
		for _, v := range versions {
			if best == nil || best.LessThan(v) {
				best, bestSource = v, source
			}
		}
	}
	return bestSource, best, nil
}

// download fetches the package from source, or when nil from the first
// source that has it.
func (m *Manager) download(ctx context.Context, source PackageSource, id string, version *semver.Version) ([]byte, error) {
	sources := m.Sources
	if source != nil {
		sources = []PackageSource{source}
	}

	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.Download(ctx, id, version)
		switch {
		case err == nil:
			return data, nil
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, ErrPackageNotFound):
			slog.Debug("package source does not have extension", "source", s.Name(), "extension", id, "version", version.Original())
		default:
			m.warn(s, err)
		}
	}
	return nil, messaging.New(messaging.ExtensionNotFound, nil, "could not download extension %s/%s", id, version.Original())
}

func (m *Manager) warn(source PackageSource, err error) {
	w := messaging.Wrap(messaging.PackageSourceFailure, nil, err, "package source %s failed", source.Name())
	if m.Messaging != nil {
		m.Messaging.Write(w)
		return
	}
	slog.Warn(w.Error())
}

// Remove deletes ref from the cache of the given scope: only the named
// version, or every version of the id when ref has none. It reports whether
// anything was deleted.
func (m *Manager) Remove(ctx context.Context, global bool, ref string) (bool, error) {
	r, err := ParseReference(ref)
	if err != nil {
		return false, err
	}
	location, err := m.location(global)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	target := idFolder(location.Path, r.Id)
	if r.Version != nil {
		dir, exists, err := versionFolder(location.Path, r.Id, r.Version)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
		target = dir
	}
	if _, err := os.Stat(target); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	if err := os.RemoveAll(target); err != nil {
		return false, fmt.Errorf("removing %s: %w", target, err)
	}
	if r.Version != nil {
		// drop the id folder once its last version is gone
		_ = os.Remove(idFolder(location.Path, r.Id))
	}
	slog.Info("removed extension", "extension", r.String(), "path", target)
	return true, nil
}

// List reports the cached extensions matching ref, which may be empty for
// all of them. The project cache comes first; the user cache is only
// searched when global.
func (m *Manager) List(ctx context.Context, global bool, ref string) ([]CachedExtension, error) {
	var r Reference
	if ref != "" {
		var err error
		if r, err = ParseReference(ref); err != nil {
			return nil, err
		}
	}

	var found []CachedExtension
	for _, location := range m.searchOrder(global) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if r.Version != nil {
			dir, exists, err := versionFolder(location.Path, r.Id, r.Version)
			if err != nil {
				return nil, err
			}
			if exists {
				found = append(found, cachedExtension(location, r.Id, filepath.Base(dir), dir))
			}
			continue
		}

		ids := []string{r.Id}
		if r.Id == "" {
			var err error
			if ids, err = subfolders(location.Path); err != nil {
				return nil, err
			}
		}
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			exts, err := m.listVersions(ctx, location, id)
			if err != nil {
				return nil, err
			}
			found = append(found, exts...)
		}
	}
	return found, nil
}

func (m *Manager) listVersions(ctx context.Context, location CacheLocation, id string) ([]CachedExtension, error) {
	dir := idFolder(location.Path, id)
	names, err := subfolders(dir)
	if err != nil {
		return nil, err
	}

	var found []CachedExtension
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := semver.NewVersion(name); err != nil {
			continue
		}
		found = append(found, cachedExtension(location, filepath.Base(dir), name, filepath.Join(dir, name)))
	}
	return found, nil
}

func cachedExtension(location CacheLocation, id, version, dir string) CachedExtension {
	return CachedExtension{
		Id:      id,
		Version: version,
		Damaged: !hasEntryPoint(dir, id),
		Scope:   location.Scope,
		Path:    dir,
	}
}

func (m *Manager) location(global bool) (CacheLocation, error) {
	scope := ScopeProject
	if global {
		scope = ScopeUser
	}
	location, ok := lo.Find(m.Locations, func(l CacheLocation) bool { return l.Scope == scope })
	if !ok {
		return CacheLocation{}, fmt.Errorf("%w %s", ErrNoCacheLocation, scope)
	}
	return location, nil
}

func (m *Manager) searchOrder(global bool) []CacheLocation {
	scopes := []Scope{ScopeProject}
	if global {
		scopes = append(scopes, ScopeUser)
	}
	return lo.FlatMap(scopes, func(scope Scope, _ int) []CacheLocation {
		return lo.Filter(m.Locations, func(l CacheLocation, _ int) bool { return l.Scope == scope })
	})
}

// subfolders lists the folders in dir, skipping hidden staging folders.
// A missing dir has none.
func subfolders(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), e.IsDir() && !strings.HasPrefix(e.Name(), ".")
	}), nil
}

// idFolder is the cache folder of every version of id. Ids are case-insensitive.
func idFolder(cacheRoot, id string) string {
	return filepath.Join(cacheRoot, strings.ToLower(id))
}

// versionFolder is the cache folder of version of id and whether it exists.
// A cached folder spelling the same version differently (2.3 for 2.3.0) is
// that version's folder.
func versionFolder(cacheRoot, id string, version *semver.Version) (string, bool, error) {
	dir := idFolder(cacheRoot, id)
	names, err := subfolders(dir)
	if err != nil {
		return "", false, err
	}
	name, ok := lo.Find(names, func(n string) bool { return n == version.Original() })
	if !ok {
		name, ok = lo.Find(names, func(n string) bool {
			v, err := semver.NewVersion(n)
			return err == nil && v.Equal(version)
		})
	}
	if !ok {
		name = version.Original()
	}
	return filepath.Join(dir, name), ok, nil
}

// install fills a staging folder next to target and renames it into place,
// replacing a damaged copy. A failed fill leaves target untouched.
func install(target string, fill func(staging string) error) (err error) {
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, os.ModePerm); err != nil {
		return err
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(target)+"-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(staging)
		}
	}()

	if err := os.Chmod(staging, 0o755); err != nil {
		return err
	}
	if err := fill(staging); err != nil {
		return err
	}
	if err := os.RemoveAll(target); err != nil {
		return err
	}
	return os.Rename(staging, target)
}
