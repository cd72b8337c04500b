// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extensionmanager

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/bind"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/extcache/feedsource"
	"github.com/wixtoolset/wix-sub033/pkg/extcache/ocisource"
	"github.com/wixtoolset/wix-sub033/pkg/extensibility"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig/wixremote"
)

// Manager knows where extensions are cached for a project and where they are downloaded from.
type Manager struct {
	config     *wixconfig.Config
	workingDir string
}

func New(config *wixconfig.Config, workingDir string) *Manager {
	return &Manager{config: config, workingDir: workingDir}
}

// CacheLocations are the project cache under the working dir, then the user cache.
func (m *Manager) CacheLocations() []extcache.CacheLocation {
	return []extcache.CacheLocation{
		{Scope: extcache.ScopeProject, Path: m.config.ProjectExtensionCache(m.workingDir)},
		{Scope: extcache.ScopeUser, Path: m.config.UserExtensionCache},
	}
}

// Sources are the configured registry followed by every configured feed.
func (m *Manager) Sources() ([]extcache.PackageSource, error) {
	remote, err := wixremote.NewFromConfig(m.config)
	if err != nil {
		return nil, err
	}

	sources := []extcache.PackageSource{ocisource.New(remote, m.config.OciLayoutCache)}
	for _, feed := range m.config.ExtensionFeeds {
		sources = append(sources, feedsource.New(feed, remote))
	}
	return sources, nil
}

func (m *Manager) CacheManager(messenger *messaging.Messenger) (*extcache.Manager, error) {
	sources, err := m.Sources()
	if err != nil {
		return nil, err
	}
	return &extcache.Manager{
		Locations: m.CacheLocations(),
		Sources:   sources,
		Messaging: messenger,
	}, nil
}

// Register adds the capabilities of cached extensions to r.
func (m *Manager) Register(r *extensibility.Registry) {
	extensibility.Register[bind.ResolverExtension](r, m.FileResolver())
}

// FileResolver finds relative sources inside the package folder of cached
// extensions, newest version first, project cache before user cache.
func (m *Manager) FileResolver() bind.ResolverExtension {
	return &cachedFileResolver{cache: &extcache.Manager{Locations: m.CacheLocations()}}
}

type cachedFileResolver struct {
	cache   *extcache.Manager
	folders []string
	loaded  bool
}

var _ bind.ResolverExtension = (*cachedFileResolver)(nil)

func (r *cachedFileResolver) ResolveFile(source string, _ *symbols.SymbolDefinition, _ *symbols.SourceLineNumber, _ bind.BindStage) (string, bool) {
	if filepath.IsAbs(source) || !filepath.IsLocal(filepath.FromSlash(source)) {
		return "", false
	}
	for _, folder := range r.packageFolders() {
		candidate := filepath.Join(folder, filepath.FromSlash(source))
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

func (r *cachedFileResolver) packageFolders() []string {
	if r.loaded {
		return r.folders
	}
	r.loaded = true

	found, err := r.cache.List(context.Background(), true, "")
	if err != nil {
		slog.Debug("cannot list cached extensions", "err", err)
		return nil
	}
	found = lo.Filter(found, func(e extcache.CachedExtension, _ int) bool { return !e.Damaged })
	slices.SortStableFunc(found, func(a, b extcache.CachedExtension) int {
		if a.Scope != b.Scope {
			return int(a.Scope) - int(b.Scope)
		}
		return semver.MustParse(b.Version).Compare(semver.MustParse(a.Version))
	})
	r.folders = lo.Map(found, func(e extcache.CachedExtension, _ int) string {
		return filepath.Join(e.Path, extcache.PackageRootFolder)
	})
	return r.folders
}
