// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ocisource serves extension packages pushed to an OCI registry as
// wixext/<id>:<version> artifacts.
package ocisource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/oci"
	"github.com/wixtoolset/wix-sub033/pkg/ocilister"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig/wixremote"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/errdef"
)

type Source struct {
	remote *wixremote.Remote
	// ociCache is an oci-layout folder blobs are kept in; empty disables caching
	ociCache string
}

var _ extcache.PackageSource = (*Source)(nil)

func New(remote *wixremote.Remote, ociCache string) *Source {
	return &Source{remote: remote, ociCache: ociCache}
}

func (s *Source) Name() string {
	return "oci://" + s.remote.Registry
}

func (s *Source) Versions(ctx context.Context, id string) ([]*semver.Version, error) {
	return ocilister.ListExtensionVersions(ctx, s.remote, id)
}

func (s *Source) Download(ctx context.Context, id string, version *semver.Version) ([]byte, error) {
	src, err := s.repo(oci.ExtensionRepoName(id))
	if err != nil {
		return nil, err
	}

	tag := version.Original()
	store := memory.New()
	desc, err := oras.Copy(ctx, src, tag, store, tag, oras.DefaultCopyOptions)
	if errors.Is(err, errdef.ErrNotFound) {
		return nil, fmt.Errorf("%s:%s: %w", oci.ExtensionRepoName(id), tag, extcache.ErrPackageNotFound)
	} else if err != nil {
		return nil, err
	}

	manifestBytes, err := content.FetchAll(ctx, store, desc)
	if err != nil {
		return nil, err
	}
	var manifest ocispec.Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest of %s:%s: %w", oci.ExtensionRepoName(id), tag, err)
	}
	if manifest.ArtifactType != oci.ExtensionArtifactType {
		return nil, fmt.Errorf("%s:%s is a %q artifact, not an extension", oci.ExtensionRepoName(id), tag, manifest.ArtifactType)
	}

	layer, ok := lo.Find(manifest.Layers, func(l ocispec.Descriptor) bool {
		return l.MediaType == oci.ExtensionPackageMediaType
	})
	if !ok {
		return nil, fmt.Errorf("%s:%s has no %s layer", oci.ExtensionRepoName(id), tag, oci.ExtensionPackageMediaType)
	}
	return content.FetchAll(ctx, store, layer)
}

func (s *Source) repo(repoName string) (oras.ReadOnlyTarget, error) {
	if s.ociCache == "" {
		return s.remote.Repo(repoName)
	}
	return s.remote.CachedRepo(repoName, s.ociCache)
}
