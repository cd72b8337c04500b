// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ocicache fronts a read-only OCI target with a local oci-layout
// store. Blobs are fetched fully and digest-verified before they are
// written to the store, so the store never holds a truncated blob.
package ocicache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry"
)

func CachedTarget(src oras.ReadOnlyTarget, ociLayoutCache string) (oras.ReadOnlyTarget, error) {
	ociStore, err := oci.New(ociLayoutCache)
	if err != nil {
		return nil, err
	}
	return New(src, ociStore), nil
}

type target struct {
	oras.ReadOnlyTarget
	store content.Storage
}

// New wraps source with store. When source can fetch by reference, so can the result.
func New(source oras.ReadOnlyTarget, store content.Storage) oras.ReadOnlyTarget {
	t := &target{ReadOnlyTarget: source, store: store}
	if refFetcher, ok := source.(registry.ReferenceFetcher); ok {
		return &referenceTarget{target: t, ReferenceFetcher: refFetcher}
	}
	return t
}

func (t *target) Fetch(ctx context.Context, desc ocispec.Descriptor) (io.ReadCloser, error) {
	if rc, err := t.store.Fetch(ctx, desc); err == nil {
		slog.Debug("oci cache hit", "digest", desc.Digest.String())
		return rc, nil
	}

	rc, err := t.ReadOnlyTarget.Fetch(ctx, desc)
	if err != nil {
		return nil, err
	}
	return t.storeAndReplay(ctx, desc, rc)
}

// storeAndReplay drains rc, verifies it against desc and keeps a copy in the store.
// A failure to write the store is logged, the fetched content is still returned.
func (t *target) storeAndReplay(ctx context.Context, desc ocispec.Descriptor, rc io.ReadCloser) (io.ReadCloser, error) {
	defer rc.Close()
	data, err := content.ReadAll(rc, desc)
	if err != nil {
		return nil, err
	}

	if err := t.store.Push(ctx, desc, bytes.NewReader(data)); err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		slog.Warn("failed to write oci cache", "digest", desc.Digest.String(), "err", err.Error())
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (t *target) Exists(ctx context.Context, desc ocispec.Descriptor) (bool, error) {
	exists, err := t.store.Exists(ctx, desc)
	if err == nil && exists {
		return true, nil
	}
	return t.ReadOnlyTarget.Exists(ctx, desc)
}

type referenceTarget struct {
	*target
	registry.ReferenceFetcher
}

// FetchReference always resolves the reference against the origin, since
// tags move. Only the content is served from the store when present.
func (t *referenceTarget) FetchReference(ctx context.Context, reference string) (ocispec.Descriptor, io.ReadCloser, error) {
	desc, rc, err := t.ReferenceFetcher.FetchReference(ctx, reference)
	if err != nil {
		return ocispec.Descriptor{}, nil, err
	}

	exists, err := t.store.Exists(ctx, desc)
	if err != nil {
		rc.Close()
		return ocispec.Descriptor{}, nil, err
	}
	if exists {
		if err := rc.Close(); err != nil {
			return ocispec.Descriptor{}, nil, err
		}
		cached, err := t.store.Fetch(ctx, desc)
		if err != nil {
			return ocispec.Descriptor{}, nil, err
		}
		return desc, cached, nil
	}

	replay, err := t.storeAndReplay(ctx, desc, rc)
	if err != nil {
		return ocispec.Descriptor{}, nil, err
	}
	return desc, replay, nil
}
