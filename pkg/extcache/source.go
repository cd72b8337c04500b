// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extcache

import (
	"context"
	"errors"

	"github.com/Masterminds/semver/v3"
)

// ErrPackageNotFound is returned by a PackageSource that does not carry the requested package.
var ErrPackageNotFound = errors.New("extension package not found")

// PackageSource is a remote feed of extension packages.
type PackageSource interface {
	Name() string
	// Versions lists the versions of id the source carries; an unknown id is no versions, not an error.
	Versions(ctx context.Context, id string) ([]*semver.Version, error)
	// Download returns the whole package archive.
	Download(ctx context.Context, id string, version *semver.Version) ([]byte, error)
}
