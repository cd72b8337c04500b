// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extcache

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
)

// Reference names an extension package as id[/version].
type Reference struct {
	Id      string
	Version *semver.Version
}

func ParseReference(ref string) (Reference, error) {
	id, version, hasVersion := strings.Cut(strings.TrimSpace(ref), "/")
	if id == "" || strings.ContainsAny(id, `\/:*?"<>|`) || id == "." || id == ".." {
		return Reference{}, messaging.New(messaging.InvalidExtensionReference, nil, "invalid extension reference %q, expected id[/version]", ref)
	}
	if !hasVersion {
		return Reference{Id: id}, nil
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return Reference{}, messaging.Wrap(messaging.InvalidExtensionReference, nil, err, "invalid version in extension reference %q", ref)
	}
	return Reference{Id: id, Version: v}, nil
}

func (r Reference) String() string {
	if r.Version == nil {
		return r.Id
	}
	return r.Id + "/" + r.Version.Original()
}
