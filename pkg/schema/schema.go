// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
)

const (
	APIGroup = "wixtoolset.org"
)

var ErrUnsupportedSchema = errors.New("unsupported schema")

// ManifestMeta heads every yaml document the toolset writes.
type ManifestMeta struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
}

func New(kind, version string) ManifestMeta {
	return ManifestMeta{APIVersion: APIGroup + "/" + version, Kind: kind}
}

// ValidateSchema checks that target declares exactly m's kind and apiVersion.
func (m ManifestMeta) ValidateSchema(target ManifestMeta) error {
	switch {
	case target.Kind == "":
		return fmt.Errorf("%w: missing required field 'kind'", ErrUnsupportedSchema)
	case target.Kind != m.Kind:
		return fmt.Errorf("%w: kind %q, expected %q", ErrUnsupportedSchema, target.Kind, m.Kind)
	case target.APIVersion == "":
		return fmt.Errorf("%w: missing required field 'apiVersion'", ErrUnsupportedSchema)
	case target.APIVersion != m.APIVersion:
		return fmt.Errorf("%w: apiVersion %q, expected %q", ErrUnsupportedSchema, target.APIVersion, m.APIVersion)
	}
	return nil
}
