// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	ExtensionArtifactType     = "application/vnd.wixtoolset.extension.v4"
	ExtensionPackageMediaType = "application/vnd.wixtoolset.extension.nupkg"
	ExtensionRepoPrefix       = "wixext/"

	WixAnnotationPrefix         = "org.wixtoolset."
	DescriptorIdAnnotation      = WixAnnotationPrefix + "extension.id"
	DescriptorVersionAnnotation = WixAnnotationPrefix + "extension.version"
)

// ExtensionRepoName is the registry repository holding every version of extension id.
// Repository names must be lowercase.
func ExtensionRepoName(id string) string {
	return ExtensionRepoPrefix + strings.ToLower(id)
}

// DescriptorAnnotations are required on every extension manifest, they let a
// pulled manifest be checked against the reference that selected it
type DescriptorAnnotations struct {
	Id      string
	Version *semver.Version
}

func (d DescriptorAnnotations) AppendToMap(annotations map[string]string) {
	annotations[DescriptorIdAnnotation] = d.Id
	annotations[DescriptorVersionAnnotation] = d.Version.Original()
}

func WixAnnotation(annotation string) string {
	return WixAnnotationPrefix + annotation
}

func VersionFromDescriptorAnnotations(descriptorAnnotations map[string]string) (*semver.Version, error) {
	err := fmt.Errorf("descriptor missing required %q annotations", DescriptorVersionAnnotation)
	if descriptorAnnotations == nil {
		return nil, err
	}
	version, ok := descriptorAnnotations[DescriptorVersionAnnotation]
	if !ok {
		return nil, err
	}

	return semver.NewVersion(version)
}
