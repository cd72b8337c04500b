// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package wixconfig

const (
	ConfigFileName = "wix-config.yaml"

	DefaultOciRegistry   = "ghcr.io/wixtoolset"
	DefaultExtensionFeed = "https://api.nuget.org/v3-flatcontainer"

	// ProjectExtensionsDir is relative to the working directory
	ProjectExtensionsDir     = ".wix/extensions"
	ProjectExtensionLockFile = ".wix/extensions.lock.yaml"

	lockFileName = ".lock"
)
