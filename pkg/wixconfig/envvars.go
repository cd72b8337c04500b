// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package wixconfig

const envVarPrefix = "WIX_"

const (
	// WixHomeEnvVar
	// WIX_HOME is the absolute path to the wix home directory holding config and the user extension cache
	WixHomeEnvVar = envVarPrefix + "HOME"

	// LogLevelEnvVar
	// WIX_LOG_LEVEL sets the log level.
	// 	Default: info
	//  Possible values: debug info warn error
	LogLevelEnvVar = envVarPrefix + "LOG_LEVEL"

	// OciRegistryEnvVar
	// WIX_REGISTRY overrides the OCI registry extensions are pulled from and published to
	OciRegistryEnvVar = envVarPrefix + "REGISTRY"

	// RegistryAuthConfigPathEnvVar
	// WIX_REGISTRY_AUTH points at a docker style config.json used to authenticate to the registry
	// 	default: $HOME/.docker/config.json
	RegistryAuthConfigPathEnvVar = envVarPrefix + "REGISTRY_AUTH"

	// AllowInsecureRegistryEnvVar
	// WIX_INSECURE_REGISTRY talks plain http to the registry
	AllowInsecureRegistryEnvVar = envVarPrefix + "INSECURE_REGISTRY"

	// ExtensionFeedsEnvVar
	// WIX_EXTENSION_FEEDS is a comma separated list of NuGet v3 flat-container base urls.
	// An empty value disables feed sources.
	ExtensionFeedsEnvVar = envVarPrefix + "EXTENSION_FEEDS"
)
