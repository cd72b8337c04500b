// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package wixconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/goccy/go-yaml"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
)

type Config struct {
	WixHomePath string `yaml:"-"`

	CachePath string `yaml:"-"`
	// oci-layout dir containing raw pulled blobs
	OciLayoutCache string `yaml:"-"`
	// user scoped extension cache, <WIX_HOME>/extensions
	UserExtensionCache string `yaml:"-"`

	Registry         string `yaml:"registry,omitempty"`
	RegistryAuthPath string `yaml:"registry-auth-path,omitempty"`
	Insecure         bool   `yaml:"insecure,omitempty"`

	// nil means "use the default feed", an empty list disables feeds
	ExtensionFeeds []string `yaml:"extension-feeds,omitempty"`

	// BindPaths are unnamed Normal stage bind paths applied to every `wix bind`
	BindPaths []string `yaml:"bind-paths,omitempty"`
}

func (c *Config) EnsureDirs() error {
	return utils.EnsureDirs(c.WixHomePath, c.OciLayoutCache, c.UserExtensionCache)
}

// ProjectExtensionCache is the project scoped extension cache below workingDir.
func (c *Config) ProjectExtensionCache(workingDir string) string {
	return filepath.Join(workingDir, filepath.FromSlash(ProjectExtensionsDir))
}

// CacheLockFile is the lockfile guarding the cache folder cacheDir.
func (c *Config) ProjectExtensionLock(workingDir string) string {
	return filepath.Join(workingDir, filepath.FromSlash(ProjectExtensionLockFile))
}

func CacheLockFile(cacheDir string) string {
	return filepath.Join(cacheDir, lockFileName)
}

func Get() (*Config, error) {
	wixHomePath, err := getWixHomePath()
	if err != nil {
		return nil, err
	}
	return GetWithCustomWixHome(wixHomePath)
}

func GetWithCustomWixHome(wixHomePath string) (*Config, error) {
	config := Config{}

	// wix-config.yaml is optional
	configFilePath := filepath.Join(wixHomePath, ConfigFileName)
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		if fileInfo.IsDir() {
			return nil, fmt.Errorf("%q is directory and not a file", configFilePath)
		}

		bytes, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(bytes, &config); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", configFilePath, err)
		}
	}

	if registry, ok := os.LookupEnv(OciRegistryEnvVar); ok {
		config.Registry = registry
	}
	if config.Registry == "" {
		config.Registry = DefaultOciRegistry
	}

	if registryAuthPath, ok := os.LookupEnv(RegistryAuthConfigPathEnvVar); ok {
		config.RegistryAuthPath = registryAuthPath
	}

	insecure, ok, err := utils.BoolEnvVar(AllowInsecureRegistryEnvVar)
	if err != nil {
		return nil, err
	}
	if ok {
		config.Insecure = insecure
	}

	if feeds, ok := utils.ListEnvVar(ExtensionFeedsEnvVar); ok {
		config.ExtensionFeeds = feeds
		if config.ExtensionFeeds == nil {
			config.ExtensionFeeds = []string{}
		}
	}
	if config.ExtensionFeeds == nil {
		config.ExtensionFeeds = []string{DefaultExtensionFeed}
	}

	cacheDir := filepath.Join(wixHomePath, "cache")
	config.WixHomePath = wixHomePath
	config.CachePath = cacheDir
	config.OciLayoutCache = filepath.Join(cacheDir, "oci-layout")
	config.UserExtensionCache = filepath.Join(wixHomePath, "extensions")
	return &config, nil
}

func getWixHomePath() (string, error) {
	if v, ok := os.LookupEnv(WixHomeEnvVar); ok && v != "" {
		return v, nil
	}

	return getAppUserDataDirectory("wix")
}

func getAppUserDataDirectory(appName string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir, ok := os.LookupEnv("APPDATA")
		if !ok {
			return "", fmt.Errorf("APPDATA environment variable is not set")
		}
		return filepath.Join(dir, appName), nil
	default:
		dir, ok := os.LookupEnv("HOME")
		if !ok {
			return "", fmt.Errorf("HOME environment variable is not set")
		}
		return filepath.Join(dir, "."+appName), nil
	}
}
