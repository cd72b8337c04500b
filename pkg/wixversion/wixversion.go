// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package wixversion

import "fmt"

// To be populated at build-time, e.g.:
// go build -ldflags "-X 'github.com/wixtoolset/wix-sub033/pkg/wixversion.ToolsetVersion=4.0.1'"
var (
	ToolsetVersion string
	Build          string
	BuildDate      string
)

type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Build     string `json:"build" yaml:"build"`
	BuildDate string `json:"buildDate" yaml:"build-date"`
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (build %s, %s)", v.Version, v.Build, v.BuildDate)
}

func defaultUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func Get() VersionInfo {
	return VersionInfo{
		Version:   defaultUnknown(ToolsetVersion),
		Build:     defaultUnknown(Build),
		BuildDate: defaultUnknown(BuildDate),
	}
}

func GetToolsetVersion() string {
	return defaultUnknown(ToolsetVersion)
}

// UserAgent is sent on every registry and feed request.
func UserAgent() string {
	return "wix/" + GetToolsetVersion()
}
