// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package layout

import (
	"io/fs"
	"os"
)

const (
	layoutFileMode       fs.FileMode = 0o644
	layoutExecutableMode fs.FileMode = 0o755
)

// resetAcl gives the file the permission bits of a freshly created layout
// file, keeping it executable when it was.
func resetAcl(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := layoutFileMode
	if info.Mode().Perm()&0o111 != 0 {
		mode = layoutExecutableMode
	}
	return os.Chmod(path, mode)
}
