// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"errors"
	"io/fs"
	"os"

	"github.com/wixtoolset/wix-sub033/pkg/utils"
)

// FileSystem is the set of file operations a transfer performs.
type FileSystem interface {
	CopyFile(source, destination string) error
	MoveFile(source, destination string) error
	MkdirAll(dir string) error
	Remove(path string) error
	ClearReadOnly(path string) error
	Stat(path string) (fs.FileInfo, error)
}

// OSFileSystem is the FileSystem of the running host.
type OSFileSystem struct{}

var _ FileSystem = OSFileSystem{}

func (OSFileSystem) CopyFile(source, destination string) error {
	return utils.CopyFile(source, destination)
}

// MoveFile renames source over destination, falling back to copy and
// delete when the two live on different volumes.
func (fsys OSFileSystem) MoveFile(source, destination string) error {
	err := os.Rename(source, destination)
	if err == nil || !isCrossDevice(err) {
		return err
	}
	if err := fsys.CopyFile(source, destination); err != nil {
		return err
	}
	return os.Remove(source)
}

func (OSFileSystem) MkdirAll(dir string) error {
	return os.MkdirAll(dir, os.ModePerm)
}

func (OSFileSystem) Remove(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (OSFileSystem) ClearReadOnly(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o200 != 0 {
		return nil
	}
	return os.Chmod(path, info.Mode().Perm()|0o200)
}

func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
