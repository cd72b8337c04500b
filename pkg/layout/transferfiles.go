// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wixtoolset/wix-sub033/pkg/extensibility"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
)

// LayoutExtension may take over the copy or move of a file. Returning true
// means the extension handled it and the default transfer is skipped.
type LayoutExtension interface {
	CopyFile(source, destination string) (bool, error)
	MoveFile(source, destination string) (bool, error)
}

type failure int

const (
	failureFatal failure = iota
	failureSourceMissing
	failureDirectoryMissing
	failureDestinationBlocked
)

// TransferFilesCommand copies and moves files into the layout. Each transfer
// is retried once after fixing a missing directory or a read-only or stale
// destination; anything else stops the command.
type TransferFilesCommand struct {
	Messaging     *messaging.Messenger
	Extensions    *extensibility.Registry
	FileSystem    FileSystem
	FileTransfers []FileTransfer
	ResetAcls     bool

	TransferredFiles []string
}

func (c *TransferFilesCommand) Execute() error {
	if c.FileSystem == nil {
		c.FileSystem = OSFileSystem{}
	}
	if c.Messaging == nil {
		c.Messaging = messaging.NewMessenger(nil)
	}
	extensions := extensibility.Providers[LayoutExtension](c.Extensions)
	c.TransferredFiles = nil

	for i, ft := range c.FileTransfers {
		if ft.Redundant || utils.SamePath(ft.Source, ft.Destination) {
			c.FileTransfers[i].Redundant = true
			slog.Debug("skipping redundant transfer", "file", ft.Destination)
			continue
		}
		if err := c.transferWithRetry(extensions, ft); err != nil {
			return err
		}
		c.TransferredFiles = append(c.TransferredFiles, ft.Destination)
	}

	if c.ResetAcls && len(c.TransferredFiles) > 0 {
		c.resetAcls()
	}
	return nil
}

func (c *TransferFilesCommand) transferWithRetry(extensions []LayoutExtension, ft FileTransfer) error {
	slog.Debug("transferring file", "transfer", ft.String())

	err := c.transfer(extensions, ft)
	if err == nil {
		return nil
	}

	switch c.classify(ft, err) {
	case failureSourceMissing:
		return messaging.Wrap(messaging.SourceFileNotFound, ft.SourceLineNumbers, err, "source file %s not found", ft.Source)
	case failureDirectoryMissing:
		dir := filepath.Dir(ft.Destination)
		slog.Debug("creating layout directory", "dir", dir)
		if err := c.FileSystem.MkdirAll(dir); err != nil {
			return messaging.Wrap(messaging.TransferFailed, ft.SourceLineNumbers, err, "cannot create directory %s", dir)
		}
	case failureDestinationBlocked:
		slog.Debug("replacing existing destination", "file", ft.Destination, "err", err)
		if err := c.FileSystem.ClearReadOnly(ft.Destination); err != nil {
			slog.Debug("cannot clear read-only attribute", "file", ft.Destination, "err", err)
		}
		if err := c.FileSystem.Remove(ft.Destination); err != nil {
			return messaging.Wrap(messaging.FileInUse, ft.SourceLineNumbers, err, "file %s is in use", ft.Destination)
		}
	default:
		return messaging.Wrap(messaging.TransferFailed, ft.SourceLineNumbers, err, "cannot %s", ft)
	}

	if err := c.transfer(extensions, ft); err != nil {
		if c.classify(ft, err) == failureSourceMissing {
			return messaging.Wrap(messaging.SourceFileNotFound, ft.SourceLineNumbers, err, "source file %s not found", ft.Source)
		}
		return messaging.Wrap(messaging.TransferFailed, ft.SourceLineNumbers, err, "cannot %s", ft)
	}
	return nil
}

func (c *TransferFilesCommand) transfer(extensions []LayoutExtension, ft FileTransfer) error {
	for _, ext := range extensions {
		var handled bool
		var err error
		if ft.Move {
			handled, err = ext.MoveFile(ft.Source, ft.Destination)
		} else {
			handled, err = ext.CopyFile(ft.Source, ft.Destination)
		}
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	if ft.Move {
		return c.FileSystem.MoveFile(ft.Source, ft.Destination)
	}
	return c.FileSystem.CopyFile(ft.Source, ft.Destination)
}

// classify maps a failed transfer onto the retry machine. A missing file is
// blamed on the source first, then on the destination directory.
func (c *TransferFilesCommand) classify(ft FileTransfer, err error) failure {
	if errors.Is(err, fs.ErrNotExist) {
		if _, statErr := c.FileSystem.Stat(ft.Source); errors.Is(statErr, fs.ErrNotExist) {
			return failureSourceMissing
		}
		if _, statErr := c.FileSystem.Stat(filepath.Dir(ft.Destination)); errors.Is(statErr, fs.ErrNotExist) {
			return failureDirectoryMissing
		}
		return failureFatal
	}

	var pathErr *fs.PathError
	var linkErr *os.LinkError
	if errors.Is(err, fs.ErrPermission) || errors.As(err, &pathErr) || errors.As(err, &linkErr) {
		if info, statErr := c.FileSystem.Stat(ft.Destination); statErr == nil && !info.IsDir() {
			return failureDestinationBlocked
		}
	}
	return failureFatal
}

func (c *TransferFilesCommand) resetAcls() {
	for _, file := range c.TransferredFiles {
		if err := resetAcl(file); err != nil {
			c.Messaging.Write(messaging.Wrap(messaging.AclResetFailed, nil, err, "cannot reset permissions of %s", file))
		}
	}
}
