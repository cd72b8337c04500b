// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bind

import (
	"path/filepath"
	"strconv"

	"github.com/opencontainers/go-digest"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/wixoutput"
)

const embeddedFolder = "embedded"

type EmbeddedFile struct {
	Index       int
	Destination string
}

type EmbeddedFileGroup struct {
	BaseURI string
	Files   []EmbeddedFile
}

// ExtractEmbeddedFiles collects the embedded files a bind needs on disk,
// grouped by the container they live in.
type ExtractEmbeddedFiles struct {
	groups map[string]*EmbeddedFileGroup
	order  []string
	seen   map[string]bool
}

func NewExtractEmbeddedFiles() *ExtractEmbeddedFiles {
	return &ExtractEmbeddedFiles{groups: map[string]*EmbeddedFileGroup{}, seen: map[string]bool{}}
}

// Add requests extraction of file index from baseURI and returns where it
// will be extracted: <intermediateFolder>/embedded/<hash of baseURI>/<index>.
func (e *ExtractEmbeddedFiles) Add(baseURI string, index int, intermediateFolder string) string {
	dest := EmbeddedFilePath(baseURI, index, intermediateFolder)
	if e.seen[dest] {
		return dest
	}
	e.seen[dest] = true

	g, ok := e.groups[baseURI]
	if !ok {
		g = &EmbeddedFileGroup{BaseURI: baseURI}
		e.groups[baseURI] = g
		e.order = append(e.order, baseURI)
	}
	g.Files = append(g.Files, EmbeddedFile{Index: index, Destination: dest})
	return dest
}

func (e *ExtractEmbeddedFiles) Len() int { return len(e.seen) }

// Groups returns the requested files in the order their containers were first seen.
func (e *ExtractEmbeddedFiles) Groups() []EmbeddedFileGroup {
	out := make([]EmbeddedFileGroup, 0, len(e.order))
	for _, uri := range e.order {
		out = append(out, *e.groups[uri])
	}
	return out
}

func EmbeddedFilePath(baseURI string, index int, intermediateFolder string) string {
	return filepath.Join(intermediateFolder, embeddedFolder, digest.FromString(baseURI).Encoded()[:16], strconv.Itoa(index))
}

// ExtractEmbeddedFilesCommand writes every requested embedded file to disk,
// opening each container once. A container that cannot be read fails only
// its own files.
type ExtractEmbeddedFilesCommand struct {
	Messaging              *messaging.Messenger
	FilesWithEmbeddedFiles *ExtractEmbeddedFiles

	ExtractedFiles []string
}

func (c *ExtractEmbeddedFilesCommand) Execute() {
	if c.FilesWithEmbeddedFiles == nil {
		return
	}
	for _, group := range c.FilesWithEmbeddedFiles.Groups() {
		c.extractGroup(group)
	}
}

func (c *ExtractEmbeddedFilesCommand) extractGroup(group EmbeddedFileGroup) {
	path, err := wixoutput.PathFromURI(group.BaseURI)
	if err != nil {
		c.Messaging.Write(messaging.Wrap(messaging.EmbeddedFileExtractionFailed, nil, err, "cannot locate %s", group.BaseURI))
		return
	}
	out, err := wixoutput.Open(path)
	if err != nil {
		c.Messaging.Write(messaging.Wrap(messaging.EmbeddedFileExtractionFailed, nil, err, "cannot open %s", path))
		return
	}
	defer out.Close()

	for _, f := range group.Files {
		if err := out.ExtractEmbedded(f.Index, f.Destination); err != nil {
			c.Messaging.Write(messaging.Wrap(messaging.EmbeddedFileExtractionFailed, nil, err, "cannot extract file %d of %s", f.Index, path))
			continue
		}
		c.ExtractedFiles = append(c.ExtractedFiles, f.Destination)
	}
}
