// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package symbols

import (
	"errors"
	"fmt"
)

var ErrInvalidPathValue = errors.New("invalid path value")

// PathValue is the data of a Path field. An embedded path names a file stored
// inside the library or output at BaseURI, an external path names a file on
// disk. The two forms are exclusive.
type PathValue struct {
	Embed             bool   `json:"embed,omitempty"`
	BaseURI           string `json:"baseUri,omitempty"`
	EmbeddedFileIndex int    `json:"index,omitempty"`
	Path              string `json:"path,omitempty"`
}

func NewEmbeddedPath(baseURI string, index int) PathValue {
	return PathValue{Embed: true, BaseURI: baseURI, EmbeddedFileIndex: index}
}

func NewExternalPath(path string) PathValue {
	return PathValue{Path: path}
}

func (p PathValue) Validate() error {
	if p.Embed {
		if p.BaseURI == "" {
			return fmt.Errorf("%w: embedded path without base uri", ErrInvalidPathValue)
		}
		if p.Path != "" {
			return fmt.Errorf("%w: embedded path %s#%d also names external path %q", ErrInvalidPathValue, p.BaseURI, p.EmbeddedFileIndex, p.Path)
		}
		if p.EmbeddedFileIndex < 0 {
			return fmt.Errorf("%w: negative embedded file index %d", ErrInvalidPathValue, p.EmbeddedFileIndex)
		}
		return nil
	}
	if p.BaseURI != "" || p.EmbeddedFileIndex != 0 {
		return fmt.Errorf("%w: external path %q carries embedded location", ErrInvalidPathValue, p.Path)
	}
	return nil
}

func (p PathValue) String() string {
	if p.Embed {
		return fmt.Sprintf("%s#%d", p.BaseURI, p.EmbeddedFileIndex)
	}
	return p.Path
}
