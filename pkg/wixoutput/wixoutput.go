// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package wixoutput reads and writes the zip container libraries and bound
// outputs are stored in: the intermediate as wix-ir.json and every embedded
// file as wix-ir/<index>.
package wixoutput

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

const (
	IntermediateEntry   = "wix-ir.json"
	EmbeddedEntryPrefix = "wix-ir/"
)

var ErrNoEmbeddedFile = errors.New("no embedded file")

// Create writes intermediate and the files in embedded, keyed by their
// embedded file index, to a new container at path.
func Create(path string, intermediate *symbols.Intermediate, embedded map[int]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	zw := zip.NewWriter(f)
	w, err := zw.Create(IntermediateEntry)
	if err != nil {
		return err
	}
	if err := intermediate.Save(w); err != nil {
		return err
	}

	for _, index := range slices.Sorted(maps.Keys(embedded)) {
		if err := addFile(zw, embeddedEntry(index), embedded[index]); err != nil {
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, name, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

func embeddedEntry(index int) string {
	return EmbeddedEntryPrefix + strconv.Itoa(index)
}

type Output struct {
	// BaseURI is the file:// uri embedded paths into this container use
	BaseURI string

	zr *zip.ReadCloser
}

func Open(path string) (*Output, error) {
	uri, err := URIFromPath(path)
	if err != nil {
		return nil, err
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Output{BaseURI: uri, zr: zr}, nil
}

func (o *Output) Close() error {
	return o.zr.Close()
}

func (o *Output) Intermediate() (*symbols.Intermediate, error) {
	rc, err := o.zr.Open(IntermediateEntry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no %s", symbols.ErrInvalidIntermediate, o.BaseURI, IntermediateEntry)
	}
	defer rc.Close()
	return symbols.Load(rc)
}

func (o *Output) EmbeddedIndexes() []int {
	indexes := lo.FilterMap(o.zr.File, func(f *zip.File, _ int) (int, bool) {
		rest, ok := strings.CutPrefix(f.Name, EmbeddedEntryPrefix)
		if !ok {
			return 0, false
		}
		i, err := strconv.Atoi(rest)
		return i, err == nil
	})
	slices.Sort(indexes)
	return indexes
}

// ExtractEmbedded writes embedded file index to dest, creating its directory.
// dest is written through a temporary file so it is either complete or absent.
func (o *Output) ExtractEmbedded(index int, dest string) (err error) {
	rc, err := o.zr.Open(embeddedEntry(index))
	if err != nil {
		return fmt.Errorf("%w %d in %s", ErrNoEmbeddedFile, index, o.BaseURI)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".extract-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// URIFromPath returns the file:// uri of path.
func URIFromPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String(), nil
}

// PathFromURI is the inverse of URIFromPath.
func PathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported base uri %q, only file:// is supported", uri)
	}
	p := u.Path
	if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}
