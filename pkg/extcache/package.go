// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extcache

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/samber/lo"
)

// PackageRootFolder is the folder of an extension package holding the extension itself.
const PackageRootFolder = "wixext4"

var entryPointExtensions = []string{".dll", ".exe"}

// openPackage reads a downloaded archive and checks it holds PackageRootFolder.
func openPackage(data []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	hasRoot := lo.ContainsBy(zr.File, func(f *zip.File) bool {
		return strings.HasPrefix(packagePath(f.Name), PackageRootFolder+"/")
	})
	if !hasRoot {
		return nil, fmt.Errorf("package has no %s folder", PackageRootFolder)
	}
	return zr, nil
}

// packagePath normalizes an archive entry name; some packagers write backslashes.
func packagePath(name string) string {
	return strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, `\`, "/")), "/")
}

// extractPackage writes the PackageRootFolder entries of zr below dir.
func extractPackage(zr *zip.Reader, dir string) error {
	for _, f := range zr.File {
		name := packagePath(f.Name)
		if !strings.HasPrefix(name, PackageRootFolder+"/") || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return fmt.Errorf("package entry %q escapes the package folder", f.Name)
		}
		if err := extractEntry(f, filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			return fmt.Errorf("extracting %s: %w", name, err)
		}
	}
	return nil
}

func extractEntry(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return err
	}
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// hasEntryPoint reports whether versionDir holds wixext4/<id>.dll or .exe.
// Names are compared case-insensitively since packages come from Windows.
func hasEntryPoint(versionDir, id string) bool {
	entries, err := os.ReadDir(filepath.Join(versionDir, PackageRootFolder))
	if err != nil {
		return false
	}
	return lo.ContainsBy(entries, func(e os.DirEntry) bool {
		if e.IsDir() {
			return false
		}
		return lo.ContainsBy(entryPointExtensions, func(ext string) bool {
			return strings.EqualFold(e.Name(), id+ext)
		})
	})
}

// PackageFiles checks data is an extension package and lists the files below PackageRootFolder.
func PackageFiles(data []byte) ([]string, error) {
	zr, err := openPackage(data)
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(zr.File, func(f *zip.File, _ int) (string, bool) {
		name := packagePath(f.Name)
		return name, strings.HasPrefix(name, PackageRootFolder+"/") && !strings.HasSuffix(f.Name, "/")
	}), nil
}
