// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package toolset

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
)

var (
	ErrNotInitialized = errors.New("tool locator has not been initialized")
	ErrToolNotFound   = errors.New("tool not found")
)

var DefaultTools = []string{"dotnet", "msbuild", "signtool"}

// Locator finds the external tools a build shells out to. Lookups happen
// once, in Init; Path only reads the result.
type Locator struct {
	names []string
	dirs  []string

	mu    sync.Mutex
	found map[string]string
	// lookPath is exec.LookPath unless replaced in tests
	lookPath func(string) (string, error)
}

func NewLocator(names []string, dirs ...string) *Locator {
	return &Locator{
		names:    lo.Uniq(names),
		dirs:     dirs,
		lookPath: exec.LookPath,
	}
}

// Init looks every tool up. Calling it again has no effect.
func (l *Locator) Init() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.found != nil {
		return nil
	}

	found := map[string]string{}
	for _, name := range l.names {
		path, ok, err := l.locate(name)
		if err != nil {
			return fmt.Errorf("failed to locate %q: %w", name, err)
		}
		if ok {
			slog.Debug("located tool", "name", name, "path", path)
			found[name] = path
		}
	}
	l.found = found
	return nil
}

func (l *Locator) locate(name string) (string, bool, error) {
	for _, dir := range l.dirs {
		for _, candidate := range executableNames(name) {
			p := filepath.Join(dir, candidate)
			ok, err := utils.FileExists(p)
			if err != nil {
				return "", false, err
			}
			if ok {
				return p, true, nil
			}
		}
	}

	p, err := l.lookPath(name)
	if errors.Is(err, exec.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", false, nil
		}
		return "", false, err
	}
	return p, true, nil
}

func executableNames(name string) []string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return []string{name + ".exe", name}
	}
	return []string{name}
}

func (l *Locator) Path(name string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.found == nil {
		return "", ErrNotInitialized
	}
	p, ok := l.found[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return p, nil
}

// Tools reports every requested tool and the path it was found at, or ""
// when missing, sorted by name.
func (l *Locator) Tools() (map[string]string, []string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.found == nil {
		return nil, nil, ErrNotInitialized
	}
	names := slices.Sorted(slices.Values(l.names))
	result := lo.SliceToMap(names, func(n string) (string, string) {
		return n, l.found[n]
	})
	return result, names, nil
}
