// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	cmd "github.com/wixtoolset/wix-sub033/cmd/wix/cmd"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
	"github.com/wixtoolset/wix-sub033/pkg/wixapp"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
	"github.com/wixtoolset/wix-sub033/pkg/wixversion"
)

var formats = []string{"md", "rst", "man", "yaml"}

type options struct {
	format string
	dir    string
	// parent page of the markdown pages; empty disables front matter
	parent string
}

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelFn()

	if err := docsCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func docsCmd() *cobra.Command {
	opts := options{}

	c := &cobra.Command{
		Use:   "docs <output dir>",
		Short: fmt.Sprintf("Generate the %s command reference", cmd.WixName),
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts.dir = args[0]
			if !lo.Contains(formats, opts.format) {
				return fmt.Errorf("unsupported format %q, use one of %s", opts.format, strings.Join(formats, ", "))
			}
			c.SilenceUsage = true

			pages, err := generate(c.Context(), opts)
			if err != nil {
				return err
			}
			c.Printf("generated %d %s pages in %s\n", pages, opts.format, opts.dir)
			return nil
		},
	}

	c.Flags().StringVar(&opts.format, "format", "md", "output format: "+strings.Join(formats, ", "))
	c.Flags().StringVar(&opts.parent, "parent", "CLI reference", "parent page named in the markdown front matter, empty for none")
	return c
}

// generate writes one page per wix command into opts.dir and reports how many.
// The command tree is built against a throwaway WIX_HOME so local config and
// caches do not leak into the reference.
func generate(ctx context.Context, opts options) (int, error) {
	home, deleteFn, err := utils.MkdirTemp("", "wix-docs-")
	if err != nil {
		return 0, err
	}
	defer func() { _ = deleteFn() }()
	if err := os.Setenv(wixconfig.WixHomeEnvVar, home); err != nil {
		return 0, err
	}

	root, err := cmd.RootCmd(ctx, &wixapp.App{OsArgs: []string{cmd.WixName}})
	if err != nil {
		return 0, err
	}
	root.DisableAutoGenTag = true
	for _, c := range root.Commands() {
		c.Hidden = false
	}

	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return 0, err
	}

	switch opts.format {
	case "md":
		err = doc.GenMarkdownTreeCustom(root, opts.dir, frontMatter(opts.parent), func(s string) string { return s })
	case "rst":
		if err = doc.GenReSTTreeCustom(root, opts.dir, rstTitle, rstLink); err == nil {
			err = writeRSTIndex(opts.dir)
		}
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{
			Title:   strings.ToUpper(cmd.WixName),
			Section: "1",
			Source:  "WiX Toolset " + wixversion.GetToolsetVersion(),
			Manual:  "WiX Toolset Manual",
		}, opts.dir)
	case "yaml":
		err = doc.GenYamlTree(root, opts.dir)
	}
	if err != nil {
		return 0, err
	}
	return countPages(opts.dir)
}

// commandPath turns a generated file name such as wix_extension_add.md back
// into the command line it documents.
func commandPath(filename string) string {
	base := filepath.Base(filename)
	return strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), "_", " ")
}

func frontMatter(parent string) func(string) string {
	return func(filename string) string {
		if parent == "" {
			return ""
		}
		return fmt.Sprintf("---\nlayout: default\ntitle: %s\nparent: %s\n---\n\n", commandPath(filename), parent)
	}
}

func rstTitle(filename string) string {
	title := commandPath(filename)
	return fmt.Sprintf("%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

func rstLink(name, ref string) string {
	return fmt.Sprintf(":ref:`%s <%s>`", name, ref)
}

// writeRSTIndex lists every page in a toctree, the root command first.
func writeRSTIndex(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	pages := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return strings.TrimSuffix(e.Name(), ".rst"), filepath.Ext(e.Name()) == ".rst" && e.Name() != "index.rst"
	})
	slices.SortFunc(pages, func(a, b string) int {
		if a != b && (a == cmd.WixName || b == cmd.WixName) {
			return lo.Ternary(a == cmd.WixName, -1, 1)
		}
		return strings.Compare(a, b)
	})

	var b strings.Builder
	b.WriteString(".. toctree::\n   :maxdepth: 2\n   :caption: WiX CLI Reference:\n\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "   %s\n", p)
	}
	return os.WriteFile(filepath.Join(dir, "index.rst"), []byte(b.String()), 0o644)
}

func countPages(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	return lo.CountBy(entries, func(e os.DirEntry) bool {
		return !e.IsDir() && e.Name() != "index.rst"
	}), nil
}
