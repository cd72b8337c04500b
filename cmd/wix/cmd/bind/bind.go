// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bind

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/bind"
	"github.com/wixtoolset/wix-sub033/pkg/builtincommand"
	"github.com/wixtoolset/wix-sub033/pkg/extensibility"
	"github.com/wixtoolset/wix-sub033/pkg/extensionmanager"
	"github.com/wixtoolset/wix-sub033/pkg/layout"
	"github.com/wixtoolset/wix-sub033/pkg/localization"
	"github.com/wixtoolset/wix-sub033/pkg/messaging"
	"github.com/wixtoolset/wix-sub033/pkg/rowstore"
	"github.com/wixtoolset/wix-sub033/pkg/symbols"
	"github.com/wixtoolset/wix-sub033/pkg/tables"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
	"github.com/wixtoolset/wix-sub033/pkg/variables"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
	"github.com/wixtoolset/wix-sub033/pkg/wixoutput"
)

type Options struct {
	Input              string
	LayoutDir          string
	IntermediateFolder string
	Localizations      []string
	Culture            string
	BindPaths          []string
	BuildingPatch      bool
	AllowUnresolved    bool
	ResetAcls          bool
	Move               bool
	RowsPath           string
	SavePath           string
}

type Result struct {
	Intermediate     *symbols.Intermediate
	TransferredFiles []string
	Messaging        *messaging.Messenger
}

func Cmd(config *wixconfig.Config) *cobra.Command {
	opts := Options{}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <intermediate>", builtincommand.Bind),
		Short: "resolve an intermediate and lay its files out",
		Long: `resolve an intermediate and lay its files out

	the input is a library container (.wixlib, .wixipl) or a JSON intermediate.
	localization, wix variable and bind references are resolved, embedded files
	extracted and every file copied under the layout directory.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			cmd.SilenceUsage = true

			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			registry := extensibility.NewRegistry()
			extensionmanager.New(config, wd).Register(registry)

			opts.BindPaths = append(opts.BindPaths, lo.Map(config.BindPaths, func(p string, _ int) string {
				return utils.ResolvePath(wd, p)
			})...)

			result, err := Run(cmd.Context(), opts, registry)
			if err != nil {
				return err
			}
			cmd.Printf("bound %s: %d file(s) laid out in %s\n", opts.Input, len(result.TransferredFiles), opts.LayoutDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.LayoutDir, "out", "o", ".", "layout directory")
	cmd.Flags().StringVar(&opts.IntermediateFolder, "intermediate-folder", "", "folder embedded files are extracted to, defaults to a folder under the system temp dir")
	cmd.Flags().StringArrayVar(&opts.Localizations, "loc", nil, "localization (.wxl) file, repeatable")
	cmd.Flags().StringVar(&opts.Culture, "culture", "", "culture to resolve !(loc.*) references for")
	cmd.Flags().StringArrayVarP(&opts.BindPaths, "bindpath", "b", nil, "[name=]directory to resolve relative sources against, repeatable")
	cmd.Flags().BoolVar(&opts.BuildingPatch, "patch", false, "bind for a patch, re-reading changed embedded sources")
	cmd.Flags().BoolVar(&opts.AllowUnresolved, "allow-unresolved", false, "leave unknown !(loc.*) and !(wix.*) references in place")
	cmd.Flags().BoolVar(&opts.ResetAcls, "reset-acls", false, "reset the permissions of laid out files to the inherited defaults")
	cmd.Flags().BoolVar(&opts.Move, "move", false, "move sources into the layout instead of copying them")
	cmd.Flags().StringVar(&opts.RowsPath, "rows", "", "also export the resolved rows to this SQLite database")
	cmd.Flags().StringVar(&opts.SavePath, "save", "", "write the bound intermediate as JSON to this path")

	return cmd
}

// Run binds opts.Input. Field level problems are collected and reported
// together once resolution is complete; layout problems stop immediately.
func Run(ctx context.Context, opts Options, registry *extensibility.Registry) (*Result, error) {
	intermediate, err := load(opts.Input)
	if err != nil {
		return nil, err
	}

	loc, err := localizationFor(opts, intermediate)
	if err != nil {
		return nil, err
	}
	resolver := variables.NewResolver(loc)
	if err := resolver.AddWixVariables(intermediate); err != nil {
		return nil, err
	}

	bindPaths, err := parseBindPaths(opts.BindPaths)
	if err != nil {
		return nil, err
	}

	intermediateFolder := opts.IntermediateFolder
	if intermediateFolder == "" {
		intermediateFolder = filepath.Join(os.TempDir(), "wix", intermediate.Id)
	}

	messenger := messaging.NewMessenger(slog.Default())
	resolveFields := &bind.ResolveFieldsCommand{
		Messaging:                messenger,
		BuildingPatch:            opts.BuildingPatch,
		VariableResolver:         resolver,
		FileResolver:             bind.NewFileResolver(bindPaths, extensibility.Providers[bind.ResolverExtension](registry)),
		IntermediateFolder:       intermediateFolder,
		Intermediate:             intermediate,
		AllowUnresolvedVariables: opts.AllowUnresolved,
	}
	resolveFields.Execute()

	extract := &bind.ExtractEmbeddedFilesCommand{
		Messaging:              messenger,
		FilesWithEmbeddedFiles: resolveFields.ExtractEmbeddedFiles,
	}
	extract.Execute()
	slog.Debug("extracted embedded files", "count", len(extract.ExtractedFiles))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	delayed := &bind.ResolveDelayedFieldsCommand{
		Messaging:        messenger,
		DelayedFields:    resolveFields.DelayedFields,
		VariableCache:    bind.BuildBindVariableCache(intermediate),
		VariableResolver: resolver,
	}
	delayed.Execute()

	if err := messenger.Err(); err != nil {
		return nil, err
	}
	if err := intermediate.UpdateLevel(symbols.LevelFullyBound); err != nil {
		return nil, err
	}

	transfers, err := layout.PlanFileTransfers(intermediate, opts.LayoutDir, opts.Move)
	if err != nil {
		return nil, err
	}
	transfer := &layout.TransferFilesCommand{
		Messaging:     messenger,
		Extensions:    registry,
		FileTransfers: transfers,
		ResetAcls:     opts.ResetAcls,
	}
	if err := transfer.Execute(); err != nil {
		return nil, err
	}

	if opts.RowsPath != "" {
		if err := exportRows(ctx, opts.RowsPath, intermediate); err != nil {
			return nil, err
		}
	}
	if opts.SavePath != "" {
		if err := save(opts.SavePath, intermediate); err != nil {
			return nil, err
		}
	}

	return &Result{
		Intermediate:     intermediate,
		TransferredFiles: transfer.TransferredFiles,
		Messaging:        messenger,
	}, nil
}

func load(path string) (*symbols.Intermediate, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return symbols.Load(f)
	}

	output, err := wixoutput.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = output.Close() }()
	return output.Intermediate()
}

// localizationFor merges the intermediate's own localizations with the
// given .wxl files, later files winning over overridable strings.
func localizationFor(opts Options, intermediate *symbols.Intermediate) (*symbols.Localization, error) {
	locs := slices.Clone(intermediate.Localizations)
	for _, path := range opts.Localizations {
		loc, err := localization.ParseFile(path)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	if len(locs) == 0 {
		return nil, nil
	}
	return localization.ForCulture(opts.Culture, locs)
}

func parseBindPaths(values []string) ([]bind.BindPath, error) {
	var paths []bind.BindPath
	for _, v := range values {
		bp, err := bind.ParseBindPath(v, bind.BindStageNormal)
		if err != nil {
			return nil, err
		}
		paths = append(paths, bp)
	}
	return paths, nil
}

func exportRows(ctx context.Context, path string, intermediate *symbols.Intermediate) (err error) {
	store, err := rowstore.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); err == nil {
			err = cerr
		}
	}()

	for _, section := range intermediate.Sections {
		if err := store.InsertRows(ctx, tables.Rows(section)); err != nil {
			return fmt.Errorf("exporting section %q: %w", section.Id, err)
		}
	}
	return nil
}

func save(path string, intermediate *symbols.Intermediate) (err error) {
	if err := utils.EnsureDirs(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return intermediate.Save(f)
}
