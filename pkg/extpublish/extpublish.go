// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extpublish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	ociconsts "github.com/wixtoolset/wix-sub033/pkg/oci"
	"github.com/wixtoolset/wix-sub033/pkg/ocilister"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig/wixremote"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/file"
)

var ErrAlreadyPublished = errors.New("extension version already published")

type Config struct {
	Id                     string
	Version                *semver.Version
	PackagePath            string
	DryRun, IncludeGitInfo bool
	Annotations            map[string]string
}

func (config *Config) RequiredAnnotations() ociconsts.DescriptorAnnotations {
	return ociconsts.DescriptorAnnotations{
		Id:      config.Id,
		Version: config.Version,
	}
}

func (config *Config) Destination(registry string) string {
	return fmt.Sprintf("%s/%s:%s", registry, ociconsts.ExtensionRepoName(config.Id), config.Version.Original())
}

type Publisher struct {
	config  *Config
	printer utils.RawPrinter
}

func New(config *Config, printer utils.RawPrinter) *Publisher {
	return &Publisher{config: config, printer: printer}
}

// Publish pushes the package as wixext/<id>:<version>. A version already in
// the registry is never overwritten. client may be nil for a dry run.
func (p *Publisher) Publish(ctx context.Context, client *wixremote.Remote) (*v1.Descriptor, error) {
	data, err := os.ReadFile(p.config.PackagePath)
	if err != nil {
		return nil, err
	}
	p.printer.Printf("📦 Validating extension package %s...\n", p.config.PackagePath)
	files, err := extcache.PackageFiles(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.config.PackagePath, err)
	}
	p.printer.Println("Content:")
	for _, f := range files {
		p.printer.Println("  " + color.CyanString(f))
	}
	p.printer.Println()

	if p.config.DryRun {
		p.printer.Println("Skipping push due to --dry-run")
		return nil, nil
	}
	if client == nil {
		return nil, fmt.Errorf("a registry must be provided when not in dry-run mode")
	}

	existing, err := ocilister.ListExtensionVersions(ctx, client, p.config.Id)
	if err != nil {
		return nil, err
	}
	if lo.ContainsBy(existing, p.config.Version.Equal) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPublished, p.config.Destination(client.Registry))
	}

	annotations := maps.Clone(p.config.Annotations)
	if annotations == nil {
		annotations = map[string]string{}
	}
	if p.config.IncludeGitInfo {
		gitAnnotations, err := collectGitAnnotations()
		if err != nil {
			return nil, err
		}
		maps.Copy(annotations, gitAnnotations)
	}
	p.config.RequiredAnnotations().AppendToMap(annotations)

	return p.push(ctx, client, annotations)
}

func (p *Publisher) push(ctx context.Context, client *wixremote.Remote, annotations map[string]string) (*v1.Descriptor, error) {
	tag := p.config.Version.Original()
	absPackage, err := filepath.Abs(p.config.PackagePath)
	if err != nil {
		return nil, err
	}

	fs, err := file.New(filepath.Dir(absPackage))
	if err != nil {
		return nil, err
	}
	defer fs.Close()

	configDesc, err := appendConfig(ctx, fs)
	if err != nil {
		return nil, err
	}
	layer, err := fs.Add(ctx, filepath.Base(absPackage), ociconsts.ExtensionPackageMediaType, absPackage)
	if err != nil {
		return nil, err
	}

	packOpts := oras.PackManifestOptions{
		Layers:              []v1.Descriptor{layer},
		ManifestAnnotations: annotations,
		ConfigDescriptor:    configDesc,
	}
	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ociconsts.ExtensionArtifactType, packOpts)
	if err != nil {
		return nil, err
	}
	if err := fs.Tag(ctx, manifestDesc, tag); err != nil {
		return nil, err
	}

	repo, err := client.Repo(ociconsts.ExtensionRepoName(p.config.Id))
	if err != nil {
		return nil, err
	}

	coloredDest := color.GreenString(p.config.Destination(client.Registry))
	p.printer.Printf("Pushing %q...\n", coloredDest)
	desc, err := oras.Copy(ctx, fs, tag, repo, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, err
	}

	descriptorJson, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return nil, err
	}
	p.printer.Printf("\n%s\n", string(descriptorJson))
	p.printer.Println("successfully published " + coloredDest)
	return &desc, nil
}

func appendConfig(ctx context.Context, store *file.Store) (*v1.Descriptor, error) {
	blob := []byte(`{}`)
	desc := content.NewDescriptorFromBytes(oras.MediaTypeUnknownConfig, blob)
	if err := store.Push(ctx, desc, bytes.NewReader(blob)); err != nil {
		return nil, err
	}
	return &desc, nil
}

func collectGitAnnotations() (map[string]string, error) {
	r, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	head, err := r.Head()
	if err != nil {
		return nil, err
	}

	result := map[string]string{
		ociconsts.WixAnnotation("git.commit"): head.Hash().String(),
	}

	tag, err := r.TagObject(head.Hash())
	if err == nil {
		result[ociconsts.WixAnnotation("git.tag")] = tag.Name
	} else if !errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, err
	}

	return result, nil
}
