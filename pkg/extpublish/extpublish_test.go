// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extpublish_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wixtoolset/wix-sub033/pkg/extpublish"
	"github.com/wixtoolset/wix-sub033/pkg/testutil"
	"github.com/wixtoolset/wix-sub033/pkg/utils"
)

func TestPublish(t *testing.T) {
	ctx := testutil.Context(t)
	client, _ := testutil.StartRegistry(t)
	var out bytes.Buffer
	printer := utils.WriterPrinter{Out: &out, Err: &out}

	config := &extpublish.Config{
		Id:          "Foo.wixext",
		Version:     semver.MustParse("1.2"),
		PackagePath: testutil.BuildNupkg(t, t.TempDir(), "Foo.wixext", "1.2"),
		Annotations: map[string]string{"org.opencontainers.image.source": "https://example.com/foo"},
	}

	desc, err := extpublish.New(config, printer).Publish(ctx, client)
	require.NoError(t, err)
	require.NotNil(t, desc)
	assert.Equal(t, v1.MediaTypeImageManifest, desc.MediaType)
	assert.Contains(t, out.String(), "wixext4/Foo.wixext.dll")
	assert.Contains(t, out.String(), "successfully published")

	_, err = extpublish.New(config, printer).Publish(ctx, client)
	assert.ErrorIs(t, err, extpublish.ErrAlreadyPublished)
}

func TestPublishDryRun(t *testing.T) {
	config := &extpublish.Config{
		Id:          "Foo.wixext",
		Version:     semver.MustParse("1.0.0"),
		PackagePath: testutil.BuildNupkg(t, t.TempDir(), "Foo.wixext", "1.0.0"),
		DryRun:      true,
	}
	var out bytes.Buffer
	desc, err := extpublish.New(config, utils.WriterPrinter{Out: &out}).Publish(testutil.Context(t), nil)
	require.NoError(t, err)
	assert.Nil(t, desc)
	assert.Contains(t, out.String(), "--dry-run")
}

func TestPublishRejectsInvalidPackage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.1.0.nupkg")
	require.NoError(t, os.WriteFile(path, []byte("not a package"), 0o644))

	config := &extpublish.Config{Id: "foo", Version: semver.MustParse("1.0"), PackagePath: path, DryRun: true}
	_, err := extpublish.New(config, utils.WriterPrinter{}).Publish(testutil.Context(t), nil)
	assert.Error(t, err)
}
