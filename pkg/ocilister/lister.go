// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ocilister

import (
	"context"
	"errors"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
	ociconsts "github.com/wixtoolset/wix-sub033/pkg/oci"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig/wixremote"
	"oras.land/oras-go/v2/registry/remote/errcode"
)

// ListTags returns every tag of repoName; found is false when the repository does not exist.
func ListTags(ctx context.Context, client *wixremote.Remote, repoName string) (tags []string, found bool, err error) {
	repo, err := client.Repo(repoName)
	if err != nil {
		return nil, false, err
	}

	err = repo.Tags(ctx, "", func(page []string) error {
		tags = append(tags, page...)
		return ctx.Err()
	})
	if isErrorCode(err, errcode.ErrorCodeNameUnknown) {
		// repo doesn't even exist...
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return tags, true, nil
}

// ListExtensionVersions returns the versions published for extension id, ascending.
// Floaty tags such as "latest" are skipped.
func ListExtensionVersions(ctx context.Context, client *wixremote.Remote, id string) ([]*semver.Version, error) {
	tags, _, err := ListTags(ctx, client, ociconsts.ExtensionRepoName(id))
	if err != nil {
		return nil, err
	}

	versions := lo.FilterMap(tags, func(tag string, _ int) (*semver.Version, bool) {
		if IsFloaty(tag) {
			return nil, false
		}
		v, err := semver.NewVersion(tag)
		return v, err == nil
	})
	slices.SortStableFunc(versions, Cmp)
	return versions, nil
}

// IsFloaty reports whether tag is a moving tag rather than a published version.
func IsFloaty(tag string) bool {
	_, err := semver.NewVersion(tag)
	return err != nil
}

func Cmp(a, b *semver.Version) int {
	return a.Compare(b)
}

// isErrorCode returns true if err is an oras Error and its Code equals to code.
func isErrorCode(err error, code string) bool {
	var ec errcode.Error
	return errors.As(err, &ec) && ec.Code == code
}
