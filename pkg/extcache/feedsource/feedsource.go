// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package feedsource serves extension packages from a NuGet v3 flat container feed.
package feedsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
	"github.com/wixtoolset/wix-sub033/pkg/ocilister"
)

// maxPackageSize bounds a download held in memory.
const maxPackageSize = 512 << 20

// Doer sends requests, e.g. an authenticated wixremote.Remote.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Source struct {
	baseURL string
	client  Doer
}

var _ extcache.PackageSource = (*Source)(nil)

func New(baseURL string, client Doer) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (s *Source) Name() string {
	return s.baseURL
}

type versionIndex struct {
	Versions []string `json:"versions"`
}

func (s *Source) Versions(ctx context.Context, id string) ([]*semver.Version, error) {
	body, found, err := s.get(ctx, s.baseURL+"/"+url.PathEscape(strings.ToLower(id))+"/index.json", 1<<20)
	if err != nil || !found {
		return nil, err
	}

	var index versionIndex
	if err := json.Unmarshal(body, &index); err != nil {
		return nil, fmt.Errorf("decoding version index of %s: %w", id, err)
	}
	versions := lo.FilterMap(index.Versions, func(v string, _ int) (*semver.Version, bool) {
		parsed, err := semver.NewVersion(v)
		return parsed, err == nil
	})
	slices.SortStableFunc(versions, ocilister.Cmp)
	return versions, nil
}

func (s *Source) Download(ctx context.Context, id string, version *semver.Version) ([]byte, error) {
	lowerId := url.PathEscape(strings.ToLower(id))
	lowerVersion := url.PathEscape(strings.ToLower(version.Original()))
	u := fmt.Sprintf("%s/%s/%s/%s.%s.nupkg", s.baseURL, lowerId, lowerVersion, lowerId, lowerVersion)

	body, found, err := s.get(ctx, u, maxPackageSize)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s/%s: %w", id, version.Original(), extcache.ErrPackageNotFound)
	}
	return body, nil
}

func (s *Source) get(ctx context.Context, u string, limit int64) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("GET %s: unexpected status %s", u, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return nil, false, fmt.Errorf("GET %s: response larger than %d bytes", u, limit)
	}
	return body, true, nil
}
