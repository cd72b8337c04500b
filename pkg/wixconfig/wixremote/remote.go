// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package wixremote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/wixtoolset/wix-sub033/pkg/ocicache"
	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
	"github.com/wixtoolset/wix-sub033/pkg/wixversion"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// Remote is the authenticated http client shared by the OCI extension
// source, extension publishing and NuGet feed requests.
type Remote struct {
	Registry string
	client   *auth.Client

	// Use http instead of https.
	// This is merely a hint to consumers of Remote, and not something that is enforced by Client
	Insecure bool
}

func (r *Remote) Repo(repoName string) (repo *remote.Repository, err error) {
	repo, err = remote.NewRepository(fmt.Sprintf("%s/%s", r.Registry, repoName))
	if err != nil {
		return nil, err
	}

	repo.Client = r
	repo.PlainHTTP = r.Insecure
	return
}

func (r *Remote) CachedRepo(repoName, ociCache string) (oras.ReadOnlyTarget, error) {
	repo, err := r.Repo(repoName)
	if err != nil {
		return nil, err
	}
	return ocicache.CachedTarget(repo, ociCache)
}

func NewWithCustomClient(registry string, client *auth.Client, insecure bool) *Remote {
	return &Remote{
		Registry: registry,
		client:   client,
		Insecure: insecure,
	}
}

func New(registry string, authConfigPath string, insecure bool) (*Remote, error) {
	// copy, so the user agent and credentials don't leak into auth.DefaultClient
	client := *auth.DefaultClient
	client.Header = client.Header.Clone()
	client.SetUserAgent(wixversion.UserAgent())

	if authConfigPath != "" {
		slog.Info("using custom auth for registry", "path", authConfigPath)
		ds, err := credentials.NewStore(authConfigPath, credentials.StoreOptions{})
		if err != nil {
			return nil, err
		}
		client.Credential = credentials.Credential(readOnlyStore{ds})
	} else {
		slog.Debug("no custom registry auth provided. Will default to docker's if present on system")
		ds, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
		if err != nil {
			slog.Debug("failed to determine docker config to default to. Requests to registry will be unauthenticated", "err", err.Error())
		} else {
			client.Credential = credentials.Credential(readOnlyStore{ds})
		}
	}

	return NewWithCustomClient(registry, &client, insecure), nil
}

var _ remote.Client = (*Remote)(nil)

func (r *Remote) Do(req *http.Request) (*http.Response, error) {
	slog.Debug("remote request", "method", req.Method, "url", req.URL.String())
	return r.client.Do(req)
}

func NewFromConfig(config *wixconfig.Config) (*Remote, error) {
	return New(config.Registry, config.RegistryAuthPath, config.Insecure)
}

// readOnlyStore keeps the toolset from writing into the user's docker config
type readOnlyStore struct {
	ds *credentials.DynamicStore
}

var _ credentials.Store = readOnlyStore{}

func (r readOnlyStore) Get(ctx context.Context, serverAddress string) (auth.Credential, error) {
	return r.ds.Get(ctx, serverAddress)
}

func (r readOnlyStore) Put(context.Context, string, auth.Credential) error {
	return fmt.Errorf("registry credential store is read-only")
}

func (r readOnlyStore) Delete(context.Context, string) error {
	return fmt.Errorf("registry credential store is read-only")
}
