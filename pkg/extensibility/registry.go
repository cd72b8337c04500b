// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extensibility maps a capability interface to the providers
// registered for it. Consumers ask for a capability by type; providers are
// returned in registration order.
package extensibility

import (
	"reflect"
	"sync"
)

type Registry struct {
	mu        sync.RWMutex
	providers map[reflect.Type][]any
}

func NewRegistry() *Registry {
	return &Registry{providers: map[reflect.Type][]any{}}
}

func capability[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Register adds p as a provider of capability T.
func Register[T any](r *Registry, p T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := capability[T]()
	r.providers[key] = append(r.providers[key], p)
}

// Providers returns the providers of capability T in registration order.
// A nil registry has none.
func Providers[T any](r *Registry) []T {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	registered := r.providers[capability[T]()]
	out := make([]T, 0, len(registered))
	for _, p := range registered {
		if v, ok := p.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Len is the number of providers of every capability.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, ps := range r.providers {
		n += len(ps)
	}
	return n
}
