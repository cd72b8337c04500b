// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEnvVar(t *testing.T) {
	t.Setenv("WIX_TEST_LIST", " a, ,b ,c")
	got, ok := ListEnvVar("WIX_TEST_LIST")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	_, ok = ListEnvVar("WIX_TEST_LIST_UNSET")
	assert.False(t, ok)
}

func TestBoolEnvVar(t *testing.T) {
	t.Setenv("WIX_TEST_BOOL", "nope")
	_, ok, err := BoolEnvVar("WIX_TEST_BOOL")
	assert.True(t, ok)
	assert.Error(t, err)

	t.Setenv("WIX_TEST_BOOL", "true")
	v, _, err := BoolEnvVar("WIX_TEST_BOOL")
	require.NoError(t, err)
	assert.True(t, v)
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, SamePath(filepath.Join(dir, "A.txt"), filepath.Join(dir, "sub", "..", "a.TXT")))
	assert.False(t, SamePath(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")))
}

func TestCopyFileRequiresParent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("hi"), 0o644))

	err := CopyFile(src, filepath.Join(dir, "missing", "dst.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, CopyFile(src, filepath.Join(dir, "dst.txt")))
	data, err := os.ReadFile(filepath.Join(dir, "dst.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
}

func TestCopyFileOntoItselfKeepsContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Link(src, link))

	assert.ErrorIs(t, CopyFile(src, src), ErrSameFile)
	assert.ErrorIs(t, CopyFile(src, link), ErrSameFile)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestWithCacheLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nested", ".lock")
	ran := false
	err := WithCacheLock(context.Background(), lockPath, func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = WithCacheLock(ctx, lockPath, func() error {
		t.Fatal("action must not run with a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
