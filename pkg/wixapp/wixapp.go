// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package wixapp

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type App struct {
	Stderr, Stdout, Stdin *os.File
	ExitFn                func(exitCode int)
	// must contain at least one argument, namely the wix binary name, similar to os.Args
	OsArgs []string
}

func (a *App) SetOutputStreams(cmd *cobra.Command) {
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)
	cmd.SetIn(a.Stdin)

	lo.ForEach(cmd.Commands(), func(sub *cobra.Command, _ int) {
		a.SetOutputStreams(sub)
	})
}

// ExitError carries the process exit code a command failed with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func WithExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode is 0 for nil, the code of an ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func (a *App) Exit(err error) {
	code := ExitCode(err)
	if code != 0 && a.Stderr != nil {
		fmt.Fprintln(a.Stderr, err.Error())
	}
	if a.ExitFn != nil {
		a.ExitFn(code)
	}
}
