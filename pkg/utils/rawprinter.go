// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// RawPrinter is the subset of *cobra.Command output helpers that library
// code prints through, so it can run with or without a command.
type RawPrinter interface {
	Println(i ...interface{})
	Printf(format string, i ...interface{})
	PrintErrln(i ...interface{})
	PrintErrf(format string, i ...interface{})
}

// WriterPrinter prints to Out and Err, defaulting to the process streams.
type WriterPrinter struct {
	Out, Err io.Writer
}

func (p WriterPrinter) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p WriterPrinter) err() io.Writer {
	if p.Err == nil {
		return os.Stderr
	}
	return p.Err
}

func (p WriterPrinter) Println(i ...interface{}) {
	fmt.Fprintln(p.out(), i...)
}

func (p WriterPrinter) Printf(format string, i ...interface{}) {
	fmt.Fprintf(p.out(), format, i...)
}

func (p WriterPrinter) PrintErrln(i ...interface{}) {
	fmt.Fprintln(p.err(), i...)
}

func (p WriterPrinter) PrintErrf(format string, i ...interface{}) {
	fmt.Fprintf(p.err(), format, i...)
}

var _ RawPrinter = WriterPrinter{}
var _ RawPrinter = (*cobra.Command)(nil)
