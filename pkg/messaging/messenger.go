// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"
)

// Messenger accumulates the diagnostics of a run and logs each as it arrives.
// Whether accumulated errors fail the run is up to the caller.
type Messenger struct {
	logger   *slog.Logger
	messages []*Error
}

// NewMessenger logs through logger, or slog.Default() when nil.
func NewMessenger(logger *slog.Logger) *Messenger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Messenger{logger: logger}
}

// Write records err. Errors that are not *Error are recorded as TransferFailed
// with no source, so nothing reported is dropped.
func (m *Messenger) Write(err error) {
	if err == nil {
		return
	}
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: TransferFailed, Message: "unexpected failure", Cause: err}
	}
	m.messages = append(m.messages, e)

	level := slog.LevelError
	if e.Kind.IsWarning() {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{slog.String("kind", string(e.Kind))}
	if sln := e.SourceLineNumbers.String(); sln != "" {
		attrs = append(attrs, slog.String("source", sln))
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("err", e.Cause.Error()))
	}
	m.logger.LogAttrs(context.Background(), level, e.Message, attrs...)
}

func (m *Messenger) Messages() []*Error { return m.messages }

func (m *Messenger) Errors() []*Error {
	return lo.Filter(m.messages, func(e *Error, _ int) bool { return !e.Kind.IsWarning() })
}

func (m *Messenger) Warnings() []*Error {
	return lo.Filter(m.messages, func(e *Error, _ int) bool { return e.Kind.IsWarning() })
}

func (m *Messenger) EncounteredError() bool {
	return lo.SomeBy(m.messages, func(e *Error) bool { return !e.Kind.IsWarning() })
}

// Err joins every accumulated error, ignoring warnings. nil when there are none.
func (m *Messenger) Err() error {
	return errors.Join(lo.Map(m.Errors(), func(e *Error, _ int) error { return e })...)
}
