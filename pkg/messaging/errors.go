// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"

	"github.com/wixtoolset/wix-sub033/pkg/symbols"
)

type Kind string

const (
	UnknownLocalizationVariable     Kind = "UNKNOWN_LOCALIZATION_VARIABLE"
	UnknownWixVariable              Kind = "UNKNOWN_WIX_VARIABLE"
	CircularLocalizationReference   Kind = "CIRCULAR_LOCALIZATION_REFERENCE"
	UnresolvedBindReference         Kind = "UNRESOLVED_BIND_REFERENCE"
	DuplicateLocalizationIdentifier Kind = "DUPLICATE_LOCALIZATION_IDENTIFIER"
	DuplicateWixVariable            Kind = "DUPLICATE_WIX_VARIABLE"
	InvalidLocalizationFile         Kind = "INVALID_LOCALIZATION_FILE"
	FileNotFound                    Kind = "FILE_NOT_FOUND"
	SourceFileNotFound              Kind = "SOURCE_FILE_NOT_FOUND"
	FileInUse                       Kind = "FILE_IN_USE"
	TransferFailed                  Kind = "TRANSFER_FAILED"
	EmbeddedFileExtractionFailed    Kind = "EMBEDDED_FILE_EXTRACTION_FAILED"
	InvalidExtensionReference       Kind = "INVALID_EXTENSION_REFERENCE"
	ExtensionNotFound               Kind = "EXTENSION_NOT_FOUND"
	InvalidExtensionPackage         Kind = "INVALID_EXTENSION_PACKAGE"
	InvalidIntermediate             Kind = "INVALID_INTERMEDIATE"

	// warnings
	PackageSourceFailure Kind = "PACKAGE_SOURCE_FAILURE"
	AclResetFailed       Kind = "ACL_RESET_FAILED"
)

// IsWarning reports whether messages of this kind never fail a run.
func (k Kind) IsWarning() bool {
	return k == PackageSourceFailure || k == AclResetFailed
}

// Error is a diagnostic tied to authored source.
type Error struct {
	Kind              Kind
	SourceLineNumbers *symbols.SourceLineNumber
	Message           string
	Cause             error
}

func New(kind Kind, sln *symbols.SourceLineNumber, format string, args ...any) *Error {
	return &Error{Kind: kind, SourceLineNumbers: sln, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, sln *symbols.SourceLineNumber, cause error, format string, args ...any) *Error {
	e := New(kind, sln, format, args...)
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if sln := e.SourceLineNumbers.String(); sln != "" {
		msg = sln + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) MarshalYAML() (interface{}, error) {
	out := map[string]interface{}{
		"kind":    string(e.Kind),
		"message": e.Message,
	}
	if sln := e.SourceLineNumbers.String(); sln != "" {
		out["source"] = sln
	}
	if e.Cause != nil {
		out["cause"] = e.Cause.Error()
	}
	return out, nil
}

var _ error = (*Error)(nil)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
