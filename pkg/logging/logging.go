// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wixtoolset/wix-sub033/pkg/wixconfig"
)

const defaultLevel = "info"

func InitLogging() error {
	return InitLoggingTo(os.Stderr)
}

// InitLoggingTo installs the default slog logger writing to w, at the level
// named by WIX_LOG_LEVEL.
func InitLoggingTo(w io.Writer) error {
	logLevel, ok := os.LookupEnv(wixconfig.LogLevelEnvVar)
	if !ok || logLevel == "" {
		logLevel = defaultLevel
	}
	l, err := parseLevel(logLevel)
	if err != nil {
		return err
	}

	slogHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(slogHandler))
	return nil
}

func parseLevel(logLevel string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(logLevel)); err != nil {
		return l, fmt.Errorf("invalid %s value %q: %w", wixconfig.LogLevelEnvVar, logLevel, err)
	}
	return l, nil
}
