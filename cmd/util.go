// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/finnagene/finnagene/manager"
	"github.com/finnagene/finnagene/model"
)

// newOutputLogger reports run outcomes on stdout
func newOutputLogger() model.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	switch {
	case logJSON:
		return manager.NewLogrusJSONLogger(os.Stdout, logrusLevel(level))
	case term.IsTerminal(int(os.Stdout.Fd())):
		return manager.NewSlogColorLogger(os.Stdout, level)
	default:
		return manager.NewSlogTextLogger(os.Stdout, level)
	}
}

func newLogger() model.Logger {
	var level slog.Level

	switch {
	case debug:
		level = slog.LevelDebug
	case info:
		level = slog.LevelInfo
	default:
		level = slog.LevelWarn
	}

	if logJSON {
		return manager.NewLogrusJSONLogger(os.Stderr, logrusLevel(level))
	}

	return manager.NewSlogTextLogger(os.Stderr, level)
}

func logrusLevel(level slog.Level) logrus.Level {
	switch {
	case level <= slog.LevelDebug:
		return logrus.DebugLevel
	case level <= slog.LevelInfo:
		return logrus.InfoLevel
	case level <= slog.LevelWarn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}
