// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/choria-io/fisk"
)

var (
	ctx      context.Context
	debug    bool
	info     bool
	logJSON  bool
	exitCode int
	Version  = "development"
)

func main() {
	app := fisk.New("finnagene", "Runs a command appending its output to a file")
	app.Version(Version)
	app.Author("https://github.com/finnagene/finnagene")

	app.Flag("debug", "Enable debug logging").UnNegatableBoolVar(&debug)
	app.Flag("info", "Enable info logging").UnNegatableBoolVar(&info)
	app.Flag("log-json", "Log in JSON format").UnNegatableBoolVar(&logJSON)

	registerRunCommand(app)
	registerHistoryCommand(app)
	registerFactsCommand(app)

	ctx, _ = signal.NotifyContext(context.Background(), os.Interrupt)

	app.MustParseWithUsage(os.Args[1:])

	os.Exit(exitCode)
}
