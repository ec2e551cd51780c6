// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

//go:generate mockgen -source runner.go -destination modelmocks/runner_mocks.go -package modelmocks

// CommandRunner spawns a command with its standard output appended to sink and waits for it to exit
type CommandRunner interface {
	Run(command []string, sink string) (exitCode int, err error)
}
