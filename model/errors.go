// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"fmt"
)

var (
	ErrSpawn            = errors.New("spawn failed")
	ErrIO               = errors.New("output sink failed")
	ErrCommandRequired  = errors.New("command is required")
	ErrSinkRequired     = errors.New("sink is required")
	ErrAmbiguousCommand = errors.New("only one of command or executable may be set")
	ErrInvalidEventID   = errors.New("invalid event id")
)

const (
	// ErrorKindSpawn marks events that failed because the child could not be started
	ErrorKindSpawn = "spawn"
	// ErrorKindIO marks events that failed because the output sink could not be used
	ErrorKindIO = "io"
)

// SpawnError is returned when the executable cannot be located or started
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("spawn: %v", e.Err)
	}

	return fmt.Sprintf("spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() []error { return []error{ErrSpawn, e.Err} }

// IOError is returned when the output sink cannot be opened or released
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sink: %v", e.Err)
	}

	return fmt.Sprintf("sink %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// ErrorKind classifies err as ErrorKindSpawn, ErrorKindIO or an empty string
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSpawn):
		return ErrorKindSpawn
	case errors.Is(err, ErrIO):
		return ErrorKindIO
	default:
		return ""
	}
}
