// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

const RunEventProtocol = "io.finnagene.v1.run.event"

// HistoryStore records run events
type HistoryStore interface {
	RecordEvent(*RunEvent) error
	AllEvents() ([]*RunEvent, error)
	EventsForName(name string) ([]*RunEvent, error)
	Summary() (*RunSummary, error)
}

// RunEvent records the outcome of a single invocation
type RunEvent struct {
	Protocol     string        `json:"protocol" yaml:"protocol"`
	EventID      string        `json:"event_id" yaml:"event_id"`
	TimeStamp    time.Time     `json:"timestamp" yaml:"timestamp"`
	Name         string        `json:"name" yaml:"name"`
	Executable   string        `json:"executable" yaml:"executable"`
	Arguments    []string      `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Sink         string        `json:"sink" yaml:"sink"`
	ExitCode     int           `json:"exit_code" yaml:"exit_code"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
	BytesWritten int64         `json:"bytes_written" yaml:"bytes_written"`

	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Failed    bool   `json:"failed" yaml:"failed"`
}

// NewRunEvent creates a new event for command writing to sink
func NewRunEvent(name string, command []string, sink string) *RunEvent {
	event := &RunEvent{
		Protocol:  RunEventProtocol,
		EventID:   ksuid.New().String(),
		TimeStamp: time.Now().UTC(),
		Name:      name,
		Sink:      sink,
	}

	if len(command) > 0 {
		event.Executable = command[0]
		event.Arguments = append([]string{}, command[1:]...)
	}

	if event.Name == "" {
		event.Name = event.Executable
	}

	return event
}

func (e *RunEvent) HistoryEventID() string { return e.EventID }

// SetError marks the event as failed
func (e *RunEvent) SetError(err error) {
	if err == nil {
		return
	}

	e.Failed = true
	e.Error = err.Error()
	e.ErrorKind = ErrorKind(err)
}

func (e *RunEvent) LogStatus(log Logger) {
	args := []any{
		"exitcode", e.ExitCode,
		"runtime", e.Duration.Truncate(time.Millisecond),
		"sink", e.Sink,
		"bytes", e.BytesWritten,
	}

	switch {
	case e.Failed:
		log.Error(fmt.Sprintf("%s failed", e.Name), "kind", e.ErrorKind, "error", e.Error)
	case e.ExitCode != 0:
		log.Warn(fmt.Sprintf("%s exited with code %d", e.Name, e.ExitCode), args...)
	default:
		log.Info(fmt.Sprintf("%s completed", e.Name), args...)
	}
}

// CommandLine is the executable and arguments joined for display
func (e *RunEvent) CommandLine() string {
	return strings.TrimSpace(e.Executable + " " + strings.Join(e.Arguments, " "))
}

func (e *RunEvent) String() string {
	switch {
	case e.Failed:
		return fmt.Sprintf("%s failed kind=%s error=%v sink=%s", e.Name, e.ErrorKind, e.Error, e.Sink)
	default:
		return fmt.Sprintf("%s exitcode=%d runtime=%v bytes=%d sink=%s", e.Name, e.ExitCode, e.Duration, e.BytesWritten, e.Sink)
	}
}

// RunSummary provides a statistical summary of recorded runs
type RunSummary struct {
	StartTime     time.Time     `json:"start_time" yaml:"start_time"`
	EndTime       time.Time     `json:"end_time" yaml:"end_time"`
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`
	TotalRuns     int           `json:"total_runs" yaml:"total_runs"`
	Succeeded     int           `json:"succeeded" yaml:"succeeded"`
	NonZeroExits  int           `json:"non_zero_exits" yaml:"non_zero_exits"`
	SpawnFailures int           `json:"spawn_failures" yaml:"spawn_failures"`
	SinkFailures  int           `json:"sink_failures" yaml:"sink_failures"`
	BytesWritten  int64         `json:"bytes_written" yaml:"bytes_written"`
}

// BuildRunSummary creates a summary report from events
func BuildRunSummary(events []*RunEvent) *RunSummary {
	summary := &RunSummary{}

	for _, event := range events {
		if event == nil {
			continue
		}

		summary.TotalRuns++
		summary.TotalDuration += event.Duration
		summary.BytesWritten += event.BytesWritten

		if summary.StartTime.IsZero() || event.TimeStamp.Before(summary.StartTime) {
			summary.StartTime = event.TimeStamp
		}
		if event.TimeStamp.After(summary.EndTime) {
			summary.EndTime = event.TimeStamp
		}

		switch {
		case event.Failed && event.ErrorKind == ErrorKindIO:
			summary.SinkFailures++
		case event.Failed:
			summary.SpawnFailures++
		case event.ExitCode != 0:
			summary.NonZeroExits++
		default:
			summary.Succeeded++
		}
	}

	return summary
}

func (s *RunSummary) String() string {
	return fmt.Sprintf("History: %d runs, %d succeeded, %d non-zero exits, %d spawn failures, %d sink failures, %d bytes written, runtime=%v",
		s.TotalRuns, s.Succeeded, s.NonZeroExits, s.SpawnFailures, s.SinkFailures, s.BytesWritten, s.TotalDuration)
}
