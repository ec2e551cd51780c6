// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/finnagene/finnagene/history"
	"github.com/finnagene/finnagene/internal/cmdrunner"
	iu "github.com/finnagene/finnagene/internal/util"
	"github.com/finnagene/finnagene/metrics"
	"github.com/finnagene/finnagene/model"
)

// Manager resolves run properties, runs commands and records their outcome
type Manager struct {
	history         model.HistoryStore
	runner          model.CommandRunner
	log             model.Logger
	userLogger      model.Logger
	data            map[string]any
	facts           map[string]any
	metricsTextfile string

	mu sync.Mutex
}

// NewManager creates a new Manager with the provided loggers, log is for debugging and userLogger reports run outcomes
func NewManager(log model.Logger, userLogger model.Logger, opts ...Option) (*Manager, error) {
	mgr := &Manager{log: log, userLogger: userLogger}

	for _, opt := range opts {
		err := opt(mgr)
		if err != nil {
			return nil, err
		}
	}

	if mgr.history == nil {
		historyLog, err := mgr.Logger("history", "memory")
		if err != nil {
			return nil, err
		}

		mgr.history, err = history.NewMemoryHistoryStore(historyLog)
		if err != nil {
			return nil, err
		}
	}

	return mgr, nil
}

// Logger creates a new logger with the given key value pairs added
func (m *Manager) Logger(args ...any) (model.Logger, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("invalid logger arguments, must be key value pairs")
	}

	return m.log.With(args...), nil
}

// NewRunner creates a new command runner instance unless one was supplied using WithRunner
func (m *Manager) NewRunner() (model.CommandRunner, error) {
	if m.runner != nil {
		return m.runner, nil
	}

	log, err := m.Logger("component", "runner")
	if err != nil {
		return nil, err
	}

	return cmdrunner.NewCommandRunner(log)
}

// History is the store run events are recorded in
func (m *Manager) History() model.HistoryStore {
	return m.history
}

// Facts are the facts templates are resolved against
func (m *Manager) Facts() map[string]any {
	return m.facts
}

// RecordEvent records event in the history store
func (m *Manager) RecordEvent(event *model.RunEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.history.RecordEvent(event)
}

// Run resolves templates in properties, validates them and runs the command, blocking until it exits.
//
// The returned event is recorded in history even when the command could not be spawned, in which case
// the *model.SpawnError or *model.IOError from the runner is returned alongside it. Properties are not modified.
func (m *Manager) Run(properties *model.RunProperties) (*model.RunEvent, error) {
	if properties == nil {
		return nil, fmt.Errorf("run properties are required")
	}

	props := *properties
	props.Arguments = slices.Clone(properties.Arguments)
	if len(m.data) > 0 {
		props.Data = iu.DeepMergeMap(props.Data, m.data)
	}

	env := props.TemplateEnv()
	env.Facts = m.facts

	err := props.ResolveTemplates(env)
	if err != nil {
		return nil, fmt.Errorf("could not resolve templates: %w", err)
	}

	err = props.Validate()
	if err != nil {
		return nil, err
	}

	command, err := props.CommandVector()
	if err != nil {
		return nil, err
	}

	runner, err := m.NewRunner()
	if err != nil {
		return nil, err
	}

	event := model.NewRunEvent(props.DisplayName(), command, props.Sink)
	log := m.log.With("name", event.Name, "sink", props.Sink)

	before := iu.FileSize(props.Sink)
	start := time.Now()

	log.Info("Running command", "command", event.CommandLine())
	exitCode, runErr := runner.Run(command, props.Sink)

	event.Duration = time.Since(start)
	event.ExitCode = exitCode
	if after := iu.FileSize(props.Sink); after > before {
		event.BytesWritten = after - before
	}
	event.SetError(runErr)

	err = m.RecordEvent(event)
	if err != nil {
		log.Error("Could not record run event", "error", err)
	}

	m.writeMetrics(log)

	event.LogStatus(m.userLogger)

	return event, runErr
}

func (m *Manager) writeMetrics(log model.Logger) {
	if m.metricsTextfile == "" {
		return
	}

	err := metrics.WriteTextfile(m.metricsTextfile)
	if err != nil {
		log.Warn("Could not write metrics textfile", "file", m.metricsTextfile, "error", err)
	}
}
