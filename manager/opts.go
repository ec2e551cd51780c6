// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"fmt"

	"github.com/finnagene/finnagene/history"
	iu "github.com/finnagene/finnagene/internal/util"
	"github.com/finnagene/finnagene/metrics"
	"github.com/finnagene/finnagene/model"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager) error

// WithHistoryDirectory records run events in a directory
func WithHistoryDirectory(path string) Option {
	return func(m *Manager) error {
		log, err := m.Logger("history", "directory", "path", path)
		if err != nil {
			return err
		}

		store, err := history.NewDirectoryHistoryStore(path, log)
		if err != nil {
			return err
		}

		m.history = store

		return nil
	}
}

// WithRunner uses runner instead of spawning commands on the local machine
func WithRunner(runner model.CommandRunner) Option {
	return func(m *Manager) error {
		if runner == nil {
			return fmt.Errorf("runner is required")
		}

		m.runner = runner

		return nil
	}
}

// WithData merges data over the data found in run properties before templates are resolved
func WithData(data map[string]any) Option {
	return func(m *Manager) error {
		m.data = iu.DeepMergeMap(m.data, data)

		return nil
	}
}

// WithFacts makes facts available to templates as Facts
func WithFacts(facts map[string]any) Option {
	return func(m *Manager) error {
		m.facts = iu.DeepMergeMap(m.facts, facts)

		return nil
	}
}

// WithMetricsTextfile writes metrics to path after every run
func WithMetricsTextfile(path string) Option {
	return func(m *Manager) error {
		if path == "" {
			return fmt.Errorf("metrics textfile path is required")
		}

		metrics.RegisterMetrics()
		m.metricsTextfile = path

		return nil
	}
}
