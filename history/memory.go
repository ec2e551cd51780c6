// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"sync"

	"github.com/finnagene/finnagene/model"
)

var _ model.HistoryStore = (*MemoryHistoryStore)(nil)

// MemoryHistoryStore keeps run events in memory for the life of the process
type MemoryHistoryStore struct {
	events []*model.RunEvent
	log    model.Logger
	mu     sync.Mutex
}

// NewMemoryHistoryStore creates a new in-memory history store
func NewMemoryHistoryStore(logger model.Logger) (*MemoryHistoryStore, error) {
	logger.Debug("Creating new history store")

	return &MemoryHistoryStore{
		log:    logger,
		events: make([]*model.RunEvent, 0),
	}, nil
}

// RecordEvent adds a run event to the history
func (s *MemoryHistoryStore) RecordEvent(event *model.RunEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updateMetrics(event)

	s.events = append(s.events, event)

	return nil
}

// AllEvents returns all events in time order
func (s *MemoryHistoryStore) AllEvents() ([]*model.RunEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eventsCopy := make([]*model.RunEvent, len(s.events))
	copy(eventsCopy, s.events)

	return eventsCopy, nil
}

// EventsForName returns events whose name or executable matches name, in time order
func (s *MemoryHistoryStore) EventsForName(name string) ([]*model.RunEvent, error) {
	events, err := s.AllEvents()
	if err != nil {
		return nil, err
	}

	return filterEvents(events, name), nil
}

func (s *MemoryHistoryStore) Summary() (*model.RunSummary, error) {
	events, err := s.AllEvents()
	if err != nil {
		return nil, err
	}

	return model.BuildRunSummary(events), nil
}
