// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/segmentio/ksuid"

	"github.com/finnagene/finnagene/model"
)

var _ model.HistoryStore = (*DirectoryHistoryStore)(nil)

const eventFileSuffix = ".event"

// DirectoryHistoryStore stores run events as one json file per run in a directory
type DirectoryHistoryStore struct {
	directory string
	log       model.Logger
	mu        sync.Mutex
}

// NewDirectoryHistoryStore creates a new directory based history store
func NewDirectoryHistoryStore(directory string, logger model.Logger) (*DirectoryHistoryStore, error) {
	if directory == "" {
		return nil, fmt.Errorf("history directory path cannot be empty")
	}

	absDir, err := filepath.Abs(filepath.Clean(directory))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	logger.Debug("Creating new history store", "directory", absDir)

	return &DirectoryHistoryStore{
		log:       logger,
		directory: absDir,
	}, nil
}

// Directory is the absolute path events are stored in
func (s *DirectoryHistoryStore) Directory() string {
	return s.directory
}

// RecordEvent writes event to <directory>/<event id>.event, creating the directory when needed
func (s *DirectoryHistoryStore) RecordEvent(event *model.RunEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ksuids are base62 so a valid id can not escape the directory
	_, err := ksuid.Parse(event.HistoryEventID())
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidEventID, err)
	}

	updateMetrics(event)

	err = os.MkdirAll(s.directory, 0755)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return err
	}

	filename := filepath.Join(s.directory, event.HistoryEventID()+eventFileSuffix)
	s.log.Debug("Recording event", "filename", filename)

	return os.WriteFile(filename, data, 0644)
}

// AllEvents returns all events sorted by time order, oldest first
func (s *DirectoryHistoryStore) AllEvents() ([]*model.RunEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []*model.RunEvent

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		if os.IsNotExist(err) {
			return events, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), eventFileSuffix) {
			continue
		}

		filename := filepath.Join(s.directory, entry.Name())
		data, err := os.ReadFile(filename)
		if err != nil {
			s.log.Error("Failed to read event file", "filename", filename, "error", err)
			continue
		}

		var event model.RunEvent
		err = json.Unmarshal(data, &event)
		if err != nil {
			s.log.Error("Failed to parse event", "filename", filename, "error", err)
			continue
		}

		if event.Protocol != model.RunEventProtocol {
			s.log.Warn("Unknown event protocol", "filename", filename, "protocol", event.Protocol)
			continue
		}

		events = append(events, &event)
	}

	// ksuid time has second resolution so ids only break timestamp ties
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].TimeStamp.Equal(events[j].TimeStamp) {
			return events[i].TimeStamp.Before(events[j].TimeStamp)
		}

		return events[i].EventID < events[j].EventID
	})

	return events, nil
}

// EventsForName returns events whose name or executable matches name, in time order
func (s *DirectoryHistoryStore) EventsForName(name string) ([]*model.RunEvent, error) {
	events, err := s.AllEvents()
	if err != nil {
		return nil, err
	}

	return filterEvents(events, name), nil
}

func (s *DirectoryHistoryStore) Summary() (*model.RunSummary, error) {
	events, err := s.AllEvents()
	if err != nil {
		return nil, err
	}

	return model.BuildRunSummary(events), nil
}
