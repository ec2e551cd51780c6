// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"strconv"

	"github.com/finnagene/finnagene/metrics"
	"github.com/finnagene/finnagene/model"
)

func updateMetrics(e *model.RunEvent) {
	metrics.RunTime.WithLabelValues(e.Name).Observe(e.Duration.Seconds())

	if e.Failed {
		metrics.RunErrorCount.WithLabelValues(e.Name, e.ErrorKind).Inc()
		return
	}

	metrics.RunExitCodeCount.WithLabelValues(e.Name, strconv.Itoa(e.ExitCode)).Inc()

	if e.BytesWritten > 0 {
		metrics.SinkBytesWritten.WithLabelValues(e.Sink).Add(float64(e.BytesWritten))
	}
}

func filterEvents(allEvents []*model.RunEvent, name string) []*model.RunEvent {
	var filtered []*model.RunEvent
	for _, event := range allEvents {
		if event.Name == name || event.Executable == name {
			filtered = append(filtered, event)
		}
	}

	return filtered
}
