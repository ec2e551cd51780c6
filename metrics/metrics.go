// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	NameSpace = "finnagene"
	Subsystem = "runner"

	// RunTime is a summary of the time commands took from spawn to exit
	RunTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "run_duration_seconds"),
		Help: "Time taken from spawning a command until it exited",
	}, []string{"name"})

	// RunExitCodeCount counts how often commands exited with a specific code
	RunExitCodeCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "run_exit_code_count"),
		Help: "How many times a command exited with a specific code",
	}, []string{"name", "code"})

	// RunErrorCount counts runs that could not spawn the command or use the sink
	RunErrorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "run_error_count"),
		Help: "How many runs failed to spawn the command or open the output sink",
	}, []string{"name", "kind"})

	// SinkBytesWritten counts the bytes appended to output sinks
	SinkBytesWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "sink_bytes_written_count"),
		Help: "How many bytes commands appended to the output sink",
	}, []string{"sink"})

	// FactGatherTime is a summary of the time taken to gather host facts
	FactGatherTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: prometheus.BuildFQName(NameSpace, "facts", "gather_duration_seconds"),
		Help: "Time taken to gather host facts",
	}, []string{})

	registerOnce sync.Once
)

// RegisterMetrics registers the collectors with the default registry, safe to call more than once
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RunTime)
		prometheus.MustRegister(RunExitCodeCount)
		prometheus.MustRegister(RunErrorCount)
		prometheus.MustRegister(SinkBytesWritten)
		prometheus.MustRegister(FactGatherTime)
	})
}

// WriteTextfile writes the default registry to path in the format read by the node exporter textfile collector
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
