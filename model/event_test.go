// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/segmentio/ksuid"
)

var _ = Describe("RunEvent", func() {
	Describe("NewRunEvent", func() {
		It("Should populate the event", func() {
			event := NewRunEvent("", []string{"java", "-jar", "x.jar"}, "out.txt")

			Expect(event.Protocol).To(Equal(RunEventProtocol))
			Expect(event.Name).To(Equal("java"))
			Expect(event.Executable).To(Equal("java"))
			Expect(event.Arguments).To(Equal([]string{"-jar", "x.jar"}))
			Expect(event.Sink).To(Equal("out.txt"))
			Expect(event.TimeStamp).To(BeTemporally("~", time.Now(), time.Second))
			Expect(event.CommandLine()).To(Equal("java -jar x.jar"))

			_, err := ksuid.Parse(event.HistoryEventID())
			Expect(err).ToNot(HaveOccurred())
		})

		It("Should keep a supplied name", func() {
			Expect(NewRunEvent("finnahaku", []string{"java"}, "out.txt").Name).To(Equal("finnahaku"))
		})
	})

	Describe("SetError", func() {
		It("Should ignore nil errors", func() {
			event := NewRunEvent("", []string{"echo"}, "out.txt")
			event.SetError(nil)
			Expect(event.Failed).To(BeFalse())
		})

		It("Should classify errors", func() {
			event := NewRunEvent("", []string{"echo"}, "out.txt")
			event.SetError(&IOError{Path: "out.txt", Err: os.ErrPermission})
			Expect(event.Failed).To(BeTrue())
			Expect(event.ErrorKind).To(Equal(ErrorKindIO))
			Expect(event.Error).To(Equal("sink out.txt: permission denied"))
			Expect(event.String()).To(ContainSubstring("failed kind=io"))
		})
	})

	Describe("String", func() {
		It("Should describe completed runs", func() {
			event := NewRunEvent("", []string{"echo"}, "out.txt")
			event.ExitCode = 2
			event.BytesWritten = 6

			Expect(event.String()).To(ContainSubstring("echo exitcode=2"))
			Expect(event.String()).To(ContainSubstring("bytes=6 sink=out.txt"))
		})
	})
})

var _ = Describe("RunSummary", func() {
	It("Should build a correct summary from events", func() {
		start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		ok := NewRunEvent("", []string{"echo"}, "out.txt")
		ok.TimeStamp = start
		ok.Duration = time.Second
		ok.BytesWritten = 6

		nonZero := NewRunEvent("", []string{"false"}, "out.txt")
		nonZero.TimeStamp = start.Add(time.Minute)
		nonZero.ExitCode = 1
		nonZero.Duration = 2 * time.Second

		spawn := NewRunEvent("", []string{"/nonexistent/binary"}, "out.txt")
		spawn.TimeStamp = start.Add(2 * time.Minute)
		spawn.SetError(&SpawnError{Path: "/nonexistent/binary", Err: os.ErrNotExist})

		sink := NewRunEvent("", []string{"echo"}, "/missing/out.txt")
		sink.TimeStamp = start.Add(3 * time.Minute)
		sink.SetError(&IOError{Path: "/missing/out.txt", Err: os.ErrNotExist})

		summary := BuildRunSummary([]*RunEvent{ok, nonZero, spawn, nil, sink})

		Expect(summary.TotalRuns).To(Equal(4))
		Expect(summary.Succeeded).To(Equal(1))
		Expect(summary.NonZeroExits).To(Equal(1))
		Expect(summary.SpawnFailures).To(Equal(1))
		Expect(summary.SinkFailures).To(Equal(1))
		Expect(summary.BytesWritten).To(Equal(int64(6)))
		Expect(summary.TotalDuration).To(Equal(3 * time.Second))
		Expect(summary.StartTime).To(Equal(start))
		Expect(summary.EndTime).To(Equal(start.Add(3 * time.Minute)))
		Expect(summary.String()).To(ContainSubstring("4 runs, 1 succeeded, 1 non-zero exits"))
	})

	It("Should handle no events", func() {
		summary := BuildRunSummary(nil)
		Expect(summary.TotalRuns).To(Equal(0))
		Expect(summary.StartTime.IsZero()).To(BeTrue())
	})
})
