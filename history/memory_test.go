// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/finnagene/finnagene/model"
	"github.com/finnagene/finnagene/model/modelmocks"
)

var _ = Describe("MemoryHistoryStore", func() {
	var (
		mockCtrl *gomock.Controller
		store    *MemoryHistoryStore
		now      time.Time
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		var err error
		store, err = NewMemoryHistoryStore(modelmocks.NewLogger(mockCtrl))
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("Should start empty", func() {
		events, err := store.AllEvents()
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(BeEmpty())

		summary, err := store.Summary()
		Expect(err).ToNot(HaveOccurred())
		Expect(summary.TotalRuns).To(Equal(0))
	})

	It("Should record events in order", func() {
		first := eventAt(now, []string{"echo", "hello"}, 0)
		second := eventAt(now.Add(time.Minute), []string{"java", "-jar", "x.jar"}, 1)

		Expect(store.RecordEvent(first)).To(Succeed())
		Expect(store.RecordEvent(second)).To(Succeed())

		events, err := store.AllEvents()
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(Equal([]*model.RunEvent{first, second}))
	})

	It("Should return a copy of the events", func() {
		Expect(store.RecordEvent(eventAt(now, []string{"echo"}, 0))).To(Succeed())

		events, err := store.AllEvents()
		Expect(err).ToNot(HaveOccurred())
		events[0] = nil

		events, err = store.AllEvents()
		Expect(err).ToNot(HaveOccurred())
		Expect(events[0]).ToNot(BeNil())
	})

	It("Should filter events by name or executable", func() {
		Expect(store.RecordEvent(eventAt(now, []string{"echo", "hello"}, 0))).To(Succeed())
		named := eventAt(now.Add(time.Second), []string{"java", "-jar", "x.jar"}, 0)
		named.Name = "finnahaku"
		Expect(store.RecordEvent(named)).To(Succeed())

		events, err := store.EventsForName("finnahaku")
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(Equal([]*model.RunEvent{named}))

		events, err = store.EventsForName("java")
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(HaveLen(1))

		events, err = store.EventsForName("missing")
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(BeEmpty())
	})

	It("Should summarize events", func() {
		Expect(store.RecordEvent(eventAt(now, []string{"echo"}, 0))).To(Succeed())
		Expect(store.RecordEvent(eventAt(now.Add(time.Second), []string{"false"}, 1))).To(Succeed())

		failed := eventAt(now.Add(2*time.Second), []string{"/nonexistent/binary"}, -1)
		failed.SetError(&model.SpawnError{Path: "/nonexistent/binary", Err: model.ErrCommandRequired})
		Expect(store.RecordEvent(failed)).To(Succeed())

		summary, err := store.Summary()
		Expect(err).ToNot(HaveOccurred())
		Expect(summary.TotalRuns).To(Equal(3))
		Expect(summary.Succeeded).To(Equal(1))
		Expect(summary.NonZeroExits).To(Equal(1))
		Expect(summary.SpawnFailures).To(Equal(1))
	})
})
