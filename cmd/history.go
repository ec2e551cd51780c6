// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/choria-io/fisk"

	iu "github.com/finnagene/finnagene/internal/util"
	"github.com/finnagene/finnagene/manager"
	"github.com/finnagene/finnagene/model"
)

type historyCommand struct {
	history string
	name    string
	json    bool
}

func registerHistoryCommand(app *fisk.Application) {
	cmd := &historyCommand{}

	hist := app.Command("history", "Reports on recorded runs").Action(cmd.historyAction)
	hist.Flag("history", "Directory run history is recorded in").Envar("FINNAGENE_HISTORY").PlaceHolder("DIRECTORY").Required().StringVar(&cmd.history)
	hist.Flag("name", "Only show runs with this name").StringVar(&cmd.name)
	hist.Flag("json", "Output history in JSON format").UnNegatableBoolVar(&cmd.json)
}

func (c *historyCommand) historyAction(_ *fisk.ParseContext) error {
	if !iu.IsDirectory(c.history) {
		return fmt.Errorf("history directory %s does not exist", c.history)
	}

	mgr, err := manager.NewManager(newLogger(), newOutputLogger(), manager.WithHistoryDirectory(c.history))
	if err != nil {
		return err
	}

	var events []*model.RunEvent
	if c.name != "" {
		events, err = mgr.History().EventsForName(c.name)
	} else {
		events, err = mgr.History().AllEvents()
	}
	if err != nil {
		return err
	}

	summary := model.BuildRunSummary(events)

	if c.json {
		out, err := json.MarshalIndent(map[string]any{"events": events, "summary": summary}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		return nil
	}

	for _, event := range events {
		fmt.Printf("%s %s\n", event.TimeStamp.Local().Format(time.DateTime), event)
	}

	fmt.Println()
	fmt.Println("History Summary")
	fmt.Println()
	if summary.TotalRuns > 0 {
		fmt.Printf("       First Run: %s\n", summary.StartTime.Local().Format(time.DateTime))
		fmt.Printf("        Last Run: %s\n", summary.EndTime.Local().Format(time.DateTime))
		fmt.Printf("        Run Time: %v\n", summary.TotalDuration.Round(time.Millisecond))
	}
	fmt.Printf("      Total Runs: %d\n", summary.TotalRuns)
	fmt.Printf("       Succeeded: %d\n", summary.Succeeded)
	fmt.Printf("  Non-Zero Exits: %d\n", summary.NonZeroExits)
	fmt.Printf("  Spawn Failures: %d\n", summary.SpawnFailures)
	fmt.Printf("   Sink Failures: %d\n", summary.SinkFailures)
	fmt.Printf("   Bytes Written: %d\n", summary.BytesWritten)

	return nil
}
