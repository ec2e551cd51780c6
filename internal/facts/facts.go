// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package facts

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	iu "github.com/finnagene/finnagene/internal/util"
	"github.com/finnagene/finnagene/metrics"
	"github.com/finnagene/finnagene/model"
)

// SystemFactsDirectory holds facts.json and facts.yaml overrides for all users
const SystemFactsDirectory = "/etc/finnagene"

// StandardFacts gathers facts about the host and merges any facts files found in the system and user configuration directories over them
func StandardFacts(ctx context.Context, log model.Logger) (map[string]any, error) {
	timer := prometheus.NewTimer(metrics.FactGatherTime.WithLabelValues())
	defer timer.ObserveDuration()

	return MergeFactsFiles(hostFacts(ctx), log, SystemFactsDirectory, filepath.Join(xdg.ConfigHome, "finnagene")), nil
}

// MergeFactsFiles merges facts.json and facts.yaml from each directory over facts, later directories take precedence
func MergeFactsFiles(facts map[string]any, log model.Logger, dirs ...string) map[string]any {
	for _, dir := range dirs {
		for _, file := range []string{filepath.Join(dir, "facts.json"), filepath.Join(dir, "facts.yaml")} {
			if !iu.FileExists(file) {
				continue
			}

			log.Debug("Reading facts", "file", file)
			f, err := readFactsFile(file)
			if err != nil {
				log.Error("Failed to read facts file", "file", file, "error", err)
				continue
			}

			facts = iu.DeepMergeMap(facts, f)
		}
	}

	return facts
}

func readFactsFile(file string) (map[string]any, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var f map[string]any
	if filepath.Ext(file) == ".json" {
		err = json.Unmarshal(raw, &f)
	} else {
		err = yaml.Unmarshal(raw, &f)
	}
	if err != nil {
		return nil, err
	}

	return f, nil
}

// hostFacts is best effort, facts that cannot be gathered are left empty
func hostFacts(ctx context.Context) map[string]any {
	facts := map[string]any{
		"host":    map[string]any{"info": map[string]any{}},
		"cpu":     map[string]any{"info": []any{}, "count": 0},
		"memory":  map[string]any{"virtual": map[string]any{}, "swap": map[string]any{}},
		"network": map[string]any{"interfaces": []any{}},
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		facts["host"] = map[string]any{"info": info}
	}

	if info, err := cpu.InfoWithContext(ctx); err == nil {
		count, _ := cpu.CountsWithContext(ctx, true)
		facts["cpu"] = map[string]any{"info": info, "count": count}
	}

	memory := facts["memory"].(map[string]any)
	if virtual, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		memory["virtual"] = virtual
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		memory["swap"] = swap
	}

	if interfaces, err := net.InterfacesWithContext(ctx); err == nil {
		facts["network"] = map[string]any{"interfaces": interfaces}
	}

	return facts
}
