// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/choria-io/fisk"

	"github.com/finnagene/finnagene/internal/facts"
	iu "github.com/finnagene/finnagene/internal/util"
	"github.com/finnagene/finnagene/manager"
	"github.com/finnagene/finnagene/model"
)

const defaultSink = "output.txt"

type runCommand struct {
	command         []string
	config          string
	name            string
	sink            string
	history         string
	metricsTextfile string
	data            map[string]string
	propagate       bool
	facts           bool
}

func registerRunCommand(app *fisk.Application) {
	cmd := &runCommand{data: map[string]string{}}

	run := app.Command("run", "Runs a command appending its standard output to a file").Action(cmd.runAction)
	run.Arg("command", "Executable and arguments to run, use -- before arguments that start with -").StringsVar(&cmd.command)
	run.Flag("config", "Run properties file to use when no command is given").PlaceHolder("FILE").ExistingFileVar(&cmd.config)
	run.Flag("name", "Name to record the run as").StringVar(&cmd.name)
	run.Flag("sink", fmt.Sprintf("File to append output to (default %s)", defaultSink)).PlaceHolder("FILE").StringVar(&cmd.sink)
	run.Flag("history", "Directory to record run history in").Envar("FINNAGENE_HISTORY").PlaceHolder("DIRECTORY").StringVar(&cmd.history)
	run.Flag("metrics-textfile", "Writes Prometheus metrics to a node exporter textfile").PlaceHolder("FILE").StringVar(&cmd.metricsTextfile)
	run.Flag("data", "Data to make available to templates").Short('D').PlaceHolder("K=V").StringMapVar(&cmd.data)
	run.Flag("facts", "Gather host facts for use in templates").UnNegatableBoolVar(&cmd.facts)
	run.Flag("propagate", "Exit with the exit code of the command").UnNegatableBoolVar(&cmd.propagate)
}

func (c *runCommand) runAction(_ *fisk.ParseContext) error {
	props, err := c.properties()
	if err != nil {
		return err
	}

	var opts []manager.Option

	if props.History != "" {
		opts = append(opts, manager.WithHistoryDirectory(props.History))
	}

	if c.metricsTextfile != "" {
		opts = append(opts, manager.WithMetricsTextfile(c.metricsTextfile))
	}

	if len(c.data) > 0 {
		data := make(map[string]any, len(c.data))
		for k, v := range c.data {
			data[k] = v
		}
		opts = append(opts, manager.WithData(data))
	}

	logger := newLogger()

	if c.facts {
		f, err := facts.StandardFacts(ctx, logger)
		if err != nil {
			return err
		}
		opts = append(opts, manager.WithFacts(f))
	}

	mgr, err := manager.NewManager(logger, newOutputLogger(), opts...)
	if err != nil {
		return err
	}

	event, err := mgr.Run(props)
	if err != nil {
		return err
	}

	if c.propagate {
		exitCode = event.ExitCode
		if exitCode < 0 {
			exitCode = 1
		}
	}

	return nil
}

// properties builds the run properties from the config file and the command line, the command line taking precedence
func (c *runCommand) properties() (*model.RunProperties, error) {
	props := &model.RunProperties{}

	config := c.config
	if config == "" && len(c.command) == 0 {
		config = defaultConfigFile()
		if config == "" {
			return nil, fmt.Errorf("no command given and no run properties found in %s", filepath.Join(xdg.ConfigHome, "finnagene"))
		}
	}

	if config != "" {
		raw, err := os.ReadFile(config)
		if err != nil {
			return nil, err
		}

		props, err = model.NewRunPropertiesFromYaml(raw)
		if err != nil {
			return nil, fmt.Errorf("could not load %s: %w", config, err)
		}
	}

	if len(c.command) > 0 {
		props.Command = ""
		props.Executable = c.command[0]
		props.Arguments = c.command[1:]
	}

	if c.name != "" {
		props.Name = c.name
	}

	if c.sink != "" {
		props.Sink = c.sink
	}

	if props.Sink == "" {
		props.Sink = defaultSink
	}

	if c.history != "" {
		props.History = c.history
	}

	return props, nil
}

func defaultConfigFile() string {
	userFile := filepath.Join(xdg.ConfigHome, "finnagene", "run.yaml")
	systemFile := "/etc/finnagene/run.yaml"

	switch {
	case xdg.ConfigHome != "" && iu.FileExists(userFile):
		return userFile
	case iu.FileExists(systemFile):
		return systemFile
	default:
		return ""
	}
}
