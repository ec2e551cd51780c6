// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/choria-io/fisk"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"

	"github.com/finnagene/finnagene/internal/facts"
)

type factsCommand struct {
	yamlFormat bool
	query      string
}

func registerFactsCommand(app *fisk.Application) {
	cmd := &factsCommand{}

	f := app.Command("facts", "Shows the host facts available to templates").Action(cmd.factsAction)
	f.Arg("query", "gjson query to apply to the facts").StringVar(&cmd.query)
	f.Flag("yaml", "Output facts in YAML format").UnNegatableBoolVar(&cmd.yamlFormat)
}

func (c *factsCommand) factsAction(_ *fisk.ParseContext) error {
	f, err := facts.StandardFacts(ctx, newLogger())
	if err != nil {
		return err
	}

	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}

	if c.query != "" {
		raw = []byte(gjson.GetBytes(raw, c.query).Raw)
		if len(raw) == 0 {
			return fmt.Errorf("no facts match %q", c.query)
		}
	}

	if c.yamlFormat {
		y, err := yaml.JSONToYAML(raw)
		if err != nil {
			return err
		}

		fmt.Println(string(y))
		return nil
	}

	out := bytes.NewBuffer([]byte{})
	err = json.Indent(out, raw, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(out.String())

	return nil
}
