// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/kballard/go-shellquote"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/finnagene/finnagene/templates"
)

// RunPropertiesSchemaURL is the identifier of the embedded run properties JSON Schema
const RunPropertiesSchemaURL = "https://finnagene.dev/schemas/run_properties.json"

//go:embed run_properties_schema.json
var runPropertiesSchema []byte

var compileRunPropertiesSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(runPropertiesSchema))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	err = compiler.AddResource(RunPropertiesSchemaURL, doc)
	if err != nil {
		return nil, err
	}

	return compiler.Compile(RunPropertiesSchemaURL)
})

// RunProperties describes a single invocation, what to run and where its output goes
type RunProperties struct {
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Executable string         `json:"executable,omitempty" yaml:"executable,omitempty"`
	Arguments  []string       `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Command    string         `json:"command,omitempty" yaml:"command,omitempty"`
	Sink       string         `json:"sink,omitempty" yaml:"sink,omitempty"`
	History    string         `json:"history,omitempty" yaml:"history,omitempty"`
	Data       map[string]any `json:"data,omitempty" yaml:"data,omitempty"`

	SkipValidate bool `json:"-" yaml:"-"`
}

// CommandVector returns the executable followed by its arguments, splitting Command using shell quoting rules when set
func (p *RunProperties) CommandVector() ([]string, error) {
	if p.Command != "" {
		words, err := shellquote.Split(p.Command)
		if err != nil {
			return nil, fmt.Errorf("invalid command: %w", err)
		}

		if len(words) == 0 || words[0] == "" {
			return nil, ErrCommandRequired
		}

		return words, nil
	}

	if p.Executable == "" {
		return nil, ErrCommandRequired
	}

	vector := make([]string, 0, len(p.Arguments)+1)
	vector = append(vector, p.Executable)
	vector = append(vector, p.Arguments...)

	return vector, nil
}

// DisplayName is the name used for logging, falling back to the executable
func (p *RunProperties) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}

	vector, err := p.CommandVector()
	if err != nil {
		return ""
	}

	return vector[0]
}

// Validate validates the run properties
func (p *RunProperties) Validate() error {
	if p.SkipValidate {
		return nil
	}

	if p.Command != "" && (p.Executable != "" || len(p.Arguments) > 0) {
		return ErrAmbiguousCommand
	}

	_, err := p.CommandVector()
	if err != nil {
		return err
	}

	if p.Sink == "" {
		return ErrSinkRequired
	}

	return nil
}

// ResolveTemplates resolves template expressions in the command, arguments and sink
func (p *RunProperties) ResolveTemplates(env *templates.Env) error {
	val, err := templates.ResolveTemplateString(p.Executable, env)
	if err != nil {
		return err
	}
	p.Executable = val

	for i, arg := range p.Arguments {
		val, err = templates.ResolveTemplateString(arg, env)
		if err != nil {
			return err
		}
		p.Arguments[i] = val
	}

	val, err = templates.ResolveTemplateString(p.Command, env)
	if err != nil {
		return err
	}
	p.Command = val

	val, err = templates.ResolveTemplateString(p.Sink, env)
	if err != nil {
		return err
	}
	p.Sink = val

	return nil
}

// TemplateEnv creates the template environment for these properties
func (p *RunProperties) TemplateEnv() *templates.Env {
	data := p.Data
	if data == nil {
		data = map[string]any{}
	}

	return &templates.Env{Data: data}
}

// ToYamlManifest returns the run properties as a yaml document
func (p *RunProperties) ToYamlManifest() (yaml.RawMessage, error) {
	return yaml.Marshal(p)
}

// ValidateRunPropertiesDocument checks a yaml document against the run properties schema
func ValidateRunPropertiesDocument(raw []byte) error {
	schema, err := compileRunPropertiesSchema()
	if err != nil {
		return fmt.Errorf("could not compile run properties schema: %w", err)
	}

	jraw, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jraw))
	if err != nil {
		return err
	}

	err = schema.Validate(inst)
	if err != nil {
		return fmt.Errorf("invalid run properties: %w", err)
	}

	return nil
}

// NewRunPropertiesFromYaml creates run properties from a yaml document after schema validation, does not validate or expand templates
func NewRunPropertiesFromYaml(raw []byte) (*RunProperties, error) {
	err := ValidateRunPropertiesDocument(raw)
	if err != nil {
		return nil, err
	}

	prop := &RunProperties{}
	err = yaml.Unmarshal(raw, prop)
	if err != nil {
		return nil, err
	}

	return prop, nil
}
