// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package templates

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/tidwall/gjson"
)

var placeholder = regexp.MustCompile(`{{\s*(.*?)\s*}}`)

// Env is the environment templates are evaluated in
type Env struct {
	Data  map[string]any `json:"data" yaml:"data"`
	Facts map[string]any `json:"facts" yaml:"facts"`

	envJSON json.RawMessage
	mu      sync.Mutex
}

// lookup implements lookup(path, [default]) using gjson paths over the json form of the environment
func (e *Env) lookup(params ...any) (any, error) {
	if len(params) == 0 || len(params) > 2 {
		return nil, fmt.Errorf("lookup requires 1 or 2 arguments")
	}

	key, ok := params[0].(string)
	if !ok {
		return nil, fmt.Errorf("lookup requires a string argument")
	}

	var defaultValue any = ""
	if len(params) == 2 {
		defaultValue = params[1]
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.envJSON == nil {
		j, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		e.envJSON = j
	}

	res := gjson.GetBytes(e.envJSON, key)
	if !res.Exists() {
		return defaultValue, nil
	}

	if res.Type == gjson.Number {
		if strings.Contains(res.Raw, ".") {
			return res.Float(), nil
		}

		return res.Int(), nil
	}

	return res.Value(), nil
}

// ResolveTemplateString replaces every {{ expression }} in template with the result of evaluating it against env
func ResolveTemplateString(template string, env *Env) (string, error) {
	if template == "" {
		return "", nil
	}

	matches := placeholder.FindAllStringSubmatchIndex(template, -1)
	if matches == nil {
		return template, nil
	}

	if env == nil {
		env = &Env{}
	}

	var result strings.Builder
	last := 0

	for _, loc := range matches {
		value, err := evaluate(template[loc[2]:loc[3]], env)
		if err != nil {
			return "", err
		}

		result.WriteString(template[last:loc[0]])
		if value != nil {
			result.WriteString(fmt.Sprint(value))
		}

		last = loc[1]
	}

	result.WriteString(template[last:])

	return result.String(), nil
}

func evaluate(query string, env *Env) (any, error) {
	program, err := expr.Compile(query, expr.Env(env), expr.Function("lookup", env.lookup))
	if err != nil {
		return nil, fmt.Errorf("expr compile error for '%s': %w", query, err)
	}

	return expr.Run(program, env)
}
