// Package discovery interprets the JSON Schema documents the platform
// returns for dynamically discovered tools: splitting properties into
// required/optional parameter sets and validating resolved params before a
// call is made.
package discovery

import (
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/skybridge-ai/flowkit/internal/domain"
	json "github.com/skybridge-ai/flowkit/internal/xjson"
)

type schemaDoc struct {
	Required   []string                   `json:"required"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// ParamSets splits a tool schema's properties into required and optional
// parameter names. Optional names come out sorted so repeated resolution
// passes see a stable order.
func ParamSets(raw []byte) (required, optional []string, err error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	var doc schemaDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse tool schema: %w", err)
	}

	required = doc.Required
	isRequired := make(map[string]bool, len(required))
	for _, name := range required {
		isRequired[name] = true
	}
	for name := range doc.Properties {
		if !isRequired[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	return required, optional, nil
}

// Validate checks resolved params against the tool's input schema. A nil
// return means the schema accepts the params, or there is no schema.
func Validate(raw []byte, params map[string]interface{}) *domain.Error {
	if len(raw) == 0 {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &domain.Error{Category: domain.CategoryValidation, Message: "tool schema is not valid JSON", Cause: err}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("tool.json", doc); err != nil {
		return &domain.Error{Category: domain.CategoryValidation, Message: "tool schema could not be loaded", Cause: err}
	}
	schema, err := compiler.Compile("tool.json")
	if err != nil {
		return &domain.Error{Category: domain.CategoryValidation, Message: "tool schema could not be compiled", Cause: err}
	}

	// The validator walks plain-JSON values; a round-trip normalizes richer
	// Go types in the params map first.
	encoded, err := json.Marshal(params)
	if err != nil {
		return &domain.Error{Category: domain.CategoryValidation, Message: "params could not be encoded", Cause: err}
	}
	var payload any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return &domain.Error{Category: domain.CategoryValidation, Message: "params could not be encoded", Cause: err}
	}

	if err := schema.Validate(payload); err != nil {
		return &domain.Error{
			Category: domain.CategoryValidation,
			Message:  fmt.Sprintf("params rejected by tool schema: %v", err),
			Param:    failedParam(err),
			Cause:    err,
		}
	}
	return nil
}

// failedParam digs out the first concrete instance location so the error
// can name the offending field.
func failedParam(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return ""
	}
	for cur := verr; cur != nil; {
		if len(cur.Causes) == 0 {
			if len(cur.InstanceLocation) > 0 {
				return cur.InstanceLocation[len(cur.InstanceLocation)-1]
			}
			return ""
		}
		cur = cur.Causes[0]
	}
	return ""
}
