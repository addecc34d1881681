package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// updateSchema constrains a partial AutoScalingConfig update. Absent fields
// keep their current values; present fields must be well-formed. Regions,
// when present, replace the region list wholesale.
const updateSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"enabled": { "type": "boolean" },
		"strategy": { "type": "string", "enum": ["reactive", "predictive", "hybrid"] },
		"min_instances": { "type": "integer", "minimum": 0 },
		"max_instances": { "type": "integer", "minimum": 0 },
		"target_metrics": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"cpu_pct": { "type": "number", "minimum": 0, "maximum": 100 },
				"mem_pct": { "type": "number", "minimum": 0, "maximum": 100 },
				"response_time_ms": { "type": "number", "minimum": 0 },
				"queue_depth": { "type": "number", "minimum": 0 }
			}
		},
		"scale_up_policy": { "$ref": "#/definitions/scaling_policy" },
		"scale_down_policy": { "$ref": "#/definitions/scaling_policy" },
		"cooldowns": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"scale_up_secs": { "type": "integer", "minimum": 1 },
				"scale_down_secs": { "type": "integer", "minimum": 1 }
			}
		},
		"target_utilization_pct": { "type": "number", "exclusiveMinimum": 0, "maximum": 100 },
		"safety_margin": { "type": "number", "minimum": 1.0 },
		"confidence_threshold": { "type": "number", "minimum": 0, "maximum": 1 },
		"predictive_deviation_pct": { "type": "number", "minimum": 0 },
		"scale_down_target_fraction": { "type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 1 },
		"regions": {
			"type": "array",
			"items": {
				"type": "object",
				"additionalProperties": false,
				"required": ["region", "min_instances", "max_instances"],
				"properties": {
					"region": { "type": "string", "minLength": 1 },
					"enabled": { "type": "boolean" },
					"min_instances": { "type": "integer", "minimum": 0 },
					"max_instances": { "type": "integer", "minimum": 0 },
					"priority": { "type": "integer" },
					"cost_multiplier": { "type": "number", "exclusiveMinimum": 0 },
					"latency_target_ms": { "type": "number", "minimum": 0 }
				}
			}
		}
	},
	"definitions": {
		"scaling_policy": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"threshold_pct": { "type": "number", "minimum": 0 },
				"increment": { "type": "integer", "minimum": 1 },
				"evaluation_periods": { "type": "integer", "minimum": 1 },
				"comparison_direction": { "type": "string", "enum": [">=", "<="] }
			}
		}
	}
}`

// UpdateValidator checks partial config updates against the JSON schema
// before they are merged into the active configuration.
type UpdateValidator struct {
	schemaLoader gojsonschema.JSONLoader
}

func NewUpdateValidator() *UpdateValidator {
	return &UpdateValidator{
		schemaLoader: gojsonschema.NewStringLoader(updateSchema),
	}
}

func (v *UpdateValidator) Validate(update []byte) error {
	result, err := gojsonschema.Validate(v.schemaLoader, gojsonschema.NewBytesLoader(update))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	descriptions := make([]string, 0, len(result.Errors()))
	for _, resultError := range result.Errors() {
		descriptions = append(descriptions, resultError.String())
	}
	return fmt.Errorf("invalid config update: %s", strings.Join(descriptions, "; "))
}
