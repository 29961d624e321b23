package vehicletitle

import (
	"encoding/json"

	"github.com/jackzampolin/titlescan/internal/providers"
)

// ExtractionSchema is the JSON schema for vehicle-title extraction output.
// All nine fields are required; only type shape is enforced (no VIN checksum,
// no year-range check).
var ExtractionSchema = map[string]any{
	"type": "json_schema",
	"json_schema": map[string]any{
		"name":   "vehicle_title",
		"strict": true,
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title_state": map[string]any{
					"type":        "string",
					"description": "State of the vehicle title",
				},
				"title_type": map[string]any{
					"type":        "string",
					"description": "Type of the vehicle title",
				},
				"vehicle_vin": map[string]any{
					"type":        "string",
					"description": "Vehicle VIN number",
				},
				"vehicle_year": map[string]any{
					"type":        "integer",
					"description": "Vehicle model year",
				},
				"vehicle_make": map[string]any{
					"type":        "string",
					"description": "Make",
				},
				"vehicle_model": map[string]any{
					"type":        "string",
					"description": "Model",
				},
				"title_number": map[string]any{
					"type":        "string",
					"description": "Number of the vehicle title",
				},
				"vehicle_registered_owner": map[string]any{
					"type":        "string",
					"description": "Owner of the vehicle",
				},
				"first_reassignment": map[string]any{
					"type":        "string",
					"description": "First reassignment",
				},
			},
			"required": []string{
				"title_state",
				"title_type",
				"vehicle_vin",
				"vehicle_year",
				"vehicle_make",
				"vehicle_model",
				"title_number",
				"vehicle_registered_owner",
				"first_reassignment",
			},
			"additionalProperties": false,
		},
	},
}

// Record is the typed result of one extraction call. It is created fresh per
// call and never persisted.
type Record struct {
	TitleState             string `json:"title_state"`
	TitleType              string `json:"title_type"`
	VehicleVIN             string `json:"vehicle_vin"`
	VehicleYear            int    `json:"vehicle_year"`
	VehicleMake            string `json:"vehicle_make"`
	VehicleModel           string `json:"vehicle_model"`
	TitleNumber            string `json:"title_number"`
	VehicleRegisteredOwner string `json:"vehicle_registered_owner"`
	FirstReassignment      string `json:"first_reassignment"`
}

// BuildResponseFormat returns the structured-output response format for the
// extraction request.
func BuildResponseFormat() *providers.ResponseFormat {
	jsonSchema, _ := json.Marshal(ExtractionSchema["json_schema"])
	return &providers.ResponseFormat{
		Type:       "json_schema",
		JSONSchema: jsonSchema,
	}
}

// ParseRecord parses validated structured output into a Record.
func ParseRecord(raw json.RawMessage) (*Record, error) {
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
