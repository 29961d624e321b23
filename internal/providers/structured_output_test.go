package providers

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseStructuredJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "plain object",
			content: `{"title_state":"CA"}`,
			want:    `{"title_state":"CA"}`,
		},
		{
			name:    "code fenced",
			content: "```json\n{\"title_state\":\"CA\"}\n```",
			want:    `{"title_state":"CA"}`,
		},
		{
			name:    "fenced without language",
			content: "```\n{\"title_state\":\"CA\"}\n```",
			want:    `{"title_state":"CA"}`,
		},
		{
			name:    "surrounding prose",
			content: "Here is the extracted data: {\"title_state\":\"CA\"} Let me know if you need more.",
			want:    `{"title_state":"CA"}`,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			content: "I could not read the document.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStructuredJSON(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseStructuredJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateStructuredJSON(t *testing.T) {
	schema := json.RawMessage(`{
		"name": "vehicle_title",
		"strict": true,
		"schema": {
			"type": "object",
			"properties": {
				"vehicle_year": {"type": "integer"},
				"title_state": {"type": "string"}
			},
			"required": ["vehicle_year", "title_state"],
			"additionalProperties": false
		}
	}`)

	t.Run("valid document", func(t *testing.T) {
		doc := json.RawMessage(`{"vehicle_year": 2021, "title_state": "CA"}`)
		if err := validateStructuredJSON(schema, doc); err != nil {
			t.Errorf("validateStructuredJSON() error = %v", err)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		doc := json.RawMessage(`{"vehicle_year": "2021", "title_state": "CA"}`)
		if err := validateStructuredJSON(schema, doc); err == nil {
			t.Error("expected validation error for string year")
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		doc := json.RawMessage(`{"vehicle_year": 2021}`)
		if err := validateStructuredJSON(schema, doc); err == nil {
			t.Error("expected validation error for missing field")
		}
	})

	t.Run("empty schema passes", func(t *testing.T) {
		doc := json.RawMessage(`{"anything": true}`)
		if err := validateStructuredJSON(nil, doc); err != nil {
			t.Errorf("validateStructuredJSON() error = %v", err)
		}
	})
}

func TestExtractValidationSchema(t *testing.T) {
	t.Run("openai wrapper", func(t *testing.T) {
		wrapped := json.RawMessage(`{"name":"x","strict":true,"schema":{"type":"object"}}`)
		core, err := extractValidationSchema(wrapped)
		if err != nil {
			t.Fatalf("extractValidationSchema() error = %v", err)
		}
		if !strings.Contains(string(core), `"type":"object"`) {
			t.Errorf("got %s", core)
		}
		if strings.Contains(string(core), "strict") {
			t.Errorf("wrapper keys leaked into core schema: %s", core)
		}
	})

	t.Run("bare schema passthrough", func(t *testing.T) {
		bare := json.RawMessage(`{"type":"object","properties":{}}`)
		core, err := extractValidationSchema(bare)
		if err != nil {
			t.Fatalf("extractValidationSchema() error = %v", err)
		}
		if string(core) != string(bare) {
			t.Errorf("got %s, want passthrough", core)
		}
	})
}

func TestFinalizeStructuredResult(t *testing.T) {
	rf := &ResponseFormat{
		Type: "json_schema",
		JSONSchema: json.RawMessage(`{
			"name": "vehicle_title",
			"schema": {
				"type": "object",
				"properties": {"title_state": {"type": "string"}},
				"required": ["title_state"]
			}
		}`),
	}

	t.Run("valid output", func(t *testing.T) {
		result := &GenerateResult{Success: true, Content: `{"title_state":"CA"}`}
		finalizeStructuredResult(result, rf)
		if !result.Success {
			t.Fatalf("unexpected failure: %s %s", result.ErrorType, result.ErrorMessage)
		}
		if string(result.ParsedJSON) != `{"title_state":"CA"}` {
			t.Errorf("ParsedJSON = %s", result.ParsedJSON)
		}
	})

	t.Run("unparseable output", func(t *testing.T) {
		result := &GenerateResult{Success: true, Content: "not json"}
		finalizeStructuredResult(result, rf)
		if result.Success {
			t.Error("expected failure")
		}
		if result.ErrorType != "json_parse" {
			t.Errorf("ErrorType = %q", result.ErrorType)
		}
	})

	t.Run("schema violation", func(t *testing.T) {
		result := &GenerateResult{Success: true, Content: `{"title_state": 5}`}
		finalizeStructuredResult(result, rf)
		if result.Success {
			t.Error("expected failure")
		}
		if result.ErrorType != "schema_validation" {
			t.Errorf("ErrorType = %q", result.ErrorType)
		}
	})

	t.Run("no response format is a no-op", func(t *testing.T) {
		result := &GenerateResult{Success: true, Content: "free text"}
		finalizeStructuredResult(result, nil)
		if !result.Success {
			t.Error("expected success")
		}
		if result.ParsedJSON != nil {
			t.Error("expected no parsed JSON")
		}
	})
}
