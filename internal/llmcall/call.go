// Package llmcall provides extraction call recording for traceability.
// Every model API call is recorded with its timing, usage, and outcome.
// Records are diagnostic only: they live in memory for the process lifetime
// and are never persisted.
package llmcall

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/titlescan/internal/providers"
)

// Call represents one recorded extraction call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Source document
	Filename  string `json:"filename,omitempty"`
	PageCount int    `json:"page_count,omitempty"`

	// Model info
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Token usage
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Result
	Record json.RawMessage `json:"record,omitempty"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording an extraction call.
type RecordOptions struct {
	Filename  string
	PageCount int
	Record    json.RawMessage
	Err       error
}

// FromResult creates a Call from a provider result. Returns nil if result
// is nil.
func FromResult(result *providers.GenerateResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		LatencyMs:    int(result.ExecutionTime.Milliseconds()),
		Filename:     opts.Filename,
		PageCount:    opts.PageCount,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		Record:       opts.Record,
		Success:      result.Success && opts.Err == nil,
	}

	switch {
	case opts.Err != nil:
		call.Error = opts.Err.Error()
	case !result.Success:
		call.Error = result.ErrorMessage
	}

	return call
}
