package providers

import (
	"context"
	"encoding/json"
	"time"
)

// LLMClient is the interface for hosted generative-model backends.
// The extraction core talks only to this interface so backends can be
// swapped or mocked without touching request assembly.
type LLMClient interface {
	// Generate sends a single generation request. One call, one response;
	// failed calls surface immediately to the caller without retry.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g., "gemini").
	Name() string
}

// Part is one ordered segment of a generation request: either plain text
// or a PDF document attached as raw bytes.
type Part struct {
	Text string `json:"text,omitempty"`
	PDF  []byte `json:"-"` // raw PDF bytes; wins over Text when set
}

// TextPart builds a text segment.
func TextPart(text string) Part {
	return Part{Text: text}
}

// PDFPart builds a PDF document segment.
func PDFPart(data []byte) Part {
	return Part{PDF: data}
}

// IsPDF reports whether this part carries document bytes.
func (p Part) IsPDF() bool {
	return len(p.PDF) > 0
}

// ResponseFormat specifies structured output format.
type ResponseFormat struct {
	Type       string          `json:"type"` // "json_schema"
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// GenerateRequest is a single request to an LLM backend.
type GenerateRequest struct {
	// Parts are the ordered content segments (instructions, example PDFs,
	// expected outputs, the target document).
	Parts []Part `json:"parts"`

	// System is an optional system instruction sent separately from Parts.
	System string `json:"system,omitempty"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Structured output
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// GenerateResult is the complete response from an LLM call.
type GenerateResult struct {
	// Response content
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"` // Parsed if ResponseFormat was set

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
