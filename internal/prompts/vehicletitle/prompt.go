// Package vehicletitle holds the prompt, output schema, and typed result for
// vehicle-title extraction.
package vehicletitle

import (
	_ "embed"
	"strings"
)

//go:embed system.tmpl
var systemPrompt string

// ExamplePrompt introduces each few-shot example document.
const ExamplePrompt = "Please extract data from the following PDF"

// ClosingPrompt is the fixed instruction that follows the target document.
const ClosingPrompt = "Please extract the vehicle information from the attached PDF document."

// SystemPrompt returns the system prompt for vehicle-title extraction.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}
