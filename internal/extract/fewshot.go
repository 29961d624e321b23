package extract

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackzampolin/titlescan/internal/prompts/vehicletitle"
	"github.com/jackzampolin/titlescan/internal/providers"
)

// FewShotExample pairs a sample PDF with its expected extraction output.
// Examples only steer the request; they are never returned as results.
type FewShotExample struct {
	PDFPath        string          `json:"pdf_path"`
	ExpectedOutput json.RawMessage `json:"expected_output"`
}

// BuildFewShotContext produces ordered prompt segments from the configured
// examples file: for each valid example an instruction, the example PDF
// bytes, and the expected output as indented JSON.
//
// A missing or unset examples file yields an empty sequence with no error.
// An example whose PDF does not exist is skipped with a warning; the
// remaining examples are still included. Malformed top-level JSON fails the
// whole load.
func (e *Extractor) BuildFewShotContext() ([]providers.Part, error) {
	if e.fewShotPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(e.fewShotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read few-shot examples file: %w", err)
	}

	var examples []FewShotExample
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("failed to parse few-shot examples file %s: %w", e.fewShotPath, err)
	}

	var parts []providers.Part
	for _, example := range examples {
		pdfData, err := os.ReadFile(example.PDFPath)
		if err != nil {
			e.logger.Warn("example PDF file not found, skipping", "pdf_path", example.PDFPath)
			continue
		}

		expected, err := indentJSON(example.ExpectedOutput)
		if err != nil {
			return nil, fmt.Errorf("invalid expected_output for %s: %w", example.PDFPath, err)
		}

		parts = append(parts,
			providers.TextPart(vehicletitle.ExamplePrompt),
			providers.PDFPart(pdfData),
			providers.TextPart(expected),
		)
	}

	return parts, nil
}

func indentJSON(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
