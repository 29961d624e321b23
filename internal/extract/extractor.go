// Package extract implements the vehicle-title extraction service: it
// assembles a single schema-constrained request to a hosted generative model
// and parses the response into a typed record.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackzampolin/titlescan/internal/prompts/vehicletitle"
	"github.com/jackzampolin/titlescan/internal/providers"
)

// Config configures an Extractor.
type Config struct {
	// Client is the hosted model backend. Required.
	Client providers.LLMClient

	// Model overrides the client's default model when set.
	Model string

	// FewShotExamplesPath points at an optional JSON file of example
	// PDF/expected-output pairs used to steer the request.
	FewShotExamplesPath string

	// Generation parameters.
	Temperature float64
	MaxTokens   int

	// Logger is used for soft-failure warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// Extractor converts PDF bytes into vehicle-title records via a single model
// call per invocation. It carries only immutable configuration; every call
// is self-contained.
type Extractor struct {
	client      providers.LLMClient
	model       string
	fewShotPath string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// New creates an Extractor. It fails with ConfigurationError when no model
// client is supplied; API-key validity is deferred to the first request.
func New(cfg Config) (*Extractor, error) {
	if cfg.Client == nil {
		return nil, &ConfigurationError{Reason: "no LLM client configured"}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{
		client:      cfg.Client,
		model:       cfg.Model,
		fewShotPath: cfg.FewShotExamplesPath,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}, nil
}

// Provider returns the name of the configured model backend.
func (e *Extractor) Provider() string {
	return e.client.Name()
}

// Model returns the configured model override (may be empty).
func (e *Extractor) Model() string {
	return e.model
}

// ExtractFromBytes extracts a vehicle-title record from raw PDF bytes. The
// request is a single model call: system instruction, few-shot context in
// file order, the target PDF, and the closing instruction, with the response
// constrained to the record schema. Failures wrap into ExtractionError; no
// partial record is ever returned.
func (e *Extractor) ExtractFromBytes(ctx context.Context, pdfData []byte) (*vehicletitle.Record, error) {
	record, _, err := e.extract(ctx, pdfData)
	return record, err
}

// ExtractFromUpload extracts from in-memory uploaded content, returning the
// raw provider result for call recording and diagnostics. Uploads are handled
// directly as a byte buffer; no temporary file staging. The result may be
// non-nil even on error.
func (e *Extractor) ExtractFromUpload(ctx context.Context, pdfData []byte) (*vehicletitle.Record, *providers.GenerateResult, error) {
	return e.extract(ctx, pdfData)
}

func (e *Extractor) extract(ctx context.Context, pdfData []byte) (*vehicletitle.Record, *providers.GenerateResult, error) {
	fewShot, err := e.BuildFewShotContext()
	if err != nil {
		return nil, nil, extractionErr("call", err)
	}

	parts := make([]providers.Part, 0, len(fewShot)+3)
	parts = append(parts, providers.TextPart(vehicletitle.SystemPrompt()))
	parts = append(parts, fewShot...)
	parts = append(parts, providers.PDFPart(pdfData))
	parts = append(parts, providers.TextPart(vehicletitle.ClosingPrompt))

	req := &providers.GenerateRequest{
		Parts:          parts,
		Model:          e.model,
		Temperature:    e.temperature,
		MaxTokens:      e.maxTokens,
		ResponseFormat: vehicletitle.BuildResponseFormat(),
	}

	result, err := e.client.Generate(ctx, req)
	if err != nil {
		// Backends defer credential checks to the first request; surface
		// those as configuration problems, not extraction failures.
		if result != nil && result.ErrorType == "configuration" {
			e.logger.Error("provider rejected its configuration", "provider", e.client.Name(), "error", err)
			return nil, result, &ConfigurationError{Reason: result.ErrorMessage, Err: err}
		}
		e.logger.Error("vehicle-title extraction call failed", "provider", e.client.Name(), "error", err)
		return nil, result, extractionErr("call", err)
	}
	if !result.Success {
		err := fmt.Errorf("%s: %s", result.ErrorType, result.ErrorMessage)
		e.logger.Error("vehicle-title extraction returned unusable output",
			"provider", result.Provider, "error_type", result.ErrorType)
		return nil, result, extractionErr("parse", err)
	}

	record, err := vehicletitle.ParseRecord(result.ParsedJSON)
	if err != nil {
		return nil, result, extractionErr("parse", fmt.Errorf("failed to decode record: %w", err))
	}

	return record, result, nil
}

// ExtractFromFile reads a PDF file fully into memory and extracts from it.
// An unreadable file fails before any API call is attempted.
func (e *Extractor) ExtractFromFile(ctx context.Context, path string) (*vehicletitle.Record, error) {
	pdfData, err := os.ReadFile(path)
	if err != nil {
		return nil, extractionErr("read", fmt.Errorf("failed to read PDF file %s: %w", path, err))
	}
	return e.ExtractFromBytes(ctx, pdfData)
}

