package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	GeminiName    = "gemini"
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	geminiDefaultModel = "gemini-2.0-flash"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	HTTPClient   *http.Client // Optional (tests)
}

// GeminiClient implements LLMClient against the Google Generative Language
// REST API. Requests are single-shot: no retry, failures surface to the
// caller immediately.
type GeminiClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	client       *http.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = geminiDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GeminiClient{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		client:       client,
	}
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Generate sends a single generateContent request.
func (c *GeminiClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	result := &GenerateResult{
		RequestID: requestID,
		Provider:  GeminiName,
		ModelUsed: model,
	}

	if c.apiKey == "" {
		result.ErrorType = "configuration"
		result.ErrorMessage = "missing API key"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("gemini: missing API key")
	}

	gReq, err := buildGeminiRequest(req)
	if err != nil {
		result.ErrorType = "request_build"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, err
	}

	gResp, err := c.doRequest(ctx, model, gReq)
	if err != nil {
		result.ErrorType = "http_error"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, err
	}

	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		result.ErrorType = "empty_response"
		result.ErrorMessage = "no candidates in response"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("gemini: no candidates in response")
	}

	var content string
	for _, p := range gResp.Candidates[0].Content.Parts {
		content += p.Text
	}

	result.Success = true
	result.Content = content
	result.PromptTokens = gResp.UsageMetadata.PromptTokenCount
	result.CompletionTokens = gResp.UsageMetadata.CandidatesTokenCount
	result.TotalTokens = gResp.UsageMetadata.TotalTokenCount
	result.ExecutionTime = time.Since(start)

	finalizeStructuredResult(result, req.ResponseFormat)

	return result, nil
}

func (c *GeminiClient) doRequest(ctx context.Context, model string, gReq *geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(gReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var gResp geminiResponse
	if err := json.Unmarshal(respBody, &gResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &gResp, nil
}

// buildGeminiRequest converts a GenerateRequest into the Gemini wire shape.
// Ordered parts map onto a single user content's parts list; PDF segments
// become inline_data blobs.
func buildGeminiRequest(req *GenerateRequest) (*geminiRequest, error) {
	if len(req.Parts) == 0 {
		return nil, fmt.Errorf("gemini: request has no content parts")
	}

	parts := make([]geminiPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsPDF() {
			parts = append(parts, geminiPart{
				InlineData: &geminiInlineData{
					MimeType: "application/pdf",
					Data:     base64.StdEncoding.EncodeToString(p.PDF),
				},
			})
			continue
		}
		parts = append(parts, geminiPart{Text: p.Text})
	}

	gReq := &geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	}

	if req.System != "" {
		gReq.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	genCfg := &geminiGenerationConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.ResponseFormat != nil {
		schema, err := geminiResponseSchema(req.ResponseFormat.JSONSchema)
		if err != nil {
			return nil, err
		}
		genCfg.ResponseMimeType = "application/json"
		genCfg.ResponseSchema = schema
	}
	gReq.GenerationConfig = genCfg

	return gReq, nil
}

// geminiResponseSchema unwraps the canonical json_schema wrapper and strips
// keywords the Gemini schema dialect rejects.
func geminiResponseSchema(schemaRaw json.RawMessage) (json.RawMessage, error) {
	if len(schemaRaw) == 0 {
		return nil, nil
	}

	core, err := extractValidationSchema(schemaRaw)
	if err != nil {
		return nil, err
	}

	var root any
	if err := json.Unmarshal(core, &root); err != nil {
		return nil, fmt.Errorf("failed to parse response schema: %w", err)
	}
	stripUnsupportedKeywords(root)

	sanitized, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize response schema: %w", err)
	}
	return sanitized, nil
}

func stripUnsupportedKeywords(node any) {
	switch n := node.(type) {
	case map[string]any:
		delete(n, "additionalProperties")
		delete(n, "$schema")
		for _, v := range n {
			stripUnsupportedKeywords(v)
		}
	case []any:
		for _, v := range n {
			stripUnsupportedKeywords(v)
		}
	}
}

// Gemini API types

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature      float64         `json:"temperature,omitempty"`
	MaxOutputTokens  int             `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string          `json:"response_mime_type,omitempty"`
	ResponseSchema   json.RawMessage `json:"response_schema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Verify interface
var _ LLMClient = (*GeminiClient)(nil)
