package endpoints

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/titlescan/internal/api"
	"github.com/jackzampolin/titlescan/internal/extract"
	"github.com/jackzampolin/titlescan/internal/llmcall"
	"github.com/jackzampolin/titlescan/internal/prompts/vehicletitle"
	"github.com/jackzampolin/titlescan/internal/svcctx"
)

// maxUploadBytes caps in-memory multipart parsing for uploads.
const maxUploadBytes = 50 << 20 // 50MB

// ExtractResponse is the response for a successful extraction.
type ExtractResponse struct {
	Record    *vehicletitle.Record `json:"record"`
	CallID    string               `json:"call_id,omitempty"`
	Provider  string               `json:"provider,omitempty"`
	Model     string               `json:"model,omitempty"`
	PageCount int                  `json:"page_count,omitempty"`
	LatencyMs int                  `json:"latency_ms,omitempty"`
}

// ExtractEndpoint handles POST /api/extract with a multipart PDF upload.
type ExtractEndpoint struct{}

var _ api.Endpoint = (*ExtractEndpoint)(nil)

func (e *ExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/extract", e.handler
}

func (e *ExtractEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Extract vehicle-title fields from a PDF
//	@Description	Upload a vehicle-title PDF and receive the extracted record
//	@Tags			extract
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Vehicle-title PDF"
//	@Success		200	{object}	ExtractResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/extract [post]
func (e *ExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", header.Filename))
		return
	}

	pdfData, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	// Reject non-PDF bytes before spending an API call on them.
	pageCount, err := extract.PageCount(pdfData)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid PDF upload: %v", err))
		return
	}

	ex := svcctx.ExtractorFrom(r.Context())
	if ex == nil {
		writeError(w, http.StatusServiceUnavailable, "extraction service not configured")
		return
	}

	logger := svcctx.LoggerFrom(r.Context())
	if logger != nil {
		logger.Info("extracting vehicle title", "filename", header.Filename, "pages", pageCount, "bytes", len(pdfData))
	}

	record, result, err := ex.ExtractFromUpload(r.Context(), pdfData)

	var recordJSON json.RawMessage
	if record != nil {
		recordJSON, _ = json.Marshal(record)
	}
	call := llmcall.FromResult(result, llmcall.RecordOptions{
		Filename:  header.Filename,
		PageCount: pageCount,
		Record:    recordJSON,
		Err:       err,
	})
	if calls := svcctx.CallsFrom(r.Context()); calls != nil {
		calls.Add(call)
	}

	if err != nil {
		// All-or-nothing: the error plus full diagnostic detail, never a
		// partial record.
		writeErrorDetail(w, http.StatusUnprocessableEntity, "extraction failed", err.Error())
		return
	}

	resp := ExtractResponse{
		Record:    record,
		PageCount: pageCount,
	}
	if call != nil {
		resp.CallID = call.ID
		resp.Provider = call.Provider
		resp.Model = call.Model
		resp.LatencyMs = call.LatencyMs
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Extract vehicle-title fields from a PDF via the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read PDF file: %w", err)
			}

			client := api.NewClient(getServerURL())
			var resp ExtractResponse
			if err := client.PostFile(cmd.Context(), "/api/extract", "file", args[0], data, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
