package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/titlescan/internal/api"
	"github.com/jackzampolin/titlescan/internal/llmcall"
	"github.com/jackzampolin/titlescan/internal/svcctx"
)

// CallsListResponse is the response listing recent extraction calls.
type CallsListResponse struct {
	Calls []*llmcall.Call `json:"calls"`
	Total int             `json:"total"`
}

// CallsListEndpoint handles GET /api/calls.
type CallsListEndpoint struct{}

var _ api.Endpoint = (*CallsListEndpoint)(nil)

func (e *CallsListEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/calls", e.handler
}

func (e *CallsListEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	List recent extraction calls
//	@Tags		calls
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum calls to return"
//	@Success	200	{object}	CallsListResponse
//	@Router		/api/calls [get]
func (e *CallsListEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CallsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "call store not initialized")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %s", v))
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, CallsListResponse{
		Calls: store.List(limit),
		Total: store.Len(),
	})
}

func (e *CallsListEndpoint) Command(getServerURL func() string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List recent extraction calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CallsListResponse
			path := "/api/calls"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum calls to return (0 = all retained)")
	return cmd
}

// CallsGetEndpoint handles GET /api/calls/{id}.
type CallsGetEndpoint struct{}

var _ api.Endpoint = (*CallsGetEndpoint)(nil)

func (e *CallsGetEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/calls/{id}", e.handler
}

func (e *CallsGetEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Get one extraction call by ID
//	@Tags		calls
//	@Produce	json
//	@Param		id	path		string	true	"Call ID"
//	@Success	200	{object}	llmcall.Call
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/calls/{id} [get]
func (e *CallsGetEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CallsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "call store not initialized")
		return
	}

	id := r.PathValue("id")
	call, ok := store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("call not found: %s", id))
		return
	}

	writeJSON(w, http.StatusOK, call)
}

func (e *CallsGetEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "call <id>",
		Short: "Get one extraction call by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp llmcall.Call
			if err := client.Get(cmd.Context(), "/api/calls/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
