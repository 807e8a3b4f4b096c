package server

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lk2023060901/internet-data-toolkit/internal/pkg/errors"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/response"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/workerpool"
	"github.com/lk2023060901/internet-data-toolkit/internal/tools"
)

// maxArgumentBytes bounds a single request body
const maxArgumentBytes = 1 << 20

// ToolHandler exposes the toolkit over HTTP.
type ToolHandler struct {
	toolkit *tools.Toolkit
	pool    *workerpool.Pool
}

func NewToolHandler(toolkit *tools.Toolkit, pool *workerpool.Pool) *ToolHandler {
	return &ToolHandler{toolkit: toolkit, pool: pool}
}

// RegisterRoutes 注册工具路由
func (h *ToolHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/toolkit", h.Describe)
	r.GET("/tools", h.ListTools)
	r.POST("/tools/:name/invoke", h.Invoke)
	r.POST("/batch", h.Batch)
}

// InvokeResult is the data of a successful invocation.
type InvokeResult struct {
	Tool   string `json:"tool"`
	Output string `json:"output"`
}

// BatchCall is one entry of a batch request.
type BatchCall struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// BatchRequest runs several tool calls concurrently.
type BatchRequest struct {
	Calls []BatchCall `json:"calls"`
}

// BatchResult carries either the output or the error of one call.
type BatchResult struct {
	Tool   string `json:"tool"`
	Output string `json:"output,omitempty"`
	Code   int    `json:"code"`
	Error  string `json:"error,omitempty"`
}

// Describe returns the toolkit descriptor.
func (h *ToolHandler) Describe(c *gin.Context) {
	response.Success(c, h.toolkit.Describe())
}

// ListTools returns the tool definitions.
func (h *ToolHandler) ListTools(c *gin.Context) {
	response.Success(c, h.toolkit.Definitions())
}

// Invoke calls one tool with the request body as its JSON argument object.
func (h *ToolHandler) Invoke(c *gin.Context) {
	name := c.Param("name")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxArgumentBytes))
	if err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrBadRequest, "failed to read body"))
		return
	}

	output, err := h.toolkit.Invoke(c.Request.Context(), name, string(body))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, InvokeResult{Tool: name, Output: output})
}

// Batch runs every call on the worker pool and answers in request order.
func (h *ToolHandler) Batch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.NewInvalidInputError(err, "invalid batch request"))
		return
	}
	if len(req.Calls) == 0 {
		response.HandleError(c, apperrors.NewValidationError("calls", "must not be empty"))
		return
	}

	ctx := c.Request.Context()
	pending := make([]<-chan workerpool.TaskResult, len(req.Calls))
	for i, call := range req.Calls {
		call := call
		pending[i] = h.pool.SubmitWithResult(func() (interface{}, error) {
			return h.toolkit.Invoke(ctx, call.Tool, string(call.Arguments))
		})
	}

	results := make([]BatchResult, len(req.Calls))
	for i, ch := range pending {
		results[i] = toBatchResult(ctx, req.Calls[i].Tool, ch)
	}

	response.Success(c, gin.H{"results": results})
}

func toBatchResult(ctx context.Context, tool string, ch <-chan workerpool.TaskResult) BatchResult {
	var res workerpool.TaskResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = workerpool.TaskResult{Error: ctx.Err()}
	}

	if res.Error != nil {
		code := apperrors.ExtractCode(res.Error)
		return BatchResult{
			Tool:  tool,
			Code:  code,
			Error: apperrors.FormatError(code, apperrors.GetDetails(res.Error)),
		}
	}

	output, _ := res.Data.(string)
	return BatchResult{Tool: tool, Code: apperrors.Success, Output: output}
}
