// Package tools implements the Internet Data Toolkit's tools and their registry.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/internet-data-toolkit/internal/pkg/errors"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
)

// Tool is the contract the host uses to call a tool by name with one JSON
// argument object. A non-nil error is returned only when the arguments
// cannot be decoded or validated; every runtime failure is encoded in the
// returned string.
type Tool interface {
	Name() string
	DisplayName() string
	Description() string
	Parameters() map[string]interface{}
	Call(ctx context.Context, input string) (string, error)
}

// Definition describes a tool for hosts that discover tools over the wire.
type Definition struct {
	Name        string                 `json:"name"`
	DisplayName string                 `json:"display_name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// DefinitionOf builds the Definition of t.
func DefinitionOf(t Tool) Definition {
	return Definition{
		Name:        t.Name(),
		DisplayName: t.DisplayName(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}

// decodeInput unmarshals the JSON argument object. Blank input means no arguments.
func decodeInput(input string, v interface{}) error {
	input = strings.TrimSpace(input)
	if input == "" {
		input = "{}"
	}
	if err := json.Unmarshal([]byte(input), v); err != nil {
		return apperrors.NewInvalidInputError(err, "invalid input format")
	}
	return nil
}

// jsonIndent encodes v with a one-space indent and without HTML escaping.
func jsonIndent(v interface{}) string {
	return encodeJSON(v, " ")
}

// jsonCompact encodes v on one line without HTML escaping.
func jsonCompact(v interface{}) string {
	return encodeJSON(v, "")
}

func encodeJSON(v interface{}, indent string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		// every value passed here is a plain struct or slice of strings
		return `{"error": "failed to encode result"}`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// call tracks one tool invocation for logging.
type call struct {
	log   *logger.Logger
	start time.Time
}

func beginCall(ctx context.Context, base *logger.Logger, tool string) (context.Context, *call) {
	ctx = logger.WithTool(ctx, tool)
	if logger.GetCallID(ctx) == "" {
		ctx = logger.WithCallID(ctx, uuid.NewString())
	}
	return ctx, &call{log: base.WithContext(ctx), start: time.Now()}
}

func (c *call) done(outcome string, fields ...zap.Field) {
	fields = append(fields, zap.String("outcome", outcome), zap.Duration("latency", time.Since(c.start)))
	c.log.Debug("tool call finished", fields...)
}

func (c *call) failed(err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.Duration("latency", time.Since(c.start)))
	c.log.Warn("tool call failed", fields...)
}
