package tools

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
)

const FileExistenceToolName = "file_existence"

var _ Tool = (*FileExistenceTool)(nil)

// FileExistenceTool reports whether a local path exists.
type FileExistenceTool struct {
	logger *logger.Logger
}

func NewFileExistenceTool(l *logger.Logger) *FileExistenceTool {
	if l == nil {
		l = logger.NewNop()
	}
	return &FileExistenceTool{logger: l}
}

type existenceInput struct {
	FilePath string `json:"file_path"`
}

func (t *FileExistenceTool) Name() string        { return FileExistenceToolName }
func (t *FileExistenceTool) DisplayName() string { return "File Existence Tool" }
func (t *FileExistenceTool) Description() string { return "Check if a given file path exists." }

func (t *FileExistenceTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "The path of the file to check for existence.",
			},
		},
		"required": []string{"file_path"},
	}
}

// Call stats the path. Any stat error, permission errors included, counts as
// "does not exist".
func (t *FileExistenceTool) Call(ctx context.Context, input string) (string, error) {
	var in existenceInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}

	_, c := beginCall(ctx, t.logger, t.Name())

	if _, err := os.Stat(in.FilePath); err != nil {
		c.done("missing", zap.String("path", in.FilePath))
		return fmt.Sprintf("The file %s does not exist.", in.FilePath), nil
	}
	c.done("exists", zap.String("path", in.FilePath))
	return fmt.Sprintf("The file %s exists.", in.FilePath), nil
}
