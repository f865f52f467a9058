package docs

import (
	"context"
	_ "embed"
	"errors"
	"io/fs"
	"os"

	apperrors "klarnasync/internal/shared_kernel/errors"
)

const openAPIContentType = "application/yaml; charset=utf-8"

//go:embed openapi.yaml
var embeddedOpenAPISpec []byte

// FileOpenAPISpecReadModel serves the OpenAPI document from path, or the copy
// compiled into the binary when path is empty.
type FileOpenAPISpecReadModel struct {
	path string
}

func NewFileOpenAPISpecReadModel(path string) *FileOpenAPISpecReadModel {
	return &FileOpenAPISpecReadModel{
		path: path,
	}
}

func (r *FileOpenAPISpecReadModel) Read(_ context.Context) ([]byte, string, *apperrors.AppError) {
	if r.path == "" {
		return embeddedOpenAPISpec, openAPIContentType, nil
	}

	content, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", apperrors.NewNotFound(
			"OPENAPI_FILE_NOT_FOUND",
			"OpenAPI spec file does not exist",
			map[string]any{"path": r.path},
		)
	}
	if err != nil {
		return nil, "", apperrors.NewInternal(
			"OPENAPI_FILE_READ_FAILED",
			"failed to read OpenAPI spec file",
			map[string]any{"path": r.path},
		)
	}

	return content, openAPIContentType, nil
}
