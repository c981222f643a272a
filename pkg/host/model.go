package host

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/keelcad/keel/pkg/model"
)

// CompileError is a recoverable model failure: the script could not be parsed
// or evaluated. Callers typically keep showing the last good build and report
// the errors.
type CompileError struct {
	Errors []EvalError
}

func (e CompileError) Error() string {
	if len(e.Errors) == 1 {
		return "compiling model: " + e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return fmt.Sprintf("compiling model: %d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Build is the result of one successful model evaluation. The ID identifies
// the build, so consumers can tell a fresh result from one they have already
// processed.
type Build struct {
	ID    uuid.UUID
	Shape model.Shape
}

// Model is a shape script on disk plus the parameters to evaluate it with.
type Model struct {
	Path   string
	Params model.Parameters

	engine *Engine
}

// NewModel creates a model for the script at path. Params may be nil.
func NewModel(path string, params model.Parameters) *Model {
	return &Model{Path: path, Params: params, engine: NewEngine()}
}

// LoadOnce reads and evaluates the model script a single time. Script-level
// failures are returned as a CompileError; infrastructure failures (missing
// file, evaluation timeout) as plain errors.
func (m *Model) LoadOnce() (*Build, error) {
	source, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}

	shape, evalErrs, err := m.engine.Evaluate(string(source), m.Params)
	if err != nil {
		return nil, fmt.Errorf("evaluating model: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, CompileError{Errors: evalErrs}
	}

	return &Build{ID: uuid.New(), Shape: shape}, nil
}
