package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// NewErrorResponse builds the envelope for err. Errors without a code are
// reported as INTERNAL_ERROR.
func NewErrorResponse(err error) ErrorResponse {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return ErrorResponse{Error: cliErr.Message, Code: cliErr.Code, Details: cliErr.Details}
	}
	return ErrorResponse{Error: err.Error(), Code: clierr.InternalError}
}

// JSONError writes err as a structured error and returns the process exit
// code it maps to.
func JSONError(w io.Writer, err error) int {
	resp := NewErrorResponse(err)
	_ = JSON(w, resp)
	return (&clierr.Error{Code: resp.Code}).ExitCode()
}

// BatchResult represents the outcome of a single operation within a batch.
type BatchResult struct {
	Ref   string `json:"ref"`
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// FailedResult records a failed batch operation on ref.
func FailedResult(ref string, err error) BatchResult {
	resp := NewErrorResponse(err)
	if resp.Code == clierr.InternalError {
		resp.Code = ""
	}
	return BatchResult{Ref: ref, Error: resp.Error, Code: resp.Code}
}
