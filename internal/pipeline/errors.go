package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	ErrFormat ErrorType = iota
	ErrParse
	ErrFileRead
	ErrFileWrite
	ErrAPI
	ErrTranslation
	ErrCheckpoint
	ErrConfig
	ErrUnknown
)

// TransError is the user-facing error shape of the pipeline: a type for
// dispatch, context fields for diagnosis, and the underlying cause.
type TransError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *TransError {
	return &TransError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func WrapError(err error, errorType ErrorType, message string) *TransError {
	return &TransError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   err,
	}
}

func (e *TransError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *TransError) Unwrap() error {
	return e.Cause
}

func (e *TransError) WithContext(key string, value any) *TransError {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrFormat:
		return "Format"
	case ErrParse:
		return "Parse"
	case ErrFileRead:
		return "FileRead"
	case ErrFileWrite:
		return "FileWrite"
	case ErrAPI:
		return "API"
	case ErrTranslation:
		return "Translation"
	case ErrCheckpoint:
		return "Checkpoint"
	case ErrConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

func IsErrorType(err error, errorType ErrorType) bool {
	var transErr *TransError
	if errors.As(err, &transErr) {
		return transErr.Type == errorType
	}
	return false
}

// Advice returns operator guidance for an error type.
func (t ErrorType) Advice() string {
	switch t {
	case ErrFormat:
		return "The input file matches neither supported caption dialect; check that it is a VTT or SRT file"
	case ErrParse:
		return "Check that the caption file is well formed; cues with broken timestamps are skipped individually"
	case ErrFileRead:
		return "Check that the file exists and is readable"
	case ErrFileWrite:
		return "Check that the output directory exists and is writable"
	case ErrAPI:
		return "Check the API key, network connectivity and the provider's service status"
	case ErrTranslation:
		return "The batch exhausted its retry budget; progress is checkpointed, re-run the same command to resume"
	case ErrCheckpoint:
		return "The checkpoint file could not be read; the job restarts from scratch and prior progress is lost"
	case ErrConfig:
		return "Check configuration values and environment variables"
	default:
		return "Review the detailed error output"
	}
}
