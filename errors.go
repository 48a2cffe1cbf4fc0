package tjv

import (
	"errors"
	"strings"

	"github.com/reoring/tjv/internal/compile"
	"github.com/reoring/tjv/internal/message"
)

var (
	// ErrInvalidSchema is wrapped by every *CompileError.
	ErrInvalidSchema = errors.New("tjv: invalid schema")
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("tjv: validation failed")
	// ErrRegistryNotFound is returned for an unknown handle name.
	ErrRegistryNotFound = errors.New("tjv: schema handle not found")
)

// Keyword classifies a Diagnostic.
type Keyword = message.Keyword

const (
	KeywordType     = message.KeywordType
	KeywordRequired = message.KeywordRequired
	KeywordValue    = message.KeywordValue
)

// Diagnostic is the structured record of one validation failure. DataPath
// renders like "user.addresses[2].zip"; the root is empty.
type Diagnostic = message.Detail

// CompileError reports a schema that could not be compiled. Path lists the
// property keys leading to the failing vector, outermost first.
type CompileError struct {
	Path    []string
	Message string
}

func (e *CompileError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return strings.Join(e.Path, "->") + "->" + e.Message
}

func (e *CompileError) Unwrap() error { return ErrInvalidSchema }

func newCompileError(err error) error {
	var ce *compile.Error
	if errors.As(err, &ce) {
		return &CompileError{Path: ce.Path, Message: ce.Msg}
	}
	return &CompileError{Message: err.Error()}
}

// ValidationError reports a failed validation pass. Message is the combined
// "Error while validating data: ..." text, Data the diagnostics in the order
// they were found, and Outcome the extraction collected before the failure.
type ValidationError struct {
	Name    string
	Message string
	Data    []Diagnostic
	Outcome any
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AsValidationError extracts a *ValidationError using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if err != nil && errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsCompileError extracts a *CompileError using errors.As.
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if err != nil && errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
