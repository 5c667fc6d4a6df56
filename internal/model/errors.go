package model

import (
	"fmt"
	"strings"
)

// Violation describes one bad field of one line item
type Violation struct {
	Item    int         `json:"item"` // zero-based position in the input list
	Field   string      `json:"field"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
	Message string      `json:"message"`
}

func (v Violation) String() string {
	if v.Value != nil {
		return fmt.Sprintf("item %d %s: %s (value=%v, rule=%s)", v.Item+1, v.Field, v.Message, v.Value, v.Rule)
	}
	return fmt.Sprintf("item %d %s: %s (rule=%s)", v.Item+1, v.Field, v.Message, v.Rule)
}

// ValidationError represents validation failures, one entry per bad field
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError creates a validation error holding a single violation
func NewValidationError(item int, field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Violations: []Violation{{
			Item:    item,
			Field:   field,
			Value:   value,
			Rule:    rule,
			Message: message,
		}},
	}
}

// RenderError represents a block the layout could not place
type RenderError struct {
	Block   string
	Message string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed [%s]: %s", e.Block, e.Message)
}

// NewRenderError creates a new render error
func NewRenderError(block, message string) *RenderError {
	return &RenderError{
		Block:   block,
		Message: message,
	}
}

// Export stages
const (
	ExportStageSerialize = "serialize"
	ExportStageVerify    = "verify"
	ExportStageDeliver   = "deliver"
)

// ExportError represents serialization or delivery failures
type ExportError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed [%s]: %s (%v)", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("export failed [%s]: %s", e.Stage, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new export error
func NewExportError(stage, message string, cause error) *ExportError {
	return &ExportError{
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}
