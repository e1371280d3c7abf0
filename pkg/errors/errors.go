// Package errors provides structured error types for bundlegraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, the node variants and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Errors attributed to a single graph node (NodeError)
//
// # Error Codes
//
// Codes are coarse categories:
//   - CONFIG: a node's configuration is invalid (raised from Prepare)
//   - BUILD: a node failed while transforming assets
//   - GRAPH_INTEGRITY, CYCLE: structural contract violations
//   - NOT_FOUND, INVALID_INPUT, UNKNOWN_KIND: bad input to collaborators
//   - INTERNAL, CANCELLED: everything else
//
// # Usage
//
//	err := errors.ConfigError(n.ID, n.Name, "load path %q not found", dir)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNotFound, origErr, "read graph %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Node errors
	ErrCodeConfig Code = "CONFIG"
	ErrCodeBuild  Code = "BUILD"

	// Structural errors
	ErrCodeGraphIntegrity Code = "GRAPH_INTEGRITY"
	ErrCodeCycle          Code = "CYCLE"

	// Input errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeUnknownKind  Code = "UNKNOWN_KIND"

	// Internal errors
	ErrCodeInternal  Code = "INTERNAL_ERROR"
	ErrCodeCancelled Code = "CANCELLED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// NodeError is a fatal error attributed to one node of the graph.
// It carries the node's id so reports can key failures by node.
type NodeError struct {
	Code     Code
	NodeID   string
	NodeName string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.NodeName, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *NodeError) Unwrap() error { return e.Cause }

// NewNodeError creates a NodeError with the given code.
func NewNodeError(code Code, nodeID, nodeName string, format string, args ...any) *NodeError {
	return &NodeError{
		Code:     code,
		NodeID:   nodeID,
		NodeName: nodeName,
		Message:  fmt.Sprintf(format, args...),
	}
}

// ConfigError reports an invalid node configuration.
func ConfigError(nodeID, nodeName string, format string, args ...any) *NodeError {
	return NewNodeError(ErrCodeConfig, nodeID, nodeName, format, args...)
}

// BuildError reports a failure while a node transformed its input.
func BuildError(nodeID, nodeName string, cause error, format string, args ...any) *NodeError {
	e := NewNodeError(ErrCodeBuild, nodeID, nodeName, format, args...)
	e.Cause = cause
	return e
}

// AsNodeError extracts a NodeError from err's chain.
func AsNodeError(err error) (*NodeError, bool) {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *NodeError with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Code
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Message
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
