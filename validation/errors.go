package validation

import (
	"fmt"

	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"go.yaml.in/yaml/v4"
)

// Error is a single lint finding: the rule that produced it, its severity, the node it is anchored to
// and the path of that node from the document root.
type Error struct {
	// UnderlyingError holds the finding's message.
	UnderlyingError error
	// Node is the YAML node the finding is anchored to, used for line and column reporting.
	Node *yaml.Node
	// Severity of the finding.
	Severity Severity
	// Rule is the ID of the rule that produced the finding.
	Rule string
	// Path is the location of Node from the document root.
	Path walk.Locations
	// DocumentLocation is set when the finding is in a document other than the one being linted.
	DocumentLocation string
}

var _ error = (*Error)(nil)

// NewValidationError creates a finding anchored at node.
func NewValidationError(severity Severity, rule string, err error, node *yaml.Node) *Error {
	return &Error{
		UnderlyingError: err,
		Node:            node,
		Severity:        severity,
		Rule:            rule,
	}
}

// NewLocatedError creates a finding anchored at node with its document path.
func NewLocatedError(severity Severity, rule string, err error, node *yaml.Node, path walk.Locations) *Error {
	e := NewValidationError(severity, rule, err, node)
	e.Path = path
	return e
}

func (e Error) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("[%d:%d] %s", e.GetLineNumber(), e.GetColumnNumber(), e.GetMessage())
	}
	return fmt.Sprintf("[%d:%d] %s %s %s", e.GetLineNumber(), e.GetColumnNumber(), e.Severity, e.Rule, e.GetMessage())
}

func (e Error) Unwrap() error {
	return e.UnderlyingError
}

// GetMessage returns the finding's message without location information.
func (e Error) GetMessage() string {
	if e.UnderlyingError == nil {
		return ""
	}
	return e.UnderlyingError.Error()
}

func (e Error) GetLineNumber() int {
	if e.Node == nil {
		return -1
	}
	return e.Node.Line
}

func (e Error) GetColumnNumber() int {
	if e.Node == nil {
		return -1
	}
	return e.Node.Column
}
