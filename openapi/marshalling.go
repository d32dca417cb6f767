package openapi

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

const (
	// ErrInvalidDocument is returned when the input cannot be decoded into an OpenAPI document tree.
	ErrInvalidDocument = errors.Error("invalid OpenAPI document")
)

type Option[T any] func(o *T)

type UnmarshalOptions struct {
	skipValidation bool
	location       string
}

// WithSkipValidation will skip structural validation of the document during unmarshaling.
func WithSkipValidation() Option[UnmarshalOptions] {
	return func(o *UnmarshalOptions) {
		o.skipValidation = true
	}
}

// WithLocation records where the document was loaded from.
func WithLocation(location string) Option[UnmarshalOptions] {
	return func(o *UnmarshalOptions) {
		o.location = location
	}
}

// Unmarshal decodes a YAML or JSON OpenAPI document from the provided io.Reader.
//
// An error is only returned when the input cannot be decoded or is not an object. Structural problems
// with an OpenAPI 3.0.x document are returned as warnings in the []error result unless
// openapi.WithSkipValidation() is provided.
func Unmarshal(ctx context.Context, r io.Reader, opts ...Option[UnmarshalOptions]) (*Document, []error, error) {
	o := UnmarshalOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, ErrInvalidDocument.Wrap(err)
	}

	doc, err := NewDocument(&root, o.location)
	if err != nil {
		return nil, nil, err
	}

	if o.skipValidation {
		return doc, nil, nil
	}

	return doc, validateStructure(ctx, doc, data), nil
}

// validateStructure runs the document through kin-openapi's loader and validator.
// kin-openapi understands OpenAPI 3.0.x only so other versions are not checked.
func validateStructure(ctx context.Context, doc *Document, data []byte) []error {
	if !doc.IsVersion("3.0") {
		return nil
	}

	node := doc.Root()
	if _, versionNode, ok := yml.GetMapElementNodes(node, "openapi"); ok {
		node = versionNode
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	loader.Context = ctx

	t, err := loader.LoadFromData(bytes.TrimSpace(data))
	if err != nil {
		return []error{validation.NewValidationError(validation.SeverityWarning, validation.RuleValidationOpenAPIStructure, fmt.Errorf("failed to load document: %w", err), node)}
	}

	if err := t.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return []error{validation.NewValidationError(validation.SeverityWarning, validation.RuleValidationOpenAPIStructure, fmt.Errorf("document is not structurally valid: %w", err), node)}
	}

	return nil
}
