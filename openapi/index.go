package openapi

import (
	"context"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/references"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

// Methods are the operation keys of a path item in the order they are reported.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// Index represents a pre-computed index of an OpenAPI document.
// It provides efficient access to document elements without repeated full traversals.
type Index struct {
	Doc *Document

	Operations []*Operation // All operations in paths, in document order
	Webhooks   []*Operation // Operations of webhooks, keyed by webhook name in Path
	Callbacks  []*Operation // Operations of callbacks, keyed by callback expression in Path

	Schemas          []*SchemaNode              // Every schema definition reachable from paths and components, each recorded once at its definition
	SchemaReferences []*IndexNode[*yaml.Node]    // All schema $ref nodes as written in the document
	SecuritySchemes  []*IndexNode[*yaml.Node]    // Resolved security schemes of /components/securitySchemes
	Requirements     []*SecurityRequirementNode // Global and operation level security requirements

	resolutionErrs []error
	circularErrs   []error

	walker       *compose.Walker
	reportedRefs map[*yaml.Node]struct{}
	pathItems    map[*yaml.Node]struct{}
}

// IndexNode wraps a node with its location in the document.
type IndexNode[T any] struct {
	Node T

	Location walk.Locations
}

// Name returns the final segment of the node's location, the name of a component or map entry.
func (n *IndexNode[T]) Name() string {
	return n.Location.Last()
}

// SchemaNode is an indexed schema definition.
type SchemaNode struct {
	compose.Schema

	// Negated is set when the schema is defined below a not keyword.
	Negated bool
}

// Operation is a single operation of a path item.
type Operation struct {
	Path     string
	Method   string
	Node     *yaml.Node
	Location walk.Locations

	// Parameters are the path item and operation parameters resolved to their definitions.
	// Operation parameters replace path item parameters with the same name and location.
	Parameters []*Parameter
	Responses  []*Response
}

// Parameter is a resolved parameter definition.
type Parameter struct {
	Name     string
	In       string
	Required bool
	Node     *yaml.Node
	Location walk.Locations
	// Schema is the parameter schema as written, which may be a reference.
	Schema compose.Schema
}

// Response is a resolved response definition.
type Response struct {
	Status   string
	Node     *yaml.Node
	Location walk.Locations
	Content  []*MediaType
}

// MediaType is an entry of a content map.
type MediaType struct {
	ContentType string
	Node        *yaml.Node
	Location    walk.Locations
	// Schema is the media type schema as written, which may be a reference.
	Schema compose.Schema
}

// SecurityRequirementNode is a security requirement object, global when Operation is nil.
type SecurityRequirementNode struct {
	IndexNode[*yaml.Node]

	Operation *Operation
}

// BuildIndex creates a new Index by walking the document's paths, its webhooks and then its components.
// Callbacks are indexed with the operation declaring them.
func BuildIndex(ctx context.Context, doc *Document) *Index {
	idx := &Index{
		Doc:          doc,
		walker:       compose.NewWalker(),
		reportedRefs: make(map[*yaml.Node]struct{}),
		pathItems:    make(map[*yaml.Node]struct{}),
	}

	if doc == nil || doc.Root() == nil {
		return idx
	}

	root := doc.Root()

	for _, path := range yml.MapEntries(yml.GetMapElement(root, "paths")) {
		if ctx.Err() != nil {
			return idx
		}
		idx.Operations = append(idx.Operations, idx.indexPathItem(path.Key, path.Value, walk.Of("paths", path.Key))...)
	}

	for _, webhook := range yml.MapEntries(yml.GetMapElement(root, "webhooks")) {
		if ctx.Err() != nil {
			return idx
		}
		idx.Webhooks = append(idx.Webhooks, idx.indexDetachedPathItem(webhook.Key, webhook.Value, walk.Of("webhooks", webhook.Key))...)
	}

	for i, requirement := range yml.SequenceItems(yml.GetMapElement(root, "security")) {
		idx.Requirements = append(idx.Requirements, &SecurityRequirementNode{
			IndexNode: IndexNode[*yaml.Node]{Node: requirement, Location: walk.Of("security").AppendIndex(i)},
		})
	}

	idx.indexComponents(yml.GetMapElement(root, "components"))

	return idx
}

// GetAllSchemas returns all schema definitions in the index.
func (i *Index) GetAllSchemas() []*SchemaNode {
	if i == nil {
		return nil
	}
	return i.Schemas
}

// GetResolutionErrors returns errors from local references that could not be resolved.
func (i *Index) GetResolutionErrors() []error {
	if i == nil {
		return nil
	}
	return i.resolutionErrs
}

// GetCircularReferenceErrors returns errors from $ref chains that loop without reaching a definition.
func (i *Index) GetCircularReferenceErrors() []error {
	if i == nil {
		return nil
	}
	return i.circularErrs
}

// GetAllErrors returns all errors collected during indexing.
func (i *Index) GetAllErrors() []error {
	if i == nil {
		return nil
	}
	all := make([]error, 0, len(i.resolutionErrs)+len(i.circularErrs))
	all = append(all, i.resolutionErrs...)
	all = append(all, i.circularErrs...)
	return all
}

// HasErrors returns true if any errors were collected during indexing.
func (i *Index) HasErrors() bool {
	if i == nil {
		return false
	}
	return len(i.resolutionErrs) > 0 || len(i.circularErrs) > 0
}

func (i *Index) indexPathItem(path string, node *yaml.Node, loc walk.Locations) []*Operation {
	pathItem, _, ok := i.resolve(node, loc)
	if !ok {
		return nil
	}
	i.pathItems[pathItem] = struct{}{}

	var ops []*Operation

	pathParams := i.indexParameters(yml.GetMapElement(pathItem, "parameters"), loc.Append("parameters"))

	for _, entry := range yml.MapEntries(pathItem) {
		method := strings.ToLower(entry.Key)
		if !isMethod(method) {
			continue
		}

		opLoc := loc.Append(entry.Key)
		op := &Operation{
			Path:     path,
			Method:   method,
			Node:     entry.Value,
			Location: opLoc,
		}

		opParams := i.indexParameters(yml.GetMapElement(entry.Value, "parameters"), opLoc.Append("parameters"))
		op.Parameters = mergeParameters(pathParams, opParams)

		if requestBody := yml.GetMapElement(entry.Value, "requestBody"); requestBody != nil {
			if rb, rbLoc, ok := i.resolve(requestBody, opLoc.Append("requestBody")); ok {
				i.indexContent(rb, rbLoc)
			}
		}

		for _, resp := range yml.MapEntries(yml.GetMapElement(entry.Value, "responses")) {
			if response := i.indexResponse(resp.Key, resp.Value, opLoc.Append("responses", resp.Key)); response != nil {
				op.Responses = append(op.Responses, response)
			}
		}

		for j, requirement := range yml.SequenceItems(yml.GetMapElement(entry.Value, "security")) {
			i.Requirements = append(i.Requirements, &SecurityRequirementNode{
				IndexNode: IndexNode[*yaml.Node]{Node: requirement, Location: opLoc.Append("security").AppendIndex(j)},
				Operation: op,
			})
		}

		i.indexCallbacks(yml.GetMapElement(entry.Value, "callbacks"), opLoc.Append("callbacks"))

		ops = append(ops, op)
	}

	return ops
}

// indexDetachedPathItem indexes a path item outside of paths unless it was already indexed through a reference.
func (i *Index) indexDetachedPathItem(name string, node *yaml.Node, loc walk.Locations) []*Operation {
	if pathItem, _, ok := i.resolve(node, loc); ok {
		if _, seen := i.pathItems[pathItem]; seen {
			return nil
		}
	}
	return i.indexPathItem(name, node, loc)
}

func (i *Index) indexCallbacks(node *yaml.Node, loc walk.Locations) {
	for _, entry := range yml.MapEntries(node) {
		callback, callbackLoc, ok := i.resolve(entry.Value, loc.Append(entry.Key))
		if !ok {
			continue
		}
		for _, expression := range yml.MapEntries(callback) {
			i.Callbacks = append(i.Callbacks, i.indexDetachedPathItem(expression.Key, expression.Value, callbackLoc.Append(expression.Key))...)
		}
	}
}

func (i *Index) indexParameters(node *yaml.Node, loc walk.Locations) []*Parameter {
	var params []*Parameter
	for j, item := range yml.SequenceItems(node) {
		if param := i.indexParameter(item, loc.AppendIndex(j)); param != nil {
			params = append(params, param)
		}
	}
	return params
}

func (i *Index) indexParameter(node *yaml.Node, loc walk.Locations) *Parameter {
	def, defLoc, ok := i.resolve(node, loc)
	if !ok || def.Kind != yaml.MappingNode {
		return nil
	}

	param := &Parameter{
		Name:     yml.StringValue(yml.GetMapElement(def, "name")),
		In:       yml.StringValue(yml.GetMapElement(def, "in")),
		Required: yml.IsTrue(yml.GetMapElement(def, "required")),
		Node:     def,
		Location: defLoc,
	}

	if schema := yml.GetMapElement(def, "schema"); schema != nil {
		param.Schema = compose.NewSchema(schema, defLoc.Append("schema"))
		i.indexSchema(param.Schema, false)
	} else if content := i.indexContent(def, defLoc); len(content) > 0 {
		param.Schema = content[0].Schema
	}

	return param
}

func (i *Index) indexResponse(status string, node *yaml.Node, loc walk.Locations) *Response {
	def, defLoc, ok := i.resolve(node, loc)
	if !ok || def.Kind != yaml.MappingNode {
		return nil
	}

	response := &Response{
		Status:   status,
		Node:     def,
		Location: defLoc,
		Content:  i.indexContent(def, defLoc),
	}

	i.indexHeaders(yml.GetMapElement(def, "headers"), defLoc.Append("headers"))

	return response
}

func (i *Index) indexHeaders(node *yaml.Node, loc walk.Locations) {
	for _, entry := range yml.MapEntries(node) {
		header, headerLoc, ok := i.resolve(entry.Value, loc.Append(entry.Key))
		if !ok {
			continue
		}
		if schema := yml.GetMapElement(header, "schema"); schema != nil {
			i.indexSchema(compose.NewSchema(schema, headerLoc.Append("schema")), false)
		}
		i.indexContent(header, headerLoc)
	}
}

// indexContent indexes the content map of a parameter, header, request body or response.
func (i *Index) indexContent(owner *yaml.Node, ownerLoc walk.Locations) []*MediaType {
	var mediaTypes []*MediaType
	for _, entry := range yml.MapEntries(yml.GetMapElement(owner, "content")) {
		mt := &MediaType{
			ContentType: entry.Key,
			Node:        entry.Value,
			Location:    ownerLoc.Append("content", entry.Key),
		}
		if schema := yml.GetMapElement(entry.Value, "schema"); schema != nil {
			mt.Schema = compose.NewSchema(schema, mt.Location.Append("schema"))
			i.indexSchema(mt.Schema, false)
		}
		mediaTypes = append(mediaTypes, mt)
	}
	return mediaTypes
}

func (i *Index) indexComponents(components *yaml.Node) {
	if components == nil {
		return
	}

	loc := walk.Of("components")

	for _, entry := range yml.MapEntries(yml.GetMapElement(components, "schemas")) {
		i.indexSchema(compose.NewSchema(entry.Value, loc.Append("schemas", entry.Key)), false)
	}
	for _, entry := range yml.MapEntries(yml.GetMapElement(components, "parameters")) {
		i.indexParameter(entry.Value, loc.Append("parameters", entry.Key))
	}
	for _, entry := range yml.MapEntries(yml.GetMapElement(components, "requestBodies")) {
		if rb, rbLoc, ok := i.resolve(entry.Value, loc.Append("requestBodies", entry.Key)); ok {
			i.indexContent(rb, rbLoc)
		}
	}
	for _, entry := range yml.MapEntries(yml.GetMapElement(components, "responses")) {
		i.indexResponse(entry.Key, entry.Value, loc.Append("responses", entry.Key))
	}
	i.indexHeaders(yml.GetMapElement(components, "headers"), loc.Append("headers"))
	i.indexCallbacks(yml.GetMapElement(components, "callbacks"), loc.Append("callbacks"))

	// path items only defined here belong to no URL, so their operations are not listed
	for _, entry := range yml.MapEntries(yml.GetMapElement(components, "pathItems")) {
		i.indexDetachedPathItem(entry.Key, entry.Value, loc.Append("pathItems", entry.Key))
	}

	for _, entry := range yml.MapEntries(yml.GetMapElement(components, "securitySchemes")) {
		scheme, _, ok := i.resolve(entry.Value, loc.Append("securitySchemes", entry.Key))
		if !ok {
			continue
		}
		i.SecuritySchemes = append(i.SecuritySchemes, &IndexNode[*yaml.Node]{
			Node:     scheme,
			Location: loc.Append("securitySchemes", entry.Key),
		})
	}
}

// indexSchema records every schema below s. References are followed to their definitions which are
// recorded at their own location, so a schema shared through $ref is only recorded once.
func (i *Index) indexSchema(s compose.Schema, negated bool) {
	_ = i.walker.Walk(s, negated, func(s compose.Schema, negated bool) error {
		if _, ok := s.Reference(); !ok {
			i.Schemas = append(i.Schemas, &SchemaNode{Schema: s, Negated: negated})
			return nil
		}

		i.SchemaReferences = append(i.SchemaReferences, &IndexNode[*yaml.Node]{Node: s.Node, Location: s.Location})

		target, targetLoc, ok := i.resolve(s.Node, s.Location)
		if ok {
			i.indexSchema(compose.NewSchema(target, targetLoc), isNegatedLocation(targetLoc))
		}
		return nil
	})
}

// resolve follows a $ref chain recording any failure once per reference node. External references
// are not an error but cannot be followed.
func (i *Index) resolve(node *yaml.Node, loc walk.Locations) (*yaml.Node, walk.Locations, bool) {
	target, targetLoc, err := i.Doc.Resolve(node, loc)
	if err == nil {
		return target, targetLoc, target != nil
	}

	if errors.Is(err, references.ErrExternalReference) {
		return nil, nil, false
	}

	if _, reported := i.reportedRefs[node]; reported {
		return nil, nil, false
	}
	i.reportedRefs[node] = struct{}{}

	refNode := node
	if _, value, ok := yml.GetMapElementNodes(node, "$ref"); ok {
		refNode = value
	}

	if errors.Is(err, references.ErrCircularReference) {
		i.circularErrs = append(i.circularErrs, validation.NewLocatedError(validation.SeverityError, validation.RuleValidationCircularReference, err, refNode, loc.Append("$ref")))
	} else {
		i.resolutionErrs = append(i.resolutionErrs, validation.NewLocatedError(validation.SeverityError, validation.RuleValidationInvalidReference, err, refNode, loc.Append("$ref")))
	}
	return nil, nil, false
}

func mergeParameters(pathParams, opParams []*Parameter) []*Parameter {
	merged := make([]*Parameter, 0, len(pathParams)+len(opParams))
	for _, p := range pathParams {
		overridden := false
		for _, o := range opParams {
			if o.Name == p.Name && o.In == p.In {
				overridden = true
				break
			}
		}
		if !overridden {
			merged = append(merged, p)
		}
	}
	return append(merged, opParams...)
}

func isMethod(key string) bool {
	for _, m := range Methods {
		if m == key {
			return true
		}
	}
	return false
}

// isNegatedLocation reports whether a location passes through a not keyword of a schema.
func isNegatedLocation(loc walk.Locations) bool {
	for j, segment := range loc {
		if segment != compose.KeywordNot || j == 0 {
			continue
		}
		switch loc[j-1] {
		case compose.KeywordProperties, compose.KeywordPatternProperties, "schemas", "content", "headers", "webhooks", "callbacks", "pathItems":
			// a property or component named not
		default:
			return true
		}
	}
	return false
}

// SuccessResponses returns the operation's 2xx responses in document order.
func (o *Operation) SuccessResponses() []*Response {
	var out []*Response
	for _, r := range o.Responses {
		if r.IsSuccess() {
			out = append(out, r)
		}
	}
	return out
}

// QueryParameter returns the query parameter with the given name, compared case-insensitively.
func (o *Operation) QueryParameter(name string) (*Parameter, bool) {
	for _, p := range o.Parameters {
		if p.In == "query" && strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// IsSuccess reports whether the status is a 2xx code or the 2XX range.
func (r *Response) IsSuccess() bool {
	return len(r.Status) == 3 && r.Status[0] == '2'
}

// JSONContent returns the JSON media types of the response.
func (r *Response) JSONContent() []*MediaType {
	var out []*MediaType
	for _, mt := range r.Content {
		if mt.IsJSON() {
			out = append(out, mt)
		}
	}
	return out
}

// IsJSON reports whether the media type is application/json or a +json structured syntax type.
func (m *MediaType) IsJSON() bool {
	ct := strings.ToLower(strings.TrimSpace(m.ContentType))
	if base, _, ok := strings.Cut(ct, ";"); ok {
		ct = strings.TrimSpace(base)
	}
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}
