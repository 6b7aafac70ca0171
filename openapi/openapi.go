// Package openapi generates the OpenAPI 3 description of the API surface.
//
// Every route is described by a declarative RouteConfig consumed by a single
// generic Builder; collection endpoints get their method-specific wording and
// response catalogs from AddResource. The builder is deterministic and
// side-effect-free: the same configuration always yields the same document.
package openapi

// Document is the root of an OpenAPI 3 description.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Paths      map[string]PathItem `json:"paths"`
	Components Components          `json:"components"`
}

// Info describes the API as a whole.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// PathItem maps lowercase HTTP method names to operations.
type PathItem map[string]*Operation

// Components holds reusable named schemas referenced via $ref.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty"`
}

// Operation describes a single method on a single path.
type Operation struct {
	OperationID string               `json:"operationId"`
	Description string               `json:"description,omitempty"`
	Tags        []string             `json:"tags,omitempty"`
	Parameters  []Parameter          `json:"parameters,omitempty"`
	RequestBody *RequestBody         `json:"requestBody,omitempty"`
	Responses   map[string]*Response `json:"responses"`
}

// Parameter describes a path or query parameter.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Required    bool    `json:"required,omitempty"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

// RequestBody describes an operation's request payload.
type RequestBody struct {
	Content map[string]MediaType `json:"content"`
}

// MediaType pairs a content type with its schema.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Response describes one entry in an operation's response catalog.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Schema is an OpenAPI schema fragment. Either Ref is set, or the inline
// fields are.
type Schema struct {
	Ref        string             `json:"$ref,omitempty"`
	Type       string             `json:"type,omitempty"`
	Format     string             `json:"format,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
	ReadOnly   bool               `json:"readOnly,omitempty"`
	WriteOnly  bool               `json:"writeOnly,omitempty"`
	Nullable   bool               `json:"nullable,omitempty"`
}

// Component is a named serializer schema. Referencing it from a request body
// or response registers it in components.schemas exactly once.
type Component struct {
	Name   string
	Schema *Schema
}

// Ref returns a $ref schema pointing at the registered component.
func (c *Component) Ref() *Schema {
	return &Schema{Ref: "#/components/schemas/" + c.Name}
}
