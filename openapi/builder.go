package openapi

import (
	"strings"
)

const jsonMedia = "application/json"

// ResponseConfig declares one response catalog entry for a route. Serializer
// takes precedence over Schema when both are set.
type ResponseConfig struct {
	Description string
	Serializer  *Component
	Schema      *Schema
}

// RouteConfig is the declarative description of a single route. Zero values
// fall back to generated defaults: tags default to "api", the operation id is
// inferred from the method and serializer name, the request body is inferred
// from the route's own serializer, and the response catalog is seeded with
// generic 400/403/404/500 entries plus a method-appropriate success entry.
type RouteConfig struct {
	OperationID string
	Tags        []string
	Description string

	// Serializer is the route's own serializer; it drives the default
	// success response, the default request body, and operation id
	// inference.
	Serializer *Component

	// RequestSerializer overrides the request body schema.
	RequestSerializer *Component
	// EmptyRequestBody advertises the route as taking no body at all.
	EmptyRequestBody bool

	// Responses overlays or overrides catalog entries by status code.
	Responses map[string]ResponseConfig
	// ExcludedResponses removes codes from the final catalog regardless of
	// where they came from.
	ExcludedResponses []string
}

// Builder assembles a Document from route configurations.
type Builder struct {
	doc *Document
}

// NewBuilder creates a Builder for a document with the given info block.
func NewBuilder(info Info) *Builder {
	return &Builder{doc: &Document{
		OpenAPI:    "3.0.2",
		Info:       info,
		Paths:      map[string]PathItem{},
		Components: Components{Schemas: map[string]*Schema{}},
	}}
}

// Document returns the assembled document.
func (b *Builder) Document() *Document {
	return b.doc
}

// Add registers one operation for the given method and path.
func (b *Builder) Add(method, path string, cfg RouteConfig) {
	b.set(method, path, b.buildOperation(method, cfg))
}

func (b *Builder) set(method, path string, op *Operation) {
	item, ok := b.doc.Paths[path]
	if !ok {
		item = PathItem{}
		b.doc.Paths[path] = item
	}
	item[strings.ToLower(method)] = op
}

// buildOperation applies the base behavior shared by every route.
func (b *Builder) buildOperation(method string, cfg RouteConfig) *Operation {
	op := &Operation{
		OperationID: cfg.OperationID,
		Tags:        cfg.Tags,
		Description: cfg.Description,
		Responses:   defaultResponses(),
	}
	if op.OperationID == "" {
		op.OperationID = inferOperationID(method, cfg.Serializer)
	}
	if len(op.Tags) == 0 {
		op.Tags = []string{"api"}
	}

	op.RequestBody = b.requestBody(method, cfg)

	// Default success entry for the route's own serializer.
	code := successCode(method)
	success := &Response{}
	if cfg.Serializer != nil && code != "204" {
		success.Content = b.jsonContent(cfg.Serializer.Ref())
		b.register(cfg.Serializer)
	}
	op.Responses[code] = success

	// Declared entries override anything generated so far.
	for code, rc := range cfg.Responses {
		resp := &Response{Description: rc.Description}
		switch {
		case rc.Serializer != nil:
			resp.Content = b.jsonContent(rc.Serializer.Ref())
			b.register(rc.Serializer)
		case rc.Schema != nil:
			resp.Content = b.jsonContent(rc.Schema)
		}
		op.Responses[code] = resp
	}

	// Exclusions win over every origin.
	for _, code := range cfg.ExcludedResponses {
		delete(op.Responses, code)
	}
	return op
}

func (b *Builder) requestBody(method string, cfg RouteConfig) *RequestBody {
	if cfg.EmptyRequestBody || !hasRequestBody(method) {
		return nil
	}
	ser := cfg.RequestSerializer
	if ser == nil {
		ser = cfg.Serializer
	}
	if ser == nil {
		return nil
	}
	b.register(ser)
	return &RequestBody{Content: b.jsonContent(ser.Ref())}
}

func (b *Builder) jsonContent(schema *Schema) map[string]MediaType {
	return map[string]MediaType{jsonMedia: {Schema: schema}}
}

// register adds the component schema under its name, once.
func (b *Builder) register(c *Component) {
	if _, ok := b.doc.Components.Schemas[c.Name]; !ok {
		b.doc.Components.Schemas[c.Name] = c.Schema
	}
}

func defaultResponses() map[string]*Response {
	return map[string]*Response{
		"400": {Description: "Request was malformed in some way.  Response body may contain more details."},
		"403": {Description: "Permission check failed"},
		"404": {Description: "Object not found"},
		"500": {Description: "Server error"},
	}
}

func successCode(method string) string {
	switch strings.ToUpper(method) {
	case "POST":
		return "201"
	case "DELETE":
		return "204"
	default:
		return "200"
	}
}

func hasRequestBody(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	default:
		return false
	}
}

// methodAction maps HTTP methods to the uniform action vocabulary used in
// operation ids.
func methodAction(method string) string {
	switch strings.ToUpper(method) {
	case "GET":
		return "retrieve"
	case "POST":
		return "create"
	case "PUT":
		return "update"
	case "PATCH":
		return "partialUpdate"
	case "DELETE":
		return "destroy"
	default:
		return strings.ToLower(method)
	}
}

func inferOperationID(method string, ser *Component) string {
	base := ""
	if ser != nil {
		base = ser.Name
	}
	return methodAction(method) + base
}

// toCamelCase converts snake_case action names to the camelCase convention
// used for operation ids.
func toCamelCase(s string) string {
	parts := strings.Split(s, "_")
	out := strings.ToLower(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		out += strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return out
}
