package openapi

import (
	"fmt"
	"strings"
)

// ResourceConfig describes a collection-style resource (list + CRUD) whose
// operations share one serializer and one tag set.
type ResourceConfig struct {
	Serializer *Component
	Tags       []string
}

// AddResource registers the six standard operations of a collection resource:
// list and create on listPath, retrieve/update/partial-update/destroy on
// detailPath. Each operation starts from the shared base behavior and is then
// specialized per HTTP method: generated descriptions, response catalog
// pruning and success-entry rewording, and list pagination metadata.
// A config without a serializer registers nothing: the serializer names the
// resource, so there is nothing to describe without one.
func (b *Builder) AddResource(listPath, detailPath string, cfg ResourceConfig) {
	if cfg.Serializer == nil {
		return
	}
	name := cfg.Serializer.Name
	plural := pluralize(name)

	route := RouteConfig{Tags: cfg.Tags, Serializer: cfg.Serializer}

	list := b.buildOperation("GET", route)
	list.OperationID = "list" + plural
	list.Description = fmt.Sprintf("List all %s.", plural)
	delete(list.Responses, "400")
	delete(list.Responses, "404")
	list.Responses["200"] = &Response{
		Description: fmt.Sprintf("Success.  Body contains %s list (may be empty)", plural),
		Content:     b.jsonContent(paginatedSchema(cfg.Serializer.Ref())),
	}
	list.Parameters = []Parameter{
		{Name: "page", In: "query", Description: "A page number within the paginated result set.", Schema: &Schema{Type: "integer"}},
		{Name: "page_size", In: "query", Description: "Number of results to return per page.", Schema: &Schema{Type: "integer"}},
	}
	b.set("GET", listPath, list)

	create := b.buildOperation("POST", route)
	create.OperationID = "create" + name
	create.Description = fmt.Sprintf("Create a new %s.", name)
	delete(create.Responses, "404")
	create.Responses["201"] = &Response{
		Description: fmt.Sprintf("Success.  Body contains newly created %s.", name),
		Content:     b.jsonContent(cfg.Serializer.Ref()),
	}
	b.set("POST", listPath, create)

	retrieve := b.buildOperation("GET", route)
	retrieve.OperationID = "retrieve" + name
	retrieve.Description = fmt.Sprintf("Retrieve %s by id.", name)
	delete(retrieve.Responses, "400")
	retrieve.Responses["200"] = &Response{
		Description: fmt.Sprintf("Success.  Body contains requested %s data", name),
		Content:     b.jsonContent(cfg.Serializer.Ref()),
	}
	retrieve.Parameters = idParameter(name)
	b.set("GET", detailPath, retrieve)

	update := b.buildOperation("PUT", route)
	update.OperationID = "update" + name
	update.Description = fmt.Sprintf("Update an existing %s by id.", name)
	update.Responses["200"] = &Response{
		Description: fmt.Sprintf("Success.  Body contains updated %s", name),
		Content:     b.jsonContent(cfg.Serializer.Ref()),
	}
	update.Parameters = idParameter(name)
	b.set("PUT", detailPath, update)

	partial := b.buildOperation("PATCH", route)
	partial.OperationID = "partialUpdate" + name
	partial.Description = fmt.Sprintf("Partially update an existing %s by id.", name)
	partial.Responses["200"] = &Response{
		Description: fmt.Sprintf("Success.  Body contains updated %s", name),
		Content:     b.jsonContent(cfg.Serializer.Ref()),
	}
	partial.Parameters = idParameter(name)
	b.set("PATCH", detailPath, partial)

	destroy := b.buildOperation("DELETE", route)
	destroy.OperationID = "destroy" + name
	destroy.Description = fmt.Sprintf("Delete an existing %s by id.", name)
	delete(destroy.Responses, "400")
	destroy.Responses["204"] = &Response{
		Description: fmt.Sprintf("Success.  %s has been deleted.", name),
	}
	destroy.Parameters = idParameter(name)
	b.set("DELETE", detailPath, destroy)
}

// AddAction registers a custom (non-CRUD) action on a resource. The action
// name is converted to the camelCase operation id convention; when it is
// empty the HTTP method's action name is used instead. Like AddResource, a
// config without a serializer registers nothing; serializer-less routes go
// through Add with a plain RouteConfig.
func (b *Builder) AddAction(method, path, action string, cfg ResourceConfig) {
	if cfg.Serializer == nil {
		return
	}
	route := RouteConfig{Tags: cfg.Tags, Serializer: cfg.Serializer}
	op := b.buildOperation(method, route)
	if action != "" {
		op.OperationID = toCamelCase(action) + cfg.Serializer.Name
	}
	if strings.Contains(path, "{id}") {
		op.Parameters = idParameter(cfg.Serializer.Name)
	}
	b.set(method, path, op)
}

func idParameter(name string) []Parameter {
	return []Parameter{{
		Name:        "id",
		In:          "path",
		Required:    true,
		Description: fmt.Sprintf("A unique integer value identifying this %s.", strings.ToLower(name)),
		Schema:      &Schema{Type: "string"},
	}}
}

// paginatedSchema wraps an item schema in the page-number pagination
// envelope used by every list endpoint.
func paginatedSchema(item *Schema) *Schema {
	return &Schema{
		Type:     "object",
		Required: []string{"count", "results"},
		Properties: map[string]*Schema{
			"count":    {Type: "integer"},
			"next":     {Type: "string", Format: "uri", Nullable: true},
			"previous": {Type: "string", Format: "uri", Nullable: true},
			"results":  {Type: "array", Items: item},
		},
	}
}

func pluralize(name string) string {
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}
