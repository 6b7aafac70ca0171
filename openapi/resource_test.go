package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTodoResource(t *testing.T) *Document {
	t.Helper()
	b := NewBuilder(Info{Title: "t", Version: "1"})
	b.AddResource("/api/v1/todo/", "/api/v1/todo/{id}/", ResourceConfig{
		Serializer: testComponent("Todo"),
		Tags:       []string{"todo"},
	})
	return b.Document()
}

func TestAddResource_RegistersAllSixOperations(t *testing.T) {
	doc := buildTodoResource(t)

	list := doc.Paths["/api/v1/todo/"]
	detail := doc.Paths["/api/v1/todo/{id}/"]
	require.NotNil(t, list)
	require.NotNil(t, detail)

	assert.Equal(t, "listTodos", list["get"].OperationID)
	assert.Equal(t, "createTodo", list["post"].OperationID)
	assert.Equal(t, "retrieveTodo", detail["get"].OperationID)
	assert.Equal(t, "updateTodo", detail["put"].OperationID)
	assert.Equal(t, "partialUpdateTodo", detail["patch"].OperationID)
	assert.Equal(t, "destroyTodo", detail["delete"].OperationID)
}

func TestAddResource_GeneratedDescriptions(t *testing.T) {
	doc := buildTodoResource(t)
	list := doc.Paths["/api/v1/todo/"]
	detail := doc.Paths["/api/v1/todo/{id}/"]

	assert.Equal(t, "List all Todos.", list["get"].Description)
	assert.Equal(t, "Create a new Todo.", list["post"].Description)
	assert.Equal(t, "Retrieve Todo by id.", detail["get"].Description)
	assert.Equal(t, "Update an existing Todo by id.", detail["put"].Description)
	assert.Equal(t, "Partially update an existing Todo by id.", detail["patch"].Description)
	assert.Equal(t, "Delete an existing Todo by id.", detail["delete"].Description)
}

func TestAddResource_ListPrunesAndRewords(t *testing.T) {
	doc := buildTodoResource(t)
	op := doc.Paths["/api/v1/todo/"]["get"]

	assert.NotContains(t, op.Responses, "400")
	assert.NotContains(t, op.Responses, "404")
	assert.Equal(t, "Success.  Body contains Todos list (may be empty)", op.Responses["200"].Description)

	// The 200 body is the pagination envelope around the item schema.
	schema := op.Responses["200"].Content[jsonMedia].Schema
	require.NotNil(t, schema)
	assert.Equal(t, "integer", schema.Properties["count"].Type)
	assert.True(t, schema.Properties["next"].Nullable)
	assert.Equal(t, "#/components/schemas/Todo", schema.Properties["results"].Items.Ref)

	// Pagination query parameters are advertised.
	require.Len(t, op.Parameters, 2)
	assert.Equal(t, "page", op.Parameters[0].Name)
	assert.Equal(t, "page_size", op.Parameters[1].Name)
}

func TestAddResource_CreatePrunesAndRewords(t *testing.T) {
	doc := buildTodoResource(t)
	op := doc.Paths["/api/v1/todo/"]["post"]

	assert.NotContains(t, op.Responses, "404")
	assert.Contains(t, op.Responses, "400")
	assert.Equal(t, "Success.  Body contains newly created Todo.", op.Responses["201"].Description)
	require.NotNil(t, op.RequestBody)
	assert.Equal(t, "#/components/schemas/Todo", op.RequestBody.Content[jsonMedia].Schema.Ref)
}

func TestAddResource_RetrievePrunesAndRewords(t *testing.T) {
	doc := buildTodoResource(t)
	op := doc.Paths["/api/v1/todo/{id}/"]["get"]

	assert.NotContains(t, op.Responses, "400")
	assert.Contains(t, op.Responses, "404")
	assert.Equal(t, "Success.  Body contains requested Todo data", op.Responses["200"].Description)

	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "id", op.Parameters[0].Name)
	assert.Equal(t, "path", op.Parameters[0].In)
	assert.True(t, op.Parameters[0].Required)
}

func TestAddResource_UpdateAndPatchReword(t *testing.T) {
	doc := buildTodoResource(t)

	for _, method := range []string{"put", "patch"} {
		op := doc.Paths["/api/v1/todo/{id}/"][method]
		assert.Equal(t, "Success.  Body contains updated Todo", op.Responses["200"].Description, method)
		assert.Contains(t, op.Responses, "400", method)
		assert.Contains(t, op.Responses, "404", method)
	}
}

func TestAddResource_DestroyPrunesAndRewords(t *testing.T) {
	doc := buildTodoResource(t)
	op := doc.Paths["/api/v1/todo/{id}/"]["delete"]

	assert.NotContains(t, op.Responses, "400")
	assert.Contains(t, op.Responses, "404")
	assert.Equal(t, "Success.  Todo has been deleted.", op.Responses["204"].Description)
	assert.Nil(t, op.Responses["204"].Content)
	assert.Nil(t, op.RequestBody)
}

func TestAddResource_SharedTags(t *testing.T) {
	doc := buildTodoResource(t)
	for _, op := range doc.Paths["/api/v1/todo/"] {
		assert.Equal(t, []string{"todo"}, op.Tags)
	}
}

func TestAddResource_WithoutSerializerRegistersNothing(t *testing.T) {
	b := NewBuilder(Info{Title: "t", Version: "1"})

	b.AddResource("/api/v1/todo/", "/api/v1/todo/{id}/", ResourceConfig{Tags: []string{"todo"}})
	b.AddAction("POST", "/api/v1/todo/{id}/done/", "mark_done", ResourceConfig{})

	assert.Empty(t, b.Document().Paths)
}

func TestAddAction_CustomNameCamelCased(t *testing.T) {
	b := NewBuilder(Info{})
	b.AddAction("POST", "/api/v1/todo/{id}/mark_done/", "mark_done", ResourceConfig{
		Serializer: testComponent("Todo"),
	})

	op := b.Document().Paths["/api/v1/todo/{id}/mark_done/"]["post"]
	require.NotNil(t, op)
	assert.Equal(t, "markDoneTodo", op.OperationID)
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "id", op.Parameters[0].Name)
}

func TestAddAction_EmptyNameFallsBackToMethod(t *testing.T) {
	b := NewBuilder(Info{})
	b.AddAction("POST", "/api/v1/todo/bulk/", "", ResourceConfig{
		Serializer: testComponent("Todo"),
	})

	op := b.Document().Paths["/api/v1/todo/bulk/"]["post"]
	assert.Equal(t, "createTodo", op.OperationID)
}
