package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComponent(name string) *Component {
	return &Component{
		Name: name,
		Schema: &Schema{
			Type:       "object",
			Properties: map[string]*Schema{"value": {Type: "string"}},
		},
	}
}

func TestAdd_DefaultsSeedGenericResponses(t *testing.T) {
	b := NewBuilder(Info{Title: "t", Version: "1"})
	b.Add("GET", "/things/", RouteConfig{})

	op := b.Document().Paths["/things/"]["get"]
	require.NotNil(t, op)

	assert.Equal(t, "Request was malformed in some way.  Response body may contain more details.",
		op.Responses["400"].Description)
	assert.Equal(t, "Permission check failed", op.Responses["403"].Description)
	assert.Equal(t, "Object not found", op.Responses["404"].Description)
	assert.Equal(t, "Server error", op.Responses["500"].Description)
	assert.Contains(t, op.Responses, "200")
}

func TestAdd_TagsFallBackToDefault(t *testing.T) {
	b := NewBuilder(Info{})
	b.Add("GET", "/a/", RouteConfig{})
	b.Add("GET", "/b/", RouteConfig{Tags: []string{"auth"}})

	assert.Equal(t, []string{"api"}, b.Document().Paths["/a/"]["get"].Tags)
	assert.Equal(t, []string{"auth"}, b.Document().Paths["/b/"]["get"].Tags)
}

func TestAdd_OperationIDInferredFromMethodAndSerializer(t *testing.T) {
	user := testComponent("User")
	b := NewBuilder(Info{})
	b.Add("POST", "/create_user/", RouteConfig{Serializer: user})
	b.Add("PATCH", "/user/{id}/", RouteConfig{Serializer: user})

	assert.Equal(t, "createUser", b.Document().Paths["/create_user/"]["post"].OperationID)
	assert.Equal(t, "partialUpdateUser", b.Document().Paths["/user/{id}/"]["patch"].OperationID)
}

func TestAdd_DeclaredOperationIDAndDescriptionWin(t *testing.T) {
	b := NewBuilder(Info{})
	b.Add("POST", "/login/", RouteConfig{
		OperationID: "login",
		Description: "Login as a given user.",
	})

	op := b.Document().Paths["/login/"]["post"]
	assert.Equal(t, "login", op.OperationID)
	assert.Equal(t, "Login as a given user.", op.Description)
}

func TestAdd_RequestBodySelection(t *testing.T) {
	user := testComponent("User")
	login := testComponent("Login")
	b := NewBuilder(Info{})

	// Declared request serializer wins over the view serializer.
	b.Add("POST", "/login/", RouteConfig{Serializer: user, RequestSerializer: login})
	// Empty body suppresses any inference.
	b.Add("POST", "/logout/", RouteConfig{Serializer: user, EmptyRequestBody: true})
	// GET never carries a body.
	b.Add("GET", "/me/", RouteConfig{Serializer: user})
	// Fallback to the view's own serializer.
	b.Add("POST", "/users/", RouteConfig{Serializer: user})

	doc := b.Document()
	assert.Equal(t, "#/components/schemas/Login",
		doc.Paths["/login/"]["post"].RequestBody.Content[jsonMedia].Schema.Ref)
	assert.Nil(t, doc.Paths["/logout/"]["post"].RequestBody)
	assert.Nil(t, doc.Paths["/me/"]["get"].RequestBody)
	assert.Equal(t, "#/components/schemas/User",
		doc.Paths["/users/"]["post"].RequestBody.Content[jsonMedia].Schema.Ref)
}

func TestAdd_DeclaredResponsesOverlayAndExclusionsApplyLast(t *testing.T) {
	user := testComponent("User")
	b := NewBuilder(Info{})
	b.Add("POST", "/login/", RouteConfig{
		RequestSerializer: testComponent("Login"),
		ExcludedResponses: []string{"201", "403", "404"},
		Responses: map[string]ResponseConfig{
			"401": {Description: "No matching user found for given login credentials"},
			"200": {Description: "Successful login.", Serializer: user},
		},
	})

	op := b.Document().Paths["/login/"]["post"]
	assert.NotContains(t, op.Responses, "201") // default POST success, excluded
	assert.NotContains(t, op.Responses, "403")
	assert.NotContains(t, op.Responses, "404")
	assert.Contains(t, op.Responses, "400")
	assert.Contains(t, op.Responses, "500")
	assert.Equal(t, "No matching user found for given login credentials", op.Responses["401"].Description)
	assert.Equal(t, "#/components/schemas/User", op.Responses["200"].Content[jsonMedia].Schema.Ref)
}

func TestAdd_LiteralSchemaFragmentInResponse(t *testing.T) {
	b := NewBuilder(Info{})
	b.Add("GET", "/health/", RouteConfig{
		Responses: map[string]ResponseConfig{
			"200": {Description: "ok", Schema: &Schema{Type: "string"}},
		},
	})

	op := b.Document().Paths["/health/"]["get"]
	assert.Equal(t, "string", op.Responses["200"].Content[jsonMedia].Schema.Type)
}

func TestAdd_ComponentsRegisteredExactlyOnce(t *testing.T) {
	user := testComponent("User")
	b := NewBuilder(Info{})
	b.Add("POST", "/create_user/", RouteConfig{Serializer: user})
	b.Add("GET", "/get_auth_user/", RouteConfig{
		Serializer: user,
		Responses: map[string]ResponseConfig{
			"200": {Description: "ok", Serializer: user},
		},
	})

	doc := b.Document()
	require.Len(t, doc.Components.Schemas, 1)
	assert.Same(t, user.Schema, doc.Components.Schemas["User"])
}

func TestSuccessCodePerMethod(t *testing.T) {
	b := NewBuilder(Info{})
	b.Add("POST", "/a/", RouteConfig{})
	b.Add("GET", "/b/", RouteConfig{})
	b.Add("DELETE", "/c/", RouteConfig{})

	doc := b.Document()
	assert.Contains(t, doc.Paths["/a/"]["post"].Responses, "201")
	assert.Contains(t, doc.Paths["/b/"]["get"].Responses, "200")
	assert.Contains(t, doc.Paths["/c/"]["delete"].Responses, "204")
}

func TestDocument_IsDeterministic(t *testing.T) {
	build := func() []byte {
		b := NewBuilder(Info{Title: "My TODO List", Version: "1.0.0"})
		b.Add("POST", "/login/", RouteConfig{
			OperationID:       "login",
			Tags:              []string{"auth"},
			RequestSerializer: testComponent("Login"),
			Responses: map[string]ResponseConfig{
				"200": {Description: "ok", Serializer: testComponent("User")},
			},
			ExcludedResponses: []string{"201"},
		})
		out, err := json.Marshal(b.Document())
		require.NoError(t, err)
		return out
	}

	first := build()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build())
	}
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "markDone", toCamelCase("mark_done"))
	assert.Equal(t, "archive", toCamelCase("archive"))
	assert.Equal(t, "getAuthUser", toCamelCase("get_auth_user"))
}
