package auth

import "github.com/user/mytodolist-go/openapi"

// UserComponent is the reusable schema for user representations. Password is
// write-only; is_active and permissions are read-only.
var UserComponent = &openapi.Component{
	Name: "User",
	Schema: &openapi.Schema{
		Type:     "object",
		Required: []string{"email", "password"},
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "integer", ReadOnly: true},
			"email":      {Type: "string", Format: "email"},
			"password":   {Type: "string", WriteOnly: true},
			"first_name": {Type: "string"},
			"last_name":  {Type: "string"},
			"is_active":  {Type: "boolean", ReadOnly: true},
			"permissions": {
				Type:     "array",
				Items:    &openapi.Schema{Type: "string"},
				ReadOnly: true,
			},
		},
	},
}

// LoginComponent is the transient login input contract.
var LoginComponent = &openapi.Component{
	Name: "Login",
	Schema: &openapi.Schema{
		Type:     "object",
		Required: []string{"email", "password"},
		Properties: map[string]*openapi.Schema{
			"email":    {Type: "string"},
			"password": {Type: "string"},
		},
	},
}

// CreateUserDoc relies entirely on the generated defaults for the User
// serializer: operation id "createUser", a User request body, and a 201
// success entry.
func CreateUserDoc() openapi.RouteConfig {
	return openapi.RouteConfig{Serializer: UserComponent}
}

// LoginDoc describes the login route.
func LoginDoc() openapi.RouteConfig {
	return openapi.RouteConfig{
		OperationID:       "login",
		Tags:              []string{"auth"},
		Description:       "Login as a given user.  Your login will be stored as part of the session",
		RequestSerializer: LoginComponent,
		ExcludedResponses: []string{"201", "403", "404"},
		Responses: map[string]openapi.ResponseConfig{
			"401": {Description: "No matching user found for given login credentials"},
			"200": {
				Description: "Successful login.  Response contains user data for the logged in user.",
				Serializer:  UserComponent,
			},
		},
	}
}

// LogoutDoc describes the logout route.
func LogoutDoc() openapi.RouteConfig {
	return openapi.RouteConfig{
		OperationID:       "logout",
		Tags:              []string{"auth"},
		EmptyRequestBody:  true,
		ExcludedResponses: []string{"201", "400", "403", "404"},
		Responses: map[string]openapi.ResponseConfig{
			"200": {Description: "Logged in user is now logged out."},
		},
	}
}

// CurrentUserDoc describes the current-user route.
func CurrentUserDoc() openapi.RouteConfig {
	return openapi.RouteConfig{
		OperationID:       "get_auth_user",
		Description:       "Retrieve logged in user",
		Serializer:        UserComponent,
		ExcludedResponses: []string{"400", "403"},
		Responses: map[string]openapi.ResponseConfig{
			"401": {Description: "User is not authenticated"},
		},
	}
}

// UpdateProfileDoc describes the profile-update route.
func UpdateProfileDoc() openapi.RouteConfig {
	return openapi.RouteConfig{
		OperationID:       "updateAuthUser",
		Tags:              []string{"auth"},
		Description:       "Update the logged in user's profile.  A supplied password is re-hashed; an omitted one is kept.",
		Serializer:        UserComponent,
		ExcludedResponses: []string{"201", "403"},
		Responses: map[string]openapi.ResponseConfig{
			"401": {Description: "User is not authenticated"},
			"200": {
				Description: "Success.  Body contains the updated user",
				Serializer:  UserComponent,
			},
		},
	}
}
