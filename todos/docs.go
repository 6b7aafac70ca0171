package todos

import "github.com/user/mytodolist-go/openapi"

// TodoComponent is the reusable schema for to-do representations.
// created_by is read-only: it is always derived from the session.
var TodoComponent = &openapi.Component{
	Name: "Todo",
	Schema: &openapi.Schema{
		Type:     "object",
		Required: []string{"todo_label"},
		Properties: map[string]*openapi.Schema{
			"id":            {Type: "integer", ReadOnly: true},
			"todo_label":    {Type: "string"},
			"is_complete":   {Type: "boolean"},
			"attached_file": {Type: "string", Format: "uri", Nullable: true},
			"created_by":    {Type: "integer", ReadOnly: true},
		},
	},
}

// ResourceDoc describes the to-do collection for the document builder.
func ResourceDoc() openapi.ResourceConfig {
	return openapi.ResourceConfig{
		Serializer: TodoComponent,
		Tags:       []string{"todo"},
	}
}
