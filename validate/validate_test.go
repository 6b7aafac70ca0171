package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/mytodolist-go/apperror"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Skip  string `json:"-" validate:"-"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "a@x.com"}))
}

func TestStruct_ReportsWireNames(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, appErr.Fields["email"])
	assert.NotContains(t, appErr.Fields, "Email")
}

func TestStruct_EmailFormat(t *testing.T) {
	err := Struct(sample{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))

	appErr, _ := apperror.FromError(err)
	assert.Equal(t, []string{"Enter a valid email address."}, appErr.Fields["email"])
}

func TestStruct_UnknownTagFallsBackToGenericMessage(t *testing.T) {
	type bounded struct {
		N int `json:"n" validate:"max=3"`
	}

	err := Struct(bounded{N: 10})
	require.Error(t, err)

	appErr, _ := apperror.FromError(err)
	assert.Equal(t, []string{"This field is invalid."}, appErr.Fields["n"])
}
