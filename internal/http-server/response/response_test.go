package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := StatusOKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestOK(t *testing.T) {
	resp := OK()

	assert.Equal(t, StatusOK, resp.Status)
	assert.Nil(t, resp.Data)
}

func TestError(t *testing.T) {
	msg := "failed to load transactions"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Year        string `validate:"omitempty,numeric"`
		SortOrder   string `validate:"omitempty,oneof=asc desc"`
		Page        int    `validate:"min=0"`
		RowsPerPage int    `validate:"max=100"`
		Name        string `validate:"required"`
	}

	v := validator.New()
	err := v.Struct(TestStruct{
		Year:        "twenty",
		SortOrder:   "up",
		Page:        -1,
		RowsPerPage: 500,
	})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Year can contain only numbers")
	assert.Contains(t, resp.Error, "field SortOrder must be one of: asc desc")
	assert.Contains(t, resp.Error, "field Page must be at least 0")
	assert.Contains(t, resp.Error, "field RowsPerPage must be at most 100")
	assert.Contains(t, resp.Error, "field Name is a required field")
}

func TestValidationErrorUnknownTag(t *testing.T) {
	type TestStruct struct {
		Email string `validate:"email"`
	}

	err := validator.New().Struct(TestStruct{Email: "nope"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, "field Email is not a valid", resp.Error)
}
