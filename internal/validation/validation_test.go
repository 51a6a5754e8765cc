package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name" validate:"required"`
}

type request struct {
	Title string `json:"title" validate:"required,max=5"`
	Items []item `json:"items" validate:"min=1,dive"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(request{Title: "ok", Items: []item{{Name: "a"}}}))

	err := Struct(request{Title: "too long", Items: []item{{}}})
	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, map[string]string{
		"title":         "max=5",
		"items[0].name": "required",
	}, ve.Fields)
	assert.Equal(t, "invalid items[0].name: required, title: max=5", err.Error())
}
