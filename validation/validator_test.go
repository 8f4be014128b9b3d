package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/erasite/apperror"
)

type commentRequest struct {
	Nickname string `json:"nickname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Content  string `json:"content" validate:"required,max=10"`
	Internal string `json:"-"`
}

const (
	msgRequired = "Все поля обязательны для заполнения"
	msgInvalid  = "Проверьте правильность заполнения полей"
)

func TestValidateOK(t *testing.T) {
	v := New(msgRequired, msgInvalid)
	err := v.Validate(commentRequest{Nickname: "neo", Email: "neo@example.com", Content: "hi"})
	assert.NoError(t, err)
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := New(msgRequired, msgInvalid)
	err := v.Validate(commentRequest{Email: "not-an-email", Content: "way too long content"})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, msgInvalid, appErr.Message)
	assert.Equal(t, "обязательное поле", appErr.Fields["nickname"])
	assert.Equal(t, "некорректный email", appErr.Fields["email"])
	assert.Equal(t, "не длиннее 10 символов", appErr.Fields["content"])
	assert.NotContains(t, appErr.Fields, "Nickname")
}

func TestValidateOnlyMissingFields(t *testing.T) {
	v := New(msgRequired, msgInvalid)
	err := v.Validate(commentRequest{Email: "neo@example.com"})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, msgRequired, appErr.Message)
	assert.Len(t, appErr.Fields, 2)
}

func TestValidateNonStruct(t *testing.T) {
	v := New(msgRequired, msgInvalid)
	err := v.Validate("plain string")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrValidation)
}
