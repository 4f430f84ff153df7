package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doorkeep/doorkeep/core"
)

func TestErrorsMatchByKindAndCode(t *testing.T) {
	fresh := core.NewServiceError(core.CodeUserExist, "different message")
	assert.ErrorIs(t, fresh, core.ErrUserExists)

	otherKind := core.NewAuthenticationError(core.CodeInvalid, "x")
	assert.NotErrorIs(t, otherKind, core.ErrInvalidCredentials)
}

func TestErrorSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", core.ErrTokenExpired)

	assert.ErrorIs(t, wrapped, core.ErrTokenExpired)
	assert.Equal(t, core.KindAuthentication, core.KindOf(wrapped))
	assert.Equal(t, core.CodeExpired, core.CodeOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, core.ErrorKind(""), core.KindOf(errors.New("plain")))
	assert.Equal(t, "", core.CodeOf(errors.New("plain")))
}

func TestErrorJSONShape(t *testing.T) {
	b, err := json.Marshal(core.ErrUnauthorized)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"AuthenticationError","code":"auth/unauthorized","message":"Not authorized."}`, string(b))
}
