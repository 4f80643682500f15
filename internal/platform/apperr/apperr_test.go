// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
)

/*
TestNotFoundComposesMessage pins the constructor contract: callers pass the
bare resource name and the constructor supplies the rest of the sentence.
*/
func TestNotFoundComposesMessage(t *testing.T) {
	err := apperr.NotFound("Announcement")

	assert.Equal(t, "Announcement not found", err.Message)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
}

/*
TestInternalHidesCause verifies the cause stays server-side: the client-facing
message is generic while the chain remains traversable for logging.
*/
func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := apperr.Internal(cause)

	assert.Equal(t, "An unexpected error occurred", err.Message)
	assert.NotContains(t, err.Message, cause.Error())
	assert.ErrorIs(t, err, cause)
}

/*
TestIsMatchesCodeThroughWrapping checks code matching across fmt.Errorf chains.
*/
func TestIsMatchesCodeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading album: %w", apperr.NotFound("Album"))

	assert.True(t, apperr.Is(wrapped, "NOT_FOUND"))
	assert.False(t, apperr.Is(wrapped, "CONFLICT"))

	require.NotNil(t, apperr.As(wrapped))
	assert.Equal(t, "Album not found", apperr.As(wrapped).Message)
}
