package validators

import (
	"testing"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_RegisterRequest(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(&models.RegisterRequest{
		Username: "alice", Password: "password123", PasswordConfirm: "password123",
	}))

	err := v.Validate(&models.RegisterRequest{Username: "a!", Password: "short", PasswordConfirm: "other"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
	assert.Contains(t, err.Error(), "password must be at least 8")
	assert.Contains(t, err.Error(), "passwordconfirm must match password")
}

func TestValidator_StoryRequest(t *testing.T) {
	v := NewValidator()
	assert.Error(t, v.Validate(&models.CreateStoryRequest{}))
	assert.NoError(t, v.Validate(&models.CreateStoryRequest{ImageURLs: []string{"/media/a"}}))
	assert.Error(t, v.Validate(&models.CreateStoryRequest{ImageURLs: []string{""}}))
}
