package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "octocat", sanitizeUsername("Octocat"))
	assert.Equal(t, "jane_doe", sanitizeUsername("jane.doe"))
	assert.Equal(t, "jane_doe", sanitizeUsername("  Jane-Doe  "))
	assert.Equal(t, "name42", sanitizeUsername("name42!@#"))
	assert.Equal(t, "", sanitizeUsername("___"))
	assert.Equal(t, "", sanitizeUsername(""))
}

func TestValidUsername(t *testing.T) {
	assert.True(t, validUsername("alice"))
	assert.True(t, validUsername("Alice-42"))
	assert.False(t, validUsername(""))
	assert.False(t, validUsername("with space"))
	assert.False(t, validUsername("emoji🙂"))
	assert.False(t, validUsername("under_score"))
}
