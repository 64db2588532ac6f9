// File: internal/auth/jwt_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT(42, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ownerID, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), ownerID)
}

func TestGenerateRejectsZeroOwner(t *testing.T) {
	_, err := GenerateJWT(0, testSecret)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("other-secret"))
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret)
	assert.Error(t, err)
}
