package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartess-http-service/internal/infrastructure/config"
)

func newTestJWTService() InterfaceJWTService {
	return NewJWTService(&config.Config{JWTSecretKey: "unit-test-secret"}, nil)
}

func TestGenerateAndResolveTokenEmail(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(7, "dwight@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := svc.ResolveTokenEmail(token)
	require.NoError(t, err)
	assert.Equal(t, "dwight@example.com", email)
}

func TestResolveTokenEmailRejectsGarbage(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ResolveTokenEmail("not-a-token")
	assert.Error(t, err)
}

func TestResolveTokenEmailRejectsWrongSecret(t *testing.T) {
	other := NewJWTService(&config.Config{JWTSecretKey: "another-secret"}, nil)
	token, err := other.GenerateToken(7, "dwight@example.com")
	require.NoError(t, err)

	svc := newTestJWTService()
	_, err = svc.ResolveTokenEmail(token)
	assert.Error(t, err)
}

func TestValidateTokenChecksSigningMethod(t *testing.T) {
	svc := newTestJWTService()

	// alg=none形式的令牌必须被拒绝
	_, err := svc.ValidateToken("eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJlbWFpbCI6ImV2aWxAZXhhbXBsZS5jb20ifQ.")
	assert.Error(t, err)
}
