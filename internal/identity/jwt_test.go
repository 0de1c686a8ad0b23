package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndValidateToken(t *testing.T) {
	SetTestSecret("test-secret")

	actor := Actor{ID: uuid.New(), Email: "hr@example.com", Role: RoleHR}
	token, err := SignToken(actor, time.Hour)
	require.NoError(t, err)

	got, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
	assert.True(t, got.CanManageJobs())
}

func TestValidateToken_expired(t *testing.T) {
	SetTestSecret("test-secret")

	token, err := SignToken(Actor{ID: uuid.New(), Role: RoleApplicant}, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_wrongIssuer(t *testing.T) {
	SetTestSecret("test-secret")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "SomeoneElse",
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleHR,
	})
	encoded, err := forged.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateToken(encoded)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestValidateToken_garbage(t *testing.T) {
	SetTestSecret("test-secret")

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestCanManageJobs(t *testing.T) {
	assert.True(t, Actor{Role: RoleHR}.CanManageJobs())
	assert.False(t, Actor{Role: RoleApplicant}.CanManageJobs())
	assert.False(t, Actor{}.CanManageJobs())
}
