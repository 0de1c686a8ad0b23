package identity

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// JwtIssuer is the issuer claim expected on accepted tokens.
const JwtIssuer = "TalentTrack"

var secretKey = os.Getenv("SECRET_KEY")

// Claims are the token claims carried for an actor.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ValidateToken parses and verifies an encoded token and returns the
// actor it identifies.
func ValidateToken(encoded string) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(encoded, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return Actor{}, err
	}
	if !token.Valid {
		return Actor{}, fmt.Errorf("invalid access token")
	}
	if claims.Issuer != JwtIssuer {
		return Actor{}, jwt.ErrTokenInvalidIssuer
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid subject claim: %w", err)
	}

	return Actor{ID: id, Email: claims.Email, Role: claims.Role}, nil
}

// SignToken mints a token for the given actor. Used by tests and local
// tooling; production tokens come from the identity provider.
func SignToken(actor Actor, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JwtIssuer,
			Subject:   actor.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: actor.Email,
		Role:  actor.Role,
	})

	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// SetTestSecret overrides the signing secret. Only for tests.
func SetTestSecret(s string) { secretKey = s }
