package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenttrack-backend/internal/identity"
	"talenttrack-backend/internal/utilities"
)

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("")
	group.Use(RequireAuth())
	if len(roles) > 0 {
		group.Use(CheckRole(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		actor, err := utilities.ExtractActor(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": actor.Email})
	})
	return r
}

func do(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_passesActorThrough(t *testing.T) {
	identity.SetTestSecret("middleware-secret")
	actor := identity.Actor{ID: uuid.New(), Email: "hr@example.com", Role: identity.RoleHR}
	token, err := identity.SignToken(actor, time.Hour)
	require.NoError(t, err)

	rec := do(protectedRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hr@example.com")
}

func TestRequireAuth_missingHeader(t *testing.T) {
	identity.SetTestSecret("middleware-secret")

	rec := do(protectedRouter(), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAuth_garbageToken(t *testing.T) {
	identity.SetTestSecret("middleware-secret")

	rec := do(protectedRouter(), "Bearer garbage")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_expiredToken(t *testing.T) {
	identity.SetTestSecret("middleware-secret")
	token, err := identity.SignToken(identity.Actor{ID: uuid.New(), Role: identity.RoleHR}, -time.Minute)
	require.NoError(t, err)

	rec := do(protectedRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestSafeHeader_setsSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SafeHeader())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestCheckRole_enforced(t *testing.T) {
	identity.SetTestSecret("middleware-secret")
	token, err := identity.SignToken(identity.Actor{ID: uuid.New(), Role: identity.RoleApplicant}, time.Hour)
	require.NoError(t, err)

	rec := do(protectedRouter(identity.RoleHR), "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
