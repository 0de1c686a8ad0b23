// Package utilities contain utility code shared across the package
package utilities

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin"

	"talenttrack-backend/internal/identity"
)

// ErrorResponse is the JSON error body returned by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON body for plain confirmation messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractActor extracts the authenticated actor from the Gin context.
// Returns an error when the auth middleware did not run or stored an
// unexpected value.
func ExtractActor(c *gin.Context) (identity.Actor, error) {
	v, _ := c.Get("actor")
	if v == nil {
		return identity.Actor{}, errors.New("actor information not provided")
	}

	actor, ok := v.(identity.Actor)
	if !ok {
		return identity.Actor{}, errors.New("failed to assert actor type")
	}
	return actor, nil
}

// ExtractBearerToken pulls the bearer token out of the Authorization
// header.
func ExtractBearerToken(c *gin.Context) (string, error) {
	const bearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if len(authHeader) <= len(bearerSchema) {
		return "", fmt.Errorf("invalid authorization header")
	}

	return authHeader[len(bearerSchema):], nil
}

// MergeNonEmpty copies every non-zero field of src into dst. Both must
// be pointers to the same struct type. This is the partial-merge
// primitive behind store updates.
func MergeNonEmpty(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Field(i)
		if !sf.IsZero() {
			df := dv.FieldByName(sv.Type().Field(i).Name)
			if df.IsValid() && df.CanSet() {
				df.Set(sf)
			}
		}
	}
}
