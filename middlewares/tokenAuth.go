package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/diyorbekkd/thDent/utils"

	"github.com/gin-gonic/gin"
)

type contextKey string

const doctorIDKey contextKey = "doctorID"

// AccessTokenHeader carries the clinician token; the accessToken query
// parameter is accepted as well.
const AccessTokenHeader = "X-Access-Token"

// ClinicianAuth resolves the acting doctor from a PASETO access token and
// stores it in the request context. Handlers never fall back to a default
// doctor.
func ClinicianAuth(symmetricKey []byte, clock utils.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(AccessTokenHeader)
		if token == "" {
			token = c.Query("accessToken")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			return
		}

		claims, err := utils.ValidateToken(symmetricKey, token, clock.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Request = c.Request.WithContext(WithDoctorID(c.Request.Context(), claims.DoctorID))
		c.Next()
	}
}

func WithDoctorID(ctx context.Context, doctorID string) context.Context {
	return context.WithValue(ctx, doctorIDKey, doctorID)
}

// DoctorIDFromContext retrieves the doctor id stored by ClinicianAuth.
func DoctorIDFromContext(ctx context.Context) (string, error) {
	doctorID, ok := ctx.Value(doctorIDKey).(string)
	if !ok || doctorID == "" {
		return "", errors.New("doctor ID not found in context")
	}
	return doctorID, nil
}
