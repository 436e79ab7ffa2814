package handlers

import (
	"net/http"

	"github.com/diyorbekkd/thDent/middlewares"

	"github.com/gin-gonic/gin"
)

// doctorID returns the clinician resolved by ClinicianAuth. On failure the
// response is already written.
func doctorID(c *gin.Context) (string, bool) {
	id, err := middlewares.DoctorIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, "Missing clinician", http.StatusUnauthorized, err)
		return "", false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return false
	}
	return true
}
