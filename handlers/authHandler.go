package handlers

import (
	"net/http"

	"github.com/diyorbekkd/thDent/middlewares"
	"github.com/diyorbekkd/thDent/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues clinician access tokens. The caller is the trusted
// front end, already authenticated by the bearer token.
type AuthHandler struct {
	symmetricKey []byte
	clock        utils.Clock
}

func NewAuthHandler(symmetricKey []byte, clock utils.Clock) *AuthHandler {
	return &AuthHandler{symmetricKey: symmetricKey, clock: clock}
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var body struct {
		DoctorID string `json:"doctor_id" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	now := h.clock.Now()
	token, err := utils.GenerateAccessToken(h.symmetricKey, body.DoctorID, now)
	if err != nil {
		middlewares.HttpError(c, "Failed to issue token", http.StatusInternalServerError, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{
		"access_token": token,
		"expires_at":   now.Add(utils.AccessTokenExpiry),
	}, http.StatusOK)
}
