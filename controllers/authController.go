package controllers

import (
	"github.com/diyorbekkd/thDent/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes mounts token issuance. It sits behind the bearer token only;
// every clinic route additionally needs the token issued here.
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth/token", ac.Handler.IssueToken)
}
