package handlers

import (
	"net/http"

	"go-clinic-panel/internal/auth"
	"go-clinic-panel/internal/config"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against the backend, stores the tokens and loads every list
// the analytics views need.
func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := app.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		abortWithBackendError(c, "handlers", "Login", err)
		return
	}

	if err := app.RefreshAll(c.Request.Context()); err != nil {
		// Lists that failed can be refetched later; the login itself stands.
		config.LogError(config.GetLogger(), "handlers", "Login", "refresh lists", nil, err)
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func Logout(c *gin.Context) {
	if err := app.Logout(c.Request.Context()); err != nil {
		config.LogError(config.GetLogger(), "handlers", "Logout", "", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetSession reports the operator and what the access token says about itself.
func GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	token, err := app.Tokens.Access(ctx)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}

	resp := gin.H{"user": app.Store.Auth(), "loading": app.Loading()}
	if claims, err := auth.PeekClaims(token); err == nil {
		resp["userId"] = claims.UserID
		if claims.ExpiresAt != nil {
			resp["expiresAt"] = claims.ExpiresAt.Time
		}
	}
	c.JSON(http.StatusOK, resp)
}
