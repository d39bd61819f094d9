package api

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// loginRequest represents staff login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// staffLogin checks the configured demo credentials and issues a session
// token for the dashboard. This is deliberately a hardcoded credential
// check; real authentication is out of scope.
func (s *Server) staffLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if req.Username != s.config.Staff.Username || req.Password != s.config.Staff.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": req.Username,
		"exp":      time.Now().Add(12 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(s.config.Staff.TokenSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": signed, "username": req.Username})
}
