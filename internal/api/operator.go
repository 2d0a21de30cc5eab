package api

import (
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/utils"  // Utility functions
	"net/http"                  // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// LoginRequest is an operator login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the operator session token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// LoginHandler authenticates an operator and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var op domain.Operator // Find operator by username
		if err := db.WithContext(c.Request.Context()).Where("username = ?", req.Username).First(&op).Error; err != nil {
			// If operator not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare the provided password with the stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(op.Password), []byte(req.Password)); err != nil {
			// If password does not match, return unauthorized
			logrus.WithField("username", req.Username).Warn("Operator login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token, err := utils.GenerateJWT(op.ID, op.Role, jwtSecret) // Generate JWT token
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{"operator_id": op.ID, "role": op.Role}).Info("Operator logged in")
		c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token
	}
}
