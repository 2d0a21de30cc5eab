package middleware

import (
	"dapptrack/internal/domain" // Importing domain models
	"net/http"                  // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// OperatorOnlyMiddleware checks the operator's role from the database on each request
func OperatorOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, exists := c.Get("operatorID") // Get operatorID from context
		// Check if operatorID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var op domain.Operator // Fetch operator from database
		if err := db.WithContext(c.Request.Context()).First(&op, operatorID).Error; err != nil {
			// If operator not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Operator access required"})
			return
		}
		// Check if the role may moderate the directory
		if !op.CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Operator access required"})
			return
		}
		c.Set("operatorUsername", op.Username) // Used in audit logs
		c.Next()
	}
}
