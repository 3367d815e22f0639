package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes the {success, data} envelope.
func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes the {success:false, message} envelope.
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

// JSONMessage writes a bare {message} body, the legacy error shape.
func JSONMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}
