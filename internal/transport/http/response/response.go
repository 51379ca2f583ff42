package response

import "github.com/gin-gonic/gin"

// Error writes the flat {"error": message} body every failure path uses.
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}
