// Package responses implements the gateway's response envelope: successful
// replies wrap their payload in {"success":true,"data":...}, errors carry an
// HTTP status and a {"detail":"..."} body.
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every successful response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// Success sends a 200 with the payload wrapped in the envelope.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Error sends an error status with a detail string.
func Error(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

// BadRequest sends a 400 with a detail string.
func BadRequest(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, detail)
}

// NotFound sends a 404 with a detail string.
func NotFound(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, detail)
}

// InternalServerError sends a 500 with a detail string.
func InternalServerError(c *gin.Context, detail string) {
	Error(c, http.StatusInternalServerError, detail)
}
