// Package http holds HTTP plumbing shared by all route groups: the response
// envelope, the health endpoint and error mapping.
package http

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape of every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a success envelope with the given status code.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with the given status code.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Envelope{Success: false, Error: msg})
}
