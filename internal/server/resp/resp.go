// Package resp writes the JSON bodies of the character API.
package resp

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the body of every failed API call.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody confirms an operation that returns no record.
type MessageBody struct {
	Message string `json:"message"`
}

func JSON(c *gin.Context, httpCode int, data any) {
	c.JSON(httpCode, data)
}

func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorBody{Error: message})
}

// AbortWithError stops the handler chain (for middleware).
func AbortWithError(c *gin.Context, httpCode int, message string) {
	c.AbortWithStatusJSON(httpCode, ErrorBody{Error: message})
}

func Message(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, MessageBody{Message: message})
}

// Client-facing messages.
const (
	MsgNotFound       = "Character not found"
	MsgDeleted        = "Character deleted"
	MsgInvalidPayload = "invalid payload"
	MsgInternal       = "internal server error"
)
