package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Conversation endpoint.
	HandleMessage gin.HandlerFunc

	// Admin endpoints.
	AdminHandler *AdminHandler
}
