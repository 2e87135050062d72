package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/rlflinkage/backend/internal/ws"
)

// HandleAnalysisWebSocket handles real-time analysis communication
func HandleAnalysisWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}
