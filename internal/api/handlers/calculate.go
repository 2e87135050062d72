package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rlflinkage/backend/internal/linkage"
)

// Calculate runs a one-shot force analysis over the posted snapshot. The
// error envelope travels in the body with a 200 status; the frontend keys on
// the "error" field, not the HTTP code.
func Calculate(analyzer *linkage.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req linkage.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, linkage.ErrorResponse{
				Error:   true,
				Message: "invalid request: " + err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, analyzer.Process(&req))
	}
}
