package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmfreshmart/pos_backend/utils"
)

// CorrelationMiddleware tags every request with a correlation id, minted
// here unless the caller supplied one. Settlement activity rows carry it so
// a request can be traced through the outbox and the activity sink.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), correlationId))
		c.Writer.Header().Set("X-Correlation-Id", correlationId)
		c.Next()
	}
}
