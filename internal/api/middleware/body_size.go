package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"garden-assistant/internal/pkg/common"
)

// BodySizeLimit 宣告長度超過上限時直接回 413；未宣告長度的請求體在讀取時截斷，由處理器轉成 413
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxSize {
			common.LogWarn("請求體過大",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_size", maxSize),
				zap.String("route", c.FullPath()),
			)
			ce := common.ToCustomError(&http.MaxBytesError{Limit: maxSize})
			c.AbortWithStatusJSON(ce.Status, common.ErrorResponse{Code: ce.Code, Message: ce.Message})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
