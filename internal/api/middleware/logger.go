package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"garden-assistant/internal/infrastructure/telemetry"
	"garden-assistant/internal/pkg/common"
)

// accessLevel 依狀態碼決定存取日誌的寫入方式
func accessLevel(status int) (func(string, ...zap.Field), string) {
	switch {
	case status >= http.StatusInternalServerError:
		return common.LogError, "伺服器錯誤"
	case status >= http.StatusBadRequest:
		return common.LogWarn, "用戶端錯誤"
	default:
		return common.LogInfo, "請求完成"
	}
}

// Logger 存取日誌；route 為註冊時的路由樣板，未匹配時為空
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestid.Get(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		log, msg := accessLevel(status)
		log(msg, fields...)
	}
}

// Recovery 攔截 panic，回報後回傳 500
func Recovery(reporter telemetry.Reporter) gin.HandlerFunc {
	if reporter == nil {
		reporter = telemetry.NopReporter{}
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", rec)
			}
			common.LogError("Panic recovered",
				zap.Error(err),
				zap.String("request_id", requestid.Get(c)),
				zap.String("route", c.FullPath()),
			)
			reporter.CaptureError(err, "http")
			c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrorResponse{
				Code:    common.ErrCodeInternalError,
				Message: "Internal server error",
			})
		}()
		c.Next()
	}
}
