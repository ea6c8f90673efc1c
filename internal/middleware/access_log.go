package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"

// AccessLog 访问日志中间件，为每个请求分配 request id 并记录耗时
func AccessLog() iris.Handler {
	return func(ctx iris.Context) {
		reqID := uuid.NewString()
		ctx.Values().Set(requestIDKey, reqID)
		ctx.Header("X-Request-ID", reqID)

		start := time.Now()
		ctx.Next()

		zap.L().Info("http request",
			zap.String("request_id", reqID),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", ctx.GetStatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
