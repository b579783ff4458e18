package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one structured line per request
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler set the final status before logging
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			attrs := []any{
				"request_id", res.Header().Get(echo.HeaderXRequestID),
				"method", req.Method,
				"path", c.Path(),
				"uri", req.RequestURI,
				"status", res.Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
			}
			if claims, ok := CurrentUser(c); ok {
				attrs = append(attrs, "user_id", claims.UserID)
			}

			switch {
			case res.Status >= 500:
				logger.ErrorContext(req.Context(), "request failed", append(attrs, "error", errString(err))...)
			case res.Status >= 400:
				logger.WarnContext(req.Context(), "request rejected", append(attrs, "error", errString(err))...)
			default:
				logger.InfoContext(req.Context(), "request handled", attrs...)
			}
			return nil
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
