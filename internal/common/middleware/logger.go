package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

const (
	textFormat = "[${time}] ${status} - ${latency} ${method} ${path} | Content-Type: ${reqHeader:Content-Type} ${error}\n"
	jsonFormat = `{"time":"${time}","status":${status},"latency":"${latency}","method":"${method}","path":"${path}","ip":"${ip}","error":"${error}"}` + "\n"
)

// Logger пишет журнал запросов в формате LOG_FORMAT: text или json.
func Logger(format string) fiber.Handler {
	cfg := logger.Config{
		Format:     textFormat,
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}
	if format == "json" {
		cfg.Format = jsonFormat
		cfg.TimeFormat = "2006-01-02T15:04:05Z07:00"
	}
	return logger.New(cfg)
}
