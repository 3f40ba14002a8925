package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/123hi123/musci2practice/internal/logger"
)

// LoggerMiddleware 日誌中間件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		var errorMsg string
		if len(c.Errors) > 0 {
			var errMsgs []string
			for _, e := range c.Errors {
				errMsgs = append(errMsgs, e.Error())
			}
			errorMsg = strings.Join(errMsgs, "; ")
		}

		logger.RequestLog(c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP(), errorMsg)
	}
}

// CORSMiddleware CORS 中間件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
