package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the health check and the v1 API. Request bodies on the API are
// capped at maxUpload bytes.
func NewRouter(reports *ReportHandler, maxUpload int64, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.MaxMultipartMemory = maxUpload

	router.GET("/health", Health)

	api := router.Group("/api/v1", limitUpload(maxUpload))
	reports.Register(api)

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// limitUpload rejects bodies declared larger than maxBytes and cuts off bodies that
// turn out larger while being read.
func limitUpload(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
				Error:   dto.ErrCodeTooLarge,
				Message: fmt.Sprintf("request body exceeds %d bytes", maxBytes),
				Code:    http.StatusRequestEntityTooLarge,
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
