// Package api exposes the materials gateway over HTTP.
package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crystallum/matgateway/internal/metrics"
	"github.com/crystallum/matgateway/internal/mpclient"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// ServiceName is reported by the root endpoint.
const ServiceName = "materials-gateway"

// Server holds the HTTP handlers for the gateway.
type Server struct {
	logger *zap.Logger
	mp     mpclient.Client
}

// NewServer creates an HTTP server delegating to the given materials client.
func NewServer(logger *zap.Logger, mp mpclient.Client) *Server {
	return &Server{logger: logger, mp: mp}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))
	router.Use(cors.Default())
	router.Use(metricsMiddleware())

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	mats := router.Group("/materials")
	{
		mats.GET("/search/formula/:formula", s.handleSearchByFormula)
		mats.GET("/:id", s.handleGetMaterial)
		mats.GET("/:id/bandstructure", s.handleGetBandstructure)
		mats.GET("/:id/magnetism", s.handleGetMagnetism)
		mats.GET("/:id/elasticity", s.handleGetElasticity)
		mats.GET("/:id/eos", s.handleGetEOS)
		mats.GET("/:id/xas", s.handleGetXAS)
		mats.GET("/:id/surface-properties", s.handleGetSurfaceProperties)
		mats.GET("/:id/similarity", s.handleGetSimilarity)
		mats.GET("/:id/grain-boundaries", s.handleGetGrainBoundaries)
		mats.GET("/:id/substrates", s.handleGetSubstrates)
		mats.GET("/:id/alloys", s.handleGetAlloys)
	}

	return router
}

// metricsMiddleware records request counts and durations for Prometheus.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := fmt.Sprintf("%d", c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(path, method, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
	}
}
