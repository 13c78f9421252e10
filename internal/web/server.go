// Package web serves the question form, the JSON API and the operational
// endpoints over gin.
package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	apperrors "storebot/internal/common/errors"
	"storebot/internal/common/logger"
	"storebot/internal/common/validation"
	normalizetext "storebot/internal/conversation/normalize-text"
	resolveintent "storebot/internal/conversation/resolve-intent"
	storelookup "storebot/internal/data-access/store-lookup"
)

// Resolver answers one question.
type Resolver interface {
	Execute(ctx context.Context, input *resolveintent.Input) (*resolveintent.Output, error)
}

// Normalizer produces diagnostic tokens for the JSON API.
type Normalizer interface {
	Execute(ctx context.Context, input *normalizetext.Input) (*normalizetext.Output, error)
}

// Lookup runs raw store queries.
type Lookup interface {
	Execute(ctx context.Context, input *storelookup.Input) (*storelookup.Output, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	ServiceName string
	Version     string
	Resolver    Resolver
	Normalizer  Normalizer // optional
	Lookup      Lookup     // optional; disables /api/v1/lookup when nil
	Store       Pinger     // optional; /ready always succeeds when nil
	Cache       Pinger     // optional
	Logger      logger.Logger
	AccessLog   bool
}

type Server struct {
	opts       Options
	askSchema  *validation.Schema
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewServer(opts Options) (*Server, error) {
	schema, err := validation.Compile(askRequestSchema)
	if err != nil {
		return nil, err
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "storebot"
	}
	return &Server{
		opts:       opts,
		askSchema:  schema,
		errHandler: apperrors.NewErrorHandler(opts.Logger),
		logger:     opts.Logger.WithFields(map[string]interface{}{"component": "web"}),
	}, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(s.opts.ServiceName))
	router.Use(requestIDMiddleware())
	if s.opts.AccessLog {
		router.Use(accessLogMiddleware(s.logger))
	}

	router.SetHTMLTemplate(template.Must(template.New(indexTemplate).Parse(indexHTML)))

	router.GET("/", s.handleIndex)
	router.POST("/", s.handleForm)

	v1 := router.Group("/api/v1")
	v1.POST("/ask", s.handleAsk)
	if s.opts.Lookup != nil {
		v1.GET("/lookup/:kind", s.handleLookup)
	}

	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.opts.ServiceName,
		"version": s.opts.Version,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	checks := gin.H{}
	var storeErr error

	if s.opts.Store != nil {
		if storeErr = s.opts.Store.Ping(c.Request.Context()); storeErr != nil {
			checks["postgres"] = storeErr.Error()
		} else {
			checks["postgres"] = "ok"
		}
	}
	if s.opts.Cache != nil {
		// The cache is optional, so a failure degrades but does not block.
		if err := s.opts.Cache.Ping(c.Request.Context()); err != nil {
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	if storeErr != nil {
		s.logger.Warn("readiness check failed", map[string]interface{}{"error": storeErr.Error()})
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"checks": checks,
			"error":  apperrors.NewDatabaseConnectionFailedError(storeErr),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

func (s *Server) fail(c *gin.Context, err error) {
	status, stdErr := s.errHandler.Handle(requestID(c), err)
	c.JSON(status, gin.H{
		"requestId": requestID(c),
		"error":     stdErr,
	})
}
