// Package api serves the guest record store over HTTP.
package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
	"wedding-rsvp/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminTokenHeader carries the admin API token
const AdminTokenHeader = "X-Admin-Token"

// Config configures the HTTP API
type Config struct {
	ServiceName   string
	AdminToken    string
	CORSOrigins   []string
	NotifyTimeout time.Duration
}

// Server handles guest record requests
type Server struct {
	store    storage.Store
	notifier notify.Notifier
	cfg      Config
	log      zerolog.Logger

	// pending notifications
	wg sync.WaitGroup
}

// NewServer creates the API server
func NewServer(store storage.Store, notifier notify.Notifier, cfg Config, log zerolog.Logger) *Server {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "wedding-rsvp"
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 30 * time.Second
	}
	return &Server{
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With().Str("component", "api").Logger(),
	}
}

// Router builds the gin engine with all routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors.New(s.corsConfig()))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend is running!"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": s.cfg.ServiceName,
		})
	})

	r.POST("/rsvp", s.createGuest)

	admin := r.Group("/api/admin")
	admin.Use(s.adminRequired())
	{
		admin.GET("/guests", s.listGuests)
		admin.POST("/guests", s.createGuest)
		admin.GET("/guests/export", s.exportGuests)
		admin.PUT("/guests/:id", s.updateGuest)
		admin.DELETE("/guests/:id", s.deleteGuest)
	}
	return r
}

// Wait blocks until all pending notifications finished
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", AdminTokenHeader},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// adminRequired checks the admin token when one is configured
func (s *Server) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AdminToken == "" {
			c.Next()
			return
		}
		token := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AdminToken)) != 1 {
			s.log.Warn().Str("path", c.Request.URL.Path).Msg("Rejected admin request")
			fail(c, http.StatusUnauthorized, "Nicht autorisiert")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := s.log.Info()
		if status >= http.StatusInternalServerError {
			evt = s.log.Error()
		} else if status >= http.StatusBadRequest {
			evt = s.log.Warn()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("Request")
	}
}

// notifyAsync runs the notifiers detached from the request
func (s *Server) notifyAsync(ctx context.Context, g models.Guest) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
		defer cancel()
		if err := s.notifier.GuestCreated(ctx, g); err != nil {
			s.log.Error().Err(err).Str("id", g.ID).Msg("Failed to send notification")
		}
	}()
}
