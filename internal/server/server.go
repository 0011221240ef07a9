package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cdeia/observaciones/internal/models"
	"github.com/cdeia/observaciones/internal/render"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

// ObservationService is what the HTTP surface needs from the core.
type ObservationService interface {
	Submit(ctx context.Context, title, entity, text string) (*models.ObservationResponse, error)
	ProbeHealth(ctx context.Context) (bool, string)
}

type Server struct {
	svc     ObservationService
	healthy *atomic.Bool
	engine  *gin.Engine
}

// New builds the gin engine. healthy holds the last outcome of the background
// health monitor and may be nil.
func New(svc ObservationService, healthy *atomic.Bool) *Server {
	s := &Server{svc: svc, healthy: healthy}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.SetHTMLTemplate(template.Must(template.New("").Funcs(template.FuncMap{
		"markdown": render.HTML,
		"stats":    func(p string) string { return render.StatsLine(render.ProposalStats(p)) },
		"inc":      func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.tmpl")))

	engine.GET("/", s.showForm)
	engine.POST("/", s.submitForm)

	api := engine.Group("/api")
	api.POST("/observaciones", s.createObservations)
	api.GET("/health", s.health)

	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Server] Listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("[Server] Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("[Server] Request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}
