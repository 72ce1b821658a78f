// Package server exposes the quiz, task and dashboard operations over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/learnpath/internal/dashboard"
	"github.com/abhisek/learnpath/internal/metrics"
	"github.com/abhisek/learnpath/internal/quiz"
	"github.com/abhisek/learnpath/internal/store"
	"github.com/abhisek/learnpath/internal/tasks"
)

// Services are the operations the API serves.
type Services struct {
	Users     store.UserRepo
	Quiz      *quiz.Service
	Assigner  *tasks.Assigner
	Tasks     *tasks.Service
	Dashboard *dashboard.Service
}

// Config controls the listener.
type Config struct {
	Addr            string
	AllowOrigins    []string
	ShutdownTimeout time.Duration
	// MaxUploadBytes caps multipart uploads.
	MaxUploadBytes int64
}

func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		AllowOrigins:    []string{"http://localhost:3000"},
		ShutdownTimeout: 10 * time.Second,
		MaxUploadBytes:  32 << 20,
	}
}

// ConfigFromEnv reads LEARNPATH_HTTP_ADDR and LEARNPATH_CORS_ORIGINS
// (comma separated) over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("LEARNPATH_HTTP_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LEARNPATH_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Server is the HTTP API.
type Server struct {
	svc    Services
	cfg    Config
	engine *gin.Engine
}

// New builds the server and its routes.
func New(svc Services, cfg Config) *Server {
	s := &Server{svc: svc, cfg: cfg}
	s.engine = s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	slog.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), observe())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/quiz", s.getQuiz)
	r.POST("/quiz/submit", s.submitQuiz)

	users := r.Group("/users")
	{
		users.POST("", s.createUser)
		users.GET("/:id/roadmap", s.getRoadmap)
	}

	t := r.Group("/tasks")
	{
		t.GET("", s.listTasks)
		t.POST("/assign", s.assignTask)
		t.GET("/:id", s.getTask)
		t.POST("/:id/attach", s.attachFile)
		t.POST("/:id/upload", s.uploadFile)
		t.POST("/:id/submit", s.submitTask)
		t.POST("/:id/complete", s.completeTask)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/users", s.listUsers)
		admin.GET("/users/:id/summary", s.userSummary)
	}
	return r
}

// observe records request latency per matched route.
func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
