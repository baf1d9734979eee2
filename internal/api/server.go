// Package api serves the task board over HTTP with gin. Clients register or
// log in to obtain a bearer token and then manage their own tasks.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskflow/internal/activity"
	"github.com/twiced-technology-gmbh/taskflow/internal/auth"
	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/store"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

const shutdownTimeout = 5 * time.Second

// Deps are the collaborators a Server needs.
type Deps struct {
	Auth        *auth.Service
	Tasks       store.Tasks
	Defaults    board.Defaults
	View        view.Options
	Log         *activity.Log
	Loc         *time.Location
	CORSOrigins []string
	// Now overrides the clock (for testing).
	Now func() time.Time
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	engine *gin.Engine
}

// New builds the router. Call gin.SetMode before New to pick the mode.
func New(deps Deps) *Server {
	if deps.Loc == nil {
		deps.Loc = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{deps: deps, engine: gin.New()}
	s.engine.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		s.engine.Use(gin.Logger())
	}
	s.engine.Use(corsMiddleware(deps.CORSOrigins))
	s.routes()
	return s
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AddAllowHeaders("Authorization")
	return cors.New(cfg)
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "taskflow API is running"})
	})

	authGroup := r.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	protected := r.Group("/", s.bearer())
	protected.GET("/me", s.me)
	protected.GET("/tasks", s.listTasks)
	protected.POST("/tasks", s.createTask)
	protected.GET("/tasks/stream", s.streamTasks)
	protected.GET("/tasks/:id", s.getTask)
	protected.PATCH("/tasks/:id", s.editTask)
	protected.DELETE("/tasks/:id", s.deleteTask)
	protected.POST("/tasks/:id/:action", s.actTask)
	protected.GET("/summary", s.summary)
	protected.GET("/calendar", s.calendar)
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second, //nolint:mnd // header read timeout
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving API: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down API: %w", err)
		}
		return nil
	}
}

// boardFor returns the board of the authenticated caller.
func (s *Server) boardFor(c *gin.Context) *board.Board {
	b := board.New(s.deps.Tasks, c.GetString(ctxUserID), s.deps.Defaults, s.deps.Log)
	b.SetNow(s.deps.Now)
	return b
}
