// Package httpapi exposes the blog over HTTP/JSON using gin. It owns
// routing, the bearer-token gate, the response envelope and the mapping of
// service errors to status codes.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// UserService is the subset of services.UserService used by the handlers.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.UserSummary, error)
	Login(ctx context.Context, email, password string) (*services.UserSummary, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	CurrentUser(identity *models.User) (*models.User, error)
}

// PostService is the subset of services.PostService used by the handlers.
type PostService interface {
	Create(ctx context.Context, requester *models.User, title, content string) (*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, page, limit int) (*models.PostPage, error)
	Update(ctx context.Context, requester *models.User, id string, patch models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, requester *models.User, id string) error
}

// Options tune the HTTP layer.
type Options struct {
	// CORSAllowedOrigins is a comma separated list; "*" or empty allows any.
	CORSAllowedOrigins string
	// StrictForbidden answers ownership failures with 403 instead of 401.
	StrictForbidden bool
}

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type Server struct {
	address string
	logger  logging.Logger
	engine  *gin.Engine
	users   UserService
	posts   PostService
	strict  bool
}

func NewServer(address string, l logging.Logger, us UserService, ps PostService, opts Options) *Server {
	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		posts:   ps,
		strict:  opts.StrictForbidden,
	}
	s.engine = s.routes(opts)
	return s
}

// Handler returns the fully wired gin engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(opts Options) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.Use(
		Recovery(s.logger),
		RequestLogger(s.logger),
		SecurityHeaders(),
		cors.New(corsConfig(opts.CORSAllowedOrigins)),
	)

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "API running") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.GET("/me", RequireAuth(s.users, s.logger), s.me)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", s.listPosts)
	postsGroup.GET("/:id", s.getPost)
	postsGroup.POST("", RequireAuth(s.users, s.logger), s.createPost)
	postsGroup.PUT("/:id", RequireAuth(s.users, s.logger), s.updatePost)
	postsGroup.DELETE("/:id", RequireAuth(s.users, s.logger), s.deletePost)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Route not found")
	})

	return r
}

func corsConfig(origins string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AddAllowHeaders("Authorization")

	var list []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			list = append(list, o)
		}
	}
	if len(list) == 0 || (len(list) == 1 && list[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = list
	}
	return cfg
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled, then shuts
// down gracefully, letting in-flight requests finish.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
