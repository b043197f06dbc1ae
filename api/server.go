package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hidromont/site-backend/cache"
	"github.com/hidromont/site-backend/config"
	"github.com/hidromont/site-backend/services"
	"github.com/hidromont/site-backend/session"
	"github.com/hidromont/site-backend/uploads"
	"github.com/rs/zerolog/log"
)

var defaultAcceptedOrigins = []string{"https://hidromontjovancic.rs", "https://www.hidromontjovancic.rs"}

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	Config       map[string]string
	Content      *services.ContentService
	Orders       *services.OrderService
	Auth         *services.AuthService
	Sessions     session.Store
	Cache        cache.Cache
	ProjectFiles *uploads.Store
	ProductFiles *uploads.Store
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies) (Server, error) {
	c := deps.Config

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	handler, err := newRouter(deps)
	if err != nil {
		return Server{}, err
	}

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

// newRouter wires the middleware stack and mounts the API under API_PREFIX.
func newRouter(deps Dependencies) (*chi.Mux, error) {
	if deps.Content == nil || deps.Orders == nil || deps.Auth == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("api: content, orders, auth and sessions are required")
	}
	if deps.ProjectFiles == nil || deps.ProductFiles == nil {
		return nil, fmt.Errorf("api: upload stores are required")
	}
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}

	c := deps.Config
	ttl := time.Duration(config.GetInt(c, "CACHE_TTL", 120)) * time.Second
	loader := cache.NewLoader(deps.Cache, log.With().Str("component", "cache").Logger())
	responses := publicCache{loader: loader, ttl: ttl}

	handlers := initializeHandlers(deps, responses)
	admin := newAdminMiddleware(loader)
	responder := NewResponder(log.With().Str("handlerName", "router").Logger())

	acceptedOrigins := config.GetList(c, "ACCEPTED_ORIGINS", defaultAcceptedOrigins)

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "If-None-Match", "If-Modified-Since"},
		ExposedHeaders:   []string{"X-Cache", "ETag"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	chiRouter.Use(session.Middleware(deps.Sessions))
	chiRouter.NotFound(notFound(responder))
	chiRouter.MethodNotAllowed(notFound(responder))

	mount := func(r chi.Router) {
		r.NotFound(notFound(responder))
		r.MethodNotAllowed(notFound(responder))
		setupPublicRoutes(r, handlers, deps)
		r.Route("/admin", func(r chi.Router) {
			setupAdminRoutes(r, handlers, admin)
		})
	}

	prefix := "/" + strings.Trim(config.GetString(c, "API_PREFIX", ""), "/")
	if prefix == "/" {
		mount(chiRouter)
	} else {
		chiRouter.Route(prefix, mount)
	}
	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) Uptime() time.Duration {
	return time.Since(s.startupTime)
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", s.Uptime()).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
