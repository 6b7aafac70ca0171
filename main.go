// Command mytodolist serves a small multi-user to-do list API: registration,
// cookie-session login/logout, owner-scoped to-do CRUD, and a generated
// OpenAPI document with a browsable UI.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/mytodolist-go/apperror"
	"github.com/user/mytodolist-go/auth"
	"github.com/user/mytodolist-go/config"
	"github.com/user/mytodolist-go/db"
	"github.com/user/mytodolist-go/logger"
	"github.com/user/mytodolist-go/openapi"
	"github.com/user/mytodolist-go/todos"
)

func main() {
	log := logger.NewLogger("server")

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	pool, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	userStore := auth.NewUserStore(pool)
	sessionStore := auth.NewSessionStore(pool)
	authService := auth.NewAuthService(userStore, sessionStore, cfg.Auth)
	authHandlers := auth.NewHandlers(authService, cfg.Auth.CookieName)

	todoStore := todos.NewTodoStore(pool)
	todoService := todos.NewTodoService(todoStore, cfg.Media.URL)
	todoHandlers := todos.NewHandlers(todoService, cfg.Media)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(recoverer)

	// Documentation: the JSON document plus the browsable UI over it.
	doc := buildDocument()
	docJSON, err := json.Marshal(doc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to marshal OpenAPI document")
	}
	r.Get("/openapi/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(docJSON)
	})
	r.Get("/openapi/ui/*", httpSwagger.Handler(
		httpSwagger.URL("/openapi/"),
	))

	// Media files uploaded as to-do attachments.
	r.Handle(cfg.Media.URL+"*", http.StripPrefix(cfg.Media.URL,
		http.FileServer(http.Dir(cfg.Media.Root))))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Sessions(sessionStore, cfg.Auth.CookieName))

		r.Post("/create_user/", authHandlers.HandleCreateUser())
		r.Post("/auth/login/", authHandlers.HandleLogin())
		r.Post("/auth/logout/", authHandlers.HandleLogout())
		r.Get("/get_auth_user/", authHandlers.HandleCurrentUser())

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Put("/get_auth_user/", authHandlers.HandleUpdateProfile())
			r.Route("/todo", func(r chi.Router) {
				todoHandlers.RegisterRoutes(r)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// buildDocument assembles the OpenAPI description from the per-route
// configs declared next to their handlers.
func buildDocument() *openapi.Document {
	b := openapi.NewBuilder(openapi.Info{
		Title:       "My TODO List",
		Description: "API for all things …",
		Version:     "1.0.0",
	})
	b.Add("POST", "/api/v1/create_user/", auth.CreateUserDoc())
	b.Add("POST", "/api/v1/auth/login/", auth.LoginDoc())
	b.Add("POST", "/api/v1/auth/logout/", auth.LogoutDoc())
	b.Add("GET", "/api/v1/get_auth_user/", auth.CurrentUserDoc())
	b.Add("PUT", "/api/v1/get_auth_user/", auth.UpdateProfileDoc())
	b.AddResource("/api/v1/todo/", "/api/v1/todo/{id}/", todos.ResourceDoc())
	return b.Document()
}

// recoverer converts handler panics into the standard 500 body.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				logger.FromContext(r.Context()).Error().Interface("panic", rvr).Msg("handler panicked")
				appErr := apperror.NewInternalError("internal server error", nil)
				auth.WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
			}
		}()
		next.ServeHTTP(w, r)
	})
}
