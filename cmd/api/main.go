package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/admin"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/blog"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/experience"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/revalidate"
	"portfolio-backend/internal/settings"
	"portfolio-backend/internal/uploads"
	"portfolio-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "portfolio-backend",
		}
	}

	val := validation.New()
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	notifier := revalidate.New(cacheStore, logger, cfg.RevalidateURL, cfg.RevalidateSecret)

	projectsRepo := projects.NewRepository(cols.Projects)
	projectsService := projects.NewService(projectsRepo, notifier, cfg.Timezone)
	projectsHandler := projects.NewHandler(projectsService, val, logger, cacheStore, cacheTTL)

	blogRepo := blog.NewRepository(cols.BlogPosts)
	blogService := blog.NewService(blogRepo, notifier, logger, cfg.Timezone)
	blogHandler := blog.NewHandler(blogService, val, logger, cacheStore, cacheTTL)

	experienceRepo := experience.NewRepository(cols.Experiences)
	experienceService := experience.NewService(experienceRepo, notifier, cfg.Timezone)
	experienceHandler := experience.NewHandler(experienceService, val, logger, cacheStore, cacheTTL)

	settingsRepo := settings.NewRepository(cols.Settings)
	settingsService := settings.NewService(settingsRepo, notifier, cfg.Timezone)
	settingsHandler := settings.NewHandler(settingsService, val, logger, cacheStore, cacheTTL)

	adminRepo := admin.NewUserRepository(cols.Users)
	adminHandler := admin.NewHandler(adminRepo, jwtManager, val, logger, cfg.AdminSetupKey, cfg.CookieSecure, cfg.Timezone)

	uploadsHandler := uploads.NewHandler(cfg.UploadSecret, val, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	viewsLimiter := middleware.NewRateLimiter(cfg.RateLimitViews, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitLogin, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/projects", projectsHandler.PublicList)
		api.Get("/projects/{slug}", projectsHandler.PublicGetBySlug)
		api.Get("/blog", blogHandler.PublicList)
		api.Get("/blog/{slug}", blogHandler.PublicGetBySlug)
		api.With(viewsLimiter.Middleware).Post("/blog/{slug}/views", blogHandler.IncrementViews)
		api.Get("/experiences", experienceHandler.PublicList)
		api.Get("/settings", settingsHandler.PublicGet)

		api.Post("/uploads/callback", uploadsHandler.Callback)

		api.Route("/admin", func(adminRoutes chi.Router) {
			adminRoutes.Post("/register", adminHandler.Register)
			adminRoutes.With(loginLimiter.Middleware).Post("/login", adminHandler.Login)
			adminRoutes.Post("/refresh", adminHandler.Refresh)
			adminRoutes.Post("/logout", adminHandler.Logout)

			// chi requires middleware before routes; session endpoints above
			// stay public, everything else goes through AdminAuth.
			adminRoutes.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))

				protected.Get("/projects", projectsHandler.AdminList)
				protected.Post("/projects", projectsHandler.AdminCreate)
				protected.Get("/projects/{id}", projectsHandler.AdminGetByID)
				protected.Put("/projects/{id}", projectsHandler.AdminUpdate)
				protected.Delete("/projects/{id}", projectsHandler.AdminDelete)

				protected.Get("/blog", blogHandler.AdminList)
				protected.Post("/blog", blogHandler.AdminCreate)
				protected.Get("/blog/{id}", blogHandler.AdminGetByID)
				protected.Put("/blog/{id}", blogHandler.AdminUpdate)
				protected.Delete("/blog/{id}", blogHandler.AdminDelete)

				protected.Get("/experiences", experienceHandler.AdminList)
				protected.Post("/experiences", experienceHandler.AdminCreate)
				protected.Get("/experiences/{id}", experienceHandler.AdminGetByID)
				protected.Put("/experiences/{id}", experienceHandler.AdminUpdate)
				protected.Delete("/experiences/{id}", experienceHandler.AdminDelete)

				protected.Get("/settings", settingsHandler.AdminGet)
				protected.Put("/settings", settingsHandler.AdminUpdate)

				protected.Get("/users", adminHandler.ListUsers)
				protected.Post("/users", adminHandler.CreateUser)
				protected.Patch("/users/{id}/password", adminHandler.UpdateUserPassword)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
