package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickdeliver/internal/config"
	"quickdeliver/internal/middleware"
	"quickdeliver/internal/modules/admin"
	"quickdeliver/internal/modules/auth"
	"quickdeliver/internal/modules/delivery"
	"quickdeliver/internal/modules/feedback"
	"quickdeliver/internal/modules/stats"
	"quickdeliver/internal/modules/users"
	"quickdeliver/pkg/notification"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The pool is created once here and handed to every repository by
	// reference; main owns its lifetime.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create connection pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	var notifier delivery.NotifierInterface
	if cfg.SenderEmail != "" {
		ses, err := notification.NewSESService(ctx, cfg.AWSRegion, cfg.SenderEmail)
		if err != nil {
			log.Fatalf("failed to set up SES notifications: %v", err)
		}
		notifier = ses
	} else {
		log.Println("SENDER_EMAIL not set; lifecycle emails disabled.")
		notifier = notification.NewNoopService()
	}

	// Repositories
	authRepo := auth.NewRepository(pool)
	userRepo := users.NewRepository(pool)
	deliveryRepo := delivery.NewRepository(pool)
	feedbackRepo := feedback.NewRepository(pool)
	statsRepo := stats.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// Services
	authSvc := auth.NewService(authRepo, cfg.JWTSecret)
	userSvc := users.NewService(userRepo)
	deliverySvc := delivery.NewService(deliveryRepo, notifier, userRepo)
	feedbackSvc := feedback.NewService(feedbackRepo, deliveryRepo)
	statsSvc := stats.NewService(statsRepo)
	adminSvc := admin.NewService(adminRepo)

	// Handlers
	authHandler := auth.NewHandler(authSvc)
	userHandler := users.NewHandler(userSvc)
	deliveryHandler := delivery.NewHandler(deliverySvc)
	feedbackHandler := feedback.NewHandler(feedbackSvc)
	statsHandler := stats.NewHandler(statsSvc)
	adminHandler := admin.NewHandler(adminSvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	if cfg.ClientOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: []string{cfg.ClientOrigin},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "QuickDeliver backend"})
	})

	authJWT := middleware.JWT(cfg.JWTSecret)

	authHandler.RegisterRoutes(e.Group("/api/auth"))
	userHandler.RegisterRoutes(e.Group("/api/users", authJWT))
	deliveryHandler.RegisterRoutes(e.Group("/api/deliveries"), e.Group("/api/deliveries", authJWT))
	feedbackHandler.RegisterRoutes(e.Group("/api/feedback"), e.Group("/api/feedback", authJWT))
	statsHandler.RegisterRoutes(e.Group("/api"), e.Group("/api", authJWT))
	adminHandler.RegisterRoutes(e.Group("/api/admin", authJWT))

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
