package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrevilar/romaneio-api/internal/config"
	"github.com/andrevilar/romaneio-api/internal/database"
	"github.com/andrevilar/romaneio-api/internal/handlers"
	authmw "github.com/andrevilar/romaneio-api/internal/middleware"
	"github.com/andrevilar/romaneio-api/internal/rbac"
	"github.com/andrevilar/romaneio-api/internal/services"
	"github.com/andrevilar/romaneio-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	userService := services.NewUserService(db)
	schemaService := services.NewSchemaService(db)
	mailService := services.NewMailService(db)
	resolver := services.NewOwnerResolver(userService)
	orderService := services.NewOrderService(db, resolver, mailService)
	notifyService := services.NewNotifyService(cfg.Notify)

	hub := sse.NewHub()
	go hub.Run()

	authHandler := handlers.NewAuthHandler(userService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	schemaHandler := handlers.NewSchemaHandler(schemaService, hub)
	orderHandler := handlers.NewOrderHandler(orderService, schemaService, userService, notifyService, hub)
	sseHandler := handlers.NewSSEHandler(hub)
	wsHandler := handlers.NewWebSocketHandler(hub, jwtService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/password-reset", authHandler.RequestPasswordReset)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateProfile)

	accounts := protected.Group("/accounts")
	accounts.Use(authmw.RequireCapability(rbac.CapManageAccounts))
	accounts.Get("", userHandler.ListAccounts)
	accounts.Delete("/:accountId", userHandler.DeleteAccount)

	protected.Get("/schema", schemaHandler.Get)

	schema := protected.Group("/schema")
	schema.Use(authmw.RequireCapability(rbac.CapEditCells))
	schema.Put("", schemaHandler.SetHeaders)

	protected.Get("/orders", orderHandler.List)
	protected.Get("/orders/:orderId", orderHandler.Get)

	orders := protected.Group("/orders")
	orders.Use(authmw.RequireCapability(rbac.CapCreateRow))
	orders.Post("", orderHandler.Create)

	edit := protected.Group("/orders")
	edit.Use(authmw.RequireCapability(rbac.CapEditCells))
	edit.Put("/:orderId", orderHandler.Update)
	edit.Patch("/:orderId/cells", orderHandler.WriteCell)
	edit.Post("/:orderId/attachments", orderHandler.AppendAttachments)

	status := protected.Group("/orders")
	status.Use(authmw.RequireCapability(rbac.CapEditStatus))
	status.Patch("/:orderId/status", orderHandler.SetStatus)

	remove := protected.Group("/orders")
	remove.Use(authmw.RequireCapability(rbac.CapDeleteRow))
	remove.Delete("/:orderId", orderHandler.Delete)

	forward := protected.Group("/orders")
	forward.Use(authmw.RequireCapability(rbac.CapForwardRow))
	forward.Get("/:orderId/forward", orderHandler.Forward)

	protected.Get("/events", sseHandler.Connect)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	api.Get("/ws", wsHandler.Connect)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
