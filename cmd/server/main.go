package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"crackexam-backend/config"
	"crackexam-backend/handlers"
	"crackexam-backend/mailer"
	"crackexam-backend/middleware"
	"crackexam-backend/repository"
	"crackexam-backend/service"
	"crackexam-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	repo, err := repository.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}
	logger.Info("repository initialized", slog.String("backend", cfg.Repository.Backend))

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if ms, ok := store.(*storage.MinioStorage); ok {
		if err := ms.EnsureBucket(ctx); err != nil {
			log.Fatalf("Failed to prepare MinIO bucket: %v", err)
		}
	}
	logger.Info("storage initialized", slog.String("backend", cfg.Storage.Backend))

	sender, err := mailer.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize mail transport: %v", err)
	}
	if sender == nil {
		logger.Info("no mail transport configured, falling back to mailto links")
	}

	svc := service.NewPaperService(
		service.WithRepository(repo),
		service.WithStorage(store),
		service.WithLogger(logger),
		service.WithOutboundTimeout(cfg.OutboundTimeout),
	)

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg)))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Papers: handlers.NewPaperHandler(svc),
		PDF:    handlers.NewPDFHandler(svc),
		Auth:   handlers.NewAuthHandler(cfg),
		Email:  handlers.NewEmailHandler(sender, cfg.Mail.Recipient, cfg.OutboundTimeout),
	}, middleware.RequireAdmin(cfg.Auth.JWTSecret))

	mountStatic(r, cfg.Server.StaticDir)

	logger.Info("server starting", slog.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.Server.CORSOrigin == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = strings.Split(cfg.Server.CORSOrigin, ",")
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	return c
}

// mountStatic serves the built frontend and falls back to index.html for
// non-API paths so client-side routing works.
func mountStatic(r *gin.Engine, dir string) {
	if _, err := os.Stat(dir); err != nil {
		return
	}
	r.Use(static.Serve("/", static.LocalFile(dir, true)))
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(404, gin.H{"error": "Not found"})
			return
		}
		c.File(dir + "/index.html")
	})
}
