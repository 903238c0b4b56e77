package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"stockscout/internal/app"
	"stockscout/internal/config"
	"stockscout/internal/handler"
	"stockscout/internal/jobs"
	"stockscout/internal/model"
	"stockscout/internal/portfolio"
)

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("error starting app: %v", err)
	}
	defer a.Close()

	var queue handler.JobQueue
	checks := map[string]handler.Pinger{}
	if a.DB != nil {
		checks["database"] = a.DB
	}
	if a.Redis != nil {
		queue = jobs.NewQueue(a.Redis)
		checks["redis"] = redisPinger{client: a.Redis}
	}

	loadPortfolio := func() (model.Portfolio, error) {
		return portfolio.Load(cfg.Env.PortfolioFile)
	}

	researchHandler := handler.NewResearchHandler(a, queue, loadPortfolio)
	healthHandler := handler.NewHealthHandler(checks)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.Env.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Env.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/research", researchHandler.Research)
	r.POST("/research/jobs", researchHandler.SubmitJob)
	r.GET("/health", healthHandler.GetHealth)

	if a.Reports != nil {
		reportHandler := handler.NewReportHandler(a.Reports)
		r.GET("/reports/latest", reportHandler.GetLatestReport)
		r.GET("/reports/:id", reportHandler.GetReport)
		r.GET("/reports", reportHandler.GetReports)
	}

	if a.Cache != nil {
		cacheHandler := handler.NewCacheHandler(a.Cache)
		r.GET("/cache", cacheHandler.GetEntry)
		r.DELETE("/cache/expired", cacheHandler.EvictExpired)
	}

	err = r.Run(":" + cfg.Env.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
