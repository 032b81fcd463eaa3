package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/wikijury/wikijury/internal/cache"
	"github.com/wikijury/wikijury/internal/dataset"
	"github.com/wikijury/wikijury/internal/errors"
	"github.com/wikijury/wikijury/internal/export"
	"github.com/wikijury/wikijury/internal/monitoring"
	"github.com/wikijury/wikijury/internal/ratelimit"
	"github.com/wikijury/wikijury/internal/scoring"
	"github.com/wikijury/wikijury/internal/security"
	"github.com/wikijury/wikijury/internal/types"
)

const version = "1.0.0"

// serverConfig holds server configuration from the environment
type serverConfig struct {
	Port           string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CacheTTL       time.Duration
	AllowedOrigins []string
}

func loadConfig() serverConfig {
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			redisDB = parsed
		}
	}

	cacheTTL := 15 * time.Minute
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cacheTTL = time.Duration(parsed) * time.Minute
		}
	}

	origins := security.DefaultConfig().AllowedOrigins
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return serverConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		RedisAddr:      os.Getenv("REDIS_URL"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		CacheTTL:       cacheTTL,
		AllowedOrigins: origins,
	}
}

// application bundles the services behind the HTTP surface
type application struct {
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	cache    *cache.Cache
	limiter  *ratelimit.RateLimiter
	security *security.Middleware
}

func newApplication(cfg serverConfig) *application {
	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		// NewRedisClient already degrades to the in-memory fallback
		slog.Warn("Redis unavailable", "error", err)
	}
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig(), appMetrics)

	secConfig := security.DefaultConfig()
	secConfig.AllowedOrigins = cfg.AllowedOrigins

	return &application{
		metrics:  appMetrics,
		logger:   appLogger,
		cache:    cache.NewCache(cfg.CacheTTL, cache.DefaultMaxEntries),
		limiter:  limiter,
		security: security.NewMiddleware(secConfig),
	}
}

func (app *application) router(cfg serverConfig) *gin.Engine {
	r := gin.New()

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(app.metrics, app.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.Use(app.security.Headers)
	r.Use(app.security.RequestTimeout)
	r.Use(app.security.ValidateContentType)
	r.Use(app.security.LimitBodySize)

	r.Use(app.limiter.IPRateLimitMiddleware())
	r.Use(app.cache.Middleware(app.metrics))

	r.GET("/health", app.handleHealth)

	score := app.limiter.EndpointRateLimitMiddleware("score", ratelimit.DefaultConfig().ScoreLimitPerMin)
	r.POST("/score", score, app.handleScore)
	r.POST("/analyze", score, app.handleAnalyze)
	r.POST("/export/csv", app.handleExport("csv"))
	r.POST("/export/xlsx", app.handleExport("xlsx"))

	r.GET("/metrics", app.handleMetrics)
	r.GET("/cache/stats", app.handleCacheStats)
	r.GET("/ratelimit/stats", app.handleRateLimitStats)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (app *application) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
		"metrics":   app.metrics.GetStats(),
	})
}

// handleScore computes composite scores for a JSON scoring request
func (app *application) handleScore(c *gin.Context) {
	start := time.Now()

	var req scoring.Request
	if err := c.BindJSON(&req); err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	resp, err := scoring.Score(req)
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	app.metrics.IncrementScoringRun()
	app.logger.ScoringLogger(
		len(resp.Results),
		len(scoring.ActiveMetrics(resp.WeightsUsed)),
		len(resp.Warnings),
		time.Since(start),
		c.GetBool("cache_hit"),
	)

	c.JSON(http.StatusOK, resp)
}

// handleAnalyze parses an uploaded dataset, scores it and returns the ranking
func (app *application) handleAnalyze(c *gin.Context) {
	start := time.Now()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		appErr := errors.NewValidationError("missing dataset file", "upload the dataset in the 'file' form field")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		appErr := errors.NewInternalError("failed to open uploaded file", err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	defer errors.SafeClose(file, "upload")

	cfg, appErr := parseUploadConfig(c.PostForm("config"))
	if appErr != nil {
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	parsed, err := dataset.Parse(fileHeader.Filename, file)
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	app.metrics.IncrementUploadParsed()
	app.logger.UploadLogger(fileHeader.Filename, fileHeader.Size, len(parsed.Contributors), len(parsed.Warnings), time.Since(start))

	req := scoring.Request{
		Contributors: parsed.Contributors,
		Weights:      cfg.Weights,
		Bonus:        cfg.Bonus,
	}
	if len(req.Weights) == 0 {
		req.Weights = defaultWeights(parsed.Contributors)
	}

	resp, err := scoring.Score(req)
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	// Surface parse warnings ahead of scoring warnings
	resp.Warnings = append(parsed.Warnings, resp.Warnings...)

	app.metrics.IncrementScoringRun()
	app.logger.ScoringLogger(
		len(resp.Results),
		len(scoring.ActiveMetrics(resp.WeightsUsed)),
		len(resp.Warnings),
		time.Since(start),
		false,
	)

	c.JSON(http.StatusOK, resp)
}

// handleExport scores a JSON request and streams the ranking as a file
func (app *application) handleExport(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scoring.Request
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		resp, err := scoring.Score(req)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		var buf bytes.Buffer
		var contentType string
		switch format {
		case "csv":
			contentType = "text/csv; charset=utf-8"
			err = export.WriteCSV(&buf, resp)
		case "xlsx":
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			err = export.WriteXLSX(&buf, resp)
		}
		if err != nil {
			appErr := errors.NewInternalError("failed to generate export", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		app.metrics.IncrementExportGenerated()

		c.Header("Content-Disposition", `attachment; filename="`+export.Filename(format)+`"`)
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}

func (app *application) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, app.metrics.GetStats())
}

func (app *application) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, app.cache.Stats())
}

func (app *application) handleRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, app.limiter.GetStats())
}

// parseUploadConfig decodes the optional JSON config form field
func parseUploadConfig(raw string) (types.UploadConfig, *errors.AppError) {
	var cfg types.UploadConfig
	if raw == "" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return cfg, errors.NewValidationError("invalid config field", err.Error())
	}
	return cfg, nil
}

// defaultWeights assigns weight 1 to every metric present in the dataset
func defaultWeights(contributors []scoring.ContributorRecord) scoring.Weights {
	weights := make(scoring.Weights)
	for _, contributor := range contributors {
		for metric := range contributor.Metrics {
			weights[metric] = 1
		}
	}
	return weights
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := loadConfig()
	app := newApplication(cfg)
	r := app.router(cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}
