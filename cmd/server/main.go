package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sewasmart/sewasmart/docs"
	"github.com/sewasmart/sewasmart/internal/affordability"
	"github.com/sewasmart/sewasmart/internal/audit"
	"github.com/sewasmart/sewasmart/internal/cache"
	"github.com/sewasmart/sewasmart/internal/errors"
	"github.com/sewasmart/sewasmart/internal/middleware"
	"github.com/sewasmart/sewasmart/internal/monitoring"
	"github.com/sewasmart/sewasmart/internal/security"
	"github.com/sewasmart/sewasmart/internal/types"
)

// server bundles the wired application so main and the tests build the
// router the same way.
type server struct {
	store       *affordability.ModelStore
	evaluator   *affordability.Evaluator
	sink        *audit.Sink
	cache       *cache.Cache
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
	memory      *monitoring.MemoryMonitor
	compression *middleware.CompressionMiddleware
	security    *security.SecurityMiddleware
}

func newServer(dataDir string, auditEnabled bool) (*server, error) {
	store, err := affordability.NewModelStore(dataDir)
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	var sink *audit.Sink
	if auditEnabled {
		auditStore, err := audit.NewStore(dataDir)
		if err != nil {
			// Audit is best-effort: run without it rather than refusing
			// to serve evaluations.
			slog.Warn("Audit store unavailable, continuing without audit", "error", err)
		} else {
			sink = audit.NewSink(auditStore, metrics, appLogger)
		}
	}

	return &server{
		store:       store,
		evaluator:   affordability.NewEvaluator(store),
		sink:        sink,
		cache:       cache.NewCache(15 * time.Minute),
		metrics:     metrics,
		logger:      appLogger,
		memory:      monitoring.NewMemoryMonitor(5*time.Second, 50*1024*1024, appLogger),
		compression: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
		security:    security.NewSecurityMiddleware(security.DefaultSecurityConfig(), metrics),
	}, nil
}

func (s *server) routes() *gin.Engine {
	r := gin.New()

	r.Use(s.compression.Handler())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.security.Config().AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(s.security.SecurityHeaders)
	r.Use(s.security.RequestTimeout)
	r.Use(s.security.ValidateContentType)
	r.Use(s.security.RateLimitByIP)

	// Cache runs before body validation: a hit replays a response that was
	// validated when it was first produced. The validators and handlers
	// bind with the body-caching variants so the body survives rebinding.
	r.Use(s.cache.Middleware(s.metrics))
	r.Use(s.security.ValidateEvaluateRequest)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"metrics":   s.metrics.GetStats(),
		})
	})

	r.POST("/evaluate", s.handleEvaluate)
	r.POST("/evaluate/csv", s.handleEvaluateCSV)

	r.GET("/models", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"default": affordability.DefaultModelName,
			"models":  s.store.Models(),
		})
	})

	r.GET("/models/:name", func(c *gin.Context) {
		model, err := s.store.LoadModel(c.Param("name"))
		if err != nil {
			appErr := errors.FromEvaluation(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"name":         model.Name,
			"schema":       model.Schema,
			"coefficients": model.Table.Entries(),
		})
	})

	r.GET("/audit/recent", func(c *gin.Context) {
		if s.sink == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit is disabled"})
			return
		}

		limit := 50
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
				limit = l
			}
		}

		records, err := s.sink.Recent(limit)
		if err != nil {
			s.logger.APIErrorLogger(err, "GET", "/audit/recent", c.ClientIP(), http.StatusInternalServerError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read audit records"})
			return
		}

		total, _ := s.sink.Count()
		c.JSON(http.StatusOK, gin.H{
			"records": records,
			"total":   total,
			"dropped": s.sink.Dropped(),
		})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.metrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.cache.Stats())
	})

	r.GET("/pools/compression", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "compression",
			"stats": s.compression.GetStats(),
		})
	})

	r.GET("/memory", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.memory.GetStats())
	})

	if os.Getenv("ENABLE_GC_CONTROL") == "true" {
		r.POST("/memory/gc", func(c *gin.Context) {
			s.memory.ForceGC()
			c.JSON(http.StatusOK, gin.H{"message": "garbage collection triggered"})
		})
	}

	if os.Getenv("ENABLE_PROFILING") == "true" {
		slog.Info("Enabling performance profiling endpoints")
		r.GET("/debug/pprof/*filepath", gin.WrapF(pprof.Index))
		r.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
		r.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
		r.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
		r.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	}

	return r
}

// evaluate runs the pipeline for one bound request and handles the shared
// bookkeeping: metrics, evaluation logging, and the audit trail.
func (s *server) evaluate(c *gin.Context) (*affordability.Verdict, bool) {
	start := time.Now()

	var req types.EvaluateRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		appErr := errors.NewValidationError("invalid request body", err.Error())
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return nil, false
	}

	verdict, err := s.evaluator.Evaluate(affordability.EvaluationInput{
		Model: req.Model,
		Profile: affordability.RespondentProfile{
			Age:        req.Age,
			Selections: req.Selections,
		},
		Income:               req.Income,
		Rent:                 req.Rent,
		RentRatio:            req.RentRatio,
		ProbabilityThreshold: req.ProbabilityThreshold,
	})
	if err != nil {
		appErr := errors.FromEvaluation(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return nil, false
	}

	s.metrics.RecordEvaluation(verdict.Model, verdict.Overall)
	s.logger.EvaluationLogger(verdict.Model, verdict.P, verdict.ConditionA, verdict.ConditionB, verdict.Overall, time.Since(start), false)

	if s.sink != nil {
		s.sink.Record(audit.FromVerdict(verdict, c.ClientIP()))
	}

	return verdict, true
}

// handleEvaluate godoc
// @Summary      Evaluate rental affordability
// @Description  Scores a respondent profile with the logistic model and applies the rent-to-income rule
// @Accept       json
// @Produce      json
// @Param        request  body  types.EvaluateRequest  true  "Respondent profile and policy inputs"
// @Success      200  {object}  affordability.Verdict
// @Failure      400  {object}  errors.AppError
// @Failure      500  {object}  errors.AppError
// @Router       /evaluate [post]
func (s *server) handleEvaluate(c *gin.Context) {
	verdict, ok := s.evaluate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// handleEvaluateCSV godoc
// @Summary      Evaluate and download the calculation table
// @Description  Runs the same evaluation and returns the coefficient breakdown as CSV
// @Accept       json
// @Produce      text/csv
// @Param        request  body  types.EvaluateRequest  true  "Respondent profile and policy inputs"
// @Success      200  {string}  string  "CSV calculation table"
// @Failure      400  {object}  errors.AppError
// @Router       /evaluate/csv [post]
func (s *server) handleEvaluateCSV(c *gin.Context) {
	verdict, ok := s.evaluate(c)
	if !ok {
		return
	}

	data, err := verdict.BreakdownCSV()
	if err != nil {
		appErr := errors.NewInternalError("failed to render calculation table", err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="affordability_calculation.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	port := getEnvOrDefault("PORT", "8080")
	auditEnabled := getEnvOrDefault("AUDIT_ENABLED", "true") == "true"

	app, err := newServer(dataDir, auditEnabled)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	app.memory.Start()
	app.security.StartCleanup()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: app.routes(),
	}

	go func() {
		slog.Info("Starting server", "port", port, "audit_enabled", auditEnabled)
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

	app.memory.Stop()
	app.security.StopCleanup()

	if app.sink != nil {
		errors.SafeClose(app.sink, "audit sink")
	}

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
