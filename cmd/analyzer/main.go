package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/analyzers"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/api"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/cache"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/config"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/discovery"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/health"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pathresolve"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/pipeline"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/refactor"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/registry"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/internal/rules"
	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

var (
	configPath = flag.String("config", "analyzer.yml", "Path to configuration file")
	envFile    = flag.String("env", ".env", "Path to environment file")
	once       = flag.Bool("once", false, "Run one analysis synchronously against the configured installation and print the JSON summary, instead of serving HTTP")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		fmt.Printf("Warning: Could not load env file %s: %v\n", *envFile, err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Core.LogLevel)
	logger.Infof("Starting %s upgrade readiness analyzer", cfg.Core.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCache := buildCache(cfg, logger)
	engine, err := buildEngine(cfg, logger, resultCache)
	if err != nil {
		logger.Fatalf("Failed to wire analysis engine: %v", err)
	}

	if *once {
		runOnce(ctx, cfg, engine, logger)
		return
	}

	healthChecker := health.NewChecker(cfg, logger, resultCache)
	handlers := api.NewHandlers(engine, api.NewRunStore(), api.JSONRenderer{}, logger)

	router := setupRouter(cfg, healthChecker, handlers)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Core.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("Starting HTTP server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Received shutdown signal, gracefully stopping...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Analyzer stopped")
}

// runOnce performs a single synchronous analysis run against the
// configured installation path and target version, printing the
// resulting JSON summary to stdout instead of serving HTTP.
func runOnce(ctx context.Context, cfg *config.Config, engine *api.Engine, logger *logrus.Logger) {
	currentVersion, err := types.ParseVersion(cfg.Core.CurrentVersion)
	if err != nil {
		logger.Fatalf("Invalid core.current_version %q: %v", cfg.Core.CurrentVersion, err)
	}
	targetVersion, err := types.ParseVersion(cfg.Core.TargetVersion)
	if err != nil {
		logger.Fatalf("Invalid core.target_version %q: %v", cfg.Core.TargetVersion, err)
	}

	run, err := engine.Run(ctx, api.RunRequest{
		InstallationPath: cfg.Core.InstallationPath,
		InstallationKind: types.InstallationAutoDetect,
		CurrentVersion:   currentVersion,
		TargetVersion:    targetVersion,
	})
	if err != nil {
		logger.Fatalf("Analysis run failed: %v", err)
	}

	body, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to render run: %v", err)
	}
	fmt.Println(string(body))
}

// buildCache constructs the Result Cache backend: Redis when configured
// and enabled, a process-local MemoryCache otherwise.
func buildCache(cfg *config.Config, logger *logrus.Logger) cache.Cache {
	if cfg.Redis.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		return cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	}
	return cache.NewMemoryCache()
}

// buildEngine wires the full analysis dependency graph: path resolution,
// discovery, rule registry, the refactor driver (wrapped once for source
// and once for templates), registry clients, every concrete analyzer
// (wrapped in the Cached Analyzer Contract when the result cache is
// enabled), and the bounded-concurrency pipeline running them.
func buildEngine(cfg *config.Config, logger *logrus.Logger, resultCache cache.Cache) (*api.Engine, error) {
	ruleRegistry, err := rules.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load rule registry: %w", err)
	}

	resolver := pathresolve.NewResolver(hostPlatformMajor(cfg.Core.CurrentVersion))

	cacheDir := os.TempDir()
	sourceDriver := refactor.NewDriver(cfg.Analysis.RefactorTool.BinaryPath, cacheDir, ruleRegistry, logger)
	sourceDriver.Timeout = time.Duration(cfg.Analysis.RefactorTool.TimeoutSeconds) * time.Second
	sourceDriver.MemoryLimitMB = cfg.Analysis.RefactorTool.MemoryLimitMB

	templateDriver := refactor.NewDriver(cfg.Analysis.RefactorTool.BinaryPath, cacheDir, ruleRegistry, logger)
	templateDriver.Timeout = time.Duration(cfg.Analysis.RefactorTool.TimeoutSeconds) * time.Second
	templateDriver.MemoryLimitMB = cfg.Analysis.RefactorTool.MemoryLimitMB

	registryTimeout := time.Duration(cfg.Registries.TimeoutSeconds) * time.Second
	packagistClient := registry.NewPackagistClient(cfg.Registries.PackagistBaseURL, registryTimeout, logger)
	extensionRepoClient := registry.NewExtensionRepositoryClient(cfg.Registries.ExtensionRepositoryBaseURL, registryTimeout, logger)

	concreteAnalyzers := []pipeline.Analyzer{
		analyzers.NewVersionAvailabilityAnalyzer(logger, packagistClient, extensionRepoClient),
		analyzers.NewLinesOfCodeAnalyzer(resolver, logger),
		analyzers.NewGitHistoryAnalyzer(resolver, logger),
		analyzers.NewSourceRefactorAnalyzer(resolver, ruleRegistry, sourceDriver),
		analyzers.NewTemplateRefactorAnalyzer(resolver, ruleRegistry, templateDriver),
	}

	cachedAnalyzers := make([]pipeline.Analyzer, 0, len(concreteAnalyzers))
	for _, a := range concreteAnalyzers {
		if cfg.Analysis.ResultCache.Enabled {
			cachedAnalyzers = append(cachedAnalyzers, pipeline.NewCachedAnalyzer(a, resultCache, logger))
			continue
		}
		cachedAnalyzers = append(cachedAnalyzers, a)
	}

	pl := pipeline.New(cachedAnalyzers, logger, cfg.Analysis.Concurrency.MaxParallelExtensions)
	discoverer := discovery.NewDiscoverer(resolver, logger)

	resultCacheConfig := types.ResultCacheConfig{
		Enabled:    cfg.Analysis.ResultCache.Enabled,
		TTLSeconds: cfg.Analysis.ResultCache.TTLSeconds,
	}
	return api.NewEngine(discoverer, pl, resultCacheConfig, logger), nil
}

// hostPlatformMajor extracts the major version number from a dotted
// version string, defaulting to the lowest dependency-manager-aware
// platform generation when parsing fails.
func hostPlatformMajor(version string) int {
	major := 0
	for _, r := range version {
		if r < '0' || r > '9' {
			break
		}
		major = major*10 + int(r-'0')
	}
	if major == 0 {
		return 11
	}
	return major
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()

	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})

	return logger
}

func setupRouter(cfg *config.Config, checker *health.Checker, handlers *api.Handlers) *gin.Engine {
	if cfg.Core.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	api.SetupRoutes(router, checker, handlers)

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
}
