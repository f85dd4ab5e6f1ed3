// Package app constructs the Kabutaro services and clients from config.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
	"github.com/bobmcallan/kabutaro/internal/registry"
	"github.com/bobmcallan/kabutaro/internal/services/ranking"
	"github.com/bobmcallan/kabutaro/internal/services/report"
	"github.com/bobmcallan/kabutaro/internal/services/resolver"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config          *common.Config
	Logger          arbor.ILogger
	Registry        *registry.Registry
	SearchClient    interfaces.SearchClient
	QuoteClient     interfaces.QuoteClient
	RankingClient   interfaces.RankingClient
	Messenger       interfaces.MessagingClient
	ResolverService interfaces.ResolverService
	ReportService   interfaces.ReportService
	RankingService  interfaces.RankingService
	MCPServer       *server.MCPServer
	Scheduler       *Scheduler
	StartupTime     time.Time

	closers []func() error
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes the App.
// configPath may be empty, in which case KABUTARO_CONFIG, the binary
// directory and config/kabutaro.toml are tried in that order.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("KABUTARO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "kabutaro.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/kabutaro.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.Registry.Path = resolvePath(binDir, config.Registry.Path)
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLogger(config.Logging)

	return New(config, logger)
}

// resolvePath keeps a relative path as given when it exists from the
// working directory, otherwise anchors it at the binary directory.
func resolvePath(binDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(binDir, path)
}

// New wires an App from an already-loaded config.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	startupStart := time.Now()

	reg, err := registry.LoadRegistry(config.Registry.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	logger.Info().
		Str("path", config.Registry.Path).
		Int("entries", reg.Len()).
		Int("skipped", reg.Skipped()).
		Msg("Registry loaded")

	for _, name := range config.ValidateRequired() {
		logger.Warn().Str("setting", name).Msg("Required setting is empty")
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Registry:    reg,
		StartupTime: startupStart,
	}

	if err := a.initClients(); err != nil {
		a.Close()
		return nil, err
	}

	kind, err := models.ParseMoverKind(config.Ranking.Kind)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.ResolverService = resolver.NewService(reg, a.SearchClient, config.Market, logger)
	a.ReportService = report.NewService(a.ResolverService, a.QuoteClient, reg, config.Market, logger)
	a.RankingService = ranking.NewService(a.RankingClient, a.Messenger, kind, config.Ranking.Limit, logger)
	a.Scheduler = NewScheduler(a.RankingService, config.Ranking.UserID, logger)

	a.MCPServer = server.NewMCPServer(
		"kabutaro",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	a.registerTools()

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// StartScheduler starts the cron push and, when configured, the one-shot
// startup push.
func (a *App) StartScheduler() error {
	cfg := a.Config.Ranking
	if !cfg.Enabled {
		a.Logger.Info().Msg("Ranking push disabled")
		return nil
	}
	if cfg.UserID == "" {
		a.Logger.Warn().Msg("Ranking push enabled but no user_id configured, scheduler not started")
		return nil
	}

	if err := a.Scheduler.Start(cfg.Schedule); err != nil {
		return fmt.Errorf("failed to start ranking scheduler: %w", err)
	}

	if cfg.PushOnStartup {
		a.Scheduler.RunNow(ranking.ManualPushHeader)
	}
	return nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
		a.Scheduler = nil
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.Logger.Warn().Err(err).Msg("Close failed")
		}
	}
	a.closers = nil
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createResolveTickerTool(), handleResolveTicker(a.ResolverService, logger))
	s.AddTool(createGetStockReportTool(), handleGetStockReport(a.ReportService, logger))
	s.AddTool(createGetRankingTool(), handleGetRanking(a.RankingService, a.Config.Ranking.Limit, logger))
}

// contextWithTimeout is used by background work that has no request context.
func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
