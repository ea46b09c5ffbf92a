// Moon Reaction Analysis MCP Server
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/moonbelt/reaction-server/internal/config"
	"github.com/moonbelt/reaction-server/internal/reaction/catalog"
	"github.com/moonbelt/reaction-server/internal/reaction/db"
	"github.com/moonbelt/reaction-server/internal/reaction/engine"
	"github.com/moonbelt/reaction-server/internal/reaction/mcp"
	"github.com/moonbelt/reaction-server/internal/reaction/prices"
	"github.com/moonbelt/reaction-server/internal/reaction/sync"
	"github.com/moonbelt/reaction-server/internal/reaction/telemetry"
)

func main() {
	// Parse flags
	dbPath := flag.String("db", "", "Path to SQLite database (overrides DB_PATH)")
	importReactions := flag.String("import-reactions", "", "Import reaction formulas from JSON file")
	importMappings := flag.String("import-mappings", "", "Import ore-to-material mappings from JSON file")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath == "" {
		*dbPath = cfg.DBPath
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose || cfg.LogLevel == "DEBUG" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	// Open database
	database, err := db.OpenAndInit(ctx, *dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	// Handle import commands
	if *importReactions != "" || *importMappings != "" {
		syncer := sync.NewSyncer(database)

		if *importReactions != "" {
			logger.Info("importing reactions", "file", *importReactions)
			if err := syncer.ImportReactionsFromFile(ctx, *importReactions); err != nil {
				logger.Error("failed to import reactions", "error", err)
				os.Exit(1)
			}
			logger.Info("reactions imported successfully")
		}

		if *importMappings != "" {
			logger.Info("importing ore mappings", "file", *importMappings)
			if err := syncer.ImportOreMappingsFromFile(ctx, *importMappings); err != nil {
				logger.Error("failed to import ore mappings", "error", err)
				os.Exit(1)
			}
			logger.Info("ore mappings imported successfully")
		}

		// If only doing imports, exit
		if flag.NArg() == 0 {
			return
		}
	}

	// Load the static reaction catalog and ore mappings
	cat, err := catalog.Load(ctx, db.NewReactionStore(database))
	if err != nil {
		logger.Error("failed to load reaction catalog", "error", err)
		os.Exit(1)
	}
	oremap, err := catalog.LoadOreMappings(ctx, db.NewOreMappingStore(database))
	if err != nil {
		logger.Error("failed to load ore mappings", "error", err)
		os.Exit(1)
	}

	ledger, err := engine.NewMoonLedger(ctx, db.NewMoonStore(database))
	if err != nil {
		logger.Error("failed to load moons", "error", err)
		os.Exit(1)
	}

	priceClient := prices.NewClient(
		cfg.AppraisalURL,
		cfg.AppraisalMarket,
		cfg.PriceTimeout,
		cfg.PriceCacheTTL,
		prices.WithLogger(logger),
	)

	telemetry.SendLaunchPing(cfg.TelemetryURL, cfg.TelemetryToken, logger)

	// Create analyzer and server
	analyzer := engine.New(cat, oremap, ledger, priceClient, logger)
	server := mcp.NewServer(analyzer, logger)

	// Run MCP server
	logger.Info("starting MCP server", "db", *dbPath, "reactions", len(cat.Reactions), "moons", ledger.Len())
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "server stopped")
}
