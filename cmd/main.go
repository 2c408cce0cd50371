package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/richard-senior/canodds/internal/logger"
	"github.com/richard-senior/canodds/pkg/api"
	"github.com/richard-senior/canodds/pkg/server"
	"github.com/richard-senior/canodds/pkg/tools"
	"github.com/richard-senior/canodds/pkg/transport"
	"github.com/richard-senior/canodds/pkg/util/canodds"
)

const usage = `usage:
  canodds [-config file] [-http addr] [-debug]   serve MCP over stdio, or REST when -http is set
  canodds import-stats [-config file] <csv|url>  load a statistics CSV or HTML page into sqlite
`

func main() {
	if len(os.Args) > 1 && os.Args[1] == "import-stats" {
		os.Exit(runImport(os.Args[2:]))
	}
	os.Exit(run(os.Args[1:]))
}

// run serves until shutdown and returns the process exit code.
// Deferred cleanup runs before main calls os.Exit.
func run(args []string) int {
	fs := flag.NewFlagSet("canodds", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", "canodds.toml", "TOML configuration file")
	httpAddr := fs.String("http", "", "Serve the REST API on this address instead of MCP over stdio")
	debug := fs.Bool("debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	config, err := canodds.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *httpAddr != "" {
		config.Server.HTTPAddr = *httpAddr
	}
	if *debug {
		config.Log.Level = "debug"
	}

	mcpMode := config.Server.HTTPAddr == ""
	if err := configureLogging(config, mcpMode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Close()

	logger.Info("Starting canodds, assets in", config.AssetsPath)
	predictor := canodds.LoadPredictor(config)
	pt := tools.NewPredictionTools(predictor, config.Server.TeamStatsLimit)

	if mcpMode {
		err = runMCPServer(pt)
	} else {
		err = runHTTPServer(config.Server.HTTPAddr, pt)
	}
	if err != nil {
		logger.Error("Server error:", err)
		return 1
	}
	logger.Info("canodds shutting down")
	return 0
}

func configureLogging(config *canodds.Config, mcpMode bool) error {
	level, err := logger.ParseLevel(config.Log.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.SetShowDateTime(config.Log.ShowDateTime)
	logger.SetLogFile(config.Log.File)
	// stdout belongs to the JSON-RPC stream
	logger.SetMCPMode(mcpMode)
	return logger.SetLogOutput(rune(config.Log.Output[0]))
}

func runMCPServer(pt *tools.PredictionTools) error {
	s := server.NewServer(transport.NewStdioTransport())
	s.RegisterPredictionTools(pt)
	return s.Start()
}

func runHTTPServer(addr string, pt *tools.PredictionTools) error {
	handler := api.NewAPIHandler(pt)
	srv := &http.Server{
		Addr:           addr,
		Handler:        handler.SetupRoutes(),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("REST API listening on", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		logger.Info("Received signal:", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func runImport(args []string) int {
	fs := flag.NewFlagSet("import-stats", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", "canodds.toml", "TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	source := fs.Arg(0)

	config, err := canodds.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := configureLogging(config, false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Close()

	var rows []canodds.StatsRow
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		rows, err = canodds.FetchStatsHTML(source)
	} else {
		rows, err = readStatsCSV(source)
	}
	if err != nil {
		logger.Error("Failed to read team statistics:", err)
		return 1
	}

	dbPath := config.Resolve(config.Stats.DBPath)
	db, err := canodds.OpenStatsDB(canodds.StatsSourceSQLite, dbPath)
	if err != nil {
		logger.Error("Failed to open", dbPath, err)
		return 1
	}
	defer db.Close()

	if err := canodds.ImportStats(db, canodds.StatsSourceSQLite, rows); err != nil {
		logger.Error("Import failed:", err)
		return 1
	}
	logger.Info("Imported team statistics into", dbPath)
	return 0
}

func readStatsCSV(path string) ([]canodds.StatsRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return canodds.ParseStatsCSV(f)
}
