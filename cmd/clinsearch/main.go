package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/clinsearch/clinsearch/api"
	"github.com/clinsearch/clinsearch/config"
	"github.com/clinsearch/clinsearch/internal/engine"
	"github.com/clinsearch/clinsearch/internal/jobs"
	"github.com/clinsearch/clinsearch/internal/lexicon"
	"github.com/clinsearch/clinsearch/internal/loader"
	"github.com/clinsearch/clinsearch/internal/logging"
	"github.com/clinsearch/clinsearch/services"
)

// maxReindexWorkers caps concurrent background reindex jobs. Rebuilds are
// memory-heavy, so one at a time.
const maxReindexWorkers = 1

func main() {
	app := &cli.App{
		Name:  "clinsearch",
		Usage: "Keyword search over free-text clinical records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
			&cli.StringFlag{
				Name:  "corpus",
				Usage: "Directory of record text files (overrides config)",
			},
			&cli.StringFlag{
				Name:  "lexicon",
				Usage: "Path to a YAML category lexicon (default: built-in medical lexicon)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP search API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Listen host (overrides config)",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Listen port (overrides config)",
					},
					&cli.StringFlag{
						Name:  "analytics-file",
						Usage: "Path to a file persisting query analytics across restarts",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a single query against the corpus and print the hits",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "records",
						Usage: "Restrict the search to these record IDs",
					},
					&cli.StringSliceFlag{
						Name:  "categories",
						Usage: "Restrict the search to records carrying these categories",
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of hits to return",
						Value: 10,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print corpus statistics",
				Action: statsCommand,
			},
			{
				Name:   "records",
				Usage:  "List record IDs in the corpus",
				Action: recordsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of IDs to list (0 = all)",
					},
				},
			},
			{
				Name:      "record",
				Usage:     "Show the indexed view of a single record",
				ArgsUsage: "<record-id>",
				Action:    recordCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig merges the config file (if given) with command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	if dir := c.String("corpus"); dir != "" {
		cfg.CorpusDir = dir
	}
	if path := c.String("lexicon"); path != "" {
		cfg.LexiconPath = path
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if cfg.CorpusDir == "" {
		return nil, fmt.Errorf("no corpus directory: set --corpus or corpus_dir in the config file")
	}
	return cfg, nil
}

// newEngine wires the record source, lexicon, and indexing pipeline without
// loading the corpus yet.
func newEngine(cfg *config.Config, logger *zap.Logger) (*engine.Engine, error) {
	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		loaded, err := lexicon.LoadFile(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
		lex = loaded
	}

	source := loader.NewDirSource(cfg.CorpusDir, logger)
	return engine.NewEngine(source, lex, cfg.Search, cfg.Workers, logger)
}

// buildEngine wires the pipeline and performs the initial corpus load.
func buildEngine(c *cli.Context, cfg *config.Config, logger *zap.Logger) (*engine.Engine, error) {
	eng, err := newEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := eng.Reload(c.Context); err != nil {
		return nil, fmt.Errorf("failed to load corpus from %s: %w", cfg.CorpusDir, err)
	}
	return eng, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if host := c.String("host"); host != "" {
		cfg.Server.Host = host
	}
	if port := c.Int("port"); port != 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	eng, err := buildEngine(c, cfg, logger)
	if err != nil {
		return err
	}

	analyticsPath := c.String("analytics-file")
	if analyticsPath != "" {
		if err := eng.LoadAnalytics(analyticsPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("ignoring unreadable analytics file", zap.String("path", analyticsPath), zap.Error(err))
		}
	}

	jobManager := jobs.NewManager(maxReindexWorkers, logger)
	jobManager.Start()
	defer jobManager.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, eng, jobManager, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", zap.Error(err))
	}

	if analyticsPath != "" {
		if err := eng.SaveAnalytics(analyticsPath); err != nil {
			logger.Warn("failed to write analytics file", zap.String("path", analyticsPath), zap.Error(err))
		}
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("usage: clinsearch search <query>")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	eng, err := buildEngine(c, cfg, logger)
	if err != nil {
		return err
	}

	response, err := eng.Search(context.Background(), services.SearchRequest{
		Query:          query,
		RecordIDFilter: c.StringSlice("records"),
		CategoryFilter: c.StringSlice("categories"),
		MaxResults:     c.Int("max-results"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printHits(os.Stdout, query, response)
	return nil
}

// printHits renders one search response for the terminal.
func printHits(out io.Writer, query string, response services.SearchResponse) {
	fmt.Fprintf(out, "%d hit(s) for %q (%dms)\n", response.Total, query, response.Took)
	for i, hit := range response.Hits {
		fmt.Fprintf(out, "\n%d. %s  (score %.1f)\n", i+1, hit.RecordID, hit.Score)
		fmt.Fprintf(out, "   keywords: %v\n", hit.MatchedKeywords)
		for _, excerpt := range hit.MatchedSections {
			fmt.Fprintf(out, "   ... %s ...\n", excerpt)
		}
	}
	if len(response.Hits) == 0 && len(response.Suggestions) > 0 {
		fmt.Fprintf(out, "\ndid you mean: %v\n", response.Suggestions)
	}
}

func statsCommand(c *cli.Context) error {
	eng, err := quietEngine(c)
	if err != nil {
		return err
	}
	return printJSON(eng.CorpusStats())
}

func recordsCommand(c *cli.Context) error {
	eng, err := quietEngine(c)
	if err != nil {
		return err
	}
	for _, id := range eng.ListRecordIDs(c.Int("limit")) {
		fmt.Println(id)
	}
	return nil
}

func recordCommand(c *cli.Context) error {
	recordID := c.Args().First()
	if recordID == "" {
		return fmt.Errorf("usage: clinsearch record <record-id>")
	}
	eng, err := quietEngine(c)
	if err != nil {
		return err
	}
	info, err := eng.GetRecordInfo(recordID)
	if err != nil {
		return err
	}
	return printJSON(info)
}

// quietEngine builds the engine with a no-op logger for one-shot read
// commands whose output should stay machine-readable.
func quietEngine(c *cli.Context) (*engine.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return buildEngine(c, cfg, zap.NewNop())
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
