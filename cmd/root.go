package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"logparse/application"
	"logparse/config"
	"logparse/domain"
	"logparse/infrastructure/clickhouse"
	"logparse/infrastructure/console"
	"logparse/infrastructure/csvsink"
	"logparse/infrastructure/filesystem"
	"logparse/logging"

	"github.com/spf13/cobra"
)

const version = "0.0.1"

type options struct {
	files       *filesFlag
	output      string
	filters     []string
	filterKey   string
	filterValue string
	verbose     bool
	timing      bool
	noProgress  bool
	summary     bool
	clickhouse  bool
	envFile     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "logparse [flags] [FILE...]",
		Short: "Extract and filter web-server access log entries into CSV",
		Long: `Read one or more access log files, filter entries by IP address, method,
protocol, or status and write the matching entries to a CSV file.

Filters are key=value pairs and must all match. Supported keys:
ip_addr (alias ipaddr), method, protocol (alias protcol), status.`,
		Example: `  logparse -f data-1.log data-2.log --filter method=POST
  logparse 'logs/*.log' -k status -e 404 -o not-found.csv`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	opts.files = newFilesFlag(flags)
	flags.VarP(opts.files, "files", "f", "input file(s) or glob patterns")
	flags.StringVarP(&opts.output, "output", "o", "", "output file name (default: output.csv)")
	flags.StringArrayVar(&opts.filters, "filter", nil, "key=value filter; repeat to combine")
	flags.StringVarP(&opts.filterKey, "filter_key", "k", "", "key to filter logs by; supported keys: ipaddr, method, protcol, status")
	flags.StringVarP(&opts.filterValue, "filter_value", "e", "", "value to filter logs by")
	flags.BoolVarP(&opts.verbose, "verbose", "d", false, "enable debug logging")
	flags.BoolVarP(&opts.timing, "time", "t", false, "include execution time")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	flags.BoolVar(&opts.summary, "summary", false, "print a per-file summary table")
	flags.BoolVar(&opts.clickhouse, "clickhouse", false, "also export matched entries to ClickHouse")
	flags.StringVar(&opts.envFile, "env-file", "", "env file to load (default: .env)")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	start := time.Now()

	var envFiles []string
	if opts.envFile != "" {
		envFiles = append(envFiles, opts.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	patterns := opts.files.merge(args)
	if len(patterns) == 0 {
		return errors.New("no input files given; use -f FILE or pass files as arguments")
	}
	files, err := filesystem.ExpandPatterns(patterns)
	if err != nil {
		return err
	}

	tokens := append([]string{}, opts.filters...)
	if tok := domain.LegacyFilterToken(opts.filterKey, opts.filterValue); tok != "" {
		tokens = append(tokens, tok)
	}
	spec, ignored := domain.ParseFilterTokens(tokens)
	for _, tok := range ignored {
		logger.Warn("ignoring filter token", "token", tok)
	}

	output := cfg.Output
	if opts.output != "" {
		output = opts.output
	}
	sinks := application.MultiSink{csvsink.NewCSVSink(output)}

	if opts.clickhouse || cfg.ClickHouse.Enabled {
		repo, closeDB, err := openClickHouse(cmd.Context(), cfg.ClickHouse)
		if err != nil {
			return err
		}
		defer closeDB()
		sinks = append(sinks, repo)
		logger.Info("exporting to clickhouse", "host", cfg.ClickHouse.Host, "table", cfg.ClickHouse.Table)
	}

	ui := console.NewConsoleUI(
		console.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		console.WithProgress(cfg.Progress && !opts.noProgress),
		console.WithSummary(opts.summary),
	)
	svc := application.NewParseService(filesystem.NewFileSource(), sinks, ui, logger)

	logger.Debug("starting run", "files", len(files), "output", output)
	if _, err := svc.Run(cmd.Context(), application.RunConfig{Files: files, Filter: spec}); err != nil {
		return err
	}

	if opts.timing {
		logger.Info("script completed", "elapsed", time.Since(start))
	}
	return nil
}

func openClickHouse(ctx context.Context, cfg config.ClickHouseConfig) (*clickhouse.ClickHouseRecordRepository, func(), error) {
	db, err := sql.Open("clickhouse", cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to ClickHouse: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("could not ping ClickHouse: %w", err)
	}

	repo, err := clickhouse.NewClickHouseRecordRepository(db, cfg.Table)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := repo.EnsureTable(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}
