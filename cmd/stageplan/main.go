package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/stageplan/internal/cli"
	"github.com/alexanderramin/stageplan/internal/config"
	"github.com/alexanderramin/stageplan/internal/db"
	"github.com/alexanderramin/stageplan/internal/intelligence"
	"github.com/alexanderramin/stageplan/internal/llm"
	"github.com/alexanderramin/stageplan/internal/repository"
	"github.com/alexanderramin/stageplan/internal/service"
	"github.com/alexanderramin/stageplan/internal/store"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	b := &bootstrap{app: app}
	defer b.close()
	app.Setup = b.setup

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// bootstrap wires the App from configuration and owns the database handle.
type bootstrap struct {
	app      *cli.App
	database *sql.DB
}

func (b *bootstrap) close() {
	if b.database != nil {
		b.database.Close()
	}
}

func (b *bootstrap) setup(ctx context.Context, flags *pflag.FlagSet) error {
	v := config.New()
	for _, key := range []string{"db", "verbose"} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return err
		}
	}
	cfgFile, err := flags.GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	switch {
	case cfg.Verbose:
		level = slog.LevelDebug
	case cfg.LogUseCases || cfg.LLM.LogCalls:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	b.database, err = db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	persister := repository.NewBlobPersister(b.database, db.NewSQLiteUnitOfWork(b.database), repository.ProjectsKey)
	projects := store.New(persister, store.WithLogger(logger))
	if err := projects.Load(ctx); err != nil {
		return err
	}

	client := llm.NewDisabledClient()
	if cfg.LLM.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			observer = llm.NewLogObserver(logger.With("component", "llm"))
		}
		client = llm.NewOllamaClient(cfg.LLM, observer)
	}

	var observers []service.UseCaseObserver
	if cfg.LogUseCases || cfg.Verbose {
		observers = append(observers, service.NewLogUseCaseObserver(logger.With("component", "service")))
	}

	b.app.Store = projects
	b.app.Assist = service.NewAssistService(projects,
		intelligence.NewSuggestService(client),
		intelligence.NewOrganizeService(client),
		intelligence.NewSummaryService(client),
		observers...,
	)
	b.app.Import = service.NewImportService(projects, observers...)
	return nil
}
