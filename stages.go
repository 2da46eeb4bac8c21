package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"pii-deck/browser"
	"pii-deck/config"
	"pii-deck/models"
	"pii-deck/redact"
	"pii-deck/services"
	"pii-deck/storage"
	"pii-deck/utils"
)

// app holds what every stage needs. Stages only share data through files.
type app struct {
	cfg      *config.Config
	schema   *config.Schema
	logger   *utils.Logger
	redactor redact.Redactor
	out      io.Writer
}

func newApp() (*app, error) {
	var cfg *config.Config
	if envFile != "" {
		cfg = config.Load(envFile)
	} else {
		cfg = config.Load()
	}

	logger := utils.NewLogger()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))
	if verbose {
		logger.SetLevel(utils.LevelDebug)
	}

	path := cfg.SchemaPath
	if schemaPath != "" {
		path = schemaPath
	}
	schema, err := config.LoadSchema(path)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		schema:   schema,
		logger:   logger,
		redactor: redact.NewScrubber(),
		out:      os.Stdout,
	}, nil
}

func (a *app) run(ctx context.Context) error {
	a.logger.Info("=== PII deck pipeline starting ===")
	if err := a.clean(ctx); err != nil {
		return err
	}
	if err := a.chart(); err != nil {
		return err
	}
	if err := a.deck(ctx); err != nil {
		return err
	}
	a.logger.Info("=== Done. CSV: %s | chart: %s | deck: %s ===",
		a.cfg.CleanedCSVPath, a.cfg.ChartPNGPath, a.cfg.DeckPPTXPath)
	return nil
}

func (a *app) clean(ctx context.Context) error {
	var reader storage.TableReader = &storage.XLSXReader{
		HeaderRow: a.schema.HeaderRow,
		Sheet:     a.cfg.SourceSheet,
		Logger:    a.logger,
	}
	raw, err := reader.Read(a.cfg.SourceXLSXPath)
	if err != nil {
		return err
	}
	a.logger.Info("[clean] Loaded %d rows x %d columns from %s",
		len(raw.Rows), len(raw.Header), a.cfg.SourceXLSXPath)

	cleaner := services.NewCleaner(a.schema, a.redactor, a.logger)
	table, report, err := cleaner.Clean(raw)
	if err != nil {
		return err
	}

	w, err := storage.NewCSVWriter(a.cfg.CleanedCSVPath)
	if err != nil {
		return err
	}
	defer w.Close()
	var writer storage.TableWriter = w
	if err := writer.Write(table); err != nil {
		return err
	}
	a.logger.Info("[clean] Data cleaned and saved to %s (%d rows, %d postal codes, %d cells redacted)",
		a.cfg.CleanedCSVPath, report.Rows, report.PostalCodes, report.RedactedCells)

	if !a.cfg.PostgresEnabled {
		return nil
	}
	return a.store(ctx, table)
}

func (a *app) store(ctx context.Context, table *models.Table) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	pg, err := storage.NewPostgresWriter(ctx, a.cfg.DSN(), &utils.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}
	defer pg.Close()

	var sink storage.TableSink = pg
	runID, err := sink.Store(ctx, table)
	if err != nil {
		return err
	}

	stored, err := pg.FetchRun(ctx, runID, table.Header)
	if err != nil {
		return err
	}
	if len(stored.Rows) != len(table.Rows) {
		return fmt.Errorf("postgres: run %s stored %d rows, expected %d", runID, len(stored.Rows), len(table.Rows))
	}
	a.logger.Info("[clean] Stored %d rows in PostgreSQL (table: cleaned_records, run: %s)", len(stored.Rows), runID)

	if a.cfg.RetentionDays > 0 {
		n, err := pg.Prune(ctx, time.Duration(a.cfg.RetentionDays)*24*time.Hour)
		if err != nil {
			return err
		}
		a.logger.Info("[clean] Pruned %d rows older than %d days", n, a.cfg.RetentionDays)
	}
	return nil
}

func (a *app) chart() error {
	var reader storage.TableReader = storage.CSVReader{}
	table, err := reader.Read(a.cfg.CleanedCSVPath)
	if err != nil {
		return err
	}

	insights := services.NewInsightService(a.logger)
	ft, err := insights.Frequencies(table, a.schema.CategoryColumn)
	if err != nil {
		return err
	}
	insights.Print(a.out, ft)

	renderer := services.NewChartRenderer(services.MochaChartStyle(a.cfg.ChartDPI), a.logger)
	return renderer.Render(ft, a.cfg.ChartPNGPath)
}

func (a *app) deck(ctx context.Context) error {
	var reader storage.TableReader = storage.CSVReader{}
	table, err := reader.Read(a.cfg.CleanedCSVPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(a.cfg.ChartPNGPath); err != nil {
		return fmt.Errorf("deck: chart image: %w", err)
	}

	builder := services.NewDeckBuilder(services.DeckOptions{
		Author:      a.cfg.DeckAuthor,
		Date:        a.cfg.DeckDate,
		SourcePath:  a.cfg.SourceXLSXPath,
		CleanedPath: a.cfg.CleanedCSVPath,
		PreviewRows: a.cfg.PreviewRows,
	}, a.logger)
	deck := builder.Build(table, a.cfg.ChartPNGPath)

	var writer storage.DeckWriter = storage.NewPPTXWriter(storage.MochaTheme)
	if err := writer.WriteDeck(deck, a.cfg.DeckPPTXPath); err != nil {
		return err
	}
	a.logger.Info("[deck] Presentation created and saved as %s", a.cfg.DeckPPTXPath)

	if a.cfg.DeckPDFPath == "" {
		return nil
	}
	handout := &browser.Handout{ChromeBin: a.cfg.ChromeBin, Logger: a.logger}
	return handout.Export(ctx, deck, a.cfg.DeckPDFPath)
}
