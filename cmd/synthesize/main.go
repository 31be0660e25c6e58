package main

import (
	"context"
	"flag"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rosasurfer/fx-history-tools/internal/application/service/history"
	"github.com/rosasurfer/fx-history-tools/internal/application/service/synthesizer"
	"github.com/rosasurfer/fx-history-tools/internal/config"
	"github.com/rosasurfer/fx-history-tools/internal/domain/interfaces"
	"github.com/rosasurfer/fx-history-tools/internal/infrastructure/barstore"
	"github.com/rosasurfer/fx-history-tools/internal/infrastructure/broker"
	"github.com/rosasurfer/fx-history-tools/internal/infrastructure/calendar"
	infrainstruments "github.com/rosasurfer/fx-history-tools/internal/infrastructure/instruments"
)

func main() {
	symbolsFlag := flag.String("symbols", "", "comma-separated synthetic symbols (default: all known)")
	fromFlag := flag.String("from", "", "first day to synthesize, YYYY-MM-DD (default: common history start)")
	toFlag := flag.String("to", "", "last day to synthesize, YYYY-MM-DD (default: yesterday)")
	seedFlag := flag.Bool("seed-db", false, "upsert the built-in instrument table into the metadata database and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	var registry interfaces.InstrumentsRegistry
	if cfg.Postgres.DSN != "" {
		repo, err := infrainstruments.NewRepository(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatalf("failed to init instruments repo: %v", err)
		}
		defer repo.Close()

		if *seedFlag {
			if err := repo.SeedDefaults(ctx); err != nil {
				logger.Fatalf("failed to seed instruments: %v", err)
			}
			logger.Info("instrument metadata seeded")
			return
		}
		registry, err = repo.LoadRegistry(ctx)
		if err != nil {
			logger.Fatalf("failed to load instrument metadata: %v", err)
		}
	} else {
		if *seedFlag {
			logger.Fatal("seed-db requires DATABASE_DSN")
		}
		registry = infrainstruments.NewStaticRegistry()
	}

	clock, err := calendar.New()
	if err != nil {
		logger.Fatalf("failed to init FXT clock: %v", err)
	}

	var publisher interfaces.SynthesisPublisher = broker.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := broker.NewPublisher(cfg.RabbitMQ, logger)
		if err != nil {
			logger.Fatalf("failed to init broker publisher: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	store := barstore.NewStore(cfg.DataRoot, cfg.Provider, logger)
	engine := synthesizer.NewEngine(clock, logger)
	resolver := synthesizer.NewResolver(registry, store, logger)
	service := history.NewService(registry, store, engine, resolver, publisher, cfg.Workers, logger)

	symbols := parseSymbols(*symbolsFlag)
	from, err := parseDay(*fromFlag, time.Time{})
	if err != nil {
		logger.Fatalf("invalid -from: %v", err)
	}
	to, err := parseDay(*toFlag, yesterday())
	if err != nil {
		logger.Fatalf("invalid -to: %v", err)
	}

	summary, err := service.SynthesizeRange(ctx, symbols, from, to)
	if err != nil {
		logger.Fatalf("synthesis run %s aborted: %v", summary.RunID, err)
	}
	if summary.Failed > 0 {
		logger.Warnf("synthesis run %s finished with %d failed days", summary.RunID, summary.Failed)
	}
}

func parseSymbols(raw string) []string {
	if raw == "" {
		defs := synthesizer.Definitions()
		symbols := make([]string, len(defs))
		for i, def := range defs {
			symbols[i] = def.Symbol
		}
		return symbols
	}
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func parseDay(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}

func yesterday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
