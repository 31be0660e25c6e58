package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rosasurfer/fx-history-tools/internal/application/service/synthesizer"
	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
	"github.com/rosasurfer/fx-history-tools/internal/domain/interfaces"
)

// Service drives batch synthesis: it walks (symbol, day) units, derives each
// day through the formula engine and persists it. Fast variants consume other
// symbols' synthesized output (AUDLFX reads USDLFX's files), so requested
// symbols are grouped into dependency tiers: tiers run sequentially, symbols
// within a tier in parallel on a bounded pool, days within one symbol in
// order.
type Service struct {
	registry  interfaces.InstrumentsRegistry
	store     interfaces.BarRepository
	engine    *synthesizer.Engine
	resolver  *synthesizer.Resolver
	publisher interfaces.SynthesisPublisher
	workers   int
	logger    *logrus.Entry
}

// NewService wires the batch synthesis service.
func NewService(
	registry interfaces.InstrumentsRegistry,
	store interfaces.BarRepository,
	engine *synthesizer.Engine,
	resolver *synthesizer.Resolver,
	publisher interfaces.SynthesisPublisher,
	workers int,
	logger *logrus.Logger,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		registry:  registry,
		store:     store,
		engine:    engine,
		resolver:  resolver,
		publisher: publisher,
		workers:   workers,
		logger:    logger.WithField("component", "history"),
	}
}

// Summary reports the outcome of one batch run.
type Summary struct {
	RunID       string
	Synthesized int
	Skipped     int
	Failed      int
}

// SynthesizeRange derives all days in [from, to] for the given synthetic
// symbols. A zero from falls back to each symbol's common history start.
// Failed days are counted and logged with their symbol and date; the run
// continues with the next day.
func (s *Service) SynthesizeRange(ctx context.Context, symbols []string, from, to time.Time) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	log := s.logger.WithField("run_id", summary.RunID)
	log.WithFields(logrus.Fields{
		"symbols": len(symbols),
		"from":    formatDayOrAuto(from),
		"to":      to.Format("2006-01-02"),
	}).Info("synthesis run started")

	var mu sync.Mutex
	var err error
	for _, tier := range dependencyTiers(symbols) {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(s.workers)
		for _, symbol := range tier {
			symbol := symbol
			group.Go(func() error {
				synthesized, skipped, failed, err := s.synthesizeSymbol(groupCtx, log, summary.RunID, symbol, from, to)
				mu.Lock()
				summary.Synthesized += synthesized
				summary.Skipped += skipped
				summary.Failed += failed
				mu.Unlock()
				return err
			})
		}
		if err = group.Wait(); err != nil {
			break
		}
	}

	log.WithFields(logrus.Fields{
		"synthesized": summary.Synthesized,
		"skipped":     summary.Skipped,
		"failed":      summary.Failed,
	}).Info("synthesis run finished")
	return summary, err
}

func (s *Service) synthesizeSymbol(ctx context.Context, log *logrus.Entry, runID, symbol string, from, to time.Time) (synthesized, skipped, failed int, err error) {
	def, ok := synthesizer.DefinitionFor(symbol)
	if !ok {
		return 0, 0, 0, fmt.Errorf("%s: no formula definition", symbol)
	}
	target, err := s.registry.Instrument(symbol)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%s: %w", symbol, err)
	}

	start := from
	if start.IsZero() {
		common, ok := s.resolver.CommonHistoryStart(def.Variants[0].Formula.Components())
		if !ok {
			return 0, 0, 0, fmt.Errorf("%s: components without known history start", symbol)
		}
		start = common
	}

	for day := start; !day.After(to); day = day.AddDate(0, 0, 1) {
		select {
		case <-ctx.Done():
			return synthesized, skipped, failed, ctx.Err()
		default:
		}
		count, dayErr := s.SynthesizeDay(ctx, runID, def, target, day)
		switch {
		case dayErr != nil:
			failed++
			log.WithError(dayErr).WithFields(logrus.Fields{
				"symbol": symbol,
				"day":    day.Format("2006-01-02"),
			}).Error("day synthesis failed")
		case count == 0:
			skipped++
		default:
			synthesized++
		}
	}
	return synthesized, skipped, failed, nil
}

// SynthesizeDay derives and persists one day for one definition. It returns
// the number of bars written: zero means the day was skipped (non-trading day
// for the target, or missing component data).
func (s *Service) SynthesizeDay(ctx context.Context, runID string, def synthesizer.Definition, target domain.Instrument, day time.Time) (int, error) {
	started := time.Now()

	variant, err := s.resolver.ResolveVariant(def, day)
	if err != nil {
		return 0, err
	}
	components, err := s.resolver.LoadComponentsHistory(variant.Formula.Components(), day)
	if err != nil {
		return 0, err
	}
	if len(components) == 0 {
		return 0, nil
	}

	series, err := s.engine.Calculate(target, variant.Formula, day, components)
	if err != nil {
		return 0, err
	}
	if len(series) == 0 {
		return 0, nil
	}
	if err := s.store.SaveDay(target, series); err != nil {
		return 0, err
	}

	event := interfaces.SynthesisEvent{
		RunID:   runID,
		Symbol:  target.Symbol,
		Day:     day.Format("2006-01-02"),
		Bars:    len(series),
		Elapsed: time.Since(started).Seconds(),
		At:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The file is already written; a lost notification is not worth
		// failing the day over.
		s.logger.WithError(err).WithFields(logrus.Fields{
			"symbol": target.Symbol,
			"day":    event.Day,
		}).Warn("could not publish synthesis event")
	}
	return len(series), nil
}

// dependencyTiers partitions the requested symbols so that every symbol whose
// formula feeds another requested symbol lands in an earlier tier than its
// consumers. USDLFX ends up before the LFX family, which ends up before the
// FX6 fast variants. Symbols without a formula definition go into the first
// tier; synthesizeSymbol reports them there.
func dependencyTiers(symbols []string) [][]string {
	requested := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		requested[symbol] = true
	}

	// Direct dependencies within the requested set, across all variants.
	deps := make(map[string]map[string]bool, len(symbols))
	for _, symbol := range symbols {
		deps[symbol] = map[string]bool{}
		def, ok := synthesizer.DefinitionFor(symbol)
		if !ok {
			continue
		}
		for _, variant := range def.Variants {
			for _, component := range variant.Formula.Components() {
				if component != symbol && requested[component] {
					deps[symbol][component] = true
				}
			}
		}
	}

	var tiers [][]string
	placed := make(map[string]bool, len(symbols))
	remaining := append([]string(nil), symbols...)
	for len(remaining) > 0 {
		var tier, rest []string
		for _, symbol := range remaining {
			ready := true
			for dep := range deps[symbol] {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				tier = append(tier, symbol)
			} else {
				rest = append(rest, symbol)
			}
		}
		if len(tier) == 0 {
			// Dependency cycle; run the rest together rather than stalling.
			tiers = append(tiers, rest)
			break
		}
		for _, symbol := range tier {
			placed[symbol] = true
		}
		tiers = append(tiers, tier)
		remaining = rest
	}
	return tiers
}

func formatDayOrAuto(day time.Time) string {
	if day.IsZero() {
		return "common-history-start"
	}
	return day.Format("2006-01-02")
}
