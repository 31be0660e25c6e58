package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosasurfer/fx-history-tools/internal/application/service/synthesizer"
	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
	"github.com/rosasurfer/fx-history-tools/internal/domain/interfaces"
	"github.com/rosasurfer/fx-history-tools/internal/infrastructure/barstore"
	"github.com/rosasurfer/fx-history-tools/internal/infrastructure/calendar"
	infrainstruments "github.com/rosasurfer/fx-history-tools/internal/infrastructure/instruments"
)

// recordingPublisher captures published events instead of talking to a broker.
type recordingPublisher struct {
	mu     sync.Mutex
	events []interfaces.SynthesisEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event interfaces.SynthesisEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	service   *Service
	store     *barstore.Store
	registry  *infrainstruments.Registry
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	clock, err := calendar.New()
	require.NoError(t, err)

	registry := infrainstruments.NewStaticRegistry()
	store := barstore.NewStore(t.TempDir(), "dukascopy", logger)
	engine := synthesizer.NewEngine(clock, logger)
	resolver := synthesizer.NewResolver(registry, store, logger)
	publisher := &recordingPublisher{}
	return &fixture{
		service:   NewService(registry, store, engine, resolver, publisher, 2, logger),
		store:     store,
		registry:  registry,
		publisher: publisher,
	}
}

func (f *fixture) writeFlatDay(t *testing.T, symbol string, day time.Time, value float64) {
	t.Helper()
	instrument, err := f.registry.Instrument(symbol)
	require.NoError(t, err)

	points := bars.PriceToPoints(value, instrument.PointSize)
	series := make(bars.DaySeries, bars.MinutesPerDay)
	start := day.Unix()
	for i := range series {
		series[i] = bars.PointBar{
			Time: start + int64(i)*60,
			Open: points, High: points, Low: points, Close: points,
			Ticks: 1,
		}
	}
	require.NoError(t, f.store.SaveDay(instrument, series))
}

var usdlfxComponents = []string{"AUDUSD", "EURUSD", "GBPUSD", "USDCAD", "USDCHF", "USDJPY"}

func TestService_SynthesizeRange(t *testing.T) {
	f := newFixture(t)
	tuesday := time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)
	for _, symbol := range usdlfxComponents {
		f.writeFlatDay(t, symbol, tuesday, 1.0)
	}

	summary, err := f.service.SynthesizeRange(context.Background(), []string{"USDLFX"}, tuesday, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Synthesized)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	// The derived day must exist and round-trip with the expected values.
	usdlfx, err := f.registry.Instrument("USDLFX")
	require.NoError(t, err)
	series, err := f.store.LoadDay(usdlfx, tuesday)
	require.NoError(t, err)
	require.Len(t, series, bars.MinutesPerDay)
	for _, bar := range series {
		assert.Equal(t, uint32(100000), bar.Open)
		assert.Equal(t, bar.Open, bar.Close)
		assert.Equal(t, bar.Open, bar.High)
		assert.Equal(t, bar.Open, bar.Low)
		assert.Equal(t, uint32(1), bar.Ticks)
	}

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, summary.RunID, event.RunID)
	assert.Equal(t, "USDLFX", event.Symbol)
	assert.Equal(t, "2023-08-15", event.Day)
	assert.Equal(t, bars.MinutesPerDay, event.Bars)
}

func TestService_SkipsWeekend(t *testing.T) {
	f := newFixture(t)
	saturday := time.Date(2023, 8, 19, 0, 0, 0, 0, time.UTC)
	for _, symbol := range usdlfxComponents {
		f.writeFlatDay(t, symbol, saturday, 1.0)
	}

	summary, err := f.service.SynthesizeRange(context.Background(), []string{"USDLFX"}, saturday, saturday)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Synthesized)
	assert.Equal(t, 1, summary.Skipped)

	usdlfx, err := f.registry.Instrument("USDLFX")
	require.NoError(t, err)
	assert.False(t, f.store.HasDay(usdlfx, saturday))
}

func TestService_SkipsDayWithMissingComponent(t *testing.T) {
	f := newFixture(t)
	tuesday := time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)
	// USDJPY is deliberately absent.
	for _, symbol := range []string{"AUDUSD", "EURUSD", "GBPUSD", "USDCAD", "USDCHF"} {
		f.writeFlatDay(t, symbol, tuesday, 1.0)
	}

	summary, err := f.service.SynthesizeRange(context.Background(), []string{"USDLFX"}, tuesday, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Synthesized)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	usdlfx, err := f.registry.Instrument("USDLFX")
	require.NoError(t, err)
	assert.False(t, f.store.HasDay(usdlfx, tuesday))
	assert.Empty(t, f.publisher.events)
}

func TestService_SinglePassResolvesCrossSymbolDependencies(t *testing.T) {
	f := newFixture(t)
	tuesday := time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)
	for _, symbol := range usdlfxComponents {
		f.writeFlatDay(t, symbol, tuesday, 1.0)
	}

	// AUDLFX's fast variant reads USDLFX's synthesized file; listing the
	// consumer first must not matter, one pass produces both.
	summary, err := f.service.SynthesizeRange(context.Background(), []string{"AUDLFX", "USDLFX"}, tuesday, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Synthesized)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	for _, symbol := range []string{"USDLFX", "AUDLFX"} {
		instrument, err := f.registry.Instrument(symbol)
		require.NoError(t, err)
		assert.True(t, f.store.HasDay(instrument, tuesday), symbol)
	}
}

func TestDependencyTiers(t *testing.T) {
	tierOf := func(tiers [][]string, symbol string) int {
		for i, tier := range tiers {
			for _, s := range tier {
				if s == symbol {
					return i
				}
			}
		}
		return -1
	}

	t.Run("producers precede consumers", func(t *testing.T) {
		tiers := dependencyTiers([]string{"AUDFX6", "AUDLFX", "USDLFX"})
		require.Len(t, tiers, 3)
		assert.Less(t, tierOf(tiers, "USDLFX"), tierOf(tiers, "AUDLFX"))
		assert.Less(t, tierOf(tiers, "AUDLFX"), tierOf(tiers, "AUDFX6"))
	})

	t.Run("independent symbols share one tier", func(t *testing.T) {
		tiers := dependencyTiers([]string{"EURX", "USDX"})
		require.Len(t, tiers, 1)
		assert.ElementsMatch(t, []string{"EURX", "USDX"}, tiers[0])
	})

	t.Run("full definition set keeps every symbol", func(t *testing.T) {
		var symbols []string
		for _, def := range synthesizer.Definitions() {
			symbols = append(symbols, def.Symbol)
		}
		tiers := dependencyTiers(symbols)
		var flattened []string
		for _, tier := range tiers {
			flattened = append(flattened, tier...)
		}
		assert.ElementsMatch(t, symbols, flattened)
		assert.Equal(t, 0, tierOf(tiers, "USDLFX"))
	})

	t.Run("unknown symbols land in the first tier", func(t *testing.T) {
		tiers := dependencyTiers([]string{"EURUSD"})
		require.Len(t, tiers, 1)
		assert.Equal(t, []string{"EURUSD"}, tiers[0])
	})
}

func TestService_FastVariantConsumesSynthesizedIndex(t *testing.T) {
	f := newFixture(t)
	tuesday := time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)
	for _, symbol := range usdlfxComponents {
		f.writeFlatDay(t, symbol, tuesday, 1.0)
	}
	f.writeFlatDay(t, "AUDUSD", tuesday, 1.0) // already present, kept for clarity

	// First derive USDLFX, then AUDLFX from it via the fast variant.
	summary, err := f.service.SynthesizeRange(context.Background(), []string{"USDLFX"}, tuesday, tuesday)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Synthesized)

	summary, err = f.service.SynthesizeRange(context.Background(), []string{"AUDLFX"}, tuesday, tuesday)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Synthesized)

	audlfx, err := f.registry.Instrument("AUDLFX")
	require.NoError(t, err)
	series, err := f.store.LoadDay(audlfx, tuesday)
	require.NoError(t, err)
	require.Len(t, series, bars.MinutesPerDay)
	assert.Equal(t, uint32(100000), series[0].Open)
}

func TestService_UnknownSymbolFails(t *testing.T) {
	f := newFixture(t)
	tuesday := time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.service.SynthesizeRange(context.Background(), []string{"EURUSD"}, tuesday, tuesday)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no formula definition")
}
