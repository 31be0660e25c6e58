package synthesizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
	"github.com/rosasurfer/fx-history-tools/internal/domain/interfaces"
)

// ErrNoUsableVariant is returned when no declared variant of a definition has
// the required component history for the requested day.
var ErrNoUsableVariant = errors.New("no usable formula variant")

// Resolver picks a formula variant for a (symbol, day) and supplies the raw
// component bars backing it.
type Resolver struct {
	registry interfaces.InstrumentsRegistry
	store    interfaces.BarRepository
	logger   *logrus.Entry
}

// NewResolver wires the resolver to the metadata registry and the bar store.
func NewResolver(registry interfaces.InstrumentsRegistry, store interfaces.BarRepository, logger *logrus.Logger) *Resolver {
	return &Resolver{
		registry: registry,
		store:    store,
		logger:   logger.WithField("component", "resolver"),
	}
}

// ResolveVariant returns the first declared variant whose components all have
// a known history start at or before the requested day. Availability of the
// actual day files is checked later by LoadComponentsHistory; a failed load
// skips the day rather than retrying the next variant.
func (r *Resolver) ResolveVariant(def Definition, day time.Time) (Variant, error) {
	for _, variant := range def.Variants {
		usable := true
		for _, symbol := range variant.Formula.Components() {
			instrument, err := r.registry.Instrument(symbol)
			if err != nil {
				return Variant{}, fmt.Errorf("%s variant %s: %w", def.Symbol, variant.Name, err)
			}
			if instrument.HistoryStart.IsZero() || instrument.HistoryStart.After(day) {
				usable = false
				break
			}
		}
		if usable {
			return variant, nil
		}
	}
	return Variant{}, fmt.Errorf("%s on %s: %w", def.Symbol, day.Format("2006-01-02"), ErrNoUsableVariant)
}

// CommonHistoryStart returns the earliest day for which every component has
// data: the maximum of the per-component history starts. The second return is
// false when any component lacks a known start.
func (r *Resolver) CommonHistoryStart(symbols []string) (time.Time, bool) {
	var start time.Time
	for _, symbol := range symbols {
		instrument, err := r.registry.Instrument(symbol)
		if err != nil || instrument.HistoryStart.IsZero() {
			return time.Time{}, false
		}
		if instrument.HistoryStart.After(start) {
			start = instrument.HistoryStart
		}
	}
	return start, true
}

// LoadComponentsHistory loads the given day for every component, as decimal
// bars. All or nothing: when any component is missing that day (a non-trading
// day for that instrument, or a gap), the result is empty and the day is
// skipped entirely rather than partially computed.
func (r *Resolver) LoadComponentsHistory(symbols []string, day time.Time) (map[string][]bars.PriceBar, error) {
	loaded := make(map[string][]bars.PriceBar, len(symbols))
	for _, symbol := range symbols {
		instrument, err := r.registry.Instrument(symbol)
		if err != nil {
			return nil, fmt.Errorf("load components for %s: %w", day.Format("2006-01-02"), err)
		}
		prices, err := r.store.LoadDayPrices(instrument, day)
		if err != nil {
			return nil, err
		}
		if len(prices) == 0 {
			r.logger.WithFields(logrus.Fields{
				"component": symbol,
				"day":       day.Format("2006-01-02"),
			}).Info("component day missing, skipping")
			return nil, nil
		}
		loaded[symbol] = prices
	}
	return loaded, nil
}
