package instruments

import (
	"time"

	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
)

// Seed returns the built-in instrument metadata table. History starts mark
// the first day with available M1 data per symbol; synthetic starts are the
// latest start among their components.
func Seed() []domain.Instrument {
	seed := make([]domain.Instrument, 0, 64)

	add := func(symbol string, typ domain.InstrumentType, digits int, start string) {
		pointSize := 1.0
		for i := 0; i < digits; i++ {
			pointSize /= 10
		}
		instrument := domain.Instrument{
			Symbol:    symbol,
			Type:      typ,
			PointSize: pointSize,
			Digits:    digits,
		}
		if start != "" {
			day, err := time.Parse("2006-01-02", start)
			if err != nil {
				panic("instruments: bad seed date for " + symbol + ": " + start)
			}
			instrument.HistoryStart = day.UTC()
		}
		seed = append(seed, instrument)
	}

	forex := func(symbol string, digits int, start string) {
		add(symbol, domain.TypeForex, digits, start)
	}
	synthetic := func(symbol string, digits int, start string) {
		add(symbol, domain.TypeSynthetic, digits, start)
	}
	index := func(symbol string, digits int, start string) {
		add(symbol, domain.TypeIndex, digits, start)
	}

	// Majors.
	forex("AUDUSD", 5, "2003-08-03")
	forex("EURUSD", 5, "2003-08-03")
	forex("GBPUSD", 5, "2003-08-03")
	forex("NZDUSD", 5, "2003-08-03")
	forex("USDCAD", 5, "2003-08-03")
	forex("USDCHF", 5, "2003-08-03")
	forex("USDJPY", 3, "2003-08-03")
	forex("USDSEK", 5, "2003-08-03")

	// Crosses.
	forex("AUDCAD", 5, "2005-12-26")
	forex("AUDCHF", 5, "2005-12-26")
	forex("AUDJPY", 3, "2003-11-30")
	forex("AUDNZD", 5, "2008-12-22")
	forex("CADCHF", 5, "2005-12-26")
	forex("CADJPY", 3, "2004-10-20")
	forex("CHFJPY", 3, "2003-08-03")
	forex("EURAUD", 5, "2005-10-02")
	forex("EURCAD", 5, "2004-10-20")
	forex("EURCHF", 5, "2003-08-03")
	forex("EURGBP", 5, "2003-08-03")
	forex("EURJPY", 3, "2003-08-03")
	forex("EURNZD", 5, "2005-12-26")
	forex("GBPAUD", 5, "2006-01-01")
	forex("GBPCAD", 5, "2006-01-01")
	forex("GBPCHF", 5, "2003-08-03")
	forex("GBPJPY", 3, "2003-08-03")
	forex("GBPNZD", 5, "2006-01-01")
	forex("NZDCAD", 5, "2006-01-01")
	forex("NZDCHF", 5, "2006-01-01")
	forex("NZDJPY", 3, "2006-01-01")

	// Metals.
	add("XAUUSD", domain.TypeMetals, 3, "2003-05-05")
	add("XAGUSD", domain.TypeMetals, 3, "2003-05-05")

	// Synthetic currency strength indices.
	synthetic("USDLFX", 5, "2003-08-03")
	synthetic("AUDLFX", 5, "2003-08-03")
	synthetic("CADLFX", 5, "2003-08-03")
	synthetic("CHFLFX", 5, "2003-08-03")
	synthetic("EURLFX", 5, "2003-08-03")
	synthetic("GBPLFX", 5, "2003-08-03")
	synthetic("LFXJPY", 3, "2003-08-03")
	synthetic("NZDLFX", 5, "2003-08-03")

	synthetic("AUDFX6", 5, "2003-08-03")
	synthetic("CADFX6", 5, "2003-08-03")
	synthetic("CHFFX6", 5, "2003-08-03")
	synthetic("EURFX6", 5, "2003-08-03")
	synthetic("GBPFX6", 5, "2003-08-03")
	synthetic("JPYFX6", 3, "2003-08-03")
	synthetic("USDFX6", 5, "2003-08-03")

	synthetic("AUDFX7", 5, "2008-12-22")
	synthetic("CADFX7", 5, "2008-12-22")
	synthetic("CHFFX7", 5, "2008-12-22")
	synthetic("EURFX7", 5, "2005-12-26")
	synthetic("GBPFX7", 5, "2006-01-01")
	synthetic("JPYFX7", 3, "2006-01-01")
	synthetic("NZDFX7", 5, "2008-12-22")
	synthetic("USDFX7", 5, "2003-08-03")

	// ICE index replicas.
	index("EURX", 3, "2003-08-03")
	index("USDX", 3, "2003-08-03")

	return seed
}
