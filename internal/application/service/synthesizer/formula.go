package synthesizer

import (
	"math"
	"sort"

	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
)

// Formula is a pure algebraic expression over component prices: a scale
// constant times the product of each component raised to its exponent.
// Rational exponents like 1/7 or 7/6 come from the number of cross rates
// composing a basket; the ICE replicas use fixed empirical weights.
type Formula struct {
	Scale     float64
	Exponents map[string]float64
}

// Components returns the component symbols in deterministic order.
func (f Formula) Components() []string {
	symbols := make([]string, 0, len(f.Exponents))
	for symbol := range f.Exponents {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Eval substitutes one price per component and evaluates the expression.
// Factors multiply in sorted component order: float multiplication is not
// associative, and map iteration order would make repeated evaluations of the
// same inputs disagree in the last bits.
func (f Formula) Eval(prices map[string]float64) float64 {
	value := f.Scale
	for _, symbol := range f.Components() {
		value *= math.Pow(prices[symbol], f.Exponents[symbol])
	}
	return value
}

// Variant is one way to compute a synthetic instrument. Variants are declared
// fastest first: "fast" derives from an already-synthesized index plus one
// pair, "crosses" recomputes from raw cross rates.
type Variant struct {
	Name    string
	Formula Formula
}

// Definition binds a synthetic symbol to its ordered formula variants.
type Definition struct {
	Symbol   string
	Variants []Variant
}

// Groups returns the definition's component lists as declared groups.
func (d Definition) Groups() []domain.ComponentGroup {
	groups := make([]domain.ComponentGroup, len(d.Variants))
	for i, v := range d.Variants {
		groups[i] = domain.ComponentGroup{Name: v.Name, Symbols: v.Formula.Components()}
	}
	return groups
}

const (
	sixth   = 1.0 / 6
	seventh = 1.0 / 7
)

func exp(pairs map[string]float64) Formula {
	return Formula{Scale: 1, Exponents: pairs}
}

func scaled(scale float64, pairs map[string]float64) Formula {
	return Formula{Scale: scale, Exponents: pairs}
}

// definitions is the full formula table. One engine evaluates all of them;
// each instrument contributes only its declarative entry here.
var definitions = []Definition{
	// LFX family: scaled-down FX6 baskets, quoted via USDLFX where possible.
	{Symbol: "USDLFX", Variants: []Variant{
		{Name: "majors", Formula: exp(map[string]float64{
			"USDCAD": seventh, "USDCHF": seventh, "USDJPY": seventh,
			"AUDUSD": -seventh, "EURUSD": -seventh, "GBPUSD": -seventh,
		})},
	}},
	{Symbol: "AUDLFX", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"USDLFX": 1, "AUDUSD": 1})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"AUDCAD": seventh, "AUDCHF": seventh, "AUDJPY": seventh, "AUDUSD": seventh,
			"EURAUD": -seventh, "GBPAUD": -seventh,
		})},
	}},
	{Symbol: "CADLFX", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"USDLFX": 1, "USDCAD": -1})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"CADCHF": seventh, "CADJPY": seventh,
			"AUDCAD": -seventh, "EURCAD": -seventh, "GBPCAD": -seventh, "USDCAD": -seventh,
		})},
	}},
	{Symbol: "CHFLFX", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"USDLFX": 1, "USDCHF": -1})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"CHFJPY": seventh,
			"AUDCHF": -seventh, "CADCHF": -seventh, "EURCHF": -seventh, "GBPCHF": -seventh, "USDCHF": -seventh,
		})},
	}},
	{Symbol: "EURLFX", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"USDLFX": 1, "EURUSD": 1})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"EURAUD": seventh, "EURCAD": seventh, "EURCHF": seventh,
			"EURGBP": seventh, "EURJPY": seventh, "EURUSD": seventh,
		})},
	}},
	{Symbol: "GBPLFX", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"USDLFX": 1, "GBPUSD": 1})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"GBPAUD": seventh, "GBPCAD": seventh, "GBPCHF": seventh, "GBPJPY": seventh, "GBPUSD": seventh,
			"EURGBP": -seventh,
		})},
	}},
	// LFXJPY is quoted in JPY terms and scaled x100 because JPY's nominal
	// value is small.
	{Symbol: "LFXJPY", Variants: []Variant{
		{Name: "fast", Formula: scaled(100, map[string]float64{"USDJPY": 1, "USDLFX": -1})},
		{Name: "crosses", Formula: scaled(100, map[string]float64{
			"AUDJPY": seventh, "CADJPY": seventh, "CHFJPY": seventh,
			"EURJPY": seventh, "GBPJPY": seventh, "USDJPY": seventh,
		})},
	}},
	{Symbol: "NZDLFX", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"USDLFX": 1, "NZDUSD": 1})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"NZDCAD": seventh, "NZDCHF": seventh, "NZDJPY": seventh, "NZDUSD": seventh,
			"AUDNZD": -seventh, "EURNZD": -seventh, "GBPNZD": -seventh,
		})},
	}},

	// FX6 indices: equally weighted geometric baskets of six crosses. The
	// fast variants raise the matching LFX index to 7/6, undoing its 1/7
	// scaling.
	{Symbol: "AUDFX6", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"AUDLFX": 7.0 / 6})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"AUDCAD": sixth, "AUDCHF": sixth, "AUDJPY": sixth, "AUDUSD": sixth,
			"EURAUD": -sixth, "GBPAUD": -sixth,
		})},
	}},
	{Symbol: "CADFX6", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"CADLFX": 7.0 / 6})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"CADCHF": sixth, "CADJPY": sixth,
			"AUDCAD": -sixth, "EURCAD": -sixth, "GBPCAD": -sixth, "USDCAD": -sixth,
		})},
	}},
	{Symbol: "CHFFX6", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"CHFLFX": 7.0 / 6})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"CHFJPY": sixth,
			"AUDCHF": -sixth, "CADCHF": -sixth, "EURCHF": -sixth, "GBPCHF": -sixth, "USDCHF": -sixth,
		})},
	}},
	{Symbol: "EURFX6", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"EURLFX": 7.0 / 6})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"EURAUD": sixth, "EURCAD": sixth, "EURCHF": sixth,
			"EURGBP": sixth, "EURJPY": sixth, "EURUSD": sixth,
		})},
	}},
	{Symbol: "GBPFX6", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"GBPLFX": 7.0 / 6})},
		{Name: "crosses", Formula: exp(map[string]float64{
			"GBPAUD": sixth, "GBPCAD": sixth, "GBPCHF": sixth, "GBPJPY": sixth, "GBPUSD": sixth,
			"EURGBP": -sixth,
		})},
	}},
	{Symbol: "JPYFX6", Variants: []Variant{
		{Name: "fast", Formula: scaled(100, map[string]float64{"USDJPY": 7.0 / 6, "USDLFX": -7.0 / 6})},
		{Name: "crosses", Formula: scaled(100, map[string]float64{
			"AUDJPY": sixth, "CADJPY": sixth, "CHFJPY": sixth,
			"EURJPY": sixth, "GBPJPY": sixth, "USDJPY": sixth,
		})},
	}},
	{Symbol: "USDFX6", Variants: []Variant{
		{Name: "fast", Formula: exp(map[string]float64{"USDLFX": 7.0 / 6})},
		{Name: "majors", Formula: exp(map[string]float64{
			"USDCAD": sixth, "USDCHF": sixth, "USDJPY": sixth,
			"AUDUSD": -sixth, "EURUSD": -sixth, "GBPUSD": -sixth,
		})},
	}},

	// FX7 indices: seven-cross baskets including NZD.
	{Symbol: "AUDFX7", Variants: []Variant{
		{Name: "crosses", Formula: exp(map[string]float64{
			"AUDCAD": seventh, "AUDCHF": seventh, "AUDJPY": seventh, "AUDNZD": seventh, "AUDUSD": seventh,
			"EURAUD": -seventh, "GBPAUD": -seventh,
		})},
	}},
	{Symbol: "CADFX7", Variants: []Variant{
		{Name: "crosses", Formula: exp(map[string]float64{
			"CADCHF": seventh, "CADJPY": seventh,
			"AUDCAD": -seventh, "EURCAD": -seventh, "GBPCAD": -seventh, "NZDCAD": -seventh, "USDCAD": -seventh,
		})},
	}},
	{Symbol: "CHFFX7", Variants: []Variant{
		{Name: "crosses", Formula: exp(map[string]float64{
			"CHFJPY": seventh,
			"AUDCHF": -seventh, "CADCHF": -seventh, "EURCHF": -seventh,
			"GBPCHF": -seventh, "NZDCHF": -seventh, "USDCHF": -seventh,
		})},
	}},
	{Symbol: "EURFX7", Variants: []Variant{
		{Name: "crosses", Formula: exp(map[string]float64{
			"EURAUD": seventh, "EURCAD": seventh, "EURCHF": seventh, "EURGBP": seventh,
			"EURJPY": seventh, "EURNZD": seventh, "EURUSD": seventh,
		})},
	}},
	{Symbol: "GBPFX7", Variants: []Variant{
		{Name: "crosses", Formula: exp(map[string]float64{
			"GBPAUD": seventh, "GBPCAD": seventh, "GBPCHF": seventh,
			"GBPJPY": seventh, "GBPNZD": seventh, "GBPUSD": seventh,
			"EURGBP": -seventh,
		})},
	}},
	{Symbol: "JPYFX7", Variants: []Variant{
		{Name: "crosses", Formula: scaled(100, map[string]float64{
			"AUDJPY": seventh, "CADJPY": seventh, "CHFJPY": seventh, "EURJPY": seventh,
			"GBPJPY": seventh, "NZDJPY": seventh, "USDJPY": seventh,
		})},
	}},
	{Symbol: "NZDFX7", Variants: []Variant{
		{Name: "crosses", Formula: exp(map[string]float64{
			"NZDCAD": seventh, "NZDCHF": seventh, "NZDJPY": seventh, "NZDUSD": seventh,
			"AUDNZD": -seventh, "EURNZD": -seventh, "GBPNZD": -seventh,
		})},
	}},
	{Symbol: "USDFX7", Variants: []Variant{
		{Name: "majors", Formula: exp(map[string]float64{
			"USDCAD": seventh, "USDCHF": seventh, "USDJPY": seventh,
			"AUDUSD": -seventh, "EURUSD": -seventh, "GBPUSD": -seventh, "NZDUSD": -seventh,
		})},
	}},

	// ICE index replicas with fixed empirical weights.
	{Symbol: "EURX", Variants: []Variant{
		{Name: "ice", Formula: scaled(34.38805726, map[string]float64{
			"EURUSD": 1, "USDCHF": 0.1113, "USDJPY": 0.1891, "USDSEK": 0.0785, "GBPUSD": -0.3056,
		})},
	}},
	{Symbol: "USDX", Variants: []Variant{
		{Name: "ice", Formula: scaled(50.14348112, map[string]float64{
			"EURUSD": -0.576, "USDJPY": 0.136, "GBPUSD": -0.119,
			"USDCAD": 0.091, "USDSEK": 0.042, "USDCHF": 0.036,
		})},
	}},
}

// Definitions returns the complete formula table.
func Definitions() []Definition {
	return definitions
}

// DefinitionFor looks up the formula definition of a synthetic symbol.
func DefinitionFor(symbol string) (Definition, bool) {
	for _, def := range definitions {
		if def.Symbol == symbol {
			return def, true
		}
	}
	return Definition{}, false
}
