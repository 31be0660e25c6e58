package synthesizer

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
)

// fakeCalendar treats FXT == Unix and knows no holidays.
type fakeCalendar struct{}

func (fakeCalendar) ToFXT(t int64) int64  { return t }
func (fakeCalendar) ToUnix(t int64) int64 { return t }
func (fakeCalendar) IsWeekend(t int64) bool {
	switch time.Unix(t, 0).UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}
func (fakeCalendar) IsHoliday(int64) bool       { return false }
func (c fakeCalendar) IsTradingDay(t int64) bool { return !c.IsWeekend(t) }

var (
	tuesday  = time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2023, 8, 19, 0, 0, 0, 0, time.UTC)

	lfxInstrument = domain.Instrument{
		Symbol:    "USDLFX",
		Type:      domain.TypeSynthetic,
		PointSize: 0.00001,
		Digits:    5,
	}
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func flatPrices(day time.Time, value float64) []bars.PriceBar {
	prices := make([]bars.PriceBar, bars.MinutesPerDay)
	start := day.Unix()
	for i := range prices {
		prices[i] = bars.PriceBar{
			Time: start + int64(i)*60,
			Open: value, High: value, Low: value, Close: value,
			Ticks: 1,
		}
	}
	return prices
}

func usdlfxFormula(t *testing.T) Formula {
	t.Helper()
	def, ok := DefinitionFor("USDLFX")
	require.True(t, ok)
	return def.Variants[0].Formula
}

func TestEngine_CalculateFlatDay(t *testing.T) {
	engine := NewEngine(fakeCalendar{}, quietLogger())
	formula := usdlfxFormula(t)

	components := make(map[string][]bars.PriceBar)
	for _, symbol := range formula.Components() {
		components[symbol] = flatPrices(tuesday, 1.0)
	}

	series, err := engine.Calculate(lfxInstrument, formula, tuesday, components)
	require.NoError(t, err)
	require.Len(t, series, bars.MinutesPerDay)
	require.NoError(t, series.Validate())

	start := tuesday.Unix()
	for i, bar := range series {
		assert.Equal(t, start+int64(i)*60, bar.Time)
		assert.Equal(t, uint32(100000), bar.Open)
		assert.Equal(t, uint32(100000), bar.Close)
		assert.Equal(t, bar.Open, bar.High)
		assert.Equal(t, bar.Open, bar.Low)
		assert.Equal(t, uint32(1), bar.Ticks)
	}
}

func TestEngine_HighLowTicksDerivation(t *testing.T) {
	engine := NewEngine(fakeCalendar{}, quietLogger())
	formula := Formula{Scale: 1, Exponents: map[string]float64{"EURUSD": 1}}

	prices := flatPrices(tuesday, 1.0)
	prices[0].Open = 1.00000
	prices[0].Close = 1.00010 // rising bar
	prices[1].Open = 1.00050
	prices[1].Close = 1.00020 // falling bar

	series, err := engine.Calculate(lfxInstrument, formula, tuesday, map[string][]bars.PriceBar{"EURUSD": prices})
	require.NoError(t, err)

	t.Run("rising bar", func(t *testing.T) {
		bar := series[0]
		assert.Equal(t, uint32(100000), bar.Open)
		assert.Equal(t, uint32(100010), bar.Close)
		assert.Equal(t, uint32(100010), bar.High)
		assert.Equal(t, uint32(100000), bar.Low)
		assert.Equal(t, uint32(20), bar.Ticks)
	})

	t.Run("falling bar", func(t *testing.T) {
		bar := series[1]
		assert.Equal(t, uint32(100050), bar.Open)
		assert.Equal(t, uint32(100020), bar.Close)
		assert.Equal(t, uint32(100050), bar.High)
		assert.Equal(t, uint32(100020), bar.Low)
		assert.Equal(t, uint32(60), bar.Ticks)
	})

	t.Run("flat bars tick once", func(t *testing.T) {
		for _, bar := range series[2:] {
			assert.Equal(t, uint32(1), bar.Ticks)
		}
	})

	t.Run("wick-free invariant", func(t *testing.T) {
		for _, bar := range series {
			assert.Equal(t, maxPoints(bar.Open, bar.Close), bar.High)
			assert.Equal(t, minPoints(bar.Open, bar.Close), bar.Low)
			assert.GreaterOrEqual(t, bar.High, bar.Low)
		}
	})
}

func TestEngine_SkipsNonTradingDay(t *testing.T) {
	engine := NewEngine(fakeCalendar{}, quietLogger())
	formula := usdlfxFormula(t)

	components := make(map[string][]bars.PriceBar)
	for _, symbol := range formula.Components() {
		components[symbol] = flatPrices(saturday, 1.0)
	}

	series, err := engine.Calculate(lfxInstrument, formula, saturday, components)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestEngine_RejectsBrokenInput(t *testing.T) {
	engine := NewEngine(fakeCalendar{}, quietLogger())
	formula := usdlfxFormula(t)

	t.Run("missing component", func(t *testing.T) {
		components := map[string][]bars.PriceBar{"EURUSD": flatPrices(tuesday, 1.0)}
		_, err := engine.Calculate(lfxInstrument, formula, tuesday, components)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("misaligned component", func(t *testing.T) {
		components := make(map[string][]bars.PriceBar)
		for _, symbol := range formula.Components() {
			components[symbol] = flatPrices(tuesday, 1.0)
		}
		components["USDJPY"] = components["USDJPY"][:100]
		_, err := engine.Calculate(lfxInstrument, formula, tuesday, components)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "USDJPY")
	})
}

func TestEngine_RoundsToTargetDigits(t *testing.T) {
	engine := NewEngine(fakeCalendar{}, quietLogger())
	formula := usdlfxFormula(t)

	components := make(map[string][]bars.PriceBar)
	components["USDCAD"] = flatPrices(tuesday, 1.35)
	components["USDCHF"] = flatPrices(tuesday, 0.88)
	components["USDJPY"] = flatPrices(tuesday, 145.5)
	components["AUDUSD"] = flatPrices(tuesday, 0.65)
	components["EURUSD"] = flatPrices(tuesday, 1.09)
	components["GBPUSD"] = flatPrices(tuesday, 1.27)

	series, err := engine.Calculate(lfxInstrument, formula, tuesday, components)
	require.NoError(t, err)

	want := lfxInstrument.Round(formula.Eval(map[string]float64{
		"USDCAD": 1.35, "USDCHF": 0.88, "USDJPY": 145.5,
		"AUDUSD": 0.65, "EURUSD": 1.09, "GBPUSD": 1.27,
	}))
	wantPoints := bars.PriceToPoints(want, lfxInstrument.PointSize)
	assert.Equal(t, wantPoints, series[0].Open)
	assert.Equal(t, wantPoints, series[0].Close)
}
