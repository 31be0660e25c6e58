package synthesizer

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
	"github.com/rosasurfer/fx-history-tools/internal/domain/interfaces"
)

// Engine evaluates formula definitions minute by minute. It is stateless: one
// call per (symbol, day), the same evaluator for every instrument in the
// table.
type Engine struct {
	calendar interfaces.TradingCalendar
	logger   *logrus.Entry
}

// NewEngine creates the shared formula evaluator.
func NewEngine(calendar interfaces.TradingCalendar, logger *logrus.Logger) *Engine {
	return &Engine{
		calendar: calendar,
		logger:   logger.WithField("component", "synthesizer"),
	}
}

// Calculate derives one day of the target instrument from aligned component
// days. Non-trading days for the target return an empty series, not an error.
//
// Open and close are computed independently from the formula and rounded to
// the target's digits. High and low are not independently derivable from
// component opens and closes, so high = max(open, close) and low = min(open,
// close), compared in point space. Ticks are 1 for a flat bar, otherwise
// twice the absolute open/close point delta.
func (e *Engine) Calculate(target domain.Instrument, formula Formula, day time.Time, components map[string][]bars.PriceBar) (bars.DaySeries, error) {
	dayStart := day.Unix()
	if !e.calendar.IsTradingDay(dayStart) {
		e.logger.WithFields(logrus.Fields{
			"symbol": target.Symbol,
			"day":    day.Format("2006-01-02"),
		}).Debug("skipping non-trading day")
		return nil, nil
	}

	symbols := formula.Components()
	for _, symbol := range symbols {
		comp, ok := components[symbol]
		if !ok {
			return nil, fmt.Errorf("%s %s: component %s missing", target.Symbol, day.Format("2006-01-02"), symbol)
		}
		if len(comp) != bars.MinutesPerDay {
			return nil, fmt.Errorf("%s %s: component %s has %d bars, expected %d",
				target.Symbol, day.Format("2006-01-02"), symbol, len(comp), bars.MinutesPerDay)
		}
	}

	opens := make(map[string]float64, len(symbols))
	closes := make(map[string]float64, len(symbols))
	result := make(bars.DaySeries, bars.MinutesPerDay)
	for i := 0; i < bars.MinutesPerDay; i++ {
		for _, symbol := range symbols {
			opens[symbol] = components[symbol][i].Open
			closes[symbol] = components[symbol][i].Close
		}
		open := target.Round(formula.Eval(opens))
		closePrice := target.Round(formula.Eval(closes))
		openPts := bars.PriceToPoints(open, target.PointSize)
		closePts := bars.PriceToPoints(closePrice, target.PointSize)

		bar := bars.PointBar{
			Time:  dayStart + int64(i)*60,
			Open:  openPts,
			High:  maxPoints(openPts, closePts),
			Low:   minPoints(openPts, closePts),
			Close: closePts,
		}
		if openPts == closePts {
			bar.Ticks = 1
		} else {
			bar.Ticks = 2 * absDelta(openPts, closePts)
		}
		result[i] = bar
	}
	return result, nil
}

func maxPoints(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func minPoints(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func absDelta(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
