package interfaces

import (
	"context"
	"time"

	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
)

// BarRepository persists and retrieves one day of M1 bars per instrument.
// A missing day is not an error: LoadDay returns an empty series for it.
type BarRepository interface {
	SaveDay(instrument domain.Instrument, series bars.DaySeries) error
	LoadDay(instrument domain.Instrument, day time.Time) (bars.DaySeries, error)
	LoadDayPrices(instrument domain.Instrument, day time.Time) ([]bars.PriceBar, error)
	HasDay(instrument domain.Instrument, day time.Time) bool
}

// TradingCalendar is the FXT clock collaborator: conversion between Unix and
// FXT timestamps plus trading-day checks.
type TradingCalendar interface {
	ToFXT(unixTime int64) int64
	ToUnix(fxTime int64) int64
	IsTradingDay(fxTime int64) bool
	IsWeekend(fxTime int64) bool
	IsHoliday(fxTime int64) bool
}

// SynthesisEvent announces one completed (symbol, day) synthesis.
type SynthesisEvent struct {
	RunID   string    `json:"run_id"`
	Symbol  string    `json:"symbol"`
	Day     string    `json:"day"`
	Bars    int       `json:"bars"`
	Elapsed float64   `json:"elapsed_seconds"`
	At      time.Time `json:"at"`
}

// SynthesisPublisher notifies downstream consumers about finished days.
type SynthesisPublisher interface {
	Publish(ctx context.Context, event SynthesisEvent) error
	Close() error
}
