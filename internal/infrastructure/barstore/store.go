package barstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
)

const (
	rawFileName        = "M1.bin"
	compressedFileName = "M1.bin.rar"
)

// Store reads and writes one calendar day of M1 bars per instrument under
// {dataRoot}/history/{provider}/{type}/{symbol}/{YYYY}/{MM}/{DD}/M1.bin.
type Store struct {
	dataRoot string
	provider string
	logger   *logrus.Entry
}

// NewStore creates a file-backed bar store.
func NewStore(dataRoot, provider string, logger *logrus.Logger) *Store {
	return &Store{
		dataRoot: dataRoot,
		provider: provider,
		logger:   logger.WithField("component", "barstore"),
	}
}

// DirFor returns the storage directory for one (instrument, day).
func (s *Store) DirFor(instrument domain.Instrument, day time.Time) string {
	return filepath.Join(
		s.dataRoot,
		"history",
		s.provider,
		instrument.Type.String(),
		instrument.Symbol,
		day.Format("2006"),
		day.Format("01"),
		day.Format("02"),
	)
}

// PathFor returns the canonical M1 file path for one (instrument, day).
func (s *Store) PathFor(instrument domain.Instrument, day time.Time) string {
	return filepath.Join(s.DirFor(instrument, day), rawFileName)
}

// SaveDay validates and persists a full day of point bars. All preconditions
// are checked before any file I/O happens; the file itself is written to a
// temp file in the destination directory and atomically renamed over M1.bin,
// so a concurrent reader never observes a partial file.
func (s *Store) SaveDay(instrument domain.Instrument, series bars.DaySeries) error {
	if err := series.Validate(); err != nil {
		return &ValidationError{Symbol: instrument.Symbol, Reason: err}
	}
	for _, b := range series {
		if err := b.Validate(); err != nil {
			return &DataError{Symbol: instrument.Symbol, Bar: b, Reason: err}
		}
	}

	day := time.Unix(series.Day(), 0).UTC()
	dir := s.DirFor(instrument, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, name := range []string{rawFileName, compressedFileName} {
		stale := filepath.Join(dir, name)
		if _, err := os.Stat(stale); err != nil {
			continue
		}
		if err := os.Remove(stale); err != nil {
			return fmt.Errorf("delete stale %s: %w", stale, err)
		}
		s.logger.WithFields(logrus.Fields{
			"symbol": instrument.Symbol,
			"day":    day.Format("2006-01-02"),
			"file":   stale,
		}).Info("deleted stale history file")
	}

	tmp, err := os.CreateTemp(dir, rawFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(Encode(series)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	final := filepath.Join(dir, rawFileName)
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s to %s: %w", tmpName, final, err)
	}
	return nil
}

// SaveDayPrices converts decimal bars to points and persists them.
func (s *Store) SaveDayPrices(instrument domain.Instrument, prices []bars.PriceBar) error {
	series := make(bars.DaySeries, len(prices))
	for i, p := range prices {
		series[i] = p.ToPoints(instrument.PointSize)
	}
	return s.SaveDay(instrument, series)
}

// LoadDay reads one day of bars. A missing day file is a soft condition, not
// an error: gaps are the norm in multi-year history. An existing compressed
// sibling without a raw file yields ErrUnsupported, since decompression is an
// external collaborator.
func (s *Store) LoadDay(instrument domain.Instrument, day time.Time) (bars.DaySeries, error) {
	path := s.PathFor(instrument, day)
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if _, rarErr := os.Stat(filepath.Join(s.DirFor(instrument, day), compressedFileName)); rarErr == nil {
			return nil, fmt.Errorf("read %s: compressed history: %w", path, ErrUnsupported)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(buf, instrument.Symbol)
}

// LoadDayPrices reads one day of bars as decimal prices.
func (s *Store) LoadDayPrices(instrument domain.Instrument, day time.Time) ([]bars.PriceBar, error) {
	series, err := s.LoadDay(instrument, day)
	if err != nil || series == nil {
		return nil, err
	}
	return series.ToPrices(instrument.PointSize), nil
}

// HasDay reports whether a raw day file exists.
func (s *Store) HasDay(instrument domain.Instrument, day time.Time) bool {
	_, err := os.Stat(s.PathFor(instrument, day))
	return err == nil
}
