package barstore

import (
	"encoding/binary"

	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
)

// BarBytes is the size of one encoded bar: six unsigned 32-bit little-endian
// fields (time, open, high, low, close, ticks).
const BarBytes = 24

// Decode parses a buffer of fixed-width bar records. No bar-level validation
// is performed: the legacy format trusts the file. Use DecodeStrict for
// validated reads.
func Decode(buf []byte, symbol string) (bars.DaySeries, error) {
	if len(buf)%BarBytes != 0 {
		return nil, &FormatError{Symbol: symbol, Length: len(buf)}
	}
	series := make(bars.DaySeries, 0, len(buf)/BarBytes)
	for off := 0; off < len(buf); off += BarBytes {
		series = append(series, decodeBar(buf[off:off+BarBytes]))
	}
	return series, nil
}

// DecodeStrict parses the buffer and additionally enforces per-bar invariants,
// failing with a DataError naming the offending bar.
func DecodeStrict(buf []byte, symbol string) (bars.DaySeries, error) {
	series, err := Decode(buf, symbol)
	if err != nil {
		return nil, err
	}
	for _, b := range series {
		if err := b.Validate(); err != nil {
			return nil, &DataError{Symbol: symbol, Bar: b, Reason: err}
		}
	}
	return series, nil
}

// Encode is the inverse of Decode. Validation happens one layer up, in the
// store, before encoding.
func Encode(series bars.DaySeries) []byte {
	buf := make([]byte, 0, len(series)*BarBytes)
	for _, b := range series {
		buf = encodeBar(buf, b)
	}
	return buf
}

func decodeBar(chunk []byte) bars.PointBar {
	return bars.PointBar{
		Time:  int64(binary.LittleEndian.Uint32(chunk[0:4])),
		Open:  binary.LittleEndian.Uint32(chunk[4:8]),
		High:  binary.LittleEndian.Uint32(chunk[8:12]),
		Low:   binary.LittleEndian.Uint32(chunk[12:16]),
		Close: binary.LittleEndian.Uint32(chunk[16:20]),
		Ticks: binary.LittleEndian.Uint32(chunk[20:24]),
	}
}

func encodeBar(buf []byte, b bars.PointBar) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.Time))
	buf = binary.LittleEndian.AppendUint32(buf, b.Open)
	buf = binary.LittleEndian.AppendUint32(buf, b.High)
	buf = binary.LittleEndian.AppendUint32(buf, b.Low)
	buf = binary.LittleEndian.AppendUint32(buf, b.Close)
	buf = binary.LittleEndian.AppendUint32(buf, b.Ticks)
	return buf
}
