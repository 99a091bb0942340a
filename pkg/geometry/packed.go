package geometry

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// PackedItem is one placed box as reported by the remote packing service.
// The service's coordinate convention is not contractually pinned, so
// Position carries the raw components untouched; pkg/interpret decides
// how to read them.
type PackedItem struct {
	Name       string      `json:"name"`
	Position   RawPosition `json:"position"`
	Dimensions Dimensions  `json:"dimensions"`
}

// RawPosition holds the three raw position components exactly as the
// producer emitted them. The producer may send an ordered triple or a
// labeled object with x/y/z keys, either possibly sparse; absent or
// non-numeric components default to 0.
type RawPosition [3]float64

// UnmarshalJSON accepts both producer shapes:
//
//	[1.0, 2.0, 3.0]
//	{"x": 1.0, "z": 3.0}
//
// Components that are missing, null, or non-numeric are coerced to 0, so
// decoding a position never fails on malformed values.
func (p *RawPosition) UnmarshalJSON(data []byte) error {
	*p = RawPosition{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '[' {
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return nil
		}
		for i := 0; i < len(parts) && i < 3; i++ {
			p[i] = coerceNumber(parts[i])
		}
		return nil
	}

	var obj struct {
		X json.RawMessage `json:"x"`
		Y json.RawMessage `json:"y"`
		Z json.RawMessage `json:"z"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	p[0] = coerceNumber(obj.X)
	p[1] = coerceNumber(obj.Y)
	p[2] = coerceNumber(obj.Z)
	return nil
}

// MarshalJSON emits the canonical triple form.
func (p RawPosition) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64(p))
}

// coerceNumber extracts a finite float from a raw JSON value, accepting
// numbers and numeric strings. Everything else becomes 0.
func coerceNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}
