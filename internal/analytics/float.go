package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Text forms of the non-finite values.
const (
	NaNText    = "NaN"
	PosInfText = "Infinity"
	NegInfText = "-Infinity"
)

// FormatFloat renders v with the shortest exact representation and the
// NaN / Infinity / -Infinity spellings for non-finite values.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return NaNText
	case math.IsInf(v, 1):
		return PosInfText
	case math.IsInf(v, -1):
		return NegInfText
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

// ParseFloat accepts everything strconv.ParseFloat does, including the
// spellings produced by FormatFloat.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Float is a float64 that survives JSON. Non-finite values are encoded as
// the strings "NaN", "Infinity" and "-Infinity"; null decodes to NaN.
type Float float64

// MarshalJSON implements json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if IsFinite(v) {
		return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
	}
	return []byte(strconv.Quote(FormatFloat(v))), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Float(math.NaN())
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	v, err := ParseFloat(text)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	*f = Float(v)
	return nil
}

// Floats is a []float64 encoded element-wise as Float.
type Floats []float64

// MarshalJSON implements json.Marshaler
func (fs Floats) MarshalJSON() ([]byte, error) {
	if fs == nil {
		return []byte("null"), nil
	}
	out := make([]Float, len(fs))
	for i, v := range fs {
		out[i] = Float(v)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (fs *Floats) UnmarshalJSON(data []byte) error {
	var in []Float
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in == nil {
		*fs = nil
		return nil
	}
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	*fs = out
	return nil
}

// FloatMap is a name-keyed map encoded value-wise as Float.
type FloatMap map[string]float64

// MarshalJSON implements json.Marshaler
func (m FloatMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	out := make(map[string]Float, len(m))
	for k, v := range m {
		out[k] = Float(v)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (m *FloatMap) UnmarshalJSON(data []byte) error {
	var in map[string]Float
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in == nil {
		*m = nil
		return nil
	}
	out := make(FloatMap, len(in))
	for k, v := range in {
		out[k] = float64(v)
	}
	*m = out
	return nil
}
