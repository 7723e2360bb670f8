package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LenientFloat decodes JSON numbers and numeric strings. Any other value
// (bool, object, non-numeric text, NaN) decodes to 0 without an error, so one
// malformed field never rejects a whole employee record.
type LenientFloat float64

func (f *LenientFloat) UnmarshalJSON(data []byte) error {
	*f = LenientFloat(parseLenient(data))
	return nil
}

// UnmarshalYAML applies the same policy to fixture files.
func (f *LenientFloat) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		*f = 0
		return nil
	}
	*f = LenientFloat(ToFloat(node.Value))
	return nil
}

func (f LenientFloat) Float64() float64 { return float64(f) }

func parseLenient(data []byte) float64 {
	var raw interface{}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return 0
	}
	return ToFloat(raw)
}

// ToFloat normalizes storage-boundary numerics (json.Number, numeric strings,
// integer types) to float64. Unparseable values yield 0.
func ToFloat(v interface{}) float64 {
	var out float64
	switch n := v.(type) {
	case float64:
		out = n
	case float32:
		out = float64(n)
	case int:
		out = float64(n)
	case int32:
		out = float64(n)
	case int64:
		out = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		out = parsed
	case LenientFloat:
		out = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		out = parsed
	default:
		return 0
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

// Round rounds the exact binary value of v to the given number of decimals.
// Stored values just under a tie, such as 0.8875, round down.
func Round(v float64, decimals int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
