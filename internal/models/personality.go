package models

import "encoding/json"

// NeutralPercentage is assumed for any missing personality letter.
const NeutralPercentage = 50.0

// PersonalityVector maps a letter (E, I, N, S, T, F, J, P) to a percentage.
// Opposite letters are not required to sum to 100.
type PersonalityVector map[string]float64

// Get returns the percentage for letter, 50 when absent.
func (v PersonalityVector) Get(letter string) float64 {
	if value, ok := v[letter]; ok {
		return value
	}
	return NeutralPercentage
}

// IsEmpty reports whether no letter is present.
func (v PersonalityVector) IsEmpty() bool {
	return len(v) == 0
}

func (v *PersonalityVector) UnmarshalJSON(data []byte) error {
	var raw map[string]LenientFloat
	if err := json.Unmarshal(data, &raw); err != nil {
		// a non-object vector is treated as absent
		*v = nil
		return nil
	}
	if raw == nil {
		*v = nil
		return nil
	}
	out := make(PersonalityVector, len(raw))
	for k, val := range raw {
		out[k] = float64(val)
	}
	*v = out
	return nil
}
