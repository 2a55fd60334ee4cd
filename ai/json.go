package ai

import (
	"encoding/json"
	"fmt"
)

var _ interface {
	json.Marshaler
	json.Unmarshaler
} = &Weights{}

var featureNames = func() map[string]Feature {
	names := make(map[string]Feature, MaxFeature)
	for f := Feature(0); f < MaxFeature; f++ {
		names[f.String()] = f
	}
	return names
}()

// MarshalJSON writes the non-zero weights as an object keyed by feature
// name.
func (ws *Weights) MarshalJSON() ([]byte, error) {
	h := make(map[string]int64)
	for f, v := range ws {
		if v != 0 {
			h[Feature(f).String()] = v
		}
	}
	return json.Marshal(h)
}

// UnmarshalJSON overwrites only the features named in bs.
func (ws *Weights) UnmarshalJSON(bs []byte) error {
	var h map[string]int64
	if err := json.Unmarshal(bs, &h); err != nil {
		return err
	}
	for k, v := range h {
		f, ok := featureNames[k]
		if !ok {
			return fmt.Errorf("unknown feature: %q", k)
		}
		ws[f] = v
	}
	return nil
}

// ParseWeights overlays the JSON object s onto DefaultWeights. An empty
// string yields the defaults.
func ParseWeights(s string) (*Weights, error) {
	w := DefaultWeights
	if s == "" {
		return &w, nil
	}
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	return &w, nil
}
