package domain

import (
	"dario.cat/mergo"
)

// MergeParams overlays layer onto base, later layer winning on key conflicts.
// Both maps stay untouched; the result is a fresh map.
func MergeParams(base, layer map[string]interface{}) (map[string]interface{}, error) {
	merged := make(map[string]interface{}, len(base)+len(layer))
	for k, v := range base {
		merged[k] = v
	}
	if err := mergo.Merge(&merged, layer, mergo.WithOverride); err != nil {
		return nil, &Error{Category: CategoryValidation, Message: "failed to merge parameter layers", Cause: err}
	}
	return merged, nil
}

// MergeLayers folds an ordered list of parameter sources, first layer lowest
// priority. Nil and empty layers are skipped.
func MergeLayers(layers ...map[string]interface{}) (map[string]interface{}, error) {
	merged := map[string]interface{}{}
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		next, err := MergeParams(merged, layer)
		if err != nil {
			return nil, err
		}
		merged = next
	}
	return merged, nil
}
