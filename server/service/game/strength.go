package game

import "math"

// UpdateStrength folds a completed game score into the persistent memory
// strength estimate. The 0.9/0.1 weighting is a slow exponential average so
// one lucky or poor session cannot swing the difficulty tier abruptly.
func UpdateStrength(prior, score int32) int32 {
	updated := int32(math.Round(float64(prior)*0.9 + float64(score)*0.1))
	return clampScore(updated)
}

func clampScore(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
