package dialogue

import "strings"

// intimateKeywords mark conversational content that deepens the
// relationship faster than ordinary chatter
var intimateKeywords = []string{"好き", "愛してる", "大切", "特別", "love you"}

const (
	defaultIntimateIncrement = 0.10
	defaultBaselineIncrement = 0.01
)

// IntimacyTracker updates the bounded intimacy scalar per turn.
// Update never decreases the level; Reset is the only way down.
type IntimacyTracker struct {
	intimateIncrement float64
	baselineIncrement float64
}

// NewIntimacyTracker creates a tracker with the default increments
func NewIntimacyTracker() *IntimacyTracker {
	return &IntimacyTracker{
		intimateIncrement: defaultIntimateIncrement,
		baselineIncrement: defaultBaselineIncrement,
	}
}

// NewIntimacyTrackerWithIncrements creates a tracker with custom increments
func NewIntimacyTrackerWithIncrements(intimate, baseline float64) *IntimacyTracker {
	return &IntimacyTracker{
		intimateIncrement: intimate,
		baselineIncrement: baseline,
	}
}

// Update returns the new intimacy level after one user turn. Intimate
// keywords apply the large increment, anything else the baseline one.
// The result is clamped to [0,1] and is always >= the input level.
func (t *IntimacyTracker) Update(level float64, text string) float64 {
	lower := strings.ToLower(text)
	if containsAny(lower, intimateKeywords) {
		return clamp01(level + t.intimateIncrement)
	}
	return clamp01(level + t.baselineIncrement)
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
