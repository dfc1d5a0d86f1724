package marketing

import "github.com/johnknash2025/vrcompanion/internal/models"

// Segment classifies a user's full interaction history into an audience
// segment. Rules are checked top-down; first match wins.
func Segment(history []models.InteractionLog) models.AudienceSegment {
	if len(history) == 0 {
		return models.SegmentNewUsers
	}

	count := len(history)
	avgEngagement := averageEngagementTime(history)

	switch {
	case count > 20 && avgEngagement > 30:
		return models.SegmentLoyalFans
	case count > 10 && hasConversion(history):
		return models.SegmentPotentialCustomers
	case count > 5:
		return models.SegmentActiveUsers
	default:
		return models.SegmentNewUsers
	}
}

func averageEngagementTime(history []models.InteractionLog) float64 {
	if len(history) == 0 {
		return 0
	}
	var total float64
	for _, rec := range history {
		total += rec.EngagementTime
	}
	return total / float64(len(history))
}

func hasConversion(history []models.InteractionLog) bool {
	for _, rec := range history {
		if rec.ConversionAction != "" {
			return true
		}
	}
	return false
}
