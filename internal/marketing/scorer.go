package marketing

import (
	"strings"
	"time"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// interestVocabulary is the fixed keyword set scanned for in interaction
// messages when deriving a user's interests.
var interestVocabulary = []string{"VR", "ゲーム", "アニメ", "音楽", "アート", "テクノロジー", "ファッション"}

const maxInterests = 5

// ActivityScore derives a user's activity level from their full history:
// interaction count weighted with average engagement time, capped at 1.0.
// Empty history scores 0.
func ActivityScore(history []models.InteractionLog) float64 {
	if len(history) == 0 {
		return 0
	}
	score := float64(len(history))*0.1 + averageEngagementTime(history)*0.01
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ExtractInterests scans the message text of each historical record for
// vocabulary keywords. Matches are de-duplicated, keep their first-appearance
// order, and are capped at five.
func ExtractInterests(history []models.InteractionLog) []string {
	var interests []string
	seen := make(map[string]bool)

	for _, rec := range history {
		message := strings.ToLower(rec.Message)
		for _, keyword := range interestVocabulary {
			if seen[keyword] {
				continue
			}
			if strings.Contains(message, strings.ToLower(keyword)) {
				seen[keyword] = true
				interests = append(interests, keyword)
				if len(interests) == maxInterests {
					return interests
				}
			}
		}
	}

	return interests
}

// BuildProfile recomputes a user profile from their full interaction history.
// Segment, activity level and interests are always derived from scratch, not
// updated incrementally.
func BuildProfile(userID, username string, joinDate time.Time, history []models.InteractionLog) *models.UserProfile {
	conversions := 0
	lastInteraction := joinDate
	for _, rec := range history {
		if rec.ConversionAction != "" {
			conversions++
		}
		if rec.Timestamp.After(lastInteraction) {
			lastInteraction = rec.Timestamp
		}
	}

	return &models.UserProfile{
		UserID:            userID,
		Username:          username,
		JoinDate:          joinDate,
		ActivityLevel:     ActivityScore(history),
		Interests:         ExtractInterests(history),
		Segment:           Segment(history),
		LastInteraction:   lastInteraction,
		TotalInteractions: len(history),
		Conversions:       conversions,
	}
}
