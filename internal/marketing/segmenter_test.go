package marketing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

func makeHistory(n int, engagementTime float64) []models.InteractionLog {
	history := make([]models.InteractionLog, n)
	for i := range history {
		history[i] = models.InteractionLog{
			UserID:         "user_1",
			CampaignID:     "campaign_x",
			Message:        fmt.Sprintf("message %d", i),
			ResponseType:   models.ResponseTypeEngagement,
			EngagementTime: engagementTime,
			Timestamp:      time.Now(),
			SentimentScore: 0.5,
		}
	}
	return history
}

func TestSegment_EmptyHistoryIsNewUsers(t *testing.T) {
	assert.Equal(t, models.SegmentNewUsers, Segment(nil))
	assert.Equal(t, models.SegmentNewUsers, Segment([]models.InteractionLog{}))
}

func TestSegment_LoyalFans(t *testing.T) {
	history := makeHistory(21, 31)
	assert.Equal(t, models.SegmentLoyalFans, Segment(history))
}

func TestSegment_LoyalFansRequiresBothThresholds(t *testing.T) {
	// 21 records but short engagement: falls through to active_users
	assert.Equal(t, models.SegmentActiveUsers, Segment(makeHistory(21, 5)))

	// long engagement but only 20 records
	assert.Equal(t, models.SegmentActiveUsers, Segment(makeHistory(20, 31)))
}

func TestSegment_PotentialCustomers(t *testing.T) {
	history := makeHistory(11, 5)
	history[3].ConversionAction = "purchase"
	assert.Equal(t, models.SegmentPotentialCustomers, Segment(history))

	// same count without any conversion stays active_users
	assert.Equal(t, models.SegmentActiveUsers, Segment(makeHistory(11, 5)))
}

func TestSegment_ActiveUsers(t *testing.T) {
	assert.Equal(t, models.SegmentActiveUsers, Segment(makeHistory(6, 5)))
}

func TestSegment_FewInteractionsStayNewUsers(t *testing.T) {
	assert.Equal(t, models.SegmentNewUsers, Segment(makeHistory(5, 100)))
}

func TestActivityScore_EmptyHistory(t *testing.T) {
	assert.Equal(t, 0.0, ActivityScore(nil))
}

func TestActivityScore_Formula(t *testing.T) {
	// 3 interactions, avg engagement 20 -> 0.3 + 0.2
	score := ActivityScore(makeHistory(3, 20))
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestActivityScore_CappedAtOne(t *testing.T) {
	score := ActivityScore(makeHistory(50, 100))
	assert.Equal(t, 1.0, score)
}

func TestExtractInterests_FirstAppearanceOrder(t *testing.T) {
	history := []models.InteractionLog{
		{Message: "最近ゲームばかりしてる"},
		{Message: "VRのゲームも楽しい"},
		{Message: "アニメも好き"},
	}
	assert.Equal(t, []string{"ゲーム", "VR", "アニメ"}, ExtractInterests(history))
}

func TestExtractInterests_CaseInsensitive(t *testing.T) {
	history := []models.InteractionLog{{Message: "i love vr worlds"}}
	assert.Equal(t, []string{"VR"}, ExtractInterests(history))
}

func TestExtractInterests_CappedAtFive(t *testing.T) {
	history := []models.InteractionLog{
		{Message: "VRとゲームとアニメと音楽とアートとテクノロジーとファッション"},
	}
	interests := ExtractInterests(history)
	assert.Len(t, interests, 5)
	assert.Equal(t, []string{"VR", "ゲーム", "アニメ", "音楽", "アート"}, interests)
}

func TestExtractInterests_NoMatches(t *testing.T) {
	history := []models.InteractionLog{{Message: "こんにちは"}}
	assert.Empty(t, ExtractInterests(history))
}

func TestBuildProfile_DerivesEverything(t *testing.T) {
	joinDate := time.Now().Add(-24 * time.Hour)
	history := makeHistory(6, 10)
	history[1].Message = "VRが好き"
	history[2].ConversionAction = "purchase"

	profile := BuildProfile("user_1", "Alice", joinDate, history)

	assert.Equal(t, "user_1", profile.UserID)
	assert.Equal(t, "Alice", profile.Username)
	assert.Equal(t, models.SegmentActiveUsers, profile.Segment)
	assert.Equal(t, []string{"VR"}, profile.Interests)
	assert.Equal(t, 6, profile.TotalInteractions)
	assert.Equal(t, 1, profile.Conversions)
	assert.InDelta(t, 0.7, profile.ActivityLevel, 1e-9)
}

func TestBuildProfile_EmptyHistory(t *testing.T) {
	joinDate := time.Now()
	profile := BuildProfile("user_2", "Bob", joinDate, nil)

	assert.Equal(t, models.SegmentNewUsers, profile.Segment)
	assert.Equal(t, 0.0, profile.ActivityLevel)
	assert.Empty(t, profile.Interests)
	assert.Equal(t, 0, profile.TotalInteractions)
	assert.Equal(t, joinDate, profile.LastInteraction)
}
