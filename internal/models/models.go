package models

import "time"

// EmotionTag is the closed set of emotions a companion session can express.
type EmotionTag string

const (
	EmotionHappy     EmotionTag = "happy"
	EmotionSad       EmotionTag = "sad"
	EmotionExcited   EmotionTag = "excited"
	EmotionCalm      EmotionTag = "calm"
	EmotionSurprised EmotionTag = "surprised"
	EmotionAngry     EmotionTag = "angry"
	EmotionShy       EmotionTag = "shy"
	EmotionLove      EmotionTag = "love"
)

// Role defines who produced a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is a single appended entry in a session's history
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// DialogueResponse is the structured result of processing one user turn
type DialogueResponse struct {
	Text      string     `json:"text"`
	Emotion   EmotionTag `json:"emotion"`
	Gesture   string     `json:"gesture"`
	VoiceTone float64    `json:"voice_tone"`
	Intimacy  float64    `json:"intimacy_level"`
}

// AudienceSegment is the closed set of marketing segments.
// Exactly one segment is assigned per user profile.
type AudienceSegment string

const (
	SegmentNewUsers           AudienceSegment = "new_users"
	SegmentActiveUsers        AudienceSegment = "active_users"
	SegmentInfluencers        AudienceSegment = "influencers"
	SegmentPotentialCustomers AudienceSegment = "potential_customers"
	SegmentLoyalFans          AudienceSegment = "loyal_fans"
)

// CampaignType categorizes a marketing campaign
type CampaignType string

const (
	CampaignProductLaunch     CampaignType = "product_launch"
	CampaignBrandAwareness    CampaignType = "brand_awareness"
	CampaignLeadGeneration    CampaignType = "lead_generation"
	CampaignEventPromotion    CampaignType = "event_promotion"
	CampaignCommunityBuilding CampaignType = "community_building"
)

// CampaignStatus is the lifecycle state of a campaign.
// Campaigns are immutable once created except for this field.
type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusEnded  CampaignStatus = "ended"
)

// Campaign is a time-bounded marketing initiative
type Campaign struct {
	CampaignID      string          `json:"campaign_id"`
	Type            CampaignType    `json:"type"`
	TargetSegment   AudienceSegment `json:"target_segment"`
	MessageTemplate string          `json:"message_template"`
	CallToAction    string          `json:"call_to_action"`
	Budget          float64         `json:"budget"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Status          CampaignStatus  `json:"status"`
}

// UserProfile is created on first sighting of a user_id and updated
// on each interaction event. Profiles are never deleted.
type UserProfile struct {
	UserID            string          `json:"user_id"`
	Username          string          `json:"username"`
	JoinDate          time.Time       `json:"join_date"`
	ActivityLevel     float64         `json:"activity_level"`
	Interests         []string        `json:"interests"`
	Segment           AudienceSegment `json:"segment"`
	LastInteraction   time.Time       `json:"last_interaction"`
	TotalInteractions int             `json:"total_interactions"`
	Conversions       int             `json:"conversions"`
}

// InteractionLog is an append-only record of one user interaction with a
// campaign. It is the source of truth for all derived aggregates.
type InteractionLog struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"user_id"`
	CampaignID       string    `json:"campaign_id"`
	Message          string    `json:"message"`
	ResponseType     string    `json:"response_type"`
	EngagementTime   float64   `json:"engagement_time"`
	ConversionAction string    `json:"conversion_action,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	SentimentScore   float64   `json:"sentiment_score"`
}

// ResponseTypeEngagement marks an interaction that counts toward
// click-through metrics.
const ResponseTypeEngagement = "engagement"

// CampaignMetrics is a derived cache of running counters for one campaign.
// It is recomputable at any time by replaying the interaction log.
type CampaignMetrics struct {
	Impressions       int     `json:"impressions"`
	Engagements       int     `json:"engagements"`
	Conversions       int     `json:"conversions"`
	ClickThroughRate  float64 `json:"click_through_rate"`
	ConversionRate    float64 `json:"conversion_rate"`
	AvgEngagementTime float64 `json:"average_engagement_time"`
	SentimentScore    float64 `json:"sentiment_score"`
}

// CatalogItem is a product/offer entry used for interest matching
type CatalogItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// MarketingMessage is a fully composed, personalized campaign message
type MarketingMessage struct {
	Content               string            `json:"content"`
	Emotion               string            `json:"emotion"`
	CallToAction          string            `json:"call_to_action"`
	TargetSegment         AudienceSegment   `json:"target_segment"`
	CampaignID            string            `json:"campaign_id"`
	UrgencyLevel          int               `json:"urgency_level"`
	PersonalizationTokens map[string]string `json:"personalization_tokens"`
}
