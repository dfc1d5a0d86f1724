package marketing

import (
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/johnknash2025/vrcompanion/internal/db"
	"github.com/johnknash2025/vrcompanion/internal/models"
)

// defaultMaxTrackedEvents bounds the idempotency-key set. ULIDs are
// time-ordered, so evicting the oldest keys only forfeits duplicate
// protection for events older than the whole retained window.
const defaultMaxTrackedEvents = 65536

// CampaignReport is the analytics view of one campaign, recomputed from the
// persisted interaction log rather than the in-memory counters.
type CampaignReport struct {
	CampaignID        string                 `json:"campaign_id"`
	TotalInteractions int                    `json:"total_interactions"`
	AvgEngagementTime float64                `json:"average_engagement_time"`
	AvgSentiment      float64                `json:"average_sentiment"`
	Conversions       int                    `json:"conversions"`
	ConversionRate    float64                `json:"conversion_rate"`
	Metrics           models.CampaignMetrics `json:"metrics"`
	Recommendations   []string               `json:"recommendations"`
}

// Aggregator keeps running delivery counters per campaign. The counters are a
// cache; the interaction log in the database is the ground truth that Report
// replays. Delivery events carry a ULID; an event ID seen before is dropped
// without counting, so duplicate deliveries cannot double-count.
type Aggregator struct {
	database *db.DB

	mu        sync.Mutex
	counters  map[string]*counterState
	seen      map[string]struct{}
	seenOrder []string
	maxSeen   int
}

type counterState struct {
	impressions       int
	engagements       int
	conversions       int
	engagementTimeSum float64
	sentimentSum      float64
}

// NewAggregator creates an aggregator backed by the given database.
func NewAggregator(database *db.DB) *Aggregator {
	return &Aggregator{
		database: database,
		counters: make(map[string]*counterState),
		seen:     make(map[string]struct{}),
		maxSeen:  defaultMaxTrackedEvents,
	}
}

// NewEventID returns a fresh idempotency key for one delivery event.
func NewEventID() string {
	return ulid.Make().String()
}

// Record counts one delivery event against a campaign. Every delivery is an
// impression; response_type "engagement" also counts an engagement, and a
// non-empty conversion_action also counts a conversion. Returns false when
// the event ID was already recorded and the event was dropped.
func (a *Aggregator) Record(campaignID, eventID string, event *models.InteractionLog) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, dup := a.seen[eventID]; dup {
		return false
	}
	a.markSeen(eventID)

	state, ok := a.counters[campaignID]
	if !ok {
		state = &counterState{}
		a.counters[campaignID] = state
	}

	state.impressions++
	if event != nil {
		if event.ResponseType == models.ResponseTypeEngagement {
			state.engagements++
		}
		if event.ConversionAction != "" {
			state.conversions++
		}
		state.engagementTimeSum += event.EngagementTime
		state.sentimentSum += event.SentimentScore
	}
	return true
}

// Unrecord reverses a Record whose event could not be persisted, releasing
// the idempotency key so the caller can retry with the same event ID.
func (a *Aggregator) Unrecord(campaignID, eventID string, event *models.InteractionLog) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.seen[eventID]; !ok {
		return
	}
	delete(a.seen, eventID)

	state, ok := a.counters[campaignID]
	if !ok {
		return
	}

	state.impressions--
	if event != nil {
		if event.ResponseType == models.ResponseTypeEngagement {
			state.engagements--
		}
		if event.ConversionAction != "" {
			state.conversions--
		}
		state.engagementTimeSum -= event.EngagementTime
		state.sentimentSum -= event.SentimentScore
	}
}

// markSeen records an idempotency key, evicting the oldest keys once the
// tracked set exceeds its bound. Caller must hold a.mu.
func (a *Aggregator) markSeen(eventID string) {
	a.seen[eventID] = struct{}{}
	a.seenOrder = append(a.seenOrder, eventID)

	for len(a.seen) > a.maxSeen && len(a.seenOrder) > 0 {
		oldest := a.seenOrder[0]
		a.seenOrder = a.seenOrder[1:]
		delete(a.seen, oldest)
	}
}

// Snapshot returns the cached counters for a campaign with derived rates.
// Unknown campaigns yield zero metrics; rates are 0 at zero impressions.
func (a *Aggregator) Snapshot(campaignID string) models.CampaignMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, ok := a.counters[campaignID]
	if !ok {
		return models.CampaignMetrics{}
	}

	metrics := models.CampaignMetrics{
		Impressions: state.impressions,
		Engagements: state.engagements,
		Conversions: state.conversions,
	}
	if state.impressions > 0 {
		metrics.ClickThroughRate = float64(state.engagements) / float64(state.impressions)
		metrics.ConversionRate = float64(state.conversions) / float64(state.impressions)
		metrics.AvgEngagementTime = state.engagementTimeSum / float64(state.impressions)
		metrics.SentimentScore = state.sentimentSum / float64(state.impressions)
	}
	return metrics
}

// Report recomputes campaign analytics by replaying the persisted interaction
// log, independent of the cached counters. The recommendations are derived
// from the same replay, so they survive process restarts that empty the
// counter cache.
func (a *Aggregator) Report(campaignID string) (*CampaignReport, error) {
	row, err := a.database.AggregateCampaignInteractions(campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate campaign interactions: %w", err)
	}

	metrics := models.CampaignMetrics{
		Impressions:       row.TotalInteractions,
		Engagements:       row.Engagements,
		Conversions:       row.Conversions,
		AvgEngagementTime: row.AvgEngagementTime,
		SentimentScore:    row.AvgSentiment,
	}
	if row.TotalInteractions > 0 {
		metrics.ClickThroughRate = float64(row.Engagements) / float64(row.TotalInteractions)
		metrics.ConversionRate = float64(row.Conversions) / float64(row.TotalInteractions)
	}

	report := &CampaignReport{
		CampaignID:        campaignID,
		TotalInteractions: row.TotalInteractions,
		AvgEngagementTime: row.AvgEngagementTime,
		AvgSentiment:      row.AvgSentiment,
		Conversions:       row.Conversions,
		ConversionRate:    metrics.ConversionRate,
		Metrics:           metrics,
		Recommendations:   recommendFor(metrics),
	}
	return report, nil
}

// recommendFor evaluates each improvement rule independently; any subset may
// fire.
func recommendFor(metrics models.CampaignMetrics) []string {
	var recommendations []string
	if metrics.ClickThroughRate < 0.05 {
		recommendations = append(recommendations, "メッセージの魅力を高めるため、より感情的なフレーズを使用してください")
	}
	if metrics.ConversionRate < 0.02 {
		recommendations = append(recommendations, "CTA（行動喚起）をより明確にし、緊急性を高めてください")
	}
	if metrics.AvgEngagementTime < 10 {
		recommendations = append(recommendations, "よりインタラクティブな体験を追加してください")
	}
	return recommendations
}
