package marketing

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/johnknash2025/vrcompanion/internal/db"
	"github.com/johnknash2025/vrcompanion/internal/models"
)

const (
	defaultCampaignDays   = 7
	defaultCampaignBudget = 1000.0
	defaultCallToAction   = "Learn More"

	// ResponseTypeDelivery marks the log row written when a personalized
	// message is delivered to a user.
	ResponseTypeDelivery = "delivery"
)

// CampaignParams describes a campaign to create. Zero-valued budget,
// duration and call-to-action fall back to defaults.
type CampaignParams struct {
	Type            models.CampaignType    `json:"type"`
	TargetSegment   models.AudienceSegment `json:"target_segment"`
	MessageTemplate string                 `json:"message_template"`
	CallToAction    string                 `json:"call_to_action"`
	Budget          float64                `json:"budget"`
	DurationDays    int                    `json:"duration_days"`
}

// Manager drives the marketing pipeline: campaign lifecycle, profile
// refresh, message delivery and metrics.
type Manager struct {
	database   *db.DB
	composer   *Composer
	aggregator *Aggregator
}

// NewManager creates a manager over the database and the product catalog at
// catalogPath. A missing or malformed catalog is logged and treated as empty.
func NewManager(database *db.DB, catalogPath string) *Manager {
	catalog, err := LoadCatalog(catalogPath)
	if err != nil {
		log.Printf("[Marketing] Catalog load failed, continuing with empty catalog path=%s error=%v", catalogPath, err)
		catalog = nil
	} else {
		log.Printf("[Marketing] Catalog loaded items=%d", len(catalog))
	}

	return &Manager{
		database:   database,
		composer:   NewComposer(catalog),
		aggregator: NewAggregator(database),
	}
}

// LoadCatalog reads the product catalog JSON file.
func LoadCatalog(path string) ([]models.CatalogItem, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var items []models.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return items, nil
}

// CreateCampaign persists a new campaign with a time-derived ID and returns it.
func (m *Manager) CreateCampaign(params CampaignParams) (*models.Campaign, error) {
	now := time.Now()

	duration := params.DurationDays
	if duration <= 0 {
		duration = defaultCampaignDays
	}
	budget := params.Budget
	if budget <= 0 {
		budget = defaultCampaignBudget
	}
	callToAction := params.CallToAction
	if callToAction == "" {
		callToAction = defaultCallToAction
	}

	campaign := &models.Campaign{
		CampaignID:      fmt.Sprintf("campaign_%s", now.Format("20060102_150405")),
		Type:            params.Type,
		TargetSegment:   params.TargetSegment,
		MessageTemplate: params.MessageTemplate,
		CallToAction:    callToAction,
		Budget:          budget,
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, duration),
		Status:          models.CampaignStatusActive,
	}

	if err := m.database.CreateCampaign(campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	log.Printf("[Marketing] Campaign created id=%s type=%s segment=%s", campaign.CampaignID, campaign.Type, campaign.TargetSegment)
	return campaign, nil
}

// EndCampaign marks a campaign ended. Status is the only mutable field.
func (m *Manager) EndCampaign(campaignID string) error {
	if err := m.database.UpdateCampaignStatus(campaignID, models.CampaignStatusEnded); err != nil {
		return fmt.Errorf("failed to end campaign: %w", err)
	}
	log.Printf("[Marketing] Campaign ended id=%s", campaignID)
	return nil
}

// RefreshProfile recomputes a user's profile from their full interaction
// history and persists it. First sighting of a user creates the profile.
func (m *Manager) RefreshProfile(userID, username string) (*models.UserProfile, error) {
	history, err := m.database.GetUserInteractions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user interactions: %w", err)
	}

	joinDate := time.Now()
	if existing, err := m.database.GetProfile(userID); err == nil {
		joinDate = existing.JoinDate
		if username == "" {
			username = existing.Username
		}
	}

	profile := BuildProfile(userID, username, joinDate, history)
	if err := m.database.UpsertProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// Profile returns the stored profile for a user, or nil when unknown.
func (m *Manager) Profile(userID string) (*models.UserProfile, error) {
	profile, err := m.database.GetProfile(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// Deliver composes a personalized message for one user of a campaign,
// logs the delivery and counts the impression. An unknown campaign yields
// no message.
func (m *Manager) Deliver(campaignID, userID, username string) (*models.MarketingMessage, error) {
	campaign, err := m.database.GetCampaign(campaignID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("[Marketing] Delivery skipped, campaign not found id=%s", campaignID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}

	profile, err := m.RefreshProfile(userID, username)
	if err != nil {
		return nil, err
	}

	message := m.composer.Compose(profile, campaign)

	event := &models.InteractionLog{
		UserID:         userID,
		CampaignID:     campaignID,
		Message:        message.Content,
		ResponseType:   ResponseTypeDelivery,
		Timestamp:      time.Now(),
		SentimentScore: 0.5,
	}
	if _, err := m.database.AppendInteraction(event); err != nil {
		return nil, fmt.Errorf("failed to log delivery: %w", err)
	}
	m.aggregator.Record(campaignID, NewEventID(), event)

	log.Printf("[Marketing] Message delivered campaign=%s user=%s segment=%s", campaignID, userID, profile.Segment)
	return message, nil
}

// RecordEngagement appends an engagement event to the interaction log,
// counts it under the event's idempotency key, and refreshes the user's
// profile. A duplicate event ID is logged but not counted or persisted twice.
func (m *Manager) RecordEngagement(eventID string, event *models.InteractionLog) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if !m.aggregator.Record(event.CampaignID, eventID, event) {
		log.Printf("[Marketing] Duplicate engagement event dropped campaign=%s event=%s", event.CampaignID, eventID)
		return nil
	}

	if _, err := m.database.AppendInteraction(event); err != nil {
		// Release the event ID so a retry is not dropped as a duplicate.
		m.aggregator.Unrecord(event.CampaignID, eventID, event)
		return fmt.Errorf("failed to log engagement: %w", err)
	}

	if _, err := m.RefreshProfile(event.UserID, ""); err != nil {
		log.Printf("[Marketing] Profile refresh failed user=%s error=%v", event.UserID, err)
	}
	return nil
}

// Report recomputes campaign analytics from the interaction log and persists
// a metrics snapshot on the campaign row.
func (m *Manager) Report(campaignID string) (*CampaignReport, error) {
	report, err := m.aggregator.Report(campaignID)
	if err != nil {
		return nil, err
	}

	if err := m.database.SaveCampaignMetrics(campaignID, &report.Metrics); err != nil {
		log.Printf("[Marketing] Metrics snapshot save failed campaign=%s error=%v", campaignID, err)
	}
	return report, nil
}

// Metrics returns the cached counters for a campaign.
func (m *Manager) Metrics(campaignID string) models.CampaignMetrics {
	return m.aggregator.Snapshot(campaignID)
}

// ActiveCampaigns returns all campaigns still running.
func (m *Manager) ActiveCampaigns() ([]models.Campaign, error) {
	campaigns, err := m.database.GetActiveCampaigns()
	if err != nil {
		return nil, fmt.Errorf("failed to list active campaigns: %w", err)
	}
	return campaigns, nil
}

// Campaign returns a stored campaign, or nil when unknown.
func (m *Manager) Campaign(campaignID string) (*models.Campaign, error) {
	campaign, err := m.database.GetCampaign(campaignID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	return campaign, nil
}
