package api

import (
	"encoding/json"
	"net/http"

	"github.com/johnknash2025/vrcompanion/internal/marketing"
	"github.com/johnknash2025/vrcompanion/internal/models"
)

// CampaignHandler handles marketing campaign HTTP requests
type CampaignHandler struct {
	manager *marketing.Manager
}

// NewCampaignHandler creates a campaign handler
func NewCampaignHandler(manager *marketing.Manager) *CampaignHandler {
	return &CampaignHandler{manager: manager}
}

// DeliverRequest represents the request body for a message delivery
type DeliverRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// EngagementRequest represents an engagement event reported by a client.
// EventID is the idempotency key; when absent the server assigns one, which
// forfeits duplicate protection for that event.
type EngagementRequest struct {
	EventID          string   `json:"event_id"`
	UserID           string   `json:"user_id"`
	Message          string   `json:"message"`
	ResponseType     string   `json:"response_type"`
	EngagementTime   float64  `json:"engagement_time"`
	ConversionAction string   `json:"conversion_action"`
	SentimentScore   *float64 `json:"sentiment_score"`
}

// Create handles POST /api/campaigns
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params marketing.CampaignParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if params.Type == "" || params.TargetSegment == "" || params.MessageTemplate == "" {
		http.Error(w, "Type, target_segment and message_template are required", http.StatusBadRequest)
		return
	}

	campaign, err := h.manager.CreateCampaign(params)
	if err != nil {
		http.Error(w, "Failed to create campaign", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(campaign)
}

// List handles GET /api/campaigns
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.manager.ActiveCampaigns()
	if err != nil {
		http.Error(w, "Failed to list campaigns", http.StatusInternalServerError)
		return
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaigns)
}

// Get handles GET /api/campaigns/{id}
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.manager.Campaign(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Failed to get campaign", http.StatusInternalServerError)
		return
	}
	if campaign == nil {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

// Deliver handles POST /api/campaigns/{id}/deliver
func (h *CampaignHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	var req DeliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	message, err := h.manager.Deliver(r.PathValue("id"), req.UserID, req.Username)
	if err != nil {
		http.Error(w, "Failed to deliver message", http.StatusInternalServerError)
		return
	}
	if message == nil {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(message)
}

// RecordEngagement handles POST /api/campaigns/{id}/engagements
func (h *CampaignHandler) RecordEngagement(w http.ResponseWriter, r *http.Request) {
	var req EngagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	eventID := req.EventID
	if eventID == "" {
		eventID = marketing.NewEventID()
	}
	// A pointer distinguishes an omitted score from a reported 0.0.
	sentiment := 0.5
	if req.SentimentScore != nil {
		sentiment = *req.SentimentScore
	}

	event := &models.InteractionLog{
		UserID:           req.UserID,
		CampaignID:       r.PathValue("id"),
		Message:          req.Message,
		ResponseType:     req.ResponseType,
		EngagementTime:   req.EngagementTime,
		ConversionAction: req.ConversionAction,
		SentimentScore:   sentiment,
	}
	if err := h.manager.RecordEngagement(eventID, event); err != nil {
		http.Error(w, "Failed to record engagement", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"event_id": eventID})
}

// Report handles GET /api/campaigns/{id}/report
func (h *CampaignHandler) Report(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")

	campaign, err := h.manager.Campaign(campaignID)
	if err != nil {
		http.Error(w, "Failed to get campaign", http.StatusInternalServerError)
		return
	}
	if campaign == nil {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}

	report, err := h.manager.Report(campaignID)
	if err != nil {
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// End handles POST /api/campaigns/{id}/end
func (h *CampaignHandler) End(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")

	campaign, err := h.manager.Campaign(campaignID)
	if err != nil {
		http.Error(w, "Failed to get campaign", http.StatusInternalServerError)
		return
	}
	if campaign == nil {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}

	if err := h.manager.EndCampaign(campaignID); err != nil {
		http.Error(w, "Failed to end campaign", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"campaign_id": campaignID, "status": string(models.CampaignStatusEnded)})
}

// ProfileHandler handles user profile HTTP requests
type ProfileHandler struct {
	manager *marketing.Manager
}

// NewProfileHandler creates a profile handler
func NewProfileHandler(manager *marketing.Manager) *ProfileHandler {
	return &ProfileHandler{manager: manager}
}

// Get handles GET /api/users/{id}/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.manager.Profile(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
