package marketing

import (
	"fmt"
	"strings"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// Brand voice constraints applied to every composed message.
var (
	forbiddenPhrases = []string{"cheap", "buy now", "limited time only"}
	preferredEmojis  = []string{"✨", "🚀", "💡", "🌟"}
)

const (
	redactionMarker      = "[filtered]"
	defaultMessageTone   = "friendly"
	defaultUrgencyLevel  = 3
	maxCatalogMatches    = 3
	maxTokenInterests    = 3
	descriptionRuneLimit = 50
)

// segmentTones maps an audience segment to the display emotion of its
// marketing messages.
var segmentTones = map[models.AudienceSegment]string{
	models.SegmentNewUsers:           "friendly",
	models.SegmentActiveUsers:        "enthusiastic",
	models.SegmentInfluencers:        "excited",
	models.SegmentPotentialCustomers: "helpful",
	models.SegmentLoyalFans:          "loving",
}

// Composer fills campaign templates with per-user tokens, attaches matching
// catalog items, and applies the brand-voice filter.
type Composer struct {
	catalog []models.CatalogItem
}

// NewComposer creates a composer over a product catalog. An empty catalog is
// valid; composed messages simply carry no product list.
func NewComposer(catalog []models.CatalogItem) *Composer {
	return &Composer{catalog: catalog}
}

// Compose builds a personalized marketing message for one user and campaign.
// A nil campaign yields no message.
func (c *Composer) Compose(profile *models.UserProfile, campaign *models.Campaign) *models.MarketingMessage {
	if campaign == nil {
		return nil
	}

	tokens := map[string]string{
		"username":       profile.Username,
		"user_segment":   string(profile.Segment),
		"activity_level": fmt.Sprintf("%.2f", profile.ActivityLevel),
		"interests":      strings.Join(topInterests(profile.Interests), ", "),
	}

	content := substituteTokens(campaign.MessageTemplate, tokens)

	if items := c.matchCatalog(profile.Interests); len(items) > 0 {
		content += "\n\nあなたにぴったりの商品:\n" + formatCatalogItems(items)
	}

	content = applyBrandVoice(content)

	return &models.MarketingMessage{
		Content:               content,
		Emotion:               toneForSegment(profile.Segment),
		CallToAction:          campaign.CallToAction,
		TargetSegment:         profile.Segment,
		CampaignID:            campaign.CampaignID,
		UrgencyLevel:          defaultUrgencyLevel,
		PersonalizationTokens: tokens,
	}
}

// substituteTokens replaces {token} placeholders textually. Unresolved
// placeholders stay verbatim.
func substituteTokens(template string, tokens map[string]string) string {
	message := template
	for key, value := range tokens {
		message = strings.ReplaceAll(message, "{"+key+"}", value)
	}
	return message
}

// matchCatalog selects items whose keyword tags intersect the user's
// interests, capped at three.
func (c *Composer) matchCatalog(interests []string) []models.CatalogItem {
	var matched []models.CatalogItem
	for _, item := range c.catalog {
		if keywordsIntersect(item.Keywords, interests) {
			matched = append(matched, item)
			if len(matched) == maxCatalogMatches {
				break
			}
		}
	}
	return matched
}

func keywordsIntersect(keywords, interests []string) bool {
	joined := strings.ToLower(strings.Join(keywords, " "))
	for _, interest := range interests {
		if strings.Contains(joined, strings.ToLower(interest)) {
			return true
		}
	}
	return false
}

func formatCatalogItems(items []models.CatalogItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("✨ %s: %s", item.Name, shorten(item.Description, descriptionRuneLimit)))
	}
	return strings.Join(lines, "\n")
}

func shorten(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// applyBrandVoice redacts forbidden phrases and guarantees at least one
// preferred emoji appears in the message.
func applyBrandVoice(message string) string {
	for _, forbidden := range forbiddenPhrases {
		message = strings.ReplaceAll(message, forbidden, redactionMarker)
	}

	for _, emoji := range preferredEmojis {
		if strings.Contains(message, emoji) {
			return message
		}
	}
	return message + " " + preferredEmojis[0]
}

func toneForSegment(segment models.AudienceSegment) string {
	if tone, ok := segmentTones[segment]; ok {
		return tone
	}
	return defaultMessageTone
}

func topInterests(interests []string) []string {
	if len(interests) > maxTokenInterests {
		return interests[:maxTokenInterests]
	}
	return interests
}
