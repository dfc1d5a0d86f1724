package dialogue

import (
	"strings"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// Keyword sets for rule-based emotion classification. Matching is
// case-insensitive substring search, checked in priority order:
// excited > happy > sad > calm.
var (
	excitedKeywords = []string{"すごい", "やった", "最高", "興奮", "amazing", "awesome", "incredible"}
	happyKeywords   = []string{"嬉しい", "楽しい", "好き", "愛してる", "ありがとう", "happy", "glad", "thank"}
	sadKeywords     = []string{"悲しい", "つらい", "嫌い", "怒り", "疲れた", "sad", "tired", "hate"}
)

// Classifier maps raw text to a discrete emotion tag via keyword sets.
// It is deterministic, pure and stateless.
type Classifier struct{}

// NewClassifier creates an emotion classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the emotion detected in text. The first matching keyword
// set wins; text with no keyword is calm. There is no error path.
func (c *Classifier) Classify(text string) models.EmotionTag {
	lower := strings.ToLower(text)

	if containsAny(lower, excitedKeywords) {
		return models.EmotionExcited
	}
	if containsAny(lower, happyKeywords) {
		return models.EmotionHappy
	}
	if containsAny(lower, sadKeywords) {
		return models.EmotionSad
	}
	return models.EmotionCalm
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
