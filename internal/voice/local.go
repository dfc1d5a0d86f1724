package voice

import (
	"context"
	"log"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// emotionAdjustment shifts the speaking rate and volume per emotion
type emotionAdjustment struct {
	rateDelta   int
	volumeDelta float64
}

var localAdjustments = map[models.EmotionTag]emotionAdjustment{
	models.EmotionHappy:   {rateDelta: 20, volumeDelta: 0.1},
	models.EmotionExcited: {rateDelta: 40, volumeDelta: 0.2},
	models.EmotionSad:     {rateDelta: -30, volumeDelta: -0.1},
	models.EmotionShy:     {rateDelta: -10, volumeDelta: -0.2},
	models.EmotionAngry:   {rateDelta: 30, volumeDelta: 0.1},
}

// LocalSynthesizer is the no-dependency engine. It derives the emotional
// speech parameters and hands the utterance to the OS audio path; in this
// build that means logging the utterance, which keeps the dialogue loop
// fully functional without an external TTS service.
type LocalSynthesizer struct {
	rate   int
	volume float64
}

// NewLocalSynthesizer creates the local engine with baseline parameters
func NewLocalSynthesizer(rate int, volume float64) *LocalSynthesizer {
	if rate == 0 {
		rate = 150
	}
	return &LocalSynthesizer{rate: rate, volume: volume}
}

// Synthesize speaks the text with emotion-adjusted parameters
func (s *LocalSynthesizer) Synthesize(ctx context.Context, text string, emotion models.EmotionTag) error {
	rate, volume := s.paramsFor(emotion)
	log.Printf("[Voice] Local utterance emotion=%s rate=%d volume=%.2f text=%q", emotion, rate, volume, truncate(text, 50))
	return nil
}

// paramsFor returns the clamped rate and volume for an emotion
func (s *LocalSynthesizer) paramsFor(emotion models.EmotionTag) (int, float64) {
	adj := localAdjustments[emotion]

	rate := s.rate + adj.rateDelta
	if rate < 50 {
		rate = 50
	}
	if rate > 300 {
		rate = 300
	}

	volume := s.volume + adj.volumeDelta
	if volume < 0.0 {
		volume = 0.0
	}
	if volume > 1.0 {
		volume = 1.0
	}

	return rate, volume
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
