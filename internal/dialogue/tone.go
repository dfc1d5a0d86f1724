package dialogue

import "github.com/johnknash2025/vrcompanion/internal/models"

const baseTone = 0.5

// toneModifiers shift the voice tone per emotion; unmapped tags keep the base
var toneModifiers = map[models.EmotionTag]float64{
	models.EmotionHappy:   0.2,
	models.EmotionExcited: 0.3,
	models.EmotionShy:     -0.1,
	models.EmotionSad:     -0.2,
	models.EmotionLove:    0.1,
}

// VoiceTone derives the bounded voice tone from the current emotion and
// intimacy level: clamp(0.5 + modifier + intimacy*0.2, 0, 1).
func VoiceTone(emotion models.EmotionTag, intimacy float64) float64 {
	return clamp01(baseTone + toneModifiers[emotion] + intimacy*0.2)
}
