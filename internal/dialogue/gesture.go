package dialogue

import "github.com/johnknash2025/vrcompanion/internal/models"

// DefaultGesture is used for emotion tags without a dedicated animation
const DefaultGesture = "idle"

// gestureMap is the total emotion-to-gesture mapping. sad and angry have
// no dedicated avatar animation and deliberately fall back to idle.
var gestureMap = map[models.EmotionTag]string{
	models.EmotionHappy:     "wave_happy",
	models.EmotionExcited:   "jump_excited",
	models.EmotionShy:       "cover_face",
	models.EmotionLove:      "heart_hands",
	models.EmotionCalm:      "gentle_nod",
	models.EmotionSurprised: "gasp_surprise",
}

// SelectGesture returns the gesture id for an emotion tag
func SelectGesture(emotion models.EmotionTag) string {
	if gesture, ok := gestureMap[emotion]; ok {
		return gesture
	}
	return DefaultGesture
}
