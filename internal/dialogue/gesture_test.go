package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

func TestSelectGesture_MappedEmotions(t *testing.T) {
	cases := map[models.EmotionTag]string{
		models.EmotionHappy:     "wave_happy",
		models.EmotionExcited:   "jump_excited",
		models.EmotionShy:       "cover_face",
		models.EmotionLove:      "heart_hands",
		models.EmotionCalm:      "gentle_nod",
		models.EmotionSurprised: "gasp_surprise",
	}

	for emotion, want := range cases {
		assert.Equal(t, want, SelectGesture(emotion), "emotion %s", emotion)
	}
}

func TestSelectGesture_UnmappedFallsBackToIdle(t *testing.T) {
	assert.Equal(t, DefaultGesture, SelectGesture(models.EmotionSad))
	assert.Equal(t, DefaultGesture, SelectGesture(models.EmotionAngry))
}

func TestVoiceTone_ModifierTable(t *testing.T) {
	assert.InDelta(t, 0.7, VoiceTone(models.EmotionHappy, 0.0), 1e-9)
	assert.InDelta(t, 0.8, VoiceTone(models.EmotionExcited, 0.0), 1e-9)
	assert.InDelta(t, 0.4, VoiceTone(models.EmotionShy, 0.0), 1e-9)
	assert.InDelta(t, 0.3, VoiceTone(models.EmotionSad, 0.0), 1e-9)
	assert.InDelta(t, 0.6, VoiceTone(models.EmotionLove, 0.0), 1e-9)
}

func TestVoiceTone_UnmappedEmotionKeepsBase(t *testing.T) {
	assert.InDelta(t, 0.5, VoiceTone(models.EmotionAngry, 0.0), 1e-9)
	assert.InDelta(t, 0.5, VoiceTone(models.EmotionCalm, 0.0), 1e-9)
}

func TestVoiceTone_IntimacyContribution(t *testing.T) {
	assert.InDelta(t, 0.6, VoiceTone(models.EmotionCalm, 0.5), 1e-9)
	assert.InDelta(t, 0.7, VoiceTone(models.EmotionCalm, 1.0), 1e-9)
}

func TestVoiceTone_Clamped(t *testing.T) {
	// excited + full intimacy would be 1.0 exactly; happy + full is 0.9
	assert.LessOrEqual(t, VoiceTone(models.EmotionExcited, 1.0), 1.0)
	assert.GreaterOrEqual(t, VoiceTone(models.EmotionSad, 0.0), 0.0)
}
