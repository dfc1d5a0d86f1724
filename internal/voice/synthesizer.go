package voice

import (
	"context"
	"log"

	"github.com/johnknash2025/vrcompanion/internal/config"
	"github.com/johnknash2025/vrcompanion/internal/models"
)

// Synthesizer voices assistant text with an emotion inflection.
// Implementations are interchangeable engines selected from configuration.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, emotion models.EmotionTag) error
}

// NewSynthesizer constructs the engine named by the configuration.
// The engine enum is validated at startup, so an unknown value here only
// happens when the config was bypassed; it degrades to the local engine.
func NewSynthesizer(cfg config.VoiceConfig) Synthesizer {
	switch cfg.Engine {
	case "voicevox":
		return NewVoicevoxSynthesizer(cfg.VoicevoxURL, cfg.VoicevoxSpeakerID)
	case "elevenlabs":
		return NewElevenLabsSynthesizer(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID)
	case "local":
		return NewLocalSynthesizer(cfg.Rate, cfg.Volume)
	default:
		log.Printf("[Voice] Unknown engine %q, using local", cfg.Engine)
		return NewLocalSynthesizer(cfg.Rate, cfg.Volume)
	}
}
