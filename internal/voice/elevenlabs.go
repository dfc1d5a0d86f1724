package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

const defaultElevenLabsURL = "https://api.elevenlabs.io/v1"

// voiceSettings are the per-request ElevenLabs synthesis parameters
type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

var emotionSettings = map[models.EmotionTag]voiceSettings{
	models.EmotionHappy:   {Stability: 0.5, SimilarityBoost: 0.8, Style: 0.3},
	models.EmotionExcited: {Stability: 0.3, SimilarityBoost: 0.9, Style: 0.5},
	models.EmotionSad:     {Stability: 0.8, SimilarityBoost: 0.6, Style: 0.1},
	models.EmotionShy:     {Stability: 0.9, SimilarityBoost: 0.5, Style: 0.2},
	models.EmotionAngry:   {Stability: 0.4, SimilarityBoost: 0.9, Style: 0.6},
}

var calmSettings = voiceSettings{Stability: 0.7, SimilarityBoost: 0.7, Style: 0.2}

// ElevenLabsSynthesizer calls the ElevenLabs text-to-speech API
type ElevenLabsSynthesizer struct {
	apiKey     string
	voiceID    string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsSynthesizer creates an ElevenLabs engine
func NewElevenLabsSynthesizer(apiKey, voiceID string) *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: defaultElevenLabsURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Synthesize produces voiced audio via the remote API
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string, emotion models.EmotionTag) error {
	if s.apiKey == "" {
		return fmt.Errorf("elevenlabs api key not configured")
	}

	settings, ok := emotionSettings[emotion]
	if !ok {
		settings = calmSettings
	}

	payload, err := json.Marshal(map[string]any{
		"text":           text,
		"model_id":       "eleven_multilingual_v2",
		"voice_settings": settings,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/text-to-speech/"+s.voiceID, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}

	log.Printf("[Voice] ElevenLabs synthesis completed bytes=%d emotion=%s", len(audio), emotion)
	return nil
}
