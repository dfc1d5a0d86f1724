package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// emotionSpeakers maps emotions to VOICEVOX speaker styles
var emotionSpeakers = map[models.EmotionTag]int{
	models.EmotionHappy:   1,
	models.EmotionExcited: 7,
	models.EmotionSad:     6,
	models.EmotionShy:     5,
	models.EmotionAngry:   4,
	models.EmotionCalm:    1,
	models.EmotionLove:    3,
}

// VoicevoxSynthesizer uses a VOICEVOX server: an audio query request
// followed by a synthesis request.
type VoicevoxSynthesizer struct {
	baseURL    string
	speakerID  int
	httpClient *http.Client
}

// NewVoicevoxSynthesizer creates a VOICEVOX engine
func NewVoicevoxSynthesizer(baseURL string, speakerID int) *VoicevoxSynthesizer {
	return &VoicevoxSynthesizer{
		baseURL:   baseURL,
		speakerID: speakerID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Synthesize produces voiced audio for the text. Success means audio
// bytes were synthesized; playback is outside this engine.
func (s *VoicevoxSynthesizer) Synthesize(ctx context.Context, text string, emotion models.EmotionTag) error {
	speaker := s.speakerID
	if id, ok := emotionSpeakers[emotion]; ok {
		speaker = id
	}

	log.Printf("[Voice] VOICEVOX synthesis started speaker=%d text=%q", speaker, truncate(text, 50))

	query, err := s.createAudioQuery(ctx, text, speaker)
	if err != nil {
		return fmt.Errorf("failed to create audio query: %w", err)
	}

	audio, err := s.synthesizeAudio(ctx, query, speaker)
	if err != nil {
		return fmt.Errorf("failed to synthesize audio: %w", err)
	}

	log.Printf("[Voice] VOICEVOX synthesis completed bytes=%d", len(audio))
	return nil
}

// createAudioQuery builds the synthesis parameters for the text
func (s *VoicevoxSynthesizer) createAudioQuery(ctx context.Context, text string, speaker int) ([]byte, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("speaker", strconv.Itoa(speaker))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio_query?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio_query returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// synthesizeAudio renders the query into waveform bytes
func (s *VoicevoxSynthesizer) synthesizeAudio(ctx context.Context, query []byte, speaker int) ([]byte, error) {
	params := url.Values{}
	params.Set("speaker", strconv.Itoa(speaker))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/synthesis?"+params.Encode(), bytes.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
