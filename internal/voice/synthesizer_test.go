package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnknash2025/vrcompanion/internal/config"
	"github.com/johnknash2025/vrcompanion/internal/models"
)

func TestNewSynthesizer_SelectsEngine(t *testing.T) {
	cases := []struct {
		engine string
		want   string
	}{
		{"local", "*voice.LocalSynthesizer"},
		{"voicevox", "*voice.VoicevoxSynthesizer"},
		{"elevenlabs", "*voice.ElevenLabsSynthesizer"},
		{"bogus", "*voice.LocalSynthesizer"},
	}

	for _, tc := range cases {
		cfg := config.VoiceConfig{Engine: tc.engine, Rate: 150, Volume: 0.8}
		s := NewSynthesizer(cfg)
		got := typeName(s)
		if got != tc.want {
			t.Errorf("engine %q: expected %s, got %s", tc.engine, tc.want, got)
		}
	}
}

func TestLocalSynthesizer_EmotionAdjustments(t *testing.T) {
	s := NewLocalSynthesizer(150, 0.8)

	rate, volume := s.paramsFor(models.EmotionExcited)
	if rate != 190 {
		t.Errorf("expected excited rate 190, got %d", rate)
	}
	if volume != 1.0 {
		t.Errorf("expected excited volume clamped to 1.0, got %f", volume)
	}

	rate, volume = s.paramsFor(models.EmotionSad)
	if rate != 120 {
		t.Errorf("expected sad rate 120, got %d", rate)
	}
	if volume < 0.69 || volume > 0.71 {
		t.Errorf("expected sad volume ~0.7, got %f", volume)
	}

	// Unmapped emotion keeps the baseline
	rate, volume = s.paramsFor(models.EmotionCalm)
	if rate != 150 || volume != 0.8 {
		t.Errorf("expected baseline 150/0.8, got %d/%f", rate, volume)
	}
}

func TestLocalSynthesizer_RateClamped(t *testing.T) {
	s := NewLocalSynthesizer(60, 0.5)

	rate, _ := s.paramsFor(models.EmotionSad)
	if rate != 50 {
		t.Errorf("expected rate clamped to 50, got %d", rate)
	}
}

func TestLocalSynthesizer_NeverFails(t *testing.T) {
	s := NewLocalSynthesizer(150, 0.8)

	if err := s.Synthesize(context.Background(), "こんにちは！", models.EmotionHappy); err != nil {
		t.Errorf("local synthesis should not fail: %v", err)
	}
}

func TestVoicevoxSynthesizer_TwoStepSynthesis(t *testing.T) {
	var gotQuery, gotSynthesis bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/audio_query":
			gotQuery = true
			if r.URL.Query().Get("speaker") != "3" {
				t.Errorf("expected love speaker 3, got %s", r.URL.Query().Get("speaker"))
			}
			w.Write([]byte(`{"accent_phrases":[]}`))
		case "/synthesis":
			gotSynthesis = true
			w.Write([]byte("RIFFfakewav"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	s := NewVoicevoxSynthesizer(server.URL, 1)
	if err := s.Synthesize(context.Background(), "愛してます♡", models.EmotionLove); err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}

	if !gotQuery || !gotSynthesis {
		t.Errorf("expected both steps, got query=%v synthesis=%v", gotQuery, gotSynthesis)
	}
}

func TestVoicevoxSynthesizer_ServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewVoicevoxSynthesizer(server.URL, 1)
	if err := s.Synthesize(context.Background(), "test", models.EmotionCalm); err == nil {
		t.Error("expected error from failing server")
	}
}

func TestElevenLabs_MissingAPIKey(t *testing.T) {
	s := NewElevenLabsSynthesizer("", "voice-id")

	if err := s.Synthesize(context.Background(), "hello", models.EmotionCalm); err == nil {
		t.Error("expected error for missing api key")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *LocalSynthesizer:
		return "*voice.LocalSynthesizer"
	case *VoicevoxSynthesizer:
		return "*voice.VoicevoxSynthesizer"
	case *ElevenLabsSynthesizer:
		return "*voice.ElevenLabsSynthesizer"
	default:
		return "unknown"
	}
}
