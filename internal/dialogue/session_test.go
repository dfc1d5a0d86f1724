package dialogue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// stubCompleter returns a fixed response or error
type stubCompleter struct {
	mu        sync.Mutex
	response  string
	err       error
	lastInput string
	histLen   int
	calls     int
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userInput string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastInput = userInput
	s.histLen = len(history)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubBus records published avatar parameters
type stubBus struct {
	mu       sync.Mutex
	emotions []models.EmotionTag
	gestures []string
	err      error
}

func (b *stubBus) PublishState(emotion models.EmotionTag, gesture string, intimacy, voiceTone float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.emotions = append(b.emotions, emotion)
	b.gestures = append(b.gestures, gesture)
	return b.err
}

func TestSession_InitialState(t *testing.T) {
	session := NewSession(&stubCompleter{response: "ok"})

	emotion, intimacy, history := session.State()
	assert.Equal(t, models.EmotionCalm, emotion)
	assert.Equal(t, 0.0, intimacy)
	assert.Empty(t, history)
	assert.NotEmpty(t, session.ID)
}

func TestSession_ProcessTurn(t *testing.T) {
	completer := &stubCompleter{response: "私も嬉しいです！"}
	bus := &stubBus{}
	session := NewSession(completer, WithBus(bus))

	response := session.Process(context.Background(), "ありがとう！")

	require.NotNil(t, response)
	assert.Equal(t, "私も嬉しいです！", response.Text)
	assert.Equal(t, models.EmotionHappy, response.Emotion)
	assert.Equal(t, "wave_happy", response.Gesture)
	assert.InDelta(t, 0.01, response.Intimacy, 1e-9)

	// Both turns recorded in order
	_, _, history := session.State()
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "ありがとう！", history[0].Text)
	assert.Equal(t, models.RoleAssistant, history[1].Role)

	// Side effect published
	require.Len(t, bus.emotions, 1)
	assert.Equal(t, models.EmotionHappy, bus.emotions[0])
	assert.Equal(t, "wave_happy", bus.gestures[0])
}

func TestSession_IntimateInputScenario(t *testing.T) {
	// "大好き" contains an intimate keyword: emotion reclassifies and
	// intimacy jumps by the large increment
	session := NewSession(&stubCompleter{response: "えへへ、私も♡"})

	response := session.Process(context.Background(), "大好き")

	require.NotNil(t, response)
	assert.NotEmpty(t, response.Text)
	assert.NotEmpty(t, response.Gesture)
	assert.Equal(t, models.EmotionHappy, response.Emotion)
	assert.GreaterOrEqual(t, response.Intimacy, 0.10)
	assert.LessOrEqual(t, response.Intimacy, 1.0)
}

func TestSession_CompletionFailureFallsBack(t *testing.T) {
	completer := &stubCompleter{err: errors.New("api timeout")}
	session := NewSession(completer)

	response := session.Process(context.Background(), "こんにちは")

	// Failure is recoverable: canned text, never an empty response
	require.NotNil(t, response)
	assert.NotEmpty(t, response.Text)
	assert.Contains(t, fallbackResponses, response.Text)

	// The failed turn is still recorded
	_, _, history := session.State()
	assert.Len(t, history, 2)
}

func TestSession_NilCompleterFallsBack(t *testing.T) {
	session := NewSession(nil)

	response := session.Process(context.Background(), "やあ")
	assert.Contains(t, fallbackResponses, response.Text)
}

func TestSession_BusFailureDoesNotAffectResponse(t *testing.T) {
	bus := &stubBus{err: errors.New("network unreachable")}
	session := NewSession(&stubCompleter{response: "ok"}, WithBus(bus))

	response := session.Process(context.Background(), "こんにちは")
	assert.Equal(t, "ok", response.Text)
}

func TestSession_HistoryWindowBounded(t *testing.T) {
	completer := &stubCompleter{response: "ok"}
	session := NewSession(completer, WithMaxHistory(4))

	for i := 0; i < 10; i++ {
		session.Process(context.Background(), "メッセージ")
	}

	// Window passed to the completer never exceeds the configured bound
	assert.LessOrEqual(t, completer.histLen, 4)

	// Full history is retained by the session
	_, _, history := session.State()
	assert.Len(t, history, 20)
}

func TestSession_IntimacyAccumulatesAcrossTurns(t *testing.T) {
	session := NewSession(&stubCompleter{response: "ok"})

	first := session.Process(context.Background(), "こんにちは")
	second := session.Process(context.Background(), "こんにちは")

	assert.Greater(t, second.Intimacy, first.Intimacy)
}

func TestSession_ResetIntimacy(t *testing.T) {
	session := NewSession(&stubCompleter{response: "ok"})

	session.Process(context.Background(), "大好き")
	_, intimacy, _ := session.State()
	require.GreaterOrEqual(t, intimacy, 0.10)

	session.ResetIntimacy(0.0)
	_, intimacy, _ = session.State()
	assert.Equal(t, 0.0, intimacy)
}

func TestSession_ConcurrentTurnsAreSerialized(t *testing.T) {
	completer := &stubCompleter{response: "ok"}
	session := NewSession(completer)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Process(context.Background(), "こんにちは")
		}()
	}
	wg.Wait()

	// 20 turns means exactly 40 history entries when serialized
	_, intimacy, history := session.State()
	assert.Len(t, history, 40)
	assert.InDelta(t, 0.20, intimacy, 1e-9)
	assert.Equal(t, 20, completer.calls)
}
