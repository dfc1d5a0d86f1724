package dialogue

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// Completer generates assistant text from a persona prompt, bounded
// history and the latest user turn
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userInput string) (string, error)
}

// ParameterBus publishes avatar parameters. Publishing is best-effort:
// failures are logged by the session and never affect the response.
type ParameterBus interface {
	PublishState(emotion models.EmotionTag, gesture string, intimacy, voiceTone float64) error
}

// Speaker voices assistant text. Like the bus, it is best-effort.
type Speaker interface {
	Synthesize(ctx context.Context, text string, emotion models.EmotionTag) error
}

// fallbackResponses is the canned pool used when the completion service
// fails. Chosen uniformly at random.
var fallbackResponses = []string{
	"そうなんですね！もっと教えてください♪",
	"面白いお話ですね〜",
	"あなたと話していると楽しいです！",
	"えへへ、そういうことなんですね♡",
}

// Session owns the dialogue state for one companion conversation.
// State is mutated only by Process; turns are serialized by an internal
// mutex because intimacy and history updates are not commutative.
type Session struct {
	ID string

	mu       sync.Mutex
	emotion  models.EmotionTag
	intimacy float64
	history  []models.ConversationTurn

	classifier *Classifier
	tracker    *IntimacyTracker
	completer  Completer
	bus        ParameterBus
	speaker    Speaker

	traits     map[string]float64
	maxHistory int
	rng        *rand.Rand
}

// SessionOption configures a session
type SessionOption func(*Session)

// WithBus attaches an avatar parameter bus
func WithBus(bus ParameterBus) SessionOption {
	return func(s *Session) {
		s.bus = bus
	}
}

// WithSpeaker attaches a voice synthesizer
func WithSpeaker(speaker Speaker) SessionOption {
	return func(s *Session) {
		s.speaker = speaker
	}
}

// WithTraits sets the persona trait values used in the system prompt
func WithTraits(traits map[string]float64) SessionOption {
	return func(s *Session) {
		s.traits = traits
	}
}

// WithMaxHistory bounds the number of history turns sent to the completer
func WithMaxHistory(n int) SessionOption {
	return func(s *Session) {
		s.maxHistory = n
	}
}

// NewSession creates a session in the initial state
// {emotion: calm, intimacy: 0, history: []}
func NewSession(completer Completer, opts ...SessionOption) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		emotion:    models.EmotionCalm,
		intimacy:   0.0,
		classifier: NewClassifier(),
		tracker:    NewIntimacyTracker(),
		completer:  completer,
		traits: map[string]float64{
			"friendliness": 0.8,
			"shyness":      0.6,
			"playfulness":  0.7,
			"intelligence": 0.9,
		},
		maxHistory: 10,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Process runs one dialogue turn. It never returns an error for external
// service failures; those degrade to the canned fallback pool. The steps
// run in strict order and concurrent calls are serialized.
func (s *Session) Process(ctx context.Context, userInput string) *models.DialogueResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[Session] Process started session_id=%s input_length=%d", s.ID, len(userInput))

	// 1. Append the user turn
	s.history = append(s.history, models.ConversationTurn{
		Role:      models.RoleUser,
		Text:      userInput,
		Timestamp: time.Now(),
	})

	// 2-3. Classify emotion, update intimacy
	s.emotion = s.classifier.Classify(userInput)
	s.intimacy = s.tracker.Update(s.intimacy, userInput)

	// 4. Generate the assistant text, falling back on any failure
	text := s.generateResponse(ctx, userInput)

	// 5. Derive gesture and tone from the new state
	gesture := SelectGesture(s.emotion)
	tone := VoiceTone(s.emotion, s.intimacy)

	// 6. Append the assistant turn
	s.history = append(s.history, models.ConversationTurn{
		Role:      models.RoleAssistant,
		Text:      text,
		Timestamp: time.Now(),
	})

	response := &models.DialogueResponse{
		Text:      text,
		Emotion:   s.emotion,
		Gesture:   gesture,
		VoiceTone: tone,
		Intimacy:  s.intimacy,
	}

	// 7. Best-effort side effects: avatar bus and voice
	if s.bus != nil {
		if err := s.bus.PublishState(s.emotion, gesture, s.intimacy, tone); err != nil {
			log.Printf("[Session] Avatar bus publish failed session_id=%s err=%v", s.ID, err)
		}
	}
	if s.speaker != nil {
		if err := s.speaker.Synthesize(ctx, text, s.emotion); err != nil {
			log.Printf("[Session] Voice synthesis failed session_id=%s err=%v", s.ID, err)
		}
	}

	log.Printf("[Session] Process completed session_id=%s emotion=%s gesture=%s intimacy=%.2f", s.ID, s.emotion, gesture, s.intimacy)
	return response
}

// generateResponse calls the completion service with a bounded prompt.
// Caller must hold s.mu.
func (s *Session) generateResponse(ctx context.Context, userInput string) string {
	if s.completer == nil {
		return s.fallback()
	}

	// History window excludes the just-appended user turn, which is sent
	// separately as the latest message
	window := s.history[:len(s.history)-1]
	if len(window) > s.maxHistory {
		window = window[len(window)-s.maxHistory:]
	}

	text, err := s.completer.Complete(ctx, s.systemPrompt(), window, userInput)
	if err != nil {
		log.Printf("[Session] Completion failed, using fallback session_id=%s err=%v", s.ID, err)
		return s.fallback()
	}
	return text
}

func (s *Session) fallback() string {
	return fallbackResponses[s.rng.Intn(len(fallbackResponses))]
}

// systemPrompt describes the companion persona with live trait values
// and the current intimacy level. Caller must hold s.mu.
func (s *Session) systemPrompt() string {
	var b strings.Builder
	b.WriteString("あなたは可愛いAIコンパニオンです。以下の特徴を持っています：\n")

	// Stable order keeps prompts reproducible
	names := make([]string, 0, len(s.traits))
	for name := range s.traits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %.1f\n", name, s.traits[name])
	}
	fmt.Fprintf(&b, "- 現在の親密度: %.2f\n", s.intimacy)
	b.WriteString("自然で魅力的な会話を心がけ、感情豊かに応答してください。")
	return b.String()
}

// State returns a snapshot of the current dialogue state
func (s *Session) State() (models.EmotionTag, float64, []models.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]models.ConversationTurn, len(s.history))
	copy(history, s.history)
	return s.emotion, s.intimacy, history
}

// ResetIntimacy is the administrative override and the only operation
// that can decrease intimacy
func (s *Session) ResetIntimacy(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.intimacy = clamp01(level)
	log.Printf("[Session] Intimacy reset session_id=%s level=%.2f", s.ID, s.intimacy)
}
