package avatarbus

import (
	"fmt"
	"log"

	"github.com/hypebeast/go-osc/osc"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

// OSC addresses for the avatar parameter bus
const (
	addrEmotion   = "/avatar/parameters/emotion"
	addrGesture   = "/avatar/parameters/gesture"
	addrIntimacy  = "/avatar/parameters/intimacy"
	addrVoiceTone = "/avatar/parameters/voice_tone"
)

// Bus publishes avatar parameters over OSC/UDP. The channel is
// fire-and-forget: there is no acknowledgement and callers treat every
// publish as best-effort.
type Bus struct {
	client *osc.Client
}

// NewBus creates a bus targeting the given OSC endpoint
func NewBus(host string, port int) *Bus {
	return &Bus{
		client: osc.NewClient(host, port),
	}
}

// PublishState sends the four per-turn avatar parameters. The first send
// error is returned for logging; partial delivery is acceptable.
func (b *Bus) PublishState(emotion models.EmotionTag, gesture string, intimacy, voiceTone float64) error {
	log.Printf("[AvatarBus] PublishState emotion=%s gesture=%s intimacy=%.2f tone=%.2f", emotion, gesture, intimacy, voiceTone)

	if err := b.sendString(addrEmotion, string(emotion)); err != nil {
		return fmt.Errorf("failed to publish emotion: %w", err)
	}
	if err := b.sendString(addrGesture, gesture); err != nil {
		return fmt.Errorf("failed to publish gesture: %w", err)
	}
	if err := b.sendFloat(addrIntimacy, intimacy); err != nil {
		return fmt.Errorf("failed to publish intimacy: %w", err)
	}
	if err := b.sendFloat(addrVoiceTone, voiceTone); err != nil {
		return fmt.Errorf("failed to publish voice tone: %w", err)
	}

	return nil
}

func (b *Bus) sendString(address, value string) error {
	msg := osc.NewMessage(address)
	msg.Append(value)
	return b.client.Send(msg)
}

func (b *Bus) sendFloat(address string, value float64) error {
	msg := osc.NewMessage(address)
	// OSC floats are 32-bit on the wire
	msg.Append(float32(value))
	return b.client.Send(msg)
}
