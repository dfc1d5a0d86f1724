package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CompletionConfig holds LLM completion service configuration
type CompletionConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// AvatarBusConfig holds the OSC avatar parameter bus configuration
type AvatarBusConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// VoiceConfig holds voice synthesis configuration
type VoiceConfig struct {
	Engine            string  `yaml:"engine"` // "local", "voicevox", "elevenlabs"
	Rate              int     `yaml:"rate"`
	Volume            float64 `yaml:"volume"`
	VoicevoxURL       string  `yaml:"voicevox_url"`
	VoicevoxSpeakerID int     `yaml:"voicevox_speaker_id"`
	ElevenLabsAPIKey  string  `yaml:"elevenlabs_api_key"`
	ElevenLabsVoiceID string  `yaml:"elevenlabs_voice_id"`
}

// Config holds all application configuration
type Config struct {
	Completion        CompletionConfig   `yaml:"completion"`
	AvatarBus         AvatarBusConfig    `yaml:"avatar_bus"`
	Voice             VoiceConfig        `yaml:"voice"`
	PersonalityTraits map[string]float64 `yaml:"personality_traits"`
	MaxHistory        int                `yaml:"max_history"`
	LogLevel          string             `yaml:"log_level"`
	DBPath            string             `yaml:"db_path"`
	CatalogPath       string             `yaml:"catalog_path"`
}

// defaultTraits mirrors the companion's baseline personality
func defaultTraits() map[string]float64 {
	return map[string]float64{
		"friendliness": 0.8,
		"shyness":      0.6,
		"playfulness":  0.7,
		"intelligence": 0.9,
		"curiosity":    0.8,
		"empathy":      0.9,
		"humor":        0.6,
		"romanticism":  0.5,
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Completion: CompletionConfig{
			Model:       "gpt-3.5-turbo",
			MaxTokens:   150,
			Temperature: 0.8,
		},
		AvatarBus: AvatarBusConfig{
			Host: "127.0.0.1",
			Port: 9000,
		},
		Voice: VoiceConfig{
			Engine:            "local",
			Rate:              150,
			Volume:            0.8,
			VoicevoxURL:       "http://localhost:50021",
			VoicevoxSpeakerID: 1,
		},
		PersonalityTraits: defaultTraits(),
		MaxHistory:        10,
		LogLevel:          "INFO",
		DBPath:            "data/engine.db",
		CatalogPath:       "data/products.json",
	}
}

// Load loads configuration from an optional YAML file and environment
// overrides, then validates it. A missing config file is not an error;
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.PersonalityTraits == nil {
		cfg.PersonalityTraits = defaultTraits()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides updates the config from recognized environment variables
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}
	if v := os.Getenv("COMPLETION_MODEL"); v != "" {
		cfg.Completion.Model = v
	}
	if v := os.Getenv("AVATAR_BUS_HOST"); v != "" {
		cfg.AvatarBus.Host = v
	}
	if v := os.Getenv("AVATAR_BUS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.AvatarBus.Port = port
		}
	}
	if v := os.Getenv("VOICE_ENGINE"); v != "" {
		cfg.Voice.Engine = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.Voice.ElevenLabsAPIKey = v
	}
	if v := os.Getenv("VOICEVOX_URL"); v != "" {
		cfg.Voice.VoicevoxURL = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// validEngines is the closed set of voice engine selectors
var validEngines = map[string]bool{
	"local":      true,
	"voicevox":   true,
	"elevenlabs": true,
}

// Validate checks configuration invariants. Any error here is fatal at
// startup; the engine must not run with an invalid configuration.
func (c *Config) Validate() error {
	if c.AvatarBus.Port < 1024 || c.AvatarBus.Port > 65535 {
		return fmt.Errorf("invalid avatar bus port %d (must be 1024-65535)", c.AvatarBus.Port)
	}

	if c.Completion.Temperature < 0.0 || c.Completion.Temperature > 2.0 {
		return fmt.Errorf("temperature %.2f out of range (0.0-2.0)", c.Completion.Temperature)
	}

	if !validEngines[c.Voice.Engine] {
		return fmt.Errorf("unknown voice engine %q (must be local, voicevox or elevenlabs)", c.Voice.Engine)
	}

	for trait, value := range c.PersonalityTraits {
		if value < 0.0 || value > 1.0 {
			return fmt.Errorf("personality trait %q value %.2f out of range (0.0-1.0)", trait, value)
		}
	}

	if c.MaxHistory <= 0 {
		return fmt.Errorf("max_history must be positive, got %d", c.MaxHistory)
	}

	return nil
}
