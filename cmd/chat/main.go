package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/johnknash2025/vrcompanion/internal/avatarbus"
	"github.com/johnknash2025/vrcompanion/internal/completion"
	"github.com/johnknash2025/vrcompanion/internal/config"
	"github.com/johnknash2025/vrcompanion/internal/dialogue"
	"github.com/johnknash2025/vrcompanion/internal/voice"
)

func main() {
	cfg, err := config.Load(getEnvOrDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var completer dialogue.Completer
	if cfg.Completion.APIKey != "" {
		completer = completion.NewClient(cfg.Completion.APIKey,
			completion.WithModel(cfg.Completion.Model),
			completion.WithMaxTokens(cfg.Completion.MaxTokens),
			completion.WithTemperature(cfg.Completion.Temperature),
		)
	} else {
		log.Println("Warning: completion API key not configured, using fallback responses")
	}

	session := dialogue.NewSession(completer,
		dialogue.WithBus(avatarbus.NewBus(cfg.AvatarBus.Host, cfg.AvatarBus.Port)),
		dialogue.WithSpeaker(voice.NewSynthesizer(cfg.Voice)),
		dialogue.WithTraits(cfg.PersonalityTraits),
		dialogue.WithMaxHistory(cfg.MaxHistory),
	)

	fmt.Println("AIコンパニオンと会話を始めます（exit または 終了 で終わります）")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("あなた: ")
		if !scanner.Scan() {
			break
		}

		input := scanner.Text()
		if input == "" {
			continue
		}
		if input == "exit" || input == "終了" {
			break
		}

		response := session.Process(context.Background(), input)

		fmt.Printf("コンパニオン: %s\n", response.Text)
		fmt.Printf("  [感情: %s / ジェスチャー: %s / 親密度: %.2f]\n",
			response.Emotion, response.Gesture, response.Intimacy)
	}

	fmt.Println("また話しましょうね！")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
