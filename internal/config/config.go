// Package config loads process configuration from a .env file and the
// environment. Everything downstream receives the loaded values explicitly;
// no other package reads the environment.
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App AppConfig
	AI  AIConfig
}

type AppConfig struct {
	Env           string
	Addr          string
	DefaultLocale string
	SessionKey    string
}

// AIConfig wires the text assistant. An empty APIKey disables the feature
// rather than failing requests at call time.
type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("no .env file, using environment variables: %v", err)
	}

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_ADDR", ":8080")
	viper.SetDefault("APP_DEFAULT_LOCALE", "fa")
	viper.SetDefault("APP_SESSION_KEY", "change-this-key-in-production")
	viper.SetDefault("AI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("AI_BASE_URL", "")
	viper.SetDefault("AI_TIMEOUT_SECONDS", 20)

	return &Config{
		App: AppConfig{
			Env:           viper.GetString("APP_ENV"),
			Addr:          viper.GetString("APP_ADDR"),
			DefaultLocale: viper.GetString("APP_DEFAULT_LOCALE"),
			SessionKey:    viper.GetString("APP_SESSION_KEY"),
		},
		AI: AIConfig{
			APIKey:  viper.GetString("AI_API_KEY"),
			Model:   viper.GetString("AI_MODEL"),
			BaseURL: viper.GetString("AI_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("AI_TIMEOUT_SECONDS")) * time.Second,
		},
	}
}

// AssistantEnabled reports whether the AI assistant can serve requests.
func (c *Config) AssistantEnabled() bool {
	return c.AI.APIKey != ""
}
