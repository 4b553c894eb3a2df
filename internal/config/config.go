package config

import (
	"errors"

	"github.com/spf13/viper"
)

var (
	// ErrMissingRecipient is returned when TO_EMAIL is not configured.
	ErrMissingRecipient = errors.New("TO_EMAIL is not set")

	// ErrMissingAPIKey is returned when RESEND_API_KEY is not configured.
	ErrMissingAPIKey = errors.New("RESEND_API_KEY is not set")
)

type (
	Config struct {
		Store
		Digest
		Email
		Classifier
		HTTP
		Global
	}

	Store struct {
		Path string
	}
	Digest struct {
		Count    int
		Schedule string // Cron format: "0 8 * * *" = daily at 08:00
	}
	Email struct {
		To           string
		From         string // Optional; Resend's onboarding sender when empty
		ResendAPIKey string
	}
	Classifier struct {
		Enabled bool // The OpenAI client itself reads OPENAI_API_KEY
	}
	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("store_path", DefaultStorePath)
	v.SetDefault("highlights_count", DefaultDigestCount)
	v.SetDefault("send_schedule", DefaultSendSchedule)
	v.SetDefault("classifier_enabled", false)
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	return &Config{
		Store: Store{
			Path: v.GetString("STORE_PATH"),
		},
		Digest: Digest{
			Count:    v.GetInt("HIGHLIGHTS_COUNT"),
			Schedule: v.GetString("SEND_SCHEDULE"),
		},
		Email: Email{
			To:           v.GetString("TO_EMAIL"),
			From:         v.GetString("FROM_EMAIL"),
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
		},
		Classifier: Classifier{
			Enabled: v.GetBool("CLASSIFIER_ENABLED"),
		},
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

// ValidateForSend checks the boundary inputs the send path needs. It runs
// before any parsing or store access so misconfiguration is reported
// up front.
func (c *Config) ValidateForSend() error {
	if c.Email.To == "" {
		return ErrMissingRecipient
	}
	if c.Email.ResendAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
