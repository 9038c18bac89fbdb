package config

import (
	"errors"
	"fmt"
)

// DefaultVerifyToken is the placeholder secret used when VERIFY_TOKEN is unset.
const DefaultVerifyToken = "my_secret_token"

// Settings contains the application config
type Settings struct {
	Port        int    `env:"PORT" envDefault:"5000"`
	MonPort     int    `env:"MON_PORT" envDefault:"8888"`
	EnablePprof bool   `env:"ENABLE_PPROF"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"whatsapp-webhook"`

	// VerifyToken is the secret the platform must present during subscription verification.
	VerifyToken string `env:"VERIFY_TOKEN" envDefault:"my_secret_token"`
	// WhatsAppToken is the Cloud API access token. Reserved; nothing is sent with it yet.
	WhatsAppToken string `env:"WHATSAPP_TOKEN"`
}

// Validate checks that the settings can be used to start the servers.
func (s *Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	if s.MonPort < 1 || s.MonPort > 65535 {
		return fmt.Errorf("invalid monitoring port %d", s.MonPort)
	}
	if s.VerifyToken == "" {
		return errors.New("verify token must not be empty")
	}
	return nil
}

// UsesPlaceholderToken reports whether the verify token is still the default placeholder.
func (s *Settings) UsesPlaceholderToken() bool {
	return s.VerifyToken == DefaultVerifyToken
}
