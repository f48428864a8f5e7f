// Package config loads runtime configuration from the environment (and an
// optional config file) through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"g2b-bids/internal/g2b"
)

// Config holds all runtime configuration for the CLI and the HTTP server.
type Config struct {
	Port        string
	Token       string // bearer token for /api and /mcp; empty leaves them open
	BaseURL     string
	Timeout     time.Duration
	SecretsFile string
	TLSCertFile string
	TLSKeyFile  string
	CORSOrigins []string
	LogLevel    logrus.Level
}

// Keys understood by Load. Each is read from the environment variable of the
// same name.
const (
	KeyPort        = "PORT"
	KeyToken       = "API_TOKEN"
	KeyBaseURL     = "G2B_BASE_URL"
	KeyTimeout     = "G2B_TIMEOUT"
	KeySecretsFile = "SECRETS_FILE"
	KeyTLSCert     = "TLS_CERT_FILE"
	KeyTLSKey      = "TLS_KEY_FILE"
	KeyCORSOrigins = "CORS_ORIGINS"
	KeyLogLevel    = "LOG_LEVEL"
)

// DefaultSecretsFile is where the service key store is looked up by default.
const DefaultSecretsFile = ".g2b/secrets.toml"

// SetDefaults registers defaults and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "3000")
	v.SetDefault(KeyBaseURL, g2b.DefaultBaseURL)
	v.SetDefault(KeyTimeout, g2b.DefaultTimeout.String())
	v.SetDefault(KeySecretsFile, DefaultSecretsFile)
	v.SetDefault(KeyCORSOrigins, "*")
	v.SetDefault(KeyLogLevel, "info")
	v.AutomaticEnv()
}

// Load returns a validated Config from v. Call SetDefaults first.
func Load(v *viper.Viper) (*Config, error) {
	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString(KeyTimeout)))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("%s must be a positive duration, got %q", KeyTimeout, v.GetString(KeyTimeout))
	}

	level, err := logrus.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}

	port := strings.TrimSpace(v.GetString(KeyPort))
	if port == "" {
		return nil, fmt.Errorf("%s is required", KeyPort)
	}

	return &Config{
		Port:        port,
		Token:       v.GetString(KeyToken),
		BaseURL:     v.GetString(KeyBaseURL),
		Timeout:     timeout,
		SecretsFile: v.GetString(KeySecretsFile),
		TLSCertFile: v.GetString(KeyTLSCert),
		TLSKeyFile:  v.GetString(KeyTLSKey),
		CORSOrigins: splitCSV(v.GetString(KeyCORSOrigins)),
		LogLevel:    level,
	}, nil
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
