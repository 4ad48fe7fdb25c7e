package config

import (
	"encoding/json"
	"os"

	"github.com/sergejsb/authgate/internal/flagx"
	"github.com/sergejsb/authgate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "60m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files; after unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	RedisAddr                    string         `json:"redis_addr"`
	JWTSecret                    string         `json:"jwt_secret"`
	JWTIssuer                    string         `json:"jwt_issuer"`
	JWTAudience                  string         `json:"jwt_audience"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CORSAllowedOrigins           string         `json:"cors_allowed_origins"`
	AuthRateLimit                int            `json:"auth_rate_limit"`
	APIRateLimit                 int            `json:"api_rate_limit"`
	RateLimitWindow              timex.Duration `json:"rate_limit_window"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; when
// neither is set, no JSON file is loaded. Unreadable or invalid files panic:
// a broken explicit config is a startup error, not something to limp past.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.JWTSecret = c.JWTSecret
	config.JWTIssuer = c.JWTIssuer
	config.JWTAudience = c.JWTAudience
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.CORSAllowedOrigins = c.CORSAllowedOrigins
	config.AuthRateLimit = c.AuthRateLimit
	config.APIRateLimit = c.APIRateLimit
	config.RateLimitWindow = c.RateLimitWindow.Duration
}
