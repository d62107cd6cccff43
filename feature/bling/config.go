package bling

import "time"

const (
	DefaultBaseURL  = "https://api.bling.com.br/Api/v3"
	DefaultTokenURL = "https://www.bling.com.br/Api/v3/oauth/token"
	DefaultAuthURL  = "https://www.bling.com.br/Api/v3/oauth/authorize"
)

// Config holds the ERP credentials and client pacing.
type Config struct {
	// BaseURL is the root of the v3 REST API.
	BaseURL string `mapstructure:"base_url" default:"https://api.bling.com.br/Api/v3"`
	// TokenURL is the OAuth token endpoint.
	TokenURL string `mapstructure:"token_url" default:"https://www.bling.com.br/Api/v3/oauth/token"`
	// AuthURL is the page where an administrator grants access.
	AuthURL string `mapstructure:"auth_url" default:"https://www.bling.com.br/Api/v3/oauth/authorize"`
	// ClientID is the OAuth application id.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the OAuth application secret.
	ClientSecret string `mapstructure:"client_secret" default:""`
	// RequestsPerSecond caps outgoing calls.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"3"`
	// TimeoutSeconds bounds a single HTTP call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns the per-request timeout, defaulting to 30 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
