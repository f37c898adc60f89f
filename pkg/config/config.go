package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/takutakahashi/git-credential-github-app/pkg/cache"
	"github.com/takutakahashi/git-credential-github-app/pkg/github"
)

// DefaultOwner is the account whose installation tokens are issued.
// Override at build time with -ldflags "-X .../pkg/config.DefaultOwner=...".
var DefaultOwner = "BrainiumLLC"

var (
	ErrAppIDMissing  = errors.New("GITHUB_APP_ID is required")
	ErrAppKeyMissing = errors.New("GITHUB_APP_KEY (or GITHUB_APP_KEY_PATH) is required")
)

// Config represents the credential helper configuration
type Config struct {
	// AppID is the numeric GitHub App ID
	AppID string `json:"app_id" mapstructure:"app_id"`
	// AppKey is the PEM encoded App private key
	AppKey string `json:"app_key" mapstructure:"app_key"`
	// AppKeyPath points to a PEM file, used when AppKey is empty
	AppKeyPath string `json:"app_key_path" mapstructure:"app_key_path"`
	// Owner is the account login of the installation to use
	Owner string `json:"owner" mapstructure:"owner"`
	// APIBase is the GitHub REST API base URL (supports enterprise)
	APIBase string `json:"api_base" mapstructure:"api_base"`
	// GitHubURL is the web URL git talks to; its scheme and host select which requests are answered
	GitHubURL string `json:"github_url" mapstructure:"github_url"`
	// CacheFile is where the credentials are cached
	CacheFile string `json:"cache_file" mapstructure:"cache_file"`
	// Verbose enables logging to stderr
	Verbose bool `json:"verbose" mapstructure:"verbose"`
}

// NewViper returns a viper instance with defaults and environment bindings.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("app_id", "")
	v.SetDefault("app_key", "")
	v.SetDefault("app_key_path", "")
	v.SetDefault("owner", DefaultOwner)
	v.SetDefault("api_base", github.DefaultAPIBase)
	v.SetDefault("github_url", github.DefaultGitHubURL)
	v.SetDefault("cache_file", cache.DefaultPath())
	v.SetDefault("verbose", false)

	bindings := map[string][]string{
		"app_id":       {"GITHUB_APP_ID"},
		"app_key":      {"GITHUB_APP_KEY"},
		"app_key_path": {"GITHUB_APP_KEY_PATH", "GITHUB_APP_PEM_PATH"},
		"owner":        {"GITHUB_APP_OWNER"},
		"api_base":     {"GITHUB_API"},
		"github_url":   {"GITHUB_URL"},
		"cache_file":   {"GIT_CREDENTIAL_GITHUB_APP_CACHE_FILE"},
		"verbose":      {"GIT_CREDENTIAL_GITHUB_APP_VERBOSE"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			log.Printf("[CONFIG] Failed to bind env for %s: %v", key, err)
		}
	}

	return v
}

// LoadConfig reads an optional config file into v and decodes the result.
// Environment variables take precedence over the file.
func LoadConfig(v *viper.Viper, filename string) (*Config, error) {
	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
		}
		log.Printf("[CONFIG] Loaded config file %s", filename)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Target returns the protocol and host credential requests must match.
func (c *Config) Target() (protocol, host string, err error) {
	return github.ParseTarget(c.GitHubURL)
}

// AppCredentials returns the App ID and PEM key text, reading the key file
// when no inline key is configured.
func (c *Config) AppCredentials() (appID, appKey string, err error) {
	if c.AppID == "" {
		return "", "", ErrAppIDMissing
	}

	if c.AppKey != "" {
		return c.AppID, c.AppKey, nil
	}
	if c.AppKeyPath == "" {
		return "", "", ErrAppKeyMissing
	}

	pemData, err := os.ReadFile(c.AppKeyPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read PEM file %s: %w", c.AppKeyPath, err)
	}
	return c.AppID, strings.TrimSpace(string(pemData)) + "\n", nil
}
