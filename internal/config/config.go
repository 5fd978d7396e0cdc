// Package config provides centralized application configuration. The
// configuration struct is built once at startup and handed to component
// constructors; no component reads environment variables directly.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"daily5/internal/core"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        App        `mapstructure:"app"`
	Sources    Sources    `mapstructure:"sources"`
	Scoring    Scoring    `mapstructure:"scoring"`
	Dedup      Dedup      `mapstructure:"dedup"`
	Validation Validation `mapstructure:"validation"`
	Gemini     Gemini     `mapstructure:"gemini"`
	GitHub     GitHub     `mapstructure:"github"`
	Email      Email      `mapstructure:"email"`
	Assembly   Assembly   `mapstructure:"assembly"`
	Users      []User     `mapstructure:"users"`
}

// App holds general application configuration.
type App struct {
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// Sources configures the content fetchers.
type Sources struct {
	Enabled       []string      `mapstructure:"enabled"`         // Source names to fetch from
	Timeout       time.Duration `mapstructure:"timeout"`         // Per-request HTTP timeout
	CourtesyDelay time.Duration `mapstructure:"courtesy_delay"`  // Delay between sequential requests to one host
	MaxPerSource  int           `mapstructure:"max_per_source"`  // Cap on items from a single source
	Subreddits    []string      `mapstructure:"subreddits"`      // Reddit listings to poll
	WatchedRepos  []string      `mapstructure:"watched_repos"`   // owner/name repos polled for releases
	RSSFeeds      []RSSFeed     `mapstructure:"rss_feeds"`       // Extra RSS/Atom feeds
	UserAgent     string        `mapstructure:"user_agent"`
}

// RSSFeed is one configured RSS/Atom source.
type RSSFeed struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
}

// Scoring configures relevance ranking.
type Scoring struct {
	MaxAge time.Duration `mapstructure:"max_age"` // Recency window for candidate items
	TopK   int           `mapstructure:"top_k"`   // Ranked items handed to enrichment
}

// Dedup configures the sent-content cache.
type Dedup struct {
	Retention time.Duration `mapstructure:"retention"` // Sliding window for duplicate suppression
}

// Validation configures the content validator.
type Validation struct {
	RulesetPath string `mapstructure:"ruleset_path"` // Optional YAML ruleset override
	Strict      bool   `mapstructure:"strict"`
	VerifyURLs  bool   `mapstructure:"verify_urls"`
}

// Gemini holds the enrichment model configuration.
type Gemini struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int32         `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
}

// GitHub holds the GitHub API configuration for user evidence.
type GitHub struct {
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Email holds delivery configuration.
type Email struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
	FromName     string `mapstructure:"from_name"`
	Template     string `mapstructure:"template"`
}

// Assembly configures the Daily-5 assembler.
type Assembly struct {
	Budget         time.Duration `mapstructure:"budget"`          // Overall deadline for one run
	EnrichRetries  int           `mapstructure:"enrich_retries"`  // Regeneration attempts on hard reject
	MaxConcurrency int           `mapstructure:"max_concurrency"` // Concurrent source fetches
}

// User is a configured recipient profile.
type User struct {
	Name           string   `mapstructure:"name"`
	Email          string   `mapstructure:"email"`
	Interests      []string `mapstructure:"interests"`
	Skills         []string `mapstructure:"skills"`
	Goals          []string `mapstructure:"goals"`
	GitHubUsername string   `mapstructure:"github_username"`
	Location       string   `mapstructure:"location"`
}

// Profile converts a configured user into a core.UserProfile.
func (u User) Profile() core.UserProfile {
	return core.UserProfile{
		Name:           u.Name,
		Email:          u.Email,
		Interests:      u.Interests,
		Skills:         u.Skills,
		Goals:          u.Goals,
		GitHubUsername: u.GitHubUsername,
		Location:       u.Location,
	}
}

// FindUser returns the configured user with the given email address.
func (c *Config) FindUser(email string) (User, error) {
	for _, u := range c.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("no configured user with email %q", email)
}

// Load reads configuration from an optional YAML file, a .env file, and
// DAILY5_-prefixed environment variables, in increasing precedence.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".daily5")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnvironmentVariables(v)

	v.SetEnvPrefix("DAILY5")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.data_dir", ".daily5-cache")

	v.SetDefault("sources.enabled", []string{
		"hackernews", "github_trending", "github_releases",
		"devto", "reddit", "producthunt", "devpost",
	})
	v.SetDefault("sources.timeout", "20s")
	v.SetDefault("sources.courtesy_delay", "250ms")
	v.SetDefault("sources.max_per_source", 20)
	v.SetDefault("sources.subreddits", []string{"programming", "webdev"})
	v.SetDefault("sources.user_agent", "daily5/1.0 (content aggregator)")

	v.SetDefault("scoring.max_age", "72h")
	v.SetDefault("scoring.top_k", 12)

	v.SetDefault("dedup.retention", "72h")

	v.SetDefault("validation.strict", false)
	v.SetDefault("validation.verify_urls", true)

	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.timeout", "60s")
	v.SetDefault("gemini.max_tokens", 4096)
	v.SetDefault("gemini.temperature", 0.3)

	v.SetDefault("github.timeout", "30s")

	v.SetDefault("email.from_name", "Daily 5")
	v.SetDefault("email.template", "default")

	v.SetDefault("assembly.budget", "90s")
	v.SetDefault("assembly.enrich_retries", 2)
	v.SetDefault("assembly.max_concurrency", 5)
}

// bindEnvironmentVariables maps well-known unprefixed variables onto
// config keys so existing API-key conventions keep working.
func bindEnvironmentVariables(v *viper.Viper) {
	bindEnvKeys(v, "gemini.api_key", []string{"GEMINI_API_KEY", "GOOGLE_AI_API_KEY"})
	bindEnvKeys(v, "github.token", []string{"GITHUB_TOKEN"})
	bindEnvKeys(v, "email.resend_api_key", []string{"RESEND_API_KEY"})
}

func bindEnvKeys(v *viper.Viper, key string, envVars []string) {
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			v.Set(key, value)
			return
		}
	}
}

func validate(c *Config) error {
	if c.Scoring.TopK < 5 {
		return fmt.Errorf("scoring.top_k must be at least 5, got %d", c.Scoring.TopK)
	}
	if c.Dedup.Retention <= 0 {
		return fmt.Errorf("dedup.retention must be positive")
	}
	if c.Assembly.Budget <= 0 {
		return fmt.Errorf("assembly.budget must be positive")
	}
	for i, u := range c.Users {
		if u.Email == "" {
			return fmt.Errorf("users[%d]: email is required", i)
		}
	}
	return nil
}
