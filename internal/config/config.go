// Package config loads the application settings from built-in defaults,
// an optional YAML file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Profile   Profile         `yaml:"profile"`
	GitHub    GitHubConfig    `yaml:"github"`
	PageSpeed PageSpeedConfig `yaml:"pagespeed"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Sonar     SonarConfig     `yaml:"sonar"`
}

// ServerConfig configures the HTTP server and the widget refresh loop.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// RefreshInterval of zero fetches widget data once per process start.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// Profile is the static page content.
type Profile struct {
	Name     string `yaml:"name"`
	Headline string `yaml:"headline"`
	About    string `yaml:"about"`
}

// GitHubConfig selects the user whose repositories the GitHub widget shows.
type GitHubConfig struct {
	Username  string        `yaml:"username"`
	RepoLimit int           `yaml:"repo_limit"`
	Timeout   time.Duration `yaml:"timeout"`
	Token     string        `yaml:"-"`
}

// PageSpeedConfig selects the site audited by the performance widget.
type PageSpeedConfig struct {
	SiteURL  string `yaml:"site_url"`
	Strategy string `yaml:"strategy"`
	// Endpoint overrides the API base URL; empty uses the public endpoint.
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	APIKey   string        `yaml:"-"`
}

// SentryConfig configures the monitoring SDK. An empty DSN disables it.
type SentryConfig struct {
	DSN            string `yaml:"dsn"`
	SendDefaultPII bool   `yaml:"send_default_pii"`
	Environment    string `yaml:"environment"`
}

// SonarConfig is the static project configuration of the SonarQube scan.
type SonarConfig struct {
	ServerURL   string            `yaml:"server_url"`
	Binary      string            `yaml:"binary"`
	ProjectKey  string            `yaml:"project_key"`
	ProjectName string            `yaml:"project_name"`
	Description string            `yaml:"description"`
	Sources     string            `yaml:"sources"`
	Tests       string            `yaml:"tests"`
	Properties  map[string]string `yaml:"properties"`
	Token       string            `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Profile: Profile{
			Name:     "Gurdip",
			Headline: "DevOps & Cloud Engineer",
			About:    "I build and run reliable delivery pipelines and cloud platforms.",
		},
		GitHub: GitHubConfig{
			Username:  "gurdipscode",
			RepoLimit: 4,
			Timeout:   10 * time.Second,
		},
		PageSpeed: PageSpeedConfig{
			SiteURL:  "https://demo.lovable.dev",
			Strategy: "mobile",
			Timeout:  60 * time.Second,
		},
		Sentry: SentryConfig{
			DSN:            "https://6ee0e5a17e903cf310be34e68a078f1d@o4509985210892288.ingest.de.sentry.io/4509985239597136",
			SendDefaultPII: true,
			Environment:    "production",
		},
		Sonar: SonarConfig{
			ServerURL:   "http://sonarqube.gssira.com:9000",
			Binary:      "sonar-scanner",
			ProjectKey:  "portfolio",
			ProjectName: "Portfolio",
			Description: "Description for Portfolio project...",
			Sources:     "cmd,internal",
			Tests:       "cmd,internal",
			Properties: map[string]string{
				"sonar.go.file.suffixes": ".go",
				"sonar.exclusions":       "**/*_test.go",
				"sonar.test.inclusions":  "**/*_test.go",
			},
		},
	}
}

// Load builds the configuration. An empty path skips the YAML file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeFile(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeFile overlays data on cfg. A sonar.properties mapping in the file
// replaces the default properties instead of being merged into them.
func decodeFile(data []byte, cfg *Config) error {
	var overrides struct {
		Sonar struct {
			Properties map[string]string `yaml:"properties"`
		} `yaml:"sonar"`
	}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return err
	}
	if overrides.Sonar.Properties != nil {
		cfg.Sonar.Properties = nil
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	c.GitHub.Username = getEnv("GITHUB_USERNAME", c.GitHub.Username)
	c.GitHub.Token = getEnv("GITHUB_TOKEN", c.GitHub.Token)
	c.PageSpeed.APIKey = getEnv("PAGESPEED_API_KEY", c.PageSpeed.APIKey)
	c.Sentry.DSN = getEnv("SENTRY_DSN", c.Sentry.DSN)
	c.Sonar.ServerURL = getEnv("SONAR_HOST_URL", c.Sonar.ServerURL)
	c.Sonar.Token = getEnv("SONAR_TOKEN", c.Sonar.Token)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.GitHub.Username == "" {
		return errors.New("github.username must not be empty")
	}
	if c.GitHub.RepoLimit < 1 || c.GitHub.RepoLimit > 100 {
		return fmt.Errorf("github.repo_limit must be between 1 and 100, got %d", c.GitHub.RepoLimit)
	}
	if c.PageSpeed.SiteURL == "" {
		return errors.New("pagespeed.site_url must not be empty")
	}
	switch c.PageSpeed.Strategy {
	case "mobile", "desktop":
	default:
		return fmt.Errorf("pagespeed.strategy must be mobile or desktop, got %q", c.PageSpeed.Strategy)
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("invalid server.addr %q: %w", c.Server.Addr, err)
	}
	if c.Server.RefreshInterval < 0 {
		return errors.New("server.refresh_interval must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
