package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// InvitePolicy decides who may add members to a project.
type InvitePolicy string

const (
	InviteOwnerOnly InvitePolicy = "owner"
	InviteMembers   InvitePolicy = "member"
	InviteAnyone    InvitePolicy = "any"
)

// TaskAccessPolicy decides who may read and mutate the tasks of a project.
type TaskAccessPolicy string

const (
	TaskAccessMembers TaskAccessPolicy = "member"
	TaskAccessAnyone  TaskAccessPolicy = "any"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

type Config struct {
	Port     string `envconfig:"PORT" default:"3000"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DB
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// JWT
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`

	// Access rules
	InvitePolicy     InvitePolicy     `envconfig:"INVITE_POLICY" default:"owner"`
	TaskAccessPolicy TaskAccessPolicy `envconfig:"TASK_ACCESS_POLICY" default:"member"`

	// CORS / websocket origins
	ClientURL      string   `envconfig:"CLIENT_URL"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`

	// Membership notifications
	SlackWebhookURL   string `envconfig:"SLACK_WEBHOOK_URL"`
	DiscordWebhookURL string `envconfig:"DISCORD_WEBHOOK_URL"`

	// Tracing
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"taskboard"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}

	switch c.InvitePolicy {
	case InviteOwnerOnly, InviteMembers, InviteAnyone:
	default:
		return fmt.Errorf("INVITE_POLICY must be owner, member or any, got %q", c.InvitePolicy)
	}

	switch c.TaskAccessPolicy {
	case TaskAccessMembers, TaskAccessAnyone:
	default:
		return fmt.Errorf("TASK_ACCESS_POLICY must be member or any, got %q", c.TaskAccessPolicy)
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Origins returns the browser origins allowed for CORS and websocket upgrades.
func (c *Config) Origins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}

	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
