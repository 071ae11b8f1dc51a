package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main application configuration struct. Every value has a
// default and can be overridden through the environment (SERVER_PORT,
// DATABASE_POSTGRES_HOST, AGENT_URL, ...), optionally loaded from a .env file.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Agent    AgentConfig    `mapstructure:"agent"`
	AI       AIConfig       `mapstructure:"ai"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
	// PublicBaseURL, when set, is used to build externally reachable
	// resume URLs (e.g. an ngrok tunnel in front of /uploads).
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type AgentConfig struct {
	// URL of the local automation agent (FastAPI process).
	URL string `mapstructure:"url"`
	// Timeout bounds a single run-task call. Agent runs are slow by
	// nature (a full browser session), so the default is generous.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxConcurrent bounds the number of dispatch goroutines running
	// agent tasks at the same time.
	MaxConcurrent int64 `mapstructure:"max_concurrent"`
	// ResumeTextLimit is the character budget for extracted resume text
	// forwarded to the agent.
	ResumeTextLimit int `mapstructure:"resume_text_limit"`
}

type AIConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	Model        string `mapstructure:"model"`
}

type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env (if present) and builds the configuration from
// defaults plus environment overrides.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_base_url", "")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "postgres")
	v.SetDefault("database.postgres.database", "autoapply")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("agent.url", "http://localhost:8012")
	v.SetDefault("agent.timeout", 10*time.Minute)
	v.SetDefault("agent.max_concurrent", 4)
	v.SetDefault("agent.resume_text_limit", 8000)
	v.SetDefault("ai.gemini_api_key", "")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Legacy variable names kept for compatibility with existing .env files.
	_ = v.BindEnv("ai.gemini_api_key", "AI_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", cfg.Server.Port)
	}
	if cfg.Agent.URL == "" {
		return fmt.Errorf("agent URL must not be empty")
	}
	if cfg.Agent.ResumeTextLimit <= 0 {
		return fmt.Errorf("resume text limit must be positive")
	}
	if cfg.Agent.MaxConcurrent <= 0 {
		return fmt.Errorf("agent max_concurrent must be positive")
	}
	return nil
}
