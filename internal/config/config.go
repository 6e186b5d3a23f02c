package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/finverge/payflow/internal/domain/workflow"
	"github.com/finverge/payflow/internal/infrastructure/directory"
	"github.com/finverge/payflow/internal/infrastructure/notify"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// AuthConfig holds JWT settings for the HTTP layer.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// WorkflowConfig holds the approval ladder, SLA table and directory. The
// workflow core never reads configuration itself; everything here is turned
// into explicit values and injected at startup.
type WorkflowConfig struct {
	Ladder            []string             `mapstructure:"ladder"`
	SLA               map[string]SLAConfig `mapstructure:"sla"`
	SLADefaultHours   int                  `mapstructure:"sla_default_hours"`
	ResubmissionLimit int                  `mapstructure:"resubmission_limit"`
	ReferencePrefix   string               `mapstructure:"reference_prefix"`
	Users             []UserConfig         `mapstructure:"users"`
}

// SLAConfig is the per-level response budget in hours.
type SLAConfig struct {
	CriticalHours    int `mapstructure:"critical_hours"`
	NonCriticalHours int `mapstructure:"non_critical_hours"`
}

// UserConfig is one directory entry.
type UserConfig struct {
	ID          string   `mapstructure:"id"`
	Name        string   `mapstructure:"name"`
	Email       string   `mapstructure:"email"`
	Levels      []string `mapstructure:"levels"`
	Entities    []string `mapstructure:"entities"`
	CanDisburse bool     `mapstructure:"can_disburse"`
	Admin       bool     `mapstructure:"admin"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/payflow.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", 24*time.Hour)

	// SMTP defaults
	viper.SetDefault("smtp.enabled", false)
	viper.SetDefault("smtp.port", 587)

	// Workflow defaults
	viper.SetDefault("workflow.ladder", []string{
		string(workflow.LevelFinanceVetting),
		string(workflow.LevelFinancePlanner),
		string(workflow.LevelFinanceController),
		string(workflow.LevelDirector),
		string(workflow.LevelMD),
	})
	viper.SetDefault("workflow.sla_default_hours", 24)
	viper.SetDefault("workflow.resubmission_limit", 2)
	viper.SetDefault("workflow.reference_prefix", "PAY")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("auth.jwt_secret", "PAYFLOW_JWT_SECRET")
	viper.BindEnv("smtp.host", "PAYFLOW_SMTP_HOST")
	viper.BindEnv("smtp.username", "PAYFLOW_SMTP_USERNAME")
	viper.BindEnv("smtp.password", "PAYFLOW_SMTP_PASSWORD")
	viper.BindEnv("smtp.from", "PAYFLOW_SMTP_FROM")
	viper.BindEnv("database.path", "PAYFLOW_DB_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if len(c.Workflow.Ladder) == 0 {
		return fmt.Errorf("workflow.ladder must name at least one level")
	}
	if c.Workflow.ResubmissionLimit <= 0 {
		return fmt.Errorf("workflow.resubmission_limit must be positive")
	}
	if c.Workflow.SLADefaultHours <= 0 {
		return fmt.Errorf("workflow.sla_default_hours must be positive")
	}

	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp.host is required when smtp is enabled")
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("smtp.from is required when smtp is enabled")
		}
	}

	return nil
}

// BuildLadder turns the configured level list into a domain ladder.
func (c *WorkflowConfig) BuildLadder() (*workflow.Ladder, error) {
	levels := make([]workflow.Level, len(c.Ladder))
	for i, l := range c.Ladder {
		levels[i] = workflow.Level(l)
	}
	return workflow.NewLadder(levels)
}

// BuildSLAPolicy turns the configured SLA table into a domain policy.
func (c *WorkflowConfig) BuildSLAPolicy() (*workflow.SLAPolicy, error) {
	budgets := make(map[workflow.Level]workflow.SLABudget, len(c.SLA))
	for level, b := range c.SLA {
		budgets[workflow.Level(level)] = workflow.SLABudget{
			CriticalHours:    b.CriticalHours,
			NonCriticalHours: b.NonCriticalHours,
		}
	}
	return workflow.NewSLAPolicy(budgets, c.SLADefaultHours)
}

// BuildGuard turns the configured resubmission limit into a domain guard.
func (c *WorkflowConfig) BuildGuard() *workflow.ResubmissionGuard {
	return workflow.NewResubmissionGuard(c.ResubmissionLimit)
}

// DirectoryUsers converts configured users into directory entries.
func (c *WorkflowConfig) DirectoryUsers() []directory.User {
	users := make([]directory.User, len(c.Users))
	for i, u := range c.Users {
		levels := make([]workflow.Level, len(u.Levels))
		for j, l := range u.Levels {
			levels[j] = workflow.Level(l)
		}
		users[i] = directory.User{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Levels:      levels,
			Entities:    u.Entities,
			CanDisburse: u.CanDisburse,
			Admin:       u.Admin,
		}
	}
	return users
}

// SMTPSettings converts the SMTP block into notifier settings.
func (c *SMTPConfig) SMTPSettings() notify.SMTPConfig {
	return notify.SMTPConfig{
		Enabled:  c.Enabled,
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
	}
}
