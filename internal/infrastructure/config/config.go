// Package config loads the settlement service configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/medtraie/Gaztesto-sub001/internal/core/numerator"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/return_order"
)

// EnvPrefix prefixes every environment override (GAZ_DATABASE_DSN, GAZ_APP_PORT, ...).
const EnvPrefix = "GAZ"

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Log         LogConfig
	JWT         JWTConfig
	Settlement  SettlementConfig
	Idempotency IdempotencyConfig
	Audit       AuditConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name            string
	Env             string
	Port            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Migrate         bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string // debug, info, warn, error
}

// JWTConfig holds the operator token settings.
type JWTConfig struct {
	Secret string
	Issuer string
}

// SettlementConfig tunes pricing, numbering and the commit policy.
type SettlementConfig struct {
	TaxRate        string
	ConsigneFees   map[string]string
	CommitPolicy   string
	NumberPrefix   string
	NumberStrategy string

	// ReplaceConsigneFees drops the default fee table, so only sizes listed in
	// ConsigneFees carry a deposit.
	ReplaceConsigneFees bool
}

// IdempotencyConfig controls the X-Idempotency-Key middleware.
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AuditConfig controls commit snapshots.
type AuditConfig struct {
	Enabled           bool
	CompressThreshold int
}

// Load reads config.toml from the working directory (optional) and applies
// GAZ_ environment overrides. Priority: env, file, built-in defaults.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory for config.toml.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:            v.GetString("app.name"),
			Env:             v.GetString("app.env"),
			Port:            v.GetString("app.port"),
			ShutdownTimeout: v.GetDuration("app.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("database.dsn"),
			MaxConns:        v.GetInt32("database.max_conns"),
			MinConns:        v.GetInt32("database.min_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("database.conn_max_idle_time"),
			Migrate:         v.GetBool("database.migrate"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Settlement: SettlementConfig{
			TaxRate:             v.GetString("settlement.tax_rate"),
			ConsigneFees:        v.GetStringMapString("settlement.consigne_fees"),
			CommitPolicy:        v.GetString("settlement.commit_policy"),
			NumberPrefix:        v.GetString("settlement.number_prefix"),
			NumberStrategy:      v.GetString("settlement.number_strategy"),
			ReplaceConsigneFees: v.GetBool("settlement.consigne_fees_replace"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: v.GetBool("idempotency.enabled"),
			TTL:     v.GetDuration("idempotency.ttl"),
		},
		Audit: AuditConfig{
			Enabled:           v.GetBool("audit.enabled"),
			CompressThreshold: v.GetInt("audit.compress_threshold"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gaz-settlement")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.migrate", true)

	v.SetDefault("log.level", "info")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "gaz-settlement")

	v.SetDefault("settlement.tax_rate", "0.10")
	v.SetDefault("settlement.consigne_fees_replace", false)
	v.SetDefault("settlement.commit_policy", "")
	v.SetDefault("settlement.number_prefix", return_order.NumberPrefix)
	v.SetDefault("settlement.number_strategy", "strict")

	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl", 24*time.Hour)

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.compress_threshold", 4096)
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required (set %s_DATABASE_DSN)", EnvPrefix)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be positive")
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must be between 0 and database.max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.App.Env == "production" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if _, err := c.Settlement.Domain(); err != nil {
		return err
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Domain converts the settlement section into the service configuration.
// Fees listed in the file replace the defaults for the same bottle type only,
// unless ReplaceConsigneFees is set.
func (s SettlementConfig) Domain() (return_order.Config, error) {
	cfg := return_order.DefaultConfig()

	rate, err := types.NewMoneyFromString(s.TaxRate)
	if err != nil || rate.IsNegative() || rate.GreaterThanOrEqual(types.NewMoneyFromInt(1)) {
		return cfg, fmt.Errorf("settlement.tax_rate %q must be a decimal in [0, 1)", s.TaxRate)
	}
	cfg.TaxRate = rate

	if s.ReplaceConsigneFees {
		cfg.ConsigneFees = make(map[string]types.Money, len(s.ConsigneFees))
	}
	for name, raw := range s.ConsigneFees {
		fee, err := types.NewMoneyFromString(raw)
		if err != nil || fee.IsNegative() {
			return cfg, fmt.Errorf("settlement.consigne_fees.%s %q must be a non-negative decimal", name, raw)
		}
		cfg.ConsigneFees[strings.ToUpper(name)] = fee
	}

	cfg.CommitPolicy = s.CommitPolicy
	if s.NumberPrefix != "" {
		cfg.NumberPrefix = s.NumberPrefix
	}
	cfg.NumberStrategy = numerator.ParseStrategy(s.NumberStrategy)
	return cfg, nil
}
