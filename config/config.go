package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the settings a run starts from. CLI flags override them.
type Config struct {
	Output     string
	LogLevel   string
	Progress   bool
	ClickHouse ClickHouseConfig
}

// ClickHouseConfig configures the optional export of matched records.
type ClickHouseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Database string
	User     string
	Password string
	Table    string
}

// DSN returns the connection string understood by the clickhouse database/sql driver.
func (c ClickHouseConfig) DSN() string {
	return fmt.Sprintf("clickhouse://%s:%s@%s:%s/%s?dial_timeout=5s", c.User, c.Password, c.Host, c.Port, c.Database)
}

// Load reads the given .env files (".env" when none are named) into the
// environment and resolves the configuration from it. Only a missing default
// .env is tolerated; a named file must exist. Variables already set in the
// environment win over file values.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("LOGPARSE")
	v.AutomaticEnv()

	v.SetDefault("output", "output.csv")
	v.SetDefault("log_level", "info")
	v.SetDefault("progress", true)

	// ClickHouse settings share the unprefixed CH_* names.
	chEnv := []struct {
		key, env, fallback string
	}{
		{"clickhouse.enabled", "CH_ENABLED", "false"},
		{"clickhouse.host", "CH_HOST", "localhost"},
		{"clickhouse.port", "CH_PORT", "9000"},
		{"clickhouse.database", "CH_DATABASE", "default"},
		{"clickhouse.user", "CH_USER", "default"},
		{"clickhouse.password", "CH_PASSWORD", ""},
		{"clickhouse.table", "CH_TABLE", "access_log_records"},
	}
	for _, e := range chEnv {
		if err := v.BindEnv(e.key, e.env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", e.env, err)
		}
		v.SetDefault(e.key, e.fallback)
	}

	return Config{
		Output:   v.GetString("output"),
		LogLevel: v.GetString("log_level"),
		Progress: v.GetBool("progress"),
		ClickHouse: ClickHouseConfig{
			Enabled:  v.GetBool("clickhouse.enabled"),
			Host:     v.GetString("clickhouse.host"),
			Port:     v.GetString("clickhouse.port"),
			Database: v.GetString("clickhouse.database"),
			User:     v.GetString("clickhouse.user"),
			Password: v.GetString("clickhouse.password"),
			Table:    v.GetString("clickhouse.table"),
		},
	}, nil
}
