package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is everything the server needs at boot. Values come from
// defaults, an optional .env file and ENCUESTAS_* environment
// variables, in that precedence order.
type Config struct {
	Env           string
	Addr          string
	DBPath        string
	MigrationsDir string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
}

// Load reads the configuration. dotenvPath may be empty; a missing
// .env file is not an error.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("env", "dev")
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "encuestas.db")
	v.SetDefault("migrations_dir", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("cors_origins", "*")

	v.SetEnvPrefix("ENCUESTAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Env:           strings.ToLower(v.GetString("env")),
		Addr:          v.GetString("addr"),
		DBPath:        v.GetString("db_path"),
		MigrationsDir: v.GetString("migrations_dir"),
		JWTSecret:     v.GetString("jwt_secret"),
		TokenTTL:      v.GetDuration("token_ttl"),
		CORSOrigins:   splitOrigins(v.GetString("cors_origins")),
	}
	if cfg.JWTSecret == "" {
		if cfg.Env == "prod" || cfg.Env == "production" {
			return nil, fmt.Errorf("ENCUESTAS_JWT_SECRET is required in %s", cfg.Env)
		}
		cfg.JWTSecret = "encuestas-dev-secret"
	}
	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := []string{}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}
