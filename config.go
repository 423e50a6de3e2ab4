package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type config struct {
	PGConn       string
	ClientID     string
	ClientSecret string
	Admins       []string

	ListenAddr      string
	LogLevel        string
	HistorySessions int
	SearchWorkers   int
}

var requiredKeys = []string{"pgconn", "client_id", "client_secret", "admins"}

// loadConfig reads a local .env, an optional leagr.yaml and the environment,
// in increasing order of precedence.
func loadConfig() (*config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("leagr")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("history_sessions", 5)
	v.SetDefault("search_workers", 1)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (*config, error) {
	for _, key := range requiredKeys {
		if v.GetString(key) == "" {
			return nil, fmt.Errorf("%s is required", strings.ToUpper(key))
		}
	}
	c := &config{
		PGConn:          v.GetString("pgconn"),
		ClientID:        v.GetString("client_id"),
		ClientSecret:    v.GetString("client_secret"),
		Admins:          splitList(v.GetString("admins")),
		ListenAddr:      v.GetString("listen_addr"),
		LogLevel:        v.GetString("log_level"),
		HistorySessions: v.GetInt("history_sessions"),
		SearchWorkers:   v.GetInt("search_workers"),
	}
	if c.HistorySessions < 0 {
		return nil, fmt.Errorf("HISTORY_SESSIONS must not be negative, got %d", c.HistorySessions)
	}
	if c.SearchWorkers < 1 {
		c.SearchWorkers = 1
	}
	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
