package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/tokenboard/go/clients/football_data_client"
	"github.com/mcdev12/tokenboard/go/internal/game"
	"github.com/mcdev12/tokenboard/go/internal/matches"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Store struct {
		URL string `yaml:"url"`
	} `yaml:"store"`

	Game struct {
		DefaultPlayers   []string      `yaml:"default_players"`
		SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	} `yaml:"game"`

	Matches struct {
		APIURL       string        `yaml:"api_url"`
		Competitions []string      `yaml:"competitions"`
		PollInterval time.Duration `yaml:"poll_interval"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"matches"`

	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// Secrets are only read from the environment.
	AdminKey         string `yaml:"-"`
	ResetSecret      string `yaml:"-"`
	FootballAPIToken string `yaml:"-"`
}

func defaultConfig() *Config {
	var c Config
	c.Server.Port = "3000"
	c.Store.URL = "file://game-state.json"
	c.Game.DefaultPlayers = game.DefaultPlayers
	c.Game.SnapshotInterval = game.DefaultSnapshotInterval
	c.Matches.APIURL = football_data_client.BaseURL
	c.Matches.Competitions = football_data_client.DefaultCompetitions
	c.Matches.PollInterval = matches.DefaultPollInterval
	c.Matches.FetchTimeout = matches.DefaultFetchTimeout
	c.Log.Level = "info"
	return &c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Bare numbers are seconds.
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// loadConfig reads the optional YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Store.URL = getEnv("STATE_STORE_URL", c.Store.URL)
	c.Game.DefaultPlayers = getEnvAsList("DEFAULT_PLAYERS", c.Game.DefaultPlayers)
	c.Game.SnapshotInterval = getEnvAsDuration("SNAPSHOT_INTERVAL", c.Game.SnapshotInterval)
	c.Matches.APIURL = getEnv("FOOTBALL_API_URL", c.Matches.APIURL)
	c.Matches.Competitions = getEnvAsList("MATCH_COMPETITIONS", c.Matches.Competitions)
	c.Matches.PollInterval = getEnvAsDuration("MATCH_POLL_INTERVAL", c.Matches.PollInterval)
	c.Matches.FetchTimeout = getEnvAsDuration("MATCH_FETCH_TIMEOUT", c.Matches.FetchTimeout)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	c.AdminKey = os.Getenv("ADMIN_KEY")
	c.ResetSecret = os.Getenv("RESET_SECRET")
	c.FootballAPIToken = os.Getenv("FOOTBALL_API_TOKEN")
}
