package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type Config struct {
	// HTTPAddr is the host:port the API server binds to.
	HTTPAddr string

	// SQLDSN is the path to the SQLite database.
	SQLDSN string

	// WebToken authenticates the administrative API endpoints.
	WebToken string

	// KFactor is the maximum rating swing per match.
	KFactor float64

	// InitialRating is the rating given to a brand that never played.
	InitialRating float64
}

func NewFromUserConfigDir() (*Config, error) {
	c := &Config{}
	if err := c.ReloadFromUserConfigDir(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) expandFromEnv() {
	vars := []struct {
		src string
		dst *string
	}{
		{"TEAELO_HTTP_ADDR", &c.HTTPAddr},
		{"TEAELO_SQL_DSN", &c.SQLDSN},
		{"TEAELO_WEB_TOKEN", &c.WebToken},
	}

	for _, v := range vars {
		if str := os.Getenv(v.src); str != "" {
			*v.dst = str
		}
	}
}

func (c *Config) applyDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = "127.0.0.1:3001"
	}

	if c.SQLDSN == "" {
		c.SQLDSN = "./teaelo.db"
	}

	if c.KFactor <= 0 {
		c.KFactor = 32.0
	}

	if c.InitialRating <= 0 {
		c.InitialRating = 1200.0
	}
}

func (c *Config) ReloadFromUserConfigDir() error {
	defer c.applyDefaults()
	defer c.expandFromEnv()

	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return err
	}
	log.Printf("debug: reading conf from %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		*c = Config{}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(c)
}

func getOrCreateUserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "teaelo")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}

func (c *Config) Write() error {
	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return err
	}
	log.Printf("debug: writing conf to %s", path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o700)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(f).Encode(c); err != nil {
		if err2 := f.Close(); err2 != nil {
			return fmt.Errorf("unable to close file (%s) after error: %w", err2, err)
		}

		return err
	}

	return f.Close()
}
