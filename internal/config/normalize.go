package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = defaultDatabasePath
	}
	if value, ok := os.LookupEnv("GAZLINK_DB"); ok && strings.TrimSpace(value) != "" {
		c.Database.Path = value
	}
	if c.Database.Path, err = expandPath(c.Database.Path); err != nil {
		return fmt.Errorf("database.path: %w", err)
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatching() {
	if c.Matching.BatchSize <= 0 {
		c.Matching.BatchSize = defaultBatchSize
	}
	if c.Matching.ProgressInterval <= 0 {
		c.Matching.ProgressInterval = defaultProgressInterval
	}
	if c.Matching.Workers <= 0 {
		c.Matching.Workers = defaultWorkers
	}
	c.Matching.Scorer = strings.ToLower(strings.TrimSpace(c.Matching.Scorer))
	if c.Matching.Scorer == "" {
		c.Matching.Scorer = defaultScorer
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
