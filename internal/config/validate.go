package config

import (
	"errors"
	"fmt"
)

var validScorers = map[string]struct{}{
	"jarowinkler": {},
	"edlib":       {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.Threshold < 0 || c.Matching.Threshold > 1 {
		return errors.New("matching.threshold must be between 0 and 1")
	}
	if c.Matching.BatchSize <= 0 {
		return errors.New("matching.batch_size must be positive")
	}
	if c.Matching.ProgressInterval <= 0 {
		return errors.New("matching.progress_interval must be positive (seconds)")
	}
	if c.Matching.Workers <= 0 {
		return errors.New("matching.workers must be positive")
	}
	if _, ok := validScorers[c.Matching.Scorer]; !ok {
		return fmt.Errorf("matching.scorer: unsupported value %q (use jarowinkler or edlib)", c.Matching.Scorer)
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.Threshold < 0 || c.Export.Threshold > 1 {
		return errors.New("export.threshold must be between 0 and 1")
	}
	if c.Export.Limit < 0 {
		return errors.New("export.limit must not be negative")
	}
	if c.Report.Limit < 0 {
		return errors.New("report.limit must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	return nil
}
