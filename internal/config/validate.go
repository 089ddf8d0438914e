package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecorder(); err != nil {
		return err
	}
	if err := c.validateResize(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRecorder() error {
	if c.Recorder.Quality < 0 {
		return errors.New("recorder.quality must be non-negative")
	}
	if c.Recorder.StopTimeout <= 0 {
		return errors.New("recorder.stop_timeout must be positive")
	}
	if c.Recorder.PollInterval <= 0 {
		return errors.New("recorder.poll_interval must be positive")
	}
	return nil
}

func (c *Config) validateResize() error {
	if c.Resize.Percent <= 0 || c.Resize.Percent > 1 {
		return fmt.Errorf("resize.percent must be in (0, 1], got %v", c.Resize.Percent)
	}
	if c.Resize.JPEGQuality < 1 || c.Resize.JPEGQuality > 100 {
		return fmt.Errorf("resize.jpeg_quality must be between 1 and 100, got %d", c.Resize.JPEGQuality)
	}
	if c.Resize.Workers < 1 {
		return errors.New("resize.workers must be at least 1")
	}
	if len(c.Resize.Extensions) == 0 {
		return errors.New("resize.extensions must list at least one extension")
	}
	switch c.Resize.Filter {
	case "lanczos", "catmullrom", "bilinear", "nearest":
	default:
		return fmt.Errorf("resize.filter: unsupported value %q", c.Resize.Filter)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
