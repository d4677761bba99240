package config

import (
	"errors"
	"fmt"
)

var knownStrategies = map[string]bool{
	"deterministic": true,
	"semantic":      true,
}

var knownProviders = map[string]bool{
	"tldv":      true,
	"fireflies": true,
}

// Validate ensures the configuration is usable. A failure here aborts the
// run before any event is processed.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateScheduler(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.LookbackDays <= 0 {
		return fmt.Errorf("matching.lookbackDays must be positive, got %v", m.LookbackDays)
	}
	if m.ProximityWindowMinutes <= 0 {
		return fmt.Errorf("matching.proximityWindowMinutes must be positive, got %d", m.ProximityWindowMinutes)
	}
	if len(m.IgnoreKeywords) == 0 {
		return errors.New("matching.ignoreKeywords must not be empty")
	}
	if len(m.Strategies) == 0 {
		return errors.New("matching.strategies must list at least one strategy")
	}
	for _, name := range m.Strategies {
		if !knownStrategies[name] {
			return fmt.Errorf("matching.strategies: unknown strategy %q", name)
		}
	}
	return nil
}

func (c *Config) validateProviders() error {
	if len(c.Providers.Enabled) == 0 {
		return errors.New("providers.enabled must list at least one recording source")
	}
	for _, name := range c.Providers.Enabled {
		if !knownProviders[name] {
			return fmt.Errorf("providers.enabled: unknown provider %q", name)
		}
	}
	return nil
}

func (c *Config) validateScheduler() error {
	if c.Scheduler.IntervalHours <= 0 {
		return fmt.Errorf("scheduler.intervalHours must be positive, got %d", c.Scheduler.IntervalHours)
	}
	return nil
}
