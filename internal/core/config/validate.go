package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("anchors.context_window", c.Anchors.ContextWindow, isPositive),
		criterio.Run("database.max_open_conns", c.Database.MaxOpenConns, isPositive),
		criterio.Run("database.max_idle_conns", c.Database.MaxIdleConns, isPositive),
		criterio.Run("database.busy_timeout", c.Database.BusyTimeout, isPositive),
		c.validateIgnoreGlobs(),
	)
}

// validateIgnoreGlobs checks every ignore pattern parses as a doublestar glob.
func (c *Config) validateIgnoreGlobs() error {
	var errs criterio.FieldErrorsBuilder
	for i, g := range c.Ignore {
		if !doublestar.ValidatePattern(g) {
			errs = errs.Append(fmt.Sprintf("ignore[%d]", i), fmt.Errorf("invalid glob pattern %q", g))
		}
	}
	return errs.ToError()
}

func isPositive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
