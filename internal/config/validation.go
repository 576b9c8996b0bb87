package config

import "fmt"

// Validate checks the merged configuration for values that would break the
// run loop or the tool executor. Called after dotfile merge.
func (c *Config) Validate() error {
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("agent.max_steps must be positive, got %d", c.Agent.MaxSteps)
	}
	if c.Agent.TrimBudgetChars <= 0 {
		return fmt.Errorf("agent.trim_budget_chars must be positive, got %d", c.Agent.TrimBudgetChars)
	}
	if c.Agent.SnapshotLimit <= 0 {
		return fmt.Errorf("agent.snapshot_limit must be positive, got %d", c.Agent.SnapshotLimit)
	}
	if c.Tools.ShellTimeoutSec <= 0 {
		return fmt.Errorf("tools.shell_timeout_sec must be positive, got %d", c.Tools.ShellTimeoutSec)
	}
	if c.Tools.OutputCharLimit <= 0 {
		return fmt.Errorf("tools.output_char_limit must be positive, got %d", c.Tools.OutputCharLimit)
	}
	if c.Tools.DefaultListLimit <= 0 {
		return fmt.Errorf("tools.default_list_limit must be positive, got %d", c.Tools.DefaultListLimit)
	}
	if c.Provider.Model == "" {
		return fmt.Errorf("provider.model must not be empty")
	}
	return nil
}
