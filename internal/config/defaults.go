package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Agent    AgentConfig    `json:"agent"`
	Tools    ToolsConfig    `json:"tools"`
	Provider ProviderConfig `json:"provider"`
}

type AgentConfig struct {
	// MaxSteps bounds the number of model turns per run.
	MaxSteps int `json:"max_steps"` // Default: 10

	// TrimBudgetChars bounds the conversation size fed back to the model.
	TrimBudgetChars int `json:"trim_budget_chars"` // Default: 24000

	// SnapshotLimit caps the initial file-tree listing in the first
	// user message.
	SnapshotLimit int `json:"snapshot_limit"` // Default: 120
}

type ToolsConfig struct {
	// AllowShell enables the run_shell tool.
	AllowShell bool `json:"allow_shell"` // Default: true

	// ShellTimeoutSec is the default wall-clock timeout for run_shell.
	ShellTimeoutSec int `json:"shell_timeout_sec"` // Default: 45

	// OutputCharLimit clips every tool's textual output.
	OutputCharLimit int `json:"output_char_limit"` // Default: 4000

	// DefaultListLimit caps list_files entries when the model omits one.
	DefaultListLimit int `json:"default_list_limit"` // Default: 200
}

type ProviderConfig struct {
	Model    string `json:"model"`     // Default: gemini-2.0-flash-exp
	OCRModel string `json:"ocr_model"` // Default: gemini-2.0-flash-exp
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			MaxSteps:        10,
			TrimBudgetChars: 24000,
			SnapshotLimit:   120,
		},
		Tools: ToolsConfig{
			AllowShell:       true,
			ShellTimeoutSec:  45,
			OutputCharLimit:  4000,
			DefaultListLimit: 200,
		},
		Provider: ProviderConfig{
			Model:    "gemini-2.0-flash-exp",
			OCRModel: "gemini-2.0-flash-exp",
		},
	}
}
