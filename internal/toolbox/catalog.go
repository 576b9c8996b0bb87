package toolbox

// Spec describes one tool for the catalog sent to the model in the first
// user message.
type Spec struct {
	Name        string
	Description string
	Args        []ArgSpec
}

// ArgSpec documents one argument in the catalog.
type ArgSpec struct {
	Name        string
	Description string
}

// Specs returns the fixed tool catalog, in presentation order.
func Specs() []Spec {
	return []Spec{
		{
			Name:        "list_files",
			Description: "List files under a directory in the workspace.",
			Args: []ArgSpec{
				{"path", "relative path, default '.'"},
				{"limit", "max entries, default 200"},
			},
		},
		{
			Name:        "read_file",
			Description: "Read file content with optional line range.",
			Args: []ArgSpec{
				{"path", "relative file path"},
				{"start_line", "1-based start line, default 1"},
				{"end_line", "1-based end line inclusive, optional"},
			},
		},
		{
			Name:        "write_file",
			Description: "Write full content to file, creating parent directories as needed.",
			Args: []ArgSpec{
				{"path", "relative file path"},
				{"content", "new file content"},
			},
		},
		{
			Name:        "append_file",
			Description: "Append content to end of file.",
			Args: []ArgSpec{
				{"path", "relative file path"},
				{"content", "content to append"},
			},
		},
		{
			Name:        "run_shell",
			Description: "Run a shell command inside the workspace.",
			Args: []ArgSpec{
				{"command", "bash command string"},
				{"timeout_sec", "optional timeout in seconds"},
			},
		},
	}
}

// Names returns the tool names in catalog order. The loop's plain-prose
// fallback uses these to detect tool mentions in raw text.
func Names() []string {
	specs := Specs()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}
