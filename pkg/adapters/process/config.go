package process

// DefaultCommand is the InterProScan launcher looked up on PATH.
const DefaultCommand = "interproscan.sh"

// ToolConfig describes how to launch the annotation tool.
type ToolConfig struct {
	// Command is the executable to run (default "interproscan.sh").
	Command string `yaml:"command" json:"command"`

	// Args are appended after the fixed annotation flags.
	Args []string `yaml:"args" json:"args"`

	// Env holds extra KEY=VALUE pairs added to the inherited environment.
	Env map[string]string `yaml:"env" json:"env"`
}

// Argv returns the full command line for annotating input into output.
// The fixed flags select TSV output, disable the precalculated match lookup and
// enable GO term and InterPro lookups.
func (c ToolConfig) Argv(input, output string) []string {
	cmd := c.Command
	if cmd == "" {
		cmd = DefaultCommand
	}
	argv := []string{
		cmd,
		"-i", input,
		"-f", "tsv",
		"-o", output,
		"--disable-precalc",
		"-goterms", "-iprlookup", "-hm",
	}
	return append(argv, c.Args...)
}
