package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render, nil
}

// ResultMarkdown describes a finished invocation as a markdown document.
func ResultMarkdown(params domain.Params, res *domain.Result) string {
	var b strings.Builder
	b.WriteString("# interpro2go\n\n")
	fmt.Fprintf(&b, "Annotated `%s` from workspace `%s`.\n\n", params.InputGenome, params.Workspace)
	b.WriteString("| Object | Reference |\n|---|---|\n")
	fmt.Fprintf(&b, "| Genome `%s` | `%s` |\n", params.OutputGenome, res.OutputGenomeRef)
	fmt.Fprintf(&b, "| Report `%s` | `%s` |\n", res.ReportName, res.ReportRef)
	return b.String()
}
