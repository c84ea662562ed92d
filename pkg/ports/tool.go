package ports

import (
	"context"

	"github.com/aretw0/interpro2go/pkg/domain"
)

// ToolRunner runs the external annotation tool.
type ToolRunner interface {
	// Annotate reads the FASTA file at input and writes tab separated results to output.
	// It blocks until the tool exits. A non-zero exit status is reported in the outcome;
	// an error means the tool could not be started or waited for.
	Annotate(ctx context.Context, input, output string) (domain.ToolOutcome, error)
}
