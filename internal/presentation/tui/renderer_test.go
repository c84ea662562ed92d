package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultMarkdown(t *testing.T) {
	md := ResultMarkdown(
		domain.Params{Workspace: "ws", InputGenome: "in", OutputGenome: "out"},
		&domain.Result{ReportName: "interpro2go_report_x", ReportRef: "10/6/1", OutputGenomeRef: "10/5/2"},
	)
	assert.Contains(t, md, "| Genome `out` | `10/5/2` |")
	assert.Contains(t, md, "| Report `interpro2go_report_x` | `10/6/1` |")

	render, err := NewRenderer()
	require.NoError(t, err)
	out, err := render(md)
	require.NoError(t, err)
	assert.Contains(t, out, "10/5/2")
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	Status(&buf, true, "saved")
	Status(&buf, false, "failed")
	assert.Contains(t, buf.String(), "saved")
	assert.Contains(t, buf.String(), "failed")

	buf.Reset()
	PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")
}
