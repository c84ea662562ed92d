package fasta

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_SingleRecord(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Record{{ID: "f1", Description: "desc", Seq: "MKV"}})
	require.NoError(t, err)
	assert.Equal(t, ">f1 desc\nMKV\n", buf.String())
}

func TestWrite_EmptyDescription(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Record{{ID: "f1", Seq: "MKV"}}))
	assert.Equal(t, ">f1\nMKV\n", buf.String())
}

func TestWrite_WrapsLongSequences(t *testing.T) {
	seq := strings.Repeat("A", LineWidth) + strings.Repeat("C", 5)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Record{{ID: "f1", Seq: seq}}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Len(t, lines[1], LineWidth)
	assert.Equal(t, "CCCCC", lines[2])
}

func TestWrite_LineBreaksInHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Record{
		{ID: "f1", Description: "kinase\n>evil", Seq: "MKV"},
		{ID: "f2\r\nx", Description: "a\rb", Seq: "MA\nGG"},
	}))
	assert.Equal(t, ">f1 kinase >evil\nMKV\n>f2 x a b\nMAGG\n", buf.String())

	records, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{ID: "f1", Description: "kinase >evil", Seq: "MKV"}, records[0])
	assert.Equal(t, "MAGG", records[1].Seq)
}

func TestProjectGenome_OneRecordPerFeature(t *testing.T) {
	const n = 25
	features := make([]any, n)
	for i := range features {
		features[i] = map[string]any{
			"id":                  fmt.Sprintf("f%d", i),
			"function":            fmt.Sprintf("function %d", i),
			"protein_translation": strings.Repeat("MKV", i+1),
		}
	}
	genome := domain.Genome{"features": features}

	path := filepath.Join(t.TempDir(), "protein.fa")
	count, err := ProjectGenome(path, genome)
	require.NoError(t, err)
	assert.Equal(t, n, count)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := Parse(f)
	require.NoError(t, err)
	require.Len(t, records, n)
	for i, r := range records {
		src := features[i].(map[string]any)
		assert.Equal(t, src["id"], r.ID)
		assert.Equal(t, src["function"], r.Description)
		assert.Equal(t, src["protein_translation"], r.Seq)
	}
}

func TestProjectGenome_Scenario(t *testing.T) {
	genome := domain.Genome{"features": []any{
		map[string]any{"id": "f1", "function": "desc", "protein_translation": "MKV"},
	}}

	path := filepath.Join(t.TempDir(), "protein.fa")
	_, err := ProjectGenome(path, genome)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ">f1 desc\nMKV\n", string(data))
}

func TestProjectGenome_MissingTranslation(t *testing.T) {
	genome := domain.Genome{"features": []any{
		map[string]any{"id": "f1", "function": "desc"},
	}}

	path := filepath.Join(t.TempDir(), "protein.fa")
	_, err := ProjectGenome(path, genome)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestParse_RejectsLeadingSequence(t *testing.T) {
	_, err := Parse(strings.NewReader("MKV\n>f1\nMKV\n"))
	assert.ErrorContains(t, err, "line 1")
}
