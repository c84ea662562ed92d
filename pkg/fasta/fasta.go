package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/interpro2go/pkg/domain"
)

// LineWidth is the maximum number of residues written per sequence line.
const LineWidth = 60

// Record is a single FASTA entry.
type Record struct {
	ID          string
	Description string
	Seq         string
}

// FromFeatures builds one record per feature, in order.
func FromFeatures(features []domain.Feature) []Record {
	records := make([]Record, len(features))
	for i, f := range features {
		records[i] = Record{
			ID:          f.ID,
			Description: f.Function,
			Seq:         f.ProteinTranslation,
		}
	}
	return records
}

// Line breaks inside a header or sequence would start a new record.
var (
	headerBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	seqBreaks    = strings.NewReplacer("\r", "", "\n", "")
)

// Write writes records to w as ">id description" headers followed by wrapped sequence lines.
// Line breaks in the id or description are written as spaces.
func Write(w io.Writer, records []Record) error {
	for _, r := range records {
		header := headerBreaks.Replace(r.ID)
		if r.Description != "" {
			header += " " + headerBreaks.Replace(r.Description)
		}
		if _, err := fmt.Fprintf(w, ">%s\n", header); err != nil {
			return err
		}
		for seq := seqBreaks.Replace(r.Seq); len(seq) > 0; {
			n := min(len(seq), LineWidth)
			if _, err := fmt.Fprintf(w, "%s\n", seq[:n]); err != nil {
				return err
			}
			seq = seq[n:]
		}
	}
	return nil
}

// WriteFile writes records to a new file at path.
func WriteFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create fasta file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := Write(bw, records); err != nil {
		return fmt.Errorf("failed to write fasta file: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write fasta file: %w", err)
	}
	return f.Close()
}

// ProjectGenome writes the protein FASTA of genome to path and returns the number of records.
func ProjectGenome(path string, genome domain.Genome) (int, error) {
	features, err := genome.Features()
	if err != nil {
		return 0, err
	}
	records := FromFeatures(features)
	if err := WriteFile(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
