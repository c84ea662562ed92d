package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/aretw0/interpro2go/internal/cli"
	"github.com/aretw0/interpro2go/internal/presentation/tui"
	"github.com/aretw0/interpro2go/pkg/fasta"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project <genome.json>",
	Short: "Write the protein FASTA of a genome file",
	Long: `Projects the features of a Genome JSON file into the protein FASTA that would be
handed to InterProScan, without contacting any store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		check, _ := cmd.Flags().GetBool("check")

		genome, err := cli.LoadGenome(args[0])
		if err != nil {
			return err
		}
		n, err := fasta.ProjectGenome(output, genome)
		if err != nil {
			return err
		}

		if check {
			f, err := os.Open(output)
			if err != nil {
				return err
			}
			defer f.Close()
			records, err := fasta.Parse(bufio.NewReader(f))
			if err != nil {
				return fmt.Errorf("projected file is not valid fasta: %w", err)
			}
			if len(records) != n {
				return fmt.Errorf("projected %d features but read back %d records", n, len(records))
			}
		}

		tui.Status(os.Stdout, true, fmt.Sprintf("wrote %d records to %s", n, output))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.Flags().StringP("output", "o", "protein.fa", "Path of the FASTA file to write")
	projectCmd.Flags().Bool("check", false, "Read the file back and verify the record count")
}
