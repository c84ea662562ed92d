package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/interpro2go"
	"github.com/aretw0/interpro2go/internal/cli"
	"github.com/aretw0/interpro2go/internal/presentation/tui"
	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Annotate one genome",
	Long: `Runs the interpro2go method once and prints the resulting references.

The Workspace token is read from $KB_AUTH_TOKEN. With a local store (--store memory or
redis), --seed loads the input genome from a JSON file first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		params := domain.Params{}
		params.Workspace, _ = cmd.Flags().GetString("workspace")
		params.InputGenome, _ = cmd.Flags().GetString("input")
		params.OutputGenome, _ = cmd.Flags().GetString("output")
		seed, _ := cmd.Flags().GetString("seed")
		jsonMode, _ := cmd.Flags().GetBool("json")

		rt, err := cli.Build(cfg, logger, os.Stderr)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if seed != "" {
			if rt.Store == nil {
				return fmt.Errorf("--seed requires a local store (memory or redis)")
			}
			info, err := cli.Seed(ctx, rt.Store, params.Workspace, params.InputGenome, seed)
			if err != nil {
				return err
			}
			logger.Info("seeded input genome", "ref", info.Ref())
		}

		res, err := rt.Service.Interpro2GO(ctx, domain.CallContext{Token: os.Getenv(EnvToken)}, params)

		interactive := !jsonMode && term.IsTerminal(int(os.Stdout.Fd()))
		if err != nil {
			if interactive {
				tui.Status(os.Stdout, false, err.Error())
			}
			return err
		}

		if !interactive {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		tui.PrintBanner(os.Stdout, interpro2go.Version)
		render, err := tui.NewRenderer()
		if err != nil {
			return err
		}
		out, err := render(tui.ResultMarkdown(params, res))
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		tui.Status(os.Stdout, true, "genome saved to "+res.OutputGenomeRef)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("workspace", "w", "", "Workspace holding the input genome")
	runCmd.Flags().StringP("input", "i", "", "Name of the input Genome object")
	runCmd.Flags().StringP("output", "o", "", "Name for the annotated Genome object")
	runCmd.Flags().String("seed", "", "Genome JSON file saved as the input before running (local stores only)")
	runCmd.Flags().String("store", "", "Override the configured store (workspace, memory, redis)")
	runCmd.Flags().Bool("json", false, "Print the result as JSON")
}
