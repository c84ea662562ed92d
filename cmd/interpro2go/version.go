package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/interpro2go"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of interpro2go",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("interpro2go version %s\n", strings.TrimSpace(interpro2go.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
