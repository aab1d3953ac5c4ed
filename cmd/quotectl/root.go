package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var outputJSON bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quotectl",
		Short:        "Offline pricing and measuring for the instant quote funnel",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")

	root.AddCommand(priceCmd())
	root.AddCommand(fenceCmd())
	root.AddCommand(measureCmd())
	root.AddCommand(tenantsCmd())
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
