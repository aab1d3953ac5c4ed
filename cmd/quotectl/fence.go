package main

import (
	"fmt"
	"text/tabwriter"

	"instaquote/models"
	"instaquote/services/pricing"
	"instaquote/utils"

	"github.com/spf13/cobra"
)

func fenceCmd() *cobra.Command {
	var feet float64
	var sel models.FenceSelection

	cmd := &cobra.Command{
		Use:   "fence",
		Short: "Estimate a fence run from its length",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := pricing.EstimateFence(nil, feet, sel)
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), q)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 2, 2, ' ', 0)
			fmt.Fprintln(writer, "ITEM\tQTY\tPRICE")
			for _, li := range q.LineItems {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", li.Label, utils.FormatNumber(li.Quantity), utils.FormatCurrency(li.Price))
			}
			fmt.Fprintf(writer, "TOTAL\t\t%s\n", utils.FormatCurrency(q.Total))
			return writer.Flush()
		},
	}

	cmd.Flags().Float64Var(&feet, "feet", 0, "Fence length in feet")
	cmd.Flags().StringVar(&sel.FenceType, "type", "", "Fence type (defaults to the rate card default)")
	cmd.Flags().IntVar(&sel.WalkGates, "walk-gates", 0, "Number of walk gates")
	cmd.Flags().IntVar(&sel.DoubleGates, "double-gates", 0, "Number of double gates")
	cmd.Flags().BoolVar(&sel.RemoveOld, "remove-old", false, "Remove the existing fence")
	return cmd
}
