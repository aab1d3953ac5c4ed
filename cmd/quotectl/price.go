package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"instaquote/models"
	"instaquote/services/pricing"
	"instaquote/utils"

	"github.com/spf13/cobra"
)

func priceCmd() *cobra.Command {
	var sqft float64
	var services []string
	var frequency string
	var model string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a lawn service selection for a measured area",
		RunE: func(cmd *cobra.Command, args []string) error {
			freq := models.Frequency(strings.ToLower(frequency))
			if !freq.Valid() {
				return fmt.Errorf("invalid --frequency %q (weekly or biweekly)", frequency)
			}
			keys := make([]models.ServiceKey, 0, len(services))
			for _, s := range services {
				key := models.ServiceKey(strings.TrimSpace(s))
				if !pricing.IsKnownService(key) {
					return fmt.Errorf("unknown service %q", s)
				}
				keys = append(keys, key)
			}

			q := pricing.NewRegistry().Engine(model).ComputeQuote(sqft, keys, freq)
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), q)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 2, 2, ' ', 0)
			fmt.Fprintln(writer, "SERVICE\tFREQUENCY\tPRICE")
			for _, li := range q.LineItems {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", li.Label, li.Frequency, utils.FormatCurrency(li.Price))
			}
			fmt.Fprintf(writer, "TOTAL\t\t%s\n", utils.FormatCurrency(q.Total))
			return writer.Flush()
		},
	}

	cmd.Flags().Float64Var(&sqft, "sqft", 0, "Lawn area in square feet")
	cmd.Flags().StringSliceVar(&services, "services", []string{string(models.ServiceMowing)}, "Services to price")
	cmd.Flags().StringVar(&frequency, "frequency", string(models.FrequencyWeekly), "Mowing frequency")
	cmd.Flags().StringVar(&model, "model", pricing.ModelBlock, "Pricing model (block or tiers)")
	return cmd
}
