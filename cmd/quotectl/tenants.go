package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"instaquote/models"
	"instaquote/services/tenant"

	"github.com/spf13/cobra"
)

func tenantsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List the tenants a tenants file resolves to",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := tenant.Load(file, "", "", "")
			if err != nil {
				return err
			}

			if outputJSON {
				out := make([]models.TenantBranding, 0, len(reg.All()))
				for _, t := range reg.All() {
					out = append(out, tenant.Branding(t))
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 2, 2, ' ', 0)
			fmt.Fprintln(writer, "SLUG\tBRAND\tMODE\tHOSTS")
			for _, t := range reg.All() {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", t.Slug, t.BrandName, t.Mode, strings.Join(t.Hosts, ","))
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Tenants YAML file")
	return cmd
}
