package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRoutesCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled route table",
		Long:  `Compile the routes and print them in their matching order, along with the attributes each one checks.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			tbl, err := cfg.Table()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tSTATUS\tATTRIBUTES")

			for i, r := range tbl.Routings() {
				attrs := make([]string, 0, len(r.Attributes()))
				for _, attr := range r.Attributes() {
					attrs = append(attrs, attr.String())
				}

				route := r.Target()
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i, route.Name, route.Response.Status, strings.Join(attrs, ", "))
			}

			return w.Flush()
		},
	}
}
