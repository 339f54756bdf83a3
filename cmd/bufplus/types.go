package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rawbytedev/bufferplus"
	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered type identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := bufferplus.Types()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tKIND\tWIDTH\tORDER")
			for _, id := range types.IDs() {
				e, err := types.Lookup(id)
				if err != nil {
					return err
				}
				width, order := "var", "-"
				if e.Width > 0 {
					width = fmt.Sprint(e.Width)
				}
				if e.Width > 1 {
					order = "be"
					if e.LittleEndian {
						order = "le"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, e.Kind, width, order)
			}
			return w.Flush()
		},
	}
}
