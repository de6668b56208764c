package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/critic-dev/critic/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List available detectors and their default state",
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDEFAULT\tDESCRIPTION")
		for _, r := range rules.Registry() {
			state := "off"
			if r.DefaultEnabled {
				state = "on"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, state, r.Description)
		}
		tw.Flush()
	},
}
