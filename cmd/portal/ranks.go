package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var ranksCmd = &cobra.Command{
	Use:   "ranks",
	Short: "Print the configured rank ladder",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := cfg.Progression.RankTable()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tMIN XP\tCOLOR")
		for _, t := range table.Tiers() {
			fmt.Fprintf(w, "%s\t%d\t%s\n", t.Name, t.MinXP, t.Color)
		}
		return w.Flush()
	},
}
