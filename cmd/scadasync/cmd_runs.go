package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	runsLimit  int
	runsDelete string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded synchronization runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openRunStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if runsDelete != "" {
			if err := st.DeleteRun(runsDelete); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", runsDelete)
			return nil
		}

		runs, err := st.ListRuns(runsLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tOUTPUT\tSTATUS\tPROCESSED\tUPDATED")
		for _, r := range runs {
			output := r.OutputFile
			if r.DryRun {
				output = "(dry run)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.SourceFile, output, r.Status, r.Processed, r.Updated)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to show (0 = all)")
	runsCmd.Flags().StringVar(&runsDelete, "delete", "", "delete the run with the given id")
}
