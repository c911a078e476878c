package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scadasync/internal/synchronizer"
)

var labelCmd = &cobra.Command{
	Use:   "label <variant>...",
	Short: "Show how variant tokens are rendered in descriptions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, token := range args {
			suffix := synchronizer.FormatSignalLabel(token)
			note := ""
			switch {
			case synchronizer.IsDataTypeToken(token):
				note = " (data type, not appended)"
			case synchronizer.ExpectedDescription("", token) == "":
				note = " (not appended)"
			}
			fmt.Fprintf(out, "%s\t%s%s\n", token, suffix, note)
		}
		return nil
	},
}
