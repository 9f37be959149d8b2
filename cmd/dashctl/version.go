package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PaulButtle/dashkit/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if flagJSON {
			out, err := info.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.Text())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
