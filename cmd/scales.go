package cmd

import (
	"fmt"

	"github.com/jsphweid/whatkey/scale"
	"github.com/spf13/cobra"
)

var verifyScales bool

func init() {
	scalesCmd.Flags().BoolVar(&verifyScales, "verify", false, "check every scale uses each letter A-G once")
	rootCmd.AddCommand(scalesCmd)
}

var scalesCmd = &cobra.Command{
	Use:   "scales",
	Short: "Lists every major and minor scale",
	Long:  `Lists every major and minor scale`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if verifyScales {
			errs := scale.Verify()
			for _, err := range errs {
				fmt.Fprintf(out, "ERROR %v\n", err)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d scales failed verification", len(errs))
			}
			fmt.Fprintf(out, "all %d scales OK\n", len(scale.All()))
			return nil
		}
		for _, s := range scale.All() {
			printScale(out, s, false)
			fmt.Fprintln(out)
		}
		return nil
	},
}
