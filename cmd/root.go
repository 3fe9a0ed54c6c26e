package cmd

import (
	"context"

	"github.com/jsphweid/whatkey/constants"
	"github.com/jsphweid/whatkey/logging"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	pretty   bool
)

var rootCmd = &cobra.Command{
	Use:   "whatkey",
	Short: "Finds scales, chords and keys",
	Long: `whatkey derives scales, diatonic chords and relative keys from a key name,
and guesses the key of an audio clip by transcribing it to notes.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, pretty)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", logging.IsTerminal(), "human readable logs")
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}
