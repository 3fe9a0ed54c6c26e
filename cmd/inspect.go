package cmd

import (
	"fmt"

	"github.com/jsphweid/whatkey/detect"
	"github.com/jsphweid/whatkey/midi"
	"github.com/jsphweid/whatkey/model"
	"github.com/jsphweid/whatkey/util"
	"github.com/spf13/cobra"
)

var inspectTop int

func init() {
	inspectCmd.Flags().IntVar(&inspectTop, "top", detect.MaxCandidates, "how many ranked pitches to show")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects the notes of a midi file",
	Long:  `Prints every note event of a midi file and its most frequent pitches.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, evt := range events {
			fmt.Fprintf(out, "%4d %-3v onset: %v offset: %v\n", evt.Pitch, model.PitchClassOf(int(evt.Pitch)), evt.Onset, evt.Offset)
		}

		pitches := model.Pitches(events)
		counts := make(map[int]int)
		for _, p := range pitches {
			counts[p]++
		}
		fmt.Fprintf(out, "\n%d distinct pitches: %v\n", len(counts), util.GetKeys(counts))
		fmt.Fprintf(out, "\nThe %d most common notes are:\n", inspectTop)
		for _, p := range detect.RankCommonPitches(pitches, inspectTop) {
			fmt.Fprintf(out, "  - Note: %v (MIDI: %d) | Frequency: %d times\n", model.PitchClassOf(p), p, counts[p])
		}
		return nil
	},
}
