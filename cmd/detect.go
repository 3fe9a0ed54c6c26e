package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/jsphweid/whatkey/constants"
	"github.com/jsphweid/whatkey/detect"
	"github.com/jsphweid/whatkey/logging"
	"github.com/jsphweid/whatkey/model"
	"github.com/jsphweid/whatkey/transcribe"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	minK          int
	maxK          int
	basicPitchBin string
	timeout       time.Duration
	detectJSON    bool
)

func addDetectorFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&minK, "min-k", detect.MinCandidates, "smallest candidate set size")
	cmd.Flags().IntVar(&maxK, "max-k", detect.MaxCandidates, "largest candidate set size")
}

func addTranscriberFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&basicPitchBin, "basic-pitch", constants.GetBasicPitchBin(), "basic-pitch executable")
	cmd.Flags().DurationVar(&timeout, "timeout", constants.GetTranscribeTimeout(), "transcription deadline")
}

func init() {
	addDetectorFlags(detectCmd)
	addTranscriberFlags(detectCmd)
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "print the API response shape")
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect <audio or midi file>",
	Short: "Guesses the key of a recording",
	Long: `Guesses the key of a recording. Audio (mp3, wav, ogg, flac) is transcribed
with basic-pitch first; .mid files are read directly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		log := logging.Get()
		service := newService(log, 1)
		res, err := service.AnalyzeFile(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if detectJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(model.NewDetectResponse(res.Detection))
		}
		printDetection(out, res.Detection)
		return nil
	},
}

func newDetector(log zerolog.Logger) *detect.Detector {
	d := detect.NewDetector(log)
	d.MinK, d.MaxK = minK, maxK
	return d
}

func newService(log zerolog.Logger, workers int) *transcribe.Service {
	bp := transcribe.NewBasicPitch(basicPitchBin, constants.GetWorkDir(), log)
	return transcribe.NewService(bp, newDetector(log), workers, timeout, constants.GetWorkDir(), log)
}

func printDetection(w io.Writer, d model.Detection) {
	switch {
	case d.Found && len(d.Guesses) > 1:
		fmt.Fprintln(w, "Possible tonalities:")
	case d.Found:
		fmt.Fprintln(w, "Detected tonality:")
	case d.ProbableRoot != nil:
		fmt.Fprintf(w, "No chord detected. Most repeated note: %v\n", *d.ProbableRoot)
		return
	default:
		fmt.Fprintln(w, "It was not possible to detect the tonality. Please try again with another music fragment.")
		return
	}
	for _, g := range d.Guesses {
		fmt.Fprintf(w, "  %v\n", g.Label())
	}
}
