package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/whatkey/keyname"
	"github.com/jsphweid/whatkey/model"
	"github.com/jsphweid/whatkey/scale"
	"github.com/spf13/cobra"
)

var (
	scaleMode    string
	scaleMidi    string
	scaleJSON    bool
	scaleSolfege bool
)

func init() {
	scaleCmd.Flags().StringVar(&scaleMode, "mode", "", "major or minor, overrides an \"m\" suffix")
	scaleCmd.Flags().StringVar(&scaleMidi, "midi", "", "also write the scale to this .mid file")
	scaleCmd.Flags().BoolVar(&scaleJSON, "json", false, "print the API response shape")
	scaleCmd.Flags().BoolVar(&scaleSolfege, "solfege", false, "print notes as Do, Re, Mi...")
	rootCmd.AddCommand(scaleCmd)
}

var scaleCmd = &cobra.Command{
	Use:   "scale <key>",
	Short: "Shows the scale, chords and relative key of a key",
	Long: `Shows the scale, chords and relative key of a key.

Examples:
  whatkey scale c-sharp
  whatkey scale Am
  whatkey scale Bb --mode minor --midi bb-minor.mid`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := keyname.Parse(args[0])
		if err != nil {
			return err
		}
		if scaleMode != "" {
			mode, ok := model.ParseMode(scaleMode)
			if !ok {
				return fmt.Errorf("unknown mode %q", scaleMode)
			}
			k.Mode = mode
		}

		s, _ := scale.Lookup(k)
		if scaleMidi != "" {
			if err := scale.WriteMIDIFile(scaleMidi, s); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if scaleJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(newScaleResponse(k, s))
		}
		printScale(out, s, scaleSolfege)
		return nil
	},
}

func printScale(w io.Writer, s model.Scale, solfege bool) {
	notes, chords := s.Notes, s.Chords
	if solfege {
		notes, chords = keyname.SolfegeAll(notes), keyname.SolfegeAll(chords)
	}
	fmt.Fprintf(w, "Scale %v %v\n", s.Notes[0], s.Mode)
	fmt.Fprintf(w, "- Notes:    %v\n", strings.Join(notes, " "))
	fmt.Fprintf(w, "- Chords:   %v\n", strings.Join(chords, " "))
	fmt.Fprintf(w, "- Relative: %v\n", s.Relative.Name())
}

// newScaleResponse spells the root the way the scale does. The key only
// contributes the accidental flags and the enharmonic link.
func newScaleResponse(k model.Key, s model.Scale) model.ScaleResponse {
	res := model.ScaleResponse{
		Root:     s.Notes[0],
		Mode:     s.Mode.String(),
		Scale:    s.Notes,
		Chords:   s.Chords,
		Relative: s.Relative.Name(),
		IsSharp:  k.IsSharp(),
		IsFlat:   k.IsFlat(),
		Solfege:  keyname.SolfegeAll(s.Notes),
	}
	if k.Accidental != model.Natural {
		res.Enharmonic = keyname.Enharmonic(k)
	}
	return res
}
