package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/whatkey/chord"
	"github.com/jsphweid/whatkey/logging"
	"github.com/jsphweid/whatkey/util"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	listenPort   int
	listenWindow int
	listenQuiet  time.Duration
	listPorts    bool
)

func init() {
	listenCmd.Flags().IntVar(&listenPort, "port", 0, "midi input port number")
	listenCmd.Flags().IntVar(&listenWindow, "window", 200, "how many recent notes to detect over")
	listenCmd.Flags().DurationVar(&listenQuiet, "quiet", 750*time.Millisecond, "wait this long after the last note before detecting")
	listenCmd.Flags().BoolVar(&listPorts, "list", false, "list midi input ports and exit")
	addDetectorFlags(listenCmd)
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Guesses the key of notes played on a midi input",
	Long: `Collects notes played on a midi input port and, whenever playing pauses,
guesses the key of the most recent notes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.CloseDriver()

		if listPorts {
			for _, in := range midi.GetInPorts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %v\n", in.Number(), in.String())
			}
			return nil
		}

		in, err := midi.InPort(listenPort)
		if err != nil {
			return fmt.Errorf("can't open midi input %d: %w", listenPort, err)
		}

		log := logging.Get()
		detector := newDetector(log)
		notes := newNoteWindow(listenWindow)
		debounced := debounce.New(listenQuiet)

		detectRecent := func() {
			res := detector.RunPitches(notes.snapshot())
			switch {
			case res.Found:
				log.Info().Strs("chords", chord.Labels(res.Guesses)).Int("k", res.K).Msg("detected")
			case res.ProbableRoot != nil:
				log.Info().Stringer("root", *res.ProbableRoot).Msg("no chord, most repeated note")
			}
		}

		stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
			var ch, key, vel uint8
			if msg.GetNoteStart(&ch, &key, &vel) {
				notes.add(int(key))
				debounced(detectRecent)
			}
		})
		if err != nil {
			return err
		}
		defer stop()

		log.Info().Str("port", in.String()).Msg("listening")
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		<-ctx.Done()
		return nil
	},
}

// noteWindow keeps the most recent notes. The midi driver calls add from
// its own goroutine.
type noteWindow struct {
	mu    sync.Mutex
	size  int
	notes []int
}

func newNoteWindow(size int) *noteWindow {
	if size < 1 {
		size = 1
	}
	return &noteWindow{size: size}
}

func (w *noteWindow) add(note int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notes = append(w.notes, note)
	w.notes = w.notes[util.Max(0, len(w.notes)-w.size):]
}

func (w *noteWindow) snapshot() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int(nil), w.notes...)
}
