package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nibblesound/gmvoice"
	"github.com/nibblesound/gmvoice/midifile"
	"github.com/nibblesound/gmvoice/wavout"
)

func renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <file.mid> <out.wav>",
		Short: "Render a MIDI file to a WAVE file without opening an audio device",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args[0], args[1])
		},
	}
}

func runRender(inPath, outPath string) error {
	reader, err := midifile.Load(inPath)
	if err != nil {
		return fmt.Errorf("gmplay: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("gmplay: %w", err)
	}
	defer out.Close()

	w, err := wavout.NewWriter(out, flagSampleRate)
	if err != nil {
		return fmt.Errorf("gmplay: %w", err)
	}

	player := gmvoice.NewPlayer(uint32(flagSampleRate), defaultWave)
	player.SetFile(reader)
	fx := newEcho()

	const chunk = 4096
	buf := make([]byte, chunk)
	for player.Reader != nil {
		before := player.Clipped
		player.FillBuffer(buf)
		if fx != nil {
			fx.Process(buf)
		}
		if err := w.WriteFrame(buf); err != nil {
			return fmt.Errorf("gmplay: write frame: %w", err)
		}
		if player.Clipped > before {
			logger.Warnf("clipping: %d samples", player.Clipped-before)
		}
		if allVoicesIdle(player) {
			break
		}
	}

	if _, err := w.Finish(); err != nil {
		return fmt.Errorf("gmplay: finish: %w", err)
	}

	logger.Infof("rendered %s -> %s (%d samples, %d clipped)", inPath, outPath, player.SampleCount, player.Clipped)
	return nil
}

// allVoicesIdle reports whether every channel and the percussion pool
// have decayed to silence, used by render to stop once a file has
// finished and its voices have fully released.
func allVoicesIdle(p *gmvoice.Player) bool {
	for i := range p.Channels {
		if p.Channels[i].States.On != 0 || p.Channels[i].States.Held != 0 {
			return false
		}
	}
	return p.Percussion.States.On == 0
}
