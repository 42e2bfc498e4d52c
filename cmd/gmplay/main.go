// Command gmplay drives the gmvoice synthesis core from a Standard MIDI
// File, either to a live PortAudio output device or to a rendered WAVE
// file. Live playback prints one colorized status line and stops on
// ctrl-c or escape; it shows no view of channel or voice activity.
//
// Built around a cobra root command with play/render subcommands:
// portaudio streaming and signal handling for live playback, plain
// buffered writes for rendering to disk.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "gmplay"})

var (
	flagSampleRate int
	flagEchoMs     int
	flagEchoDecay  float64
)

func main() {
	root := &cobra.Command{
		Use:   "gmplay",
		Short: "Play or render a Standard MIDI File through the gmvoice synth core",
	}
	root.PersistentFlags().IntVar(&flagSampleRate, "hz", 44100, "output sample rate")
	root.PersistentFlags().IntVar(&flagEchoMs, "echo", 0, "echo delay in milliseconds (0 disables the effect)")
	root.PersistentFlags().Float64Var(&flagEchoDecay, "echo-decay", 0.35, "echo feedback decay (0..1)")

	root.AddCommand(playCmd())
	root.AddCommand(renderCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
