package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"

	"github.com/nibblesound/gmvoice"
	"github.com/nibblesound/gmvoice/midifile"
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <file.mid>",
		Short: "Play a MIDI file through the default PortAudio output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(args[0])
		},
	}
}

func runPlay(path string) error {
	reader, err := midifile.Load(path)
	if err != nil {
		return fmt.Errorf("gmplay: %w", err)
	}

	player := gmvoice.NewPlayer(uint32(flagSampleRate), defaultWave)
	player.SetFile(reader)
	fx := newEcho()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("gmplay: portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	scratch := make([]byte, 0, 4096)
	streamCB := func(out []int16) {
		if cap(scratch) < len(out) {
			scratch = make([]byte, len(out))
		}
		scratch = scratch[:len(out)]
		player.FillBuffer(scratch)
		if fx != nil {
			fx.Process(scratch)
		}
		for i, b := range scratch {
			out[i] = (int16(b) - 128) << 8
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(flagSampleRate), portaudio.FramesPerBufferUnspecified, streamCB)
	if err != nil {
		return fmt.Errorf("gmplay: open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("gmplay: start stream: %w", err)
	}
	defer stream.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)

	stopCh := make(chan struct{})
	var stopOnce sync.Once
	stop := func() { stopOnce.Do(func() { close(stopCh) }) }

	keyboardDone := make(chan struct{})
	go func() {
		defer close(keyboardDone)
		keyboard.Listen(func(key keys.Key) (bool, error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				stop()
				return true, nil
			}
			return false, nil
		})
	}()

	cyan := color.New(color.FgCyan).SprintfFunc()
	logger.Infof("playing %s at %d Hz — %s to stop", path, flagSampleRate, cyan("ctrl-c"))

	select {
	case <-sigCh:
		stop()
	case <-stopCh:
	}

	// keyboard.Listen only returns once it reads a key; on the signal path
	// give it a bounded window to unwind instead of leaking the goroutine
	// past process exit.
	select {
	case <-keyboardDone:
	case <-time.After(500 * time.Millisecond):
	}

	return nil
}
