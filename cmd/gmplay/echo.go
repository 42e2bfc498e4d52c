package main

import "github.com/nibblesound/gmvoice/echo"

// newEcho returns an Echo configured from the --echo/--echo-decay flags,
// or nil if the effect is disabled (the default).
func newEcho() *echo.Echo {
	if flagEchoMs <= 0 {
		return nil
	}
	return echo.New(flagEchoMs, flagSampleRate, float32(flagEchoDecay))
}
