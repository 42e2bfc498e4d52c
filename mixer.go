package gmvoice

// ticksFor converts a sample count to absolute MIDI ticks at the
// player's current tempo and the reader's division, per §4.11:
// TICKS(n) = n * 1_000_000 * division / sampleRate / tempo.
//
// Changing tempo mid-stream makes this lookahead inexact across the
// tempo change; re-deriving the window after every dispatched event
// would fix it, but is not done here — see the design notes.
func (p *Player) ticksFor(n uint64) uint64 {
	if p.Reader == nil || p.Tempo == 0 {
		return 0
	}
	return n * 1_000_000 * uint64(p.Reader.Division()) / uint64(p.sampleRate) / uint64(p.Tempo)
}

// FillBuffer produces len(out) unsigned 8-bit samples, interleaving
// per-sample event dispatch with mixing, per §4.11.
func (p *Player) FillBuffer(out []byte) {
	length := len(out)

	if p.Mode == ModeFile && !p.havePending {
		p.fetchPending()
	}

	eventCheckEnabled := p.havePending && p.pending.AbsTime <= p.ticksFor(p.SampleCount+uint64(length))

	for n := 0; n < length; n++ {
		for eventCheckEnabled && p.havePending && p.pending.AbsTime <= p.ticksFor(p.SampleCount) {
			ev := p.pending
			p.dispatch(&ev)
			if !p.fetchPending() {
				eventCheckEnabled = false
			}
		}

		sample := p.mixSample()
		sample = (sample * 0x6666) >> 16

		switch {
		case sample < -128:
			out[n] = 0
			p.Clipped++
		case sample > 127:
			out[n] = 255
			p.Clipped++
		default:
			out[n] = byte(sample + 128)
		}

		p.SampleCount++
	}
}

// fetchPending pulls the next event from the Reader into p.pending,
// returning false (and clearing havePending) at end-of-stream.
func (p *Player) fetchPending() bool {
	if p.Reader == nil {
		p.havePending = false
		return false
	}
	p.havePending = p.Reader.NextEvent(&p.pending)
	return p.havePending
}

// mixSample sums one sample from every active oscillator plus the
// percussion pool. Cost is O(totalOscillators), bounded and allocation-
// free, as the hard-real-time fill path requires.
func (p *Player) mixSample() int32 {
	var total int32
	for _, osc := range p.allOscillators {
		total += int32(osc.Produce())
	}
	total += p.Percussion.sum()
	return total
}
