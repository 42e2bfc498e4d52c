// Package gmvoice is a real-time General MIDI voice-synthesis core: it
// consumes MIDI events, either delivered through its entry points or
// pulled from a Reader, and fills caller-provided buffers with unsigned
// 8-bit PCM. It is single-threaded, cooperative, and allocates nothing
// after NewPlayer returns.
package gmvoice

// Mode selects whether a Player is driven externally (ModeStream) or by
// pulling events from a bound Reader (ModeFile).
type Mode uint8

const (
	ModeStream Mode = iota
	ModeFile
)

// Player is the top-level façade aggregating channels, the percussion
// pool, an optional file reader, tempo, and the running sample count.
type Player struct {
	Channels   [NumChannels]Channel
	Percussion PercussionPool

	Tempo       uint32 // microseconds per quarter note
	SampleCount uint64
	Clipped     uint64

	Reader       Reader
	Mode         Mode
	TextCallback TextCallback

	pending     Event
	havePending bool

	sampleRate uint32
	wave       WavetableFunc

	// allOscillators is a flat index over every non-percussion channel
	// voice's oscillators, built once by gmOn; the percussion pool is
	// summed separately. It is a performance hack: one tight sweep beats walking the
	// channel→voice→oscillator tree every sample. It is NOT rebuilt on
	// program change, so toggling a channel's percussion flag at
	// runtime would desync it from the mixer — matching the source's
	// own documented limitation, not fixed here.
	allOscillators []*Oscillator
}

// NewPlayer constructs a Player at the given DAC sample rate, installs
// the GM default program table, and registers every oscillator into the
// flat mixer index. wave supplies wavetable sample data; it is the
// out-of-scope external collaborator described in §6 — this package
// never looks inside it.
func NewPlayer(sampleRate uint32, wave WavetableFunc) *Player {
	p := &Player{sampleRate: sampleRate, wave: wave}
	p.gmOn()
	return p
}

// Reset re-zeros all state and reinstalls GM defaults, equivalent to the
// abstract init(player) entry point in §6.
func (p *Player) Reset() {
	*p = Player{sampleRate: p.sampleRate, wave: p.wave}
	p.gmOn()
}

// gmOn installs GM default timbres on every channel, flags channel 9 as
// percussion with the built-in kit, and builds the flat oscillator
// index used by the mixer.
func (p *Player) gmOn() {
	p.Tempo = 500000

	for i := range p.Channels {
		c := &p.Channels[i]
		*c = Channel{PitchBend: 0x2000}
		if i == PercussionChannel {
			c.Percussion = true
		} else {
			c.Timbre = wavetableTimbre(0)
		}
	}
	p.Percussion = PercussionPool{Kit: defaultKit()}

	// allOscillators indexes only the melodic channels' oscillators.
	// Percussion voices never touch Voice.Osc (§4.3) — their sound comes
	// from PercussionPlayFunc and is summed separately by
	// Percussion.sum(), called directly from mixSample.
	p.allOscillators = p.allOscillators[:0]
	idx := 0
	for i := range p.Channels {
		if p.Channels[i].Percussion {
			continue
		}
		for v := range p.Channels[i].Voices {
			for o := range p.Channels[i].Voices[v].Osc {
				osc := &p.Channels[i].Voices[v].Osc[o]
				osc.SetWave(p.wave, 0)
				osc.installDither(idx, p.sampleRate)
				p.allOscillators = append(p.allOscillators, osc)
				idx++
			}
		}
	}
}

// NoteOn dispatches a note-on to the percussion pool or the channel's
// own voice pool, per §4.3.
func (p *Player) NoteOn(channel, note, velocity uint8) {
	if int(channel) >= NumChannels {
		return
	}
	c := &p.Channels[channel]
	if c.Percussion {
		p.Percussion.noteOn(note, velocity)
		return
	}
	c.noteOn(note, velocity)
}

// NoteOff dispatches a note-off, per §4.4. velocity is accepted for API
// parity but ignored.
func (p *Player) NoteOff(channel, note, velocity uint8) {
	if int(channel) >= NumChannels {
		return
	}
	c := &p.Channels[channel]
	if c.Percussion {
		// Percussion notes are one-shot; note-off is a no-op (§4.10).
		return
	}
	c.noteOff(note, velocity)
}

// ControlChange routes a controller message to the recognized
// controllers (sustain, all-sound-off, all-notes-off); all others are
// silently ignored, per §4.12.
func (p *Player) ControlChange(channel, control, value uint8) {
	if int(channel) >= NumChannels {
		return
	}
	switch control {
	case 0x40:
		p.Sustain(channel, value)
	case 0x78:
		p.AllSoundOff()
	case 0x7B:
		p.AllNotesOff(channel)
	}
}

// Sustain applies a sustain-pedal controller value to a channel, per
// §4.5. Percussion channels accept the call but have no sustained state
// to mutate, since percussion voices are never held.
func (p *Player) Sustain(channel, value uint8) {
	if int(channel) >= NumChannels {
		return
	}
	c := &p.Channels[channel]
	if c.Percussion {
		return
	}
	c.sustain(value)
}

// PitchWheel stores a channel's 14-bit pitch-bend value and retunes its
// sounding/held voices, per §4.6.
func (p *Player) PitchWheel(channel uint8, value uint16) {
	if int(channel) >= NumChannels {
		return
	}
	p.Channels[channel].pitchWheel(value)
}

// SetProgram changes a channel's program number and GM timbre, per §4.8.
// Percussion channels (GM convention: channel 9) ignore program changes
// with respect to timbre — their sound is entirely kit-driven — but the
// program number is still recorded.
func (p *Player) SetProgram(channel, program uint8) {
	if int(channel) >= NumChannels {
		return
	}
	c := &p.Channels[channel]
	c.Program = program
	if c.Percussion {
		return
	}
	c.Timbre = cloneTimbre(wavetableTimbre(program))
	c.setProgram(program, p.wave)
}

// AllNotesOff releases every sounding or held voice on a channel, per
// §4.7.
func (p *Player) AllNotesOff(channel uint8) {
	if int(channel) >= NumChannels {
		return
	}
	c := &p.Channels[channel]
	if c.Percussion {
		p.Percussion.allSoundOff()
		return
	}
	c.allNotesOff()
}

// AllSoundOff is the panic primitive: it forcibly zeroes every voice
// across every channel and the percussion pool, ignoring pedal state,
// per §4.7.
func (p *Player) AllSoundOff() {
	for i := range p.Channels {
		c := &p.Channels[i]
		for v := range c.Voices {
			c.Voices[v].TargetVol = 0
			c.Voices[v].silence()
		}
		c.States = VoiceStates{}
		c.Held = false
	}
	p.Percussion.allSoundOff()
}

// SetFile binds a Reader and switches the player into file-driven mode,
// per §6's setFile entry point.
func (p *Player) SetFile(r Reader) {
	p.Reader = r
	p.Mode = ModeFile
	p.havePending = false
}
