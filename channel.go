package gmvoice

import "math/bits"

// Channel is the per-channel state for one of the 16 logical MIDI
// channels addressable by a Player.
type Channel struct {
	Volume     uint16 // 14-bit
	PitchBend  uint16 // 14-bit, center 0x2000
	Program    uint8
	Held       bool // sustain pedal down
	Percussion bool // true iff this channel index is the GM percussion channel
	Timbre     Timbre
	Voices     [VoicePerChannel]Voice
	States     VoiceStates
}

// noteOn handles a note-on for a melodic (non-percussion) channel.
// Percussion channels are routed to the shared PercussionPool instead —
// see Player.NoteOn.
func (c *Channel) noteOn(note, velocity uint8) {
	if velocity == 0 {
		c.noteOff(note, 0x7F)
		return
	}

	var voiceIdx int
	if c.Timbre.HasFlag(TFMono) {
		voiceIdx = 0
	} else {
		voiceIdx = allocateVoice(c.States.occupied(), VoicePerChannel)
	}

	c.States.On |= 1 << uint(voiceIdx)
	v := &c.Voices[voiceIdx]
	v.Note = note
	v.Timbre = &c.Timbre
	v.TargetVol = (velocity << 1) | 1

	freq := BendPitch(note, c.PitchBend)
	for i := range v.Osc {
		shape := OscWavetable
		if c.Timbre.Type == TimbreNoise {
			shape = OscNoise
		}
		v.Osc[i].Shape = shape
		v.Osc[i].SetVolume(v.TargetVol)
		v.Osc[i].SetFrequency(freq)
	}
}

// noteOff handles a note-off for a melodic channel. velocity is accepted
// for API parity but ignored, per the release-velocity non-goal.
func (c *Channel) noteOff(note, _ uint8) {
	occ := c.States.occupied()
	for occ != 0 {
		i := bits.TrailingZeros32(occ)
		occ &^= 1 << uint(i)

		if c.Voices[i].Note != note {
			continue
		}

		c.States.On &^= 1 << uint(i)
		if c.Held {
			c.States.Held |= 1 << uint(i)
		} else {
			c.Voices[i].TargetVol = 0
			c.Voices[i].silence()
		}
		return
	}
}

// sustain applies a sustain-pedal controller value (0..127) to the
// channel, per §4.5.
func (c *Channel) sustain(value uint8) {
	newHeld := value >= 64
	if newHeld == c.Held {
		return
	}
	c.Held = newHeld

	if newHeld {
		c.States.Held |= c.States.On
		return
	}

	toCancel := c.States.Held &^ c.States.On
	for toCancel != 0 {
		i := bits.TrailingZeros32(toCancel)
		toCancel &^= 1 << uint(i)
		c.Voices[i].TargetVol = 0
		c.Voices[i].silence()
	}
	c.States.Held = 0
}

// pitchWheel stores a new 14-bit pitch-bend value and recomputes the
// frequency of every currently-sounding or held voice.
func (c *Channel) pitchWheel(value uint16) {
	c.PitchBend = value
	if c.Percussion {
		return
	}

	occ := c.States.occupied()
	for occ != 0 {
		i := bits.TrailingZeros32(occ)
		occ &^= 1 << uint(i)
		freq := BendPitch(c.Voices[i].Note, value)
		for o := range c.Voices[i].Osc {
			c.Voices[i].Osc[o].SetFrequency(freq)
		}
	}
}

// setProgram stores a new program number and rebinds every voice's
// oscillators to the wavetable function for that program, silencing
// whatever was previously sounding. GM program→timbre lookup proper is
// handled one level up, by Player.SetProgram, which also refreshes
// c.Timbre; this method only performs the oscillator rebind/silence
// §4.8 specifies.
func (c *Channel) setProgram(program uint8, wave WavetableFunc) {
	c.Program = program
	for i := range c.Voices {
		for o := range c.Voices[i].Osc {
			c.Voices[i].Osc[o].SetVolume(0)
			c.Voices[i].Osc[o].SetWave(wave, int(program))
		}
	}
}

// allNotesOff releases every sounding or held voice on the channel,
// observing pedal state exactly as an individual note-off would.
func (c *Channel) allNotesOff() {
	occ := c.States.occupied()
	for occ != 0 {
		i := bits.TrailingZeros32(occ)
		occ &^= 1 << uint(i)
		c.noteOff(c.Voices[i].Note, 0)
	}
}
