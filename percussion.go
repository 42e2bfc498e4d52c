package gmvoice

import "math/bits"

// hiHatGroup lists the three standard GM hi-hat notes (closed, pedal,
// open). Triggering any one of them silences the others in the shared
// percussion pool — the mutual exclusion the source left as a TODO.
var hiHatGroup = [3]uint8{42, 44, 46}

func isHiHat(note uint8) bool {
	for _, n := range hiHatGroup {
		if n == note {
			return true
		}
	}
	return false
}

// PercussionPool is the shared GM channel-10 percussion voice pool.
// Unlike a melodic Channel's pool, percussion voices are one-shot:
// `held` is never set and note-off is a no-op, per §4.10.
type PercussionPool struct {
	Voices [PercussionVoices]Voice
	States VoiceStates
	Kit    map[uint8]*Timbre
}

// noteOn triggers a percussion hit. velocity is folded into TargetVol
// the same way a melodic note-on does, even though most percussion play
// functions drive their own internal envelope rather than reading it,
// so a future sample-based kit has a consistent place to look it up.
func (p *PercussionPool) noteOn(note, velocity uint8) {
	if velocity == 0 {
		return
	}

	timbre, ok := p.Kit[note]
	if !ok {
		return
	}

	if isHiHat(note) {
		for _, n := range hiHatGroup {
			if n == note {
				continue
			}
			p.silenceNote(n)
		}
	}

	voiceIdx := allocateVoice(p.States.occupied(), PercussionVoices)
	p.States.On |= 1 << uint(voiceIdx)

	v := &p.Voices[voiceIdx]
	v.Note = note
	v.Timbre = timbre
	v.TargetVol = (velocity << 1) | 1
	v.SampleTick = 0
	v.Scratch = [4]uint32{} // zeroed so noiseBurst's scratch[0]==0 reseed check fires on every retrigger
}

// silenceNote clears the on-bit of every voice currently playing note,
// without waiting for their play functions to signal done.
func (p *PercussionPool) silenceNote(note uint8) {
	occ := p.States.occupied()
	for occ != 0 {
		i := bits.TrailingZeros32(occ)
		occ &^= 1 << uint(i)
		if p.Voices[i].Note == note {
			p.States.On &^= 1 << uint(i)
			p.States.Held &^= 1 << uint(i)
		}
	}
}

// sum produces one mixed sample across every sounding percussion voice,
// advancing each voice's play function and retiring any that signal
// completion. Held is ignored for percussion, per §4.10.
func (p *PercussionPool) sum() int32 {
	var total int32
	occ := p.States.On
	for occ != 0 {
		i := bits.TrailingZeros32(occ)
		occ &^= 1 << uint(i)

		v := &p.Voices[i]
		if v.Timbre == nil || v.Timbre.PercussionPlay == nil {
			p.States.On &^= 1 << uint(i)
			continue
		}

		sample, done := v.Timbre.PercussionPlay(v.Note, v.SampleTick, &v.Scratch, v.Timbre.PercussionData)
		total += int32(sample)
		v.SampleTick++

		if done {
			p.States.On &^= 1 << uint(i)
			v.SampleTick = 0
			v.Scratch = [4]uint32{}
		}
	}
	return total
}

// allSoundOff forcibly silences every percussion voice, ignoring the
// (nonexistent) pedal state, per §4.7's all-sound-off panic contract.
func (p *PercussionPool) allSoundOff() {
	for i := range p.Voices {
		p.Voices[i].TargetVol = 0
		p.Voices[i].silence()
	}
	p.States = VoiceStates{}
}

// defaultKit builds the small built-in percussion kit: kick, snare,
// hi-hats and crash/ride, all synthesized from noise bursts with a
// simple linear decay envelope rather than sampled drum audio (sample
// playback data remains an out-of-scope external collaborator).
func defaultKit() map[uint8]*Timbre {
	kit := make(map[uint8]*Timbre)

	add := func(notes []uint8, decaySamples int, initialAmp int32) {
		for _, n := range notes {
			kit[n] = &Timbre{
				Type:           TimbreNoise,
				Flags:          TFPercussion,
				PercussionPlay: noiseBurst(decaySamples, initialAmp),
				Name:           "Percussion",
			}
		}
	}

	add([]uint8{35, 36}, 4000, 127)  // kick
	add([]uint8{38, 40}, 3000, 110)  // snare
	add(hiHatGroup[:], 1500, 70)     // closed/pedal/open hi-hat
	add([]uint8{49, 51}, 12000, 100) // crash / ride

	return kit
}

// noiseBurst returns a PercussionPlayFunc that plays decaySamples of
// linearly-decaying pseudo-random noise, starting at initialAmp.
func noiseBurst(decaySamples int, initialAmp int32) PercussionPlayFunc {
	return func(_ uint8, tick uint32, scratch *[4]uint32, _ interface{}) (int8, bool) {
		if scratch[0] == 0 {
			scratch[0] = 0xBADC0FFE
		}
		scratch[0] = scratch[0]*1103515245 + 12345
		raw := int32(int8(scratch[0] >> 24))

		remaining := int32(decaySamples) - int32(tick)
		if remaining <= 0 {
			return 0, true
		}
		amp := initialAmp * remaining / int32(decaySamples)
		sample := (raw * amp) >> 7

		return int8(sample), remaining == 1
	}
}
