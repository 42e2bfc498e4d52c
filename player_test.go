package gmvoice

import "testing"

func fullScaleWave(_ uint32, _ int) int8 { return 127 }

func newTestPlayer() *Player {
	return NewPlayer(44100, fullScaleWave)
}

// S1 — Single note round-trip.
func TestScenarioSingleNoteRoundTrip(t *testing.T) {
	p := newTestPlayer()

	p.NoteOn(0, 60, 100)
	buf := make([]byte, 256)
	p.FillBuffer(buf)

	v := &p.Channels[0].Voices[0]
	if p.Channels[0].States.On&1 == 0 {
		t.Fatalf("voice 0 not marked on after note-on")
	}
	if v.TargetVol != 201 { // (100<<1)|1
		t.Fatalf("targetVol = %d, want 201", v.TargetVol)
	}

	p.NoteOff(0, 60, 64)
	p.FillBuffer(buf)

	if p.Channels[0].States.On&1 != 0 {
		t.Fatalf("voice 0 still marked on after note-off")
	}
	for i, osc := range v.Osc {
		if osc.Volume != 0 {
			t.Errorf("osc %d volume = %d, want 0 after note-off", i, osc.Volume)
		}
	}
}

// S2 — Pedal hold.
func TestScenarioPedalHold(t *testing.T) {
	p := newTestPlayer()

	p.Sustain(0, 127)
	p.NoteOn(0, 60, 100)
	p.NoteOff(0, 60, 0)

	if p.Channels[0].States.On != 0 {
		t.Fatalf("On = %#x, want 0 after note-off under sustain", p.Channels[0].States.On)
	}
	if p.Channels[0].States.Held&1 == 0 {
		t.Fatalf("Held bit 0 not set after note-off under sustain")
	}
	if p.Channels[0].Voices[0].Osc[0].Volume != 201 {
		t.Fatalf("voice still sounding at wrong volume = %d, want 201", p.Channels[0].Voices[0].Osc[0].Volume)
	}

	p.Sustain(0, 0)

	if p.Channels[0].States.Held != 0 {
		t.Fatalf("Held = %#x, want 0 after pedal-up", p.Channels[0].States.Held)
	}
	if p.Channels[0].Voices[0].Osc[0].Volume != 0 {
		t.Fatalf("voice not silenced after pedal-up, volume = %d", p.Channels[0].Voices[0].Osc[0].Volume)
	}
}

// S3 — Pitch bend identity, A4.
func TestScenarioPitchBendIdentityA4(t *testing.T) {
	if got := BendPitch(69, 0x2000); got != Q16_16(440<<16) {
		t.Fatalf("BendPitch(69, 0x2000) = %d, want %d", got, Q16_16(440<<16))
	}
}

// S4 — Voice stealing.
func TestScenarioVoiceStealing(t *testing.T) {
	p := newTestPlayer()

	for k := 0; k < VoicePerChannel; k++ {
		p.NoteOn(0, uint8(60+k), 100)
	}
	if p.Channels[0].States.On != (1<<uint(VoicePerChannel))-1 {
		t.Fatalf("On = %#x, want all %d bits set", p.Channels[0].States.On, VoicePerChannel)
	}

	p.NoteOn(0, 80, 100)

	if p.Channels[0].Voices[0].Note != 80 {
		t.Fatalf("voice 0 note = %d, want 80 (stolen)", p.Channels[0].Voices[0].Note)
	}
	if p.Channels[0].States.On&1 == 0 {
		t.Fatalf("voice 0 on-bit cleared after steal, want still set")
	}
}

// S5 — All-sound-off panic.
func TestScenarioAllSoundOffPanic(t *testing.T) {
	p := newTestPlayer()

	p.Sustain(0, 127)
	p.NoteOn(0, 60, 100)
	p.NoteOff(0, 60, 0) // held, not on

	p.NoteOn(1, 64, 90)

	p.NoteOn(PercussionChannel, 35, 120)

	p.AllSoundOff()

	for i := range p.Channels {
		if p.Channels[i].States.On != 0 || p.Channels[i].States.Held != 0 {
			t.Errorf("channel %d: On=%#x Held=%#x, want both 0", i, p.Channels[i].States.On, p.Channels[i].States.Held)
		}
		for v := range p.Channels[i].Voices {
			for _, osc := range p.Channels[i].Voices[v].Osc {
				if osc.Volume != 0 {
					t.Errorf("channel %d voice %d: osc volume = %d, want 0", i, v, osc.Volume)
				}
			}
		}
	}
	if p.Percussion.States.On != 0 || p.Percussion.States.Held != 0 {
		t.Errorf("percussion: On=%#x Held=%#x, want both 0", p.Percussion.States.On, p.Percussion.States.Held)
	}
}

// S6 — Clipping accounting.
func TestScenarioClippingAccounting(t *testing.T) {
	loudWave := func(_ uint32, _ int) int8 { return 127 }
	p := NewPlayer(44100, loudWave)

	// Drive every non-percussion oscillator at max volume and max
	// amplitude so the post-scale sum is guaranteed to exceed the
	// signed 8-bit range.
	for i := range p.Channels {
		if p.Channels[i].Percussion {
			continue
		}
		for v := range p.Channels[i].Voices {
			for o := range p.Channels[i].Voices[v].Osc {
				osc := &p.Channels[i].Voices[v].Osc[o]
				osc.Shape = OscWavetable
				osc.SetVolume(255)
				osc.SetWave(loudWave, 0)
			}
		}
	}

	buf := make([]byte, 64)
	p.FillBuffer(buf)

	if p.Clipped == 0 {
		t.Fatalf("expected clipping with all oscillators driven at max, got Clipped = 0")
	}
	for i, b := range buf {
		if b != 0 && b != 255 {
			t.Errorf("sample %d = %d, want 0 or 255 under sustained overdrive", i, b)
			break
		}
	}
}

func TestFillBufferAdvancesSampleCountExactly(t *testing.T) {
	p := newTestPlayer()
	buf := make([]byte, 300)
	p.FillBuffer(buf)
	if p.SampleCount != 300 {
		t.Fatalf("SampleCount = %d, want 300", p.SampleCount)
	}
	for _, b := range buf {
		if b > 255 {
			t.Fatalf("impossible byte value %d", b)
		}
	}
}

func TestNoteOnThenOffLeavesStateUnchanged(t *testing.T) {
	p := newTestPlayer()
	before := p.Channels[0].States

	p.NoteOn(0, 60, 100)
	p.NoteOff(0, 60, 64)

	after := p.Channels[0].States
	if after != before {
		t.Fatalf("states after note-on/off = %+v, want unchanged %+v", after, before)
	}
}
