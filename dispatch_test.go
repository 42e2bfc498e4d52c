package gmvoice

import "testing"

func TestDispatchMIDINoteOnOff(t *testing.T) {
	p := newTestPlayer()

	p.dispatch(&Event{Kind: EventMIDI, Status: 0x90, Data1: 60, Data2: 100})
	if p.Channels[0].States.On&1 == 0 {
		t.Fatalf("note-on event did not set on-bit")
	}

	p.dispatch(&Event{Kind: EventMIDI, Status: 0x80, Data1: 60, Data2: 0})
	if p.Channels[0].States.On&1 != 0 {
		t.Fatalf("note-off event did not clear on-bit")
	}
}

func TestDispatchControlChangeSustain(t *testing.T) {
	p := newTestPlayer()
	p.dispatch(&Event{Kind: EventMIDI, Status: 0xB0, Data1: 0x40, Data2: 127})
	if !p.Channels[0].Held {
		t.Fatalf("CC 0x40 with value 127 did not engage sustain")
	}
}

func TestDispatchPitchWheelCenterIsIdentity(t *testing.T) {
	p := newTestPlayer()
	p.NoteOn(0, 60, 100)
	before := p.Channels[0].Voices[0].Osc[0].Freq

	p.dispatch(&Event{Kind: EventMIDI, Status: 0xE0, Data1: 0x00, Data2: 0x40}) // 0x2000

	after := p.Channels[0].Voices[0].Osc[0].Freq
	if before != after {
		t.Fatalf("center pitch-wheel changed frequency: before=%d after=%d", before, after)
	}
}

func TestDispatchMetaTempo(t *testing.T) {
	p := newTestPlayer()
	p.dispatch(&Event{Kind: EventMeta, MetaType: MetaTempo, Tempo: 333333})
	if p.Tempo != 333333 {
		t.Fatalf("Tempo = %d, want 333333", p.Tempo)
	}
}

func TestDispatchMetaTextInvokesCallback(t *testing.T) {
	p := newTestPlayer()
	var got string
	p.TextCallback = func(_ MetaType, text string) { got = text }

	p.dispatch(&Event{Kind: EventMeta, MetaType: MetaLyric, Payload: []byte("la")})

	if got != "la" {
		t.Fatalf("text callback got %q, want %q", got, "la")
	}
}

func TestDispatchProgramChangeSilencesVoices(t *testing.T) {
	p := newTestPlayer()
	p.NoteOn(0, 60, 100)

	p.dispatch(&Event{Kind: EventMIDI, Status: 0xC0, Data1: 40})

	if p.Channels[0].Voices[0].Osc[0].Volume != 0 {
		t.Fatalf("program change did not silence the sounding voice")
	}
	if p.Channels[0].Program != 40 {
		t.Fatalf("Program = %d, want 40", p.Channels[0].Program)
	}
}
