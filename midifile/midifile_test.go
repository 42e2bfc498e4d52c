package midifile

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/nibblesound/gmvoice"
)

// buildFixture constructs a tiny two-track SMF in memory: a note-on and
// matching note-off on track 0, and a tempo meta event on track 1 at the
// same absolute tick as the note-on — exercising the tie-break-by-
// track-order rule fromSMF relies on.
func buildFixture(t *testing.T) *smf.SMF {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)

	var track0 smf.Track
	track0.Add(0, midi.NoteOn(0, 60, 100))
	track0.Add(48, midi.NoteOff(0, 60))
	track0.Close(0)

	var track1 smf.Track
	track1.Add(0, smf.MetaTempo(120))
	track1.Close(0)

	s.Add(track0)
	s.Add(track1)

	return s
}

func TestFromSMFOrdersEventsByAbsoluteTick(t *testing.T) {
	r, err := fromSMF(buildFixture(t))
	if err != nil {
		t.Fatalf("fromSMF: %v", err)
	}

	if r.Division() != 96 {
		t.Fatalf("Division() = %d, want 96", r.Division())
	}

	var events []gmvoice.Event
	var ev gmvoice.Event
	for r.NextEvent(&ev) {
		events = append(events, ev)
	}

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	// The tempo meta (track 1) and the note-on (track 0) share abs tick
	// 0; track order must win the tie.
	if events[0].Kind != gmvoice.EventMIDI || events[0].Status&0xF0 != 0x90 {
		t.Errorf("events[0] = %+v, want note-on (track 0 wins the tie)", events[0])
	}
	if events[1].Kind != gmvoice.EventMeta || events[1].MetaType != gmvoice.MetaTempo {
		t.Errorf("events[1] = %+v, want tempo meta", events[1])
	}
	if events[2].AbsTime != 48 {
		t.Errorf("events[2].AbsTime = %d, want 48", events[2].AbsTime)
	}
}

func TestDecodePitchBendCentered(t *testing.T) {
	var ch uint8
	var ev gmvoice.Event
	if !decodePitchBend(midi.Pitchbend(0, 0), &ch, &ev) {
		t.Fatal("decodePitchBend returned false for a pitch bend message")
	}

	got := uint16(ev.Data1) | uint16(ev.Data2)<<7
	if got != 0x2000 {
		t.Errorf("decoded centered pitch bend = 0x%04X, want 0x2000", got)
	}
}
