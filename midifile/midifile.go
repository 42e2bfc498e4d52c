// Package midifile adapts a Standard MIDI File into a gmvoice.Reader: it
// merge-sorts every track's events into one absolute-tick-ordered
// stream, which is all the core's narrow Reader interface asks for.
package midifile

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/nibblesound/gmvoice"
)

// Reader implements gmvoice.Reader over a parsed Standard MIDI File.
type Reader struct {
	division uint16
	events   []gmvoice.Event
	pos      int
}

// Load reads and flattens a Standard MIDI File from disk.
func Load(path string) (*Reader, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("midifile: read %q: %w", path, err)
	}
	return fromSMF(s)
}

func fromSMF(s *smf.SMF) (*Reader, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("midifile: only metric (ticks-per-quarter-note) time format is supported")
	}

	r := &Reader{division: uint16(ticks)}

	// Events are appended in track order, then stable-sorted by
	// absolute tick below — ties keep their track order, matching the
	// "reader's delivery order" tie-break the dispatcher relies on.
	for _, track := range s.Tracks {
		var abs uint64
		for _, ev := range track {
			abs += uint64(ev.Delta)
			decoded, ok := decodeMessage(ev.Message, abs)
			if !ok {
				continue
			}
			r.events = append(r.events, decoded)
		}
	}

	sort.SliceStable(r.events, func(i, j int) bool {
		return r.events[i].AbsTime < r.events[j].AbsTime
	})

	return r, nil
}

// Division returns ticks-per-quarter-note, per gmvoice.Reader.
func (r *Reader) Division() uint16 { return r.division }

// NextEvent yields the next event in absolute-tick order.
func (r *Reader) NextEvent(out *gmvoice.Event) bool {
	if r.pos >= len(r.events) {
		return false
	}
	*out = r.events[r.pos]
	r.pos++
	return true
}

// decodeMessage turns one SMF track event into a gmvoice.Event. Unknown
// or unsupported message types are dropped (ok == false); the dispatcher
// treats anything it doesn't recognize as a silent no-op anyway, so
// dropping early just avoids carrying dead events through the merge.
func decodeMessage(msg smf.Message, abs uint64) (gmvoice.Event, bool) {
	var ev gmvoice.Event
	ev.AbsTime = abs

	var ch, d1, d2 uint8
	switch {
	case msg.GetNoteOn(&ch, &d1, &d2):
		ev.Kind = gmvoice.EventMIDI
		ev.Status = 0x90 | ch
		ev.Data1, ev.Data2 = d1, d2
	case msg.GetNoteOff(&ch, &d1, &d2):
		ev.Kind = gmvoice.EventMIDI
		ev.Status = 0x80 | ch
		ev.Data1, ev.Data2 = d1, d2
	case msg.GetControlChange(&ch, &d1, &d2):
		ev.Kind = gmvoice.EventMIDI
		ev.Status = 0xB0 | ch
		ev.Data1, ev.Data2 = d1, d2
	case msg.GetProgramChange(&ch, &d1):
		ev.Kind = gmvoice.EventMIDI
		ev.Status = 0xC0 | ch
		ev.Data1 = d1
	case decodePitchBend(msg, &ch, &ev):
		// handled inside decodePitchBend
	case decodeMeta(msg, &ev):
		// handled inside decodeMeta
	default:
		return gmvoice.Event{}, false
	}

	return ev, true
}

func decodePitchBend(msg smf.Message, ch *uint8, ev *gmvoice.Event) bool {
	var relative int16
	var absolute uint16
	if !msg.GetPitchBend(ch, &relative, &absolute) {
		return false
	}
	value := absolute
	ev.Kind = gmvoice.EventMIDI
	ev.Status = 0xE0 | *ch
	ev.Data1 = byte(value & 0x7F)
	ev.Data2 = byte((value >> 7) & 0x7F)
	return true
}

func decodeMeta(msg smf.Message, ev *gmvoice.Event) bool {
	var bpm float64
	var text string

	switch {
	case msg.GetMetaTempo(&bpm):
		ev.Kind = gmvoice.EventMeta
		ev.MetaType = gmvoice.MetaTempo
		if bpm > 0 {
			ev.Tempo = uint32(60_000_000.0/bpm + 0.5)
		}
	case msg.GetMetaLyric(&text):
		ev.Kind, ev.MetaType, ev.Payload = gmvoice.EventMeta, gmvoice.MetaLyric, []byte(text)
	case msg.GetMetaText(&text):
		ev.Kind, ev.MetaType, ev.Payload = gmvoice.EventMeta, gmvoice.MetaText, []byte(text)
	case msg.GetMetaCopyright(&text):
		ev.Kind, ev.MetaType, ev.Payload = gmvoice.EventMeta, gmvoice.MetaCopyright, []byte(text)
	case msg.GetMetaTrackName(&text):
		ev.Kind, ev.MetaType, ev.Payload = gmvoice.EventMeta, gmvoice.MetaTrackName, []byte(text)
	case msg.GetMetaInstrument(&text):
		ev.Kind, ev.MetaType, ev.Payload = gmvoice.EventMeta, gmvoice.MetaInstrumentName, []byte(text)
	case msg.GetMetaMarker(&text):
		ev.Kind, ev.MetaType, ev.Payload = gmvoice.EventMeta, gmvoice.MetaMarker, []byte(text)
	case msg.GetMetaCuepoint(&text):
		ev.Kind, ev.MetaType, ev.Payload = gmvoice.EventMeta, gmvoice.MetaCuePoint, []byte(text)
	default:
		return false
	}
	return true
}
