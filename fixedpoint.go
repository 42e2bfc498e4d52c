package gmvoice

import "math"

// Q16_16 is an unsigned 16.16 fixed-point value, used throughout for
// oscillator frequencies in Hz.
type Q16_16 uint32

// Q24_8 is the unsigned fixed-point type of the pitch-bend cents
// multiplier table. Despite the name, values are scaled by 2^24:
// 0x01000000 represents exactly 1.0, and BendPitch shifts the product
// right by 24.
type Q24_8 uint32

// q24One is the Q24.8 representation of a multiplier of 1.0 (no bend).
const q24One Q24_8 = 0x01000000

// noteFreqTable holds, for each MIDI note 0..127, the note's frequency in
// Hz as a Q16.16 value. Index 69 (A4) is exactly 440.0 Hz.
var noteFreqTable [128]Q16_16

func init() {
	// f = 440 * 2^((note-69)/12), computed once at startup using a small
	// fixed-point-friendly loop rather than repeated floating point calls
	// in the hot path; the table itself is the only thing callers touch
	// at runtime.
	const a4 = 440.0
	for note := 0; note < 128; note++ {
		freq := a4 * math.Exp2(float64(note-69)/12.0)
		noteFreqTable[note] = Q16_16(freq*65536.0 + 0.5)
	}
}

// bendTable holds 201 entries (index 0..200 representing -100..+100
// cents) as pitch multipliers scaled by 2^24. bendTable[100] == q24One.
var bendTable [201]Q24_8

func init() {
	for i := range bendTable {
		cents := float64(i - 100)
		mult := math.Exp2(cents / 1200.0)
		bendTable[i] = Q24_8(mult*float64(q24One) + 0.5)
	}
	bendTable[100] = q24One
}

// oscDither is a 54-byte table used to preset the high (dither) byte of
// an oscillator's phase accumulator at install time, so oscillators
// sharing an identical frequency do not add coherently.
var oscDither = [54]byte{
	0x00, 0x2f, 0x5e, 0x8d, 0xbc, 0xeb, 0x1a, 0x49, 0x78, 0xa7,
	0xd6, 0x05, 0x34, 0x63, 0x92, 0xc1, 0xf0, 0x1f, 0x4e, 0x7d,
	0xac, 0xdb, 0x0a, 0x39, 0x68, 0x97, 0xc6, 0xf5, 0x24, 0x53,
	0x82, 0xb1, 0xe0, 0x0f, 0x3e, 0x6d, 0x9c, 0xcb, 0xfa, 0x29,
	0x58, 0x87, 0xb6, 0xe5, 0x14, 0x43, 0x72, 0xa1, 0xd0, 0xff,
	0x2e, 0x5d, 0x8c, 0xbb,
}

// BendPitch computes the sounding frequency, in Q16.16 Hz, of a MIDI note
// bent by a 14-bit pitch-wheel value (0..0x3FFF, center 0x2000).
//
// bendPitch(note, 0x2000) always equals noteFreqTable[note] exactly,
// since bendTable[100] is exactly 1.0.
func BendPitch(note uint8, pitchWheel uint16) Q16_16 {
	cents := (int32(pitchWheel) - 0x2000) * 100 / 0x1FFF
	if cents < -100 {
		cents = -100
	} else if cents > 100 {
		cents = 100
	}
	mult := bendTable[cents+100]
	return Q16_16((uint64(noteFreqTable[note]) * uint64(mult)) >> 24)
}
