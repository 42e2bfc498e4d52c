// Package echo is a fixed-capacity single-tap echo effect for the
// engine's unsigned 8-bit mono output stream.
//
// It follows the classic delay-and-decay comb filter idea, incrementally
// fed and drained sample by sample, but stores its history in a ring
// buffer sized once at construction rather than an ever-growing slice,
// matching the fixed-size, allocate-once resource model this engine
// targets. Samples are unsigned 8-bit (center 128) rather than signed
// 16-bit stereo.
package echo

// Echo applies delay-line feedback to a stream of unsigned 8-bit samples
// fed to it incrementally via Process.
type Echo struct {
	ring  []uint8
	pos   int
	decay float32
}

// New returns an Echo with a delay of delayMs milliseconds at
// sampleRate, feeding back at the given decay (0..1). The ring buffer is
// sized once, here, and never reallocated.
func New(delayMs, sampleRate int, decay float32) *Echo {
	n := delayMs * sampleRate / 1000
	if n < 1 {
		n = 1
	}
	ring := make([]uint8, n)
	for i := range ring {
		ring[i] = 128
	}
	return &Echo{ring: ring, decay: decay}
}

// Process overwrites in-place with the echoed signal: each sample is
// mixed with the delayed sample from delayMs*sampleRate/1000 samples ago
// (the ring length), scaled by decay, and the delay line is updated with
// the result.
func (e *Echo) Process(samples []uint8) {
	for i, s := range samples {
		delayed := e.ring[e.pos]
		mixed := int32(s) + int32(float32(int32(delayed)-128)*e.decay)

		var out uint8
		switch {
		case mixed < 0:
			out = 0
		case mixed > 255:
			out = 255
		default:
			out = uint8(mixed)
		}

		e.ring[e.pos] = out
		e.pos++
		if e.pos == len(e.ring) {
			e.pos = 0
		}
		samples[i] = out
	}
}
