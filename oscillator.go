package gmvoice

// OscShape selects what an Oscillator produces each sample.
type OscShape uint8

const (
	// OscSilent produces no sound; used for voices that have been
	// stolen, silenced, or not yet assigned a timbre.
	OscSilent OscShape = iota
	// OscWavetable reads samples via the oscillator's WavetableFunc at
	// the current phase-accumulator position.
	OscWavetable
	// OscNoise produces an independent pseudo-random sample each call;
	// the phase accumulator still advances, for API uniformity, but is
	// not used to select the sample.
	OscNoise
)

// WavetableFunc returns the signed 8-bit wavetable sample at the given
// phase (the oscillator's full 32-bit accumulator) for the given opaque
// argument (by convention, the GM program number). Wavetable data itself
// is an external collaborator — this module only calls the function.
type WavetableFunc func(phase uint32, opaque int) int8

// Oscillator is a phase-accumulator tone generator.
type Oscillator struct {
	Shape     OscShape
	Freq      Q16_16 // current frequency
	Volume    uint8  // 0..255
	Phase     uint32 // high byte doubles as the dither seed at install time
	Wave      WavetableFunc
	WaveArg   int
	sampleHz  uint32 // DAC sample rate this oscillator was installed against
	noiseSeed uint32
}

// SetFrequency sets the oscillator's sounding frequency.
func (o *Oscillator) SetFrequency(f Q16_16) { o.Freq = f }

// SetVolume sets the oscillator's output volume, 0..255.
func (o *Oscillator) SetVolume(v uint8) { o.Volume = v }

// SetWave rebinds the oscillator's waveform function and opaque argument.
func (o *Oscillator) SetWave(fn WavetableFunc, arg int) {
	o.Wave = fn
	o.WaveArg = arg
}

// phaseIncrement returns the per-sample accumulator step for the
// oscillator's current frequency: Hz * 2^32 / sampleRate, truncated,
// computed as (freq << 16) / sampleRate from the Q16.16 frequency to
// stay within 64-bit integer arithmetic.
func (o *Oscillator) phaseIncrement() uint32 {
	if o.sampleHz == 0 {
		return 0
	}
	return uint32((uint64(o.Freq) << 16) / uint64(o.sampleHz))
}

// Produce advances the oscillator by one sample and returns a signed
// 8-bit output, scaled by Volume.
func (o *Oscillator) Produce() int8 {
	if o.Volume == 0 || o.Shape == OscSilent {
		o.Phase += o.phaseIncrement()
		return 0
	}

	var raw int8
	switch o.Shape {
	case OscNoise:
		o.noiseSeed = o.noiseSeed*1103515245 + 12345
		raw = int8(o.noiseSeed >> 24)
	case OscWavetable:
		if o.Wave != nil {
			raw = o.Wave(o.Phase, o.WaveArg)
		}
	}
	o.Phase += o.phaseIncrement()

	return int8((int32(raw) * int32(o.Volume)) >> 8)
}

// installDither presets the phase accumulator's high byte from the
// shared dither table, keyed by the oscillator's position in the flat
// allOscillators index, so identical-frequency oscillators installed at
// the same time do not add coherently.
func (o *Oscillator) installDither(allOscIndex int, sampleHz uint32) {
	o.sampleHz = sampleHz
	o.Phase = uint32(oscDither[allOscIndex%len(oscDither)]) << 24
	o.noiseSeed = uint32(oscDither[allOscIndex%len(oscDither)])*0x01010101 + 1
}
