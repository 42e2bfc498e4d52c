package main

// defaultWave is a minimal stand-in for the wavetable data the core
// treats as an external collaborator (§1): a sawtooth for even and a
// square wave for odd values of the opaque program-number argument, good enough
// to make gmplay audible without bundling real instrument samples.
func defaultWave(phase uint32, program int) int8 {
	top := int8(phase >> 24)
	if program%2 == 0 {
		return top // sawtooth-ish
	}
	if top >= 0 {
		return 100
	}
	return -100 // square-ish
}
