// Package wavout is a minimal WAVE file writer for the engine's native
// output format: unsigned 8-bit mono PCM. It stands in for the DAC
// driver external collaborator when rendering to disk instead of a
// live device. Same write-header-now/patch-sizes-on-Finish structure as
// a 16-bit stereo writer, narrowed to one channel and one byte per
// sample.
package wavout

import (
	"encoding/binary"
	"io"
)

const pcmFormat = 1

// Writer writes a RIFF/WAVE container of unsigned 8-bit mono PCM to an
// io.WriteSeeker, patching the size fields in Finish once the total
// sample count is known.
type Writer struct {
	ws io.WriteSeeker
}

type waveFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// NewWriter writes the RIFF/WAVE/fmt headers and a zero-length data
// chunk header, to be patched by Finish.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	w := &Writer{ws: ws}

	if _, err := ws.Write([]byte("RIFF")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(0)); err != nil {
		return nil, err
	}
	if _, err := ws.Write([]byte("WAVE")); err != nil {
		return nil, err
	}

	if _, err := ws.Write([]byte("fmt ")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(16)); err != nil {
		return nil, err
	}
	format := waveFormat{
		AudioFormat:   pcmFormat,
		Channels:      1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate),
		BlockAlign:    1,
		BitsPerSample: 8,
	}
	if err := binary.Write(ws, binary.LittleEndian, format); err != nil {
		return nil, err
	}

	if _, err := ws.Write([]byte("data")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(0)); err != nil {
		return nil, err
	}

	return w, nil
}

// WriteFrame appends a block of unsigned 8-bit mono samples.
func (w *Writer) WriteFrame(samples []byte) error {
	_, err := w.ws.Write(samples)
	return err
}

// Finish patches the RIFF and data chunk sizes now that the total
// length is known, and returns the file's final length.
func (w *Writer) Finish() (int64, error) {
	wlen, err := w.ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	if _, err := w.ws.Seek(4, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.ws, binary.LittleEndian, int32(wlen-8)); err != nil {
		return 0, err
	}

	if _, err := w.ws.Seek(40, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.ws, binary.LittleEndian, int32(wlen-44)); err != nil {
		return 0, err
	}

	return wlen, nil
}
