package main

import (
	"encoding/binary"
	"errors"
	"io"
)

const wavHeaderSize = 44

// wavWriter writes 16-bit PCM samples into a WAV file. The chunk sizes in
// the header are filled in by Close.
type wavWriter struct {
	w        io.WriteSeeker
	channels int
	ndata    uint32 // bytes of sample data written
}

func newWAVWriter(w io.WriteSeeker, sampleRate uint32, channels int) (*wavWriter, error) {
	ww := &wavWriter{w: w, channels: channels}
	if err := ww.writeHeader(sampleRate); err != nil {
		return nil, err
	}
	return ww, nil
}

func (ww *wavWriter) writeHeader(sampleRate uint32) error {
	const bytesPerSample = 2
	blockAlign := uint16(ww.channels * bytesPerSample)

	hdr := struct {
		RIFF          [4]byte
		FileSize      uint32
		WAVE          [4]byte
		Fmt           [4]byte
		FmtSize       uint32
		Format        uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Data          [4]byte
		DataSize      uint32
	}{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      wavHeaderSize - 8,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		Format:        1, // PCM
		Channels:      uint16(ww.channels),
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: 16,
		Data:          [4]byte{'d', 'a', 't', 'a'},
	}
	return binary.Write(ww.w, binary.LittleEndian, &hdr)
}

func (ww *wavWriter) WriteSamples(samples []int16) error {
	if uint64(ww.ndata)+uint64(len(samples))*2 > 0xFFFFFFFF-wavHeaderSize {
		return errors.New("wav: file too large")
	}
	if err := binary.Write(ww.w, binary.LittleEndian, samples); err != nil {
		return err
	}
	ww.ndata += uint32(len(samples)) * 2
	return nil
}

// Close patches the header sizes. It doesn't close the underlying writer.
func (ww *wavWriter) Close() error {
	patch := func(off int64, v uint32) error {
		if _, err := ww.w.Seek(off, io.SeekStart); err != nil {
			return err
		}
		return binary.Write(ww.w, binary.LittleEndian, v)
	}
	if err := patch(4, wavHeaderSize-8+ww.ndata); err != nil {
		return err
	}
	if err := patch(40, ww.ndata); err != nil {
		return err
	}
	_, err := ww.w.Seek(0, io.SeekEnd)
	return err
}
