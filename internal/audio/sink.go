// Package audio provides output sinks for the rendered PCM stream: a
// live playback backend (build-tag-gated, since it needs cgo/platform
// audio) and a raw-file sink usable everywhere.
package audio

import (
	"bufio"
	"encoding/binary"
	"io"
)

// FileSink writes interleaved signed 16-bit little-endian stereo PCM to
// an io.Writer, matching the "s16le" raw format the reference
// implementation's vgmplay.cpp wrote to disk.
type FileSink struct {
	w *bufio.Writer
}

// NewFileSink wraps w in a buffered s16le PCM sink.
func NewFileSink(w io.Writer) *FileSink {
	return &FileSink{w: bufio.NewWriter(w)}
}

// Write appends interleaved L,R sample pairs.
func (s *FileSink) Write(samples []int16) error {
	var buf [2]byte
	for _, v := range samples {
		binary.LittleEndian.PutUint16(buf[:], uint16(v))
		if _, err := s.w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered output.
func (s *FileSink) Flush() error {
	return s.w.Flush()
}
