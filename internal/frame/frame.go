// Package frame decodes the RASDR bit-packed sample stream into calibrated
// complex baseband frames.
//
// The wire format is a sequence of little-endian 16-bit words, two words per
// complex sample. Bit 15 of every word carries the on-time-marker (OTM) flag,
// bit 12 marks the quadrature channel, and bits 11-0 hold the offset-encoded
// 12-bit sample magnitude. This layout is the one bit-exact contract with the
// hardware and must not change.
package frame

import (
	"errors"
	"fmt"
)

const (
	otmFlag     = 0x8000
	channelFlag = 0x1000
	sampleMask  = 0x0FFF

	// halfScale converts a 12-bit unsigned magnitude to [0, 2]; subtracting
	// 1 recenters it on zero.
	halfScale = 4095.0 / 2.0
)

// ErrBadFraming reports a buffer whose length is not a whole number of IQ
// word pairs. Such a buffer is truncated or corrupt and is rejected before
// any sample is produced.
var ErrBadFraming = errors.New("frame: buffer length is not a whole number of IQ pairs")

// PolarityError reports a buffer whose I/Q channel-flag relationship is
// inverted relative to the expected word ordering. The hardware delivered the
// opposite interleaving and the buffer cannot be trusted; the caller must
// discard it and re-acquire.
type PolarityError struct {
	WordIndex int
	Word      uint16
	WantQ     bool
}

func (e *PolarityError) Error() string {
	ch := "in-phase"
	if e.WantQ {
		ch = "quadrature"
	}
	return fmt.Sprintf("frame: channel flag mismatch on %s word %d (0x%04x)", ch, e.WordIndex, e.Word)
}

// Decoded is the result of decoding one raw buffer.
type Decoded struct {
	// Samples holds one complex value per IQ pair, normalized to roughly
	// [-1-1i, 1+1i].
	Samples []complex128

	// OTMIndex is the sample index of the detected on-time marker, or -1
	// when no marker is present in the buffer.
	OTMIndex int

	// OTMOffset is the time in seconds from the marker to the end of the
	// buffer (exclusive of the marker sample itself), or 0 when no marker
	// was found.
	OTMOffset float64
}
