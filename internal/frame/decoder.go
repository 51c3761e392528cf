package frame

import "encoding/binary"

// Decode converts a raw interleaved buffer into a calibrated complex frame.
//
// iqPolarity selects the word interleaving: false means I,Q,I,Q...; true
// means Q,I,Q,I... The channel flag (bit 12) must be clear on every in-phase
// word and set on every quadrature word; any violation returns a
// *PolarityError and no samples. otmPolarity selects the marker sense: false
// detects the marker at the first word with bit 15 set, true at the first
// word with bit 15 clear.
//
// secondsPerSample converts the marker position into a buffer-end-relative
// time offset; callers normally pass OperatingState.SecondsPerSample().
func Decode(buf []byte, iqPolarity, otmPolarity bool, secondsPerSample float64) (*Decoded, error) {
	if len(buf)%4 != 0 {
		return nil, ErrBadFraming
	}

	sampleCount := len(buf) / 4
	wordCount := sampleCount * 2

	// Validate channel polarity over the whole buffer before producing any
	// samples; a single inverted word condemns the buffer.
	for k := 0; k < wordCount; k++ {
		w := binary.LittleEndian.Uint16(buf[2*k:])
		wantQ := (k%2 == 0) == iqPolarity
		if (w&channelFlag != 0) != wantQ {
			return nil, &PolarityError{WordIndex: k, Word: w, WantQ: wantQ}
		}
	}

	out := &Decoded{
		Samples:  make([]complex128, sampleCount),
		OTMIndex: -1,
	}

	for k := 0; k < wordCount; k++ {
		w := binary.LittleEndian.Uint16(buf[2*k:])

		if out.OTMIndex < 0 {
			if marked := w&otmFlag != 0; marked != otmPolarity {
				out.OTMIndex = k / 2
			}
		}

		mag := float64(w&sampleMask)/halfScale - 1
		sample := k / 2
		if isQ := (k%2 == 0) == iqPolarity; isQ {
			out.Samples[sample] = complex(real(out.Samples[sample]), mag)
		} else {
			out.Samples[sample] = complex(mag, imag(out.Samples[sample]))
		}
	}

	if out.OTMIndex >= 0 {
		out.OTMOffset = float64(sampleCount-out.OTMIndex-1) * secondsPerSample
	}

	return out, nil
}
