package frame

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func packWords(words []uint16) []byte {
	buf := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[2*i:], w)
	}
	return buf
}

// testWords builds n samples of interleaved words with the channel flag on
// the quadrature positions for the given interleaving.
func testWords(n int, iqPolarity bool, iMag, qMag uint16) []uint16 {
	words := make([]uint16, 2*n)
	for k := range words {
		isQ := (k%2 == 0) == iqPolarity
		if isQ {
			words[k] = (qMag & sampleMask) | channelFlag
		} else {
			words[k] = iMag & sampleMask
		}
	}
	return words
}

func TestDecodeNormalization(t *testing.T) {
	// Full-scale I, zero Q: samples should land at (+1, -1i).
	words := testWords(4, false, 0x0FFF, 0x0000)
	out, err := Decode(packWords(words), false, false, 0.5e-6)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(out.Samples) != 4 {
		t.Fatalf("expected 4 samples got %d", len(out.Samples))
	}
	for i, s := range out.Samples {
		if math.Abs(real(s)-1) > 1e-12 || math.Abs(imag(s)+1) > 1e-12 {
			t.Fatalf("sample %d expected (1,-1i) got %v", i, s)
		}
	}
	if out.OTMIndex != -1 {
		t.Fatalf("expected no marker, got index %d", out.OTMIndex)
	}
	if out.OTMOffset != 0 {
		t.Fatalf("expected zero offset without marker, got %g", out.OTMOffset)
	}
}

func TestDecodeMidScaleIsNearZero(t *testing.T) {
	words := testWords(2, false, 0x0800, 0x0800)
	out, err := Decode(packWords(words), false, false, 1e-6)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for _, s := range out.Samples {
		if math.Abs(real(s)) > 1e-3 || math.Abs(imag(s)) > 1e-3 {
			t.Fatalf("mid-scale sample not near zero: %v", s)
		}
	}
}

func TestDecodeMagnitudeIgnoresFlagBits(t *testing.T) {
	// Same magnitude with and without the OTM flag must decode identically.
	plain := testWords(1, false, 0x0123, 0x0456)
	flagged := testWords(1, false, 0x0123, 0x0456)
	flagged[0] |= otmFlag
	flagged[1] |= otmFlag

	a, err := Decode(packWords(plain), false, false, 1e-6)
	if err != nil {
		t.Fatalf("decode plain: %v", err)
	}
	b, err := Decode(packWords(flagged), false, false, 1e-6)
	if err != nil {
		t.Fatalf("decode flagged: %v", err)
	}
	if a.Samples[0] != b.Samples[0] {
		t.Fatalf("flag bits leaked into magnitude: %v vs %v", a.Samples[0], b.Samples[0])
	}
}

func TestDecodeSwappedInterleaving(t *testing.T) {
	words := testWords(8, true, 0x0FFF, 0x0000)
	out, err := Decode(packWords(words), true, false, 1e-6)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i, s := range out.Samples {
		if math.Abs(real(s)-1) > 1e-12 || math.Abs(imag(s)+1) > 1e-12 {
			t.Fatalf("sample %d expected (1,-1i) got %v", i, s)
		}
	}
}

func TestDecodeRejectsInvertedPolarity(t *testing.T) {
	// Channel flag on the in-phase positions instead of quadrature.
	words := testWords(4, true, 0x0800, 0x0800)
	_, err := Decode(packWords(words), false, false, 1e-6)
	var perr *PolarityError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PolarityError got %v", err)
	}

	// The correctly-flagged stream must also be rejected when the caller
	// expects the opposite interleaving.
	words = testWords(4, false, 0x0800, 0x0800)
	if _, err := Decode(packWords(words), true, false, 1e-6); !errors.As(err, &perr) {
		t.Fatalf("expected PolarityError got %v", err)
	}
}

func TestDecodeRejectsBadFraming(t *testing.T) {
	words := testWords(4, false, 0x0800, 0x0800)
	buf := packWords(words)

	for _, trim := range []int{1, 2, 3} {
		if _, err := Decode(buf[:len(buf)-trim], false, false, 1e-6); !errors.Is(err, ErrBadFraming) {
			t.Fatalf("trim %d: expected ErrBadFraming got %v", trim, err)
		}
	}
}

func TestDecodeOTMIndexAndOffset(t *testing.T) {
	const secondsPerSample = 0.5e-6
	words := testWords(16, false, 0x0800, 0x0800) // 32 words
	words[10] |= otmFlag                          // sample index 5

	out, err := Decode(packWords(words), false, false, secondsPerSample)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.OTMIndex != 5 {
		t.Fatalf("expected marker at sample 5 got %d", out.OTMIndex)
	}
	want := float64(16-5-1) * secondsPerSample
	if math.Abs(out.OTMOffset-want) > 1e-15 {
		t.Fatalf("expected offset %g got %g", want, out.OTMOffset)
	}
}

func TestDecodeOTMFirstMatchWins(t *testing.T) {
	words := testWords(8, false, 0x0800, 0x0800)
	words[6] |= otmFlag
	words[12] |= otmFlag

	out, err := Decode(packWords(words), false, false, 1e-6)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.OTMIndex != 3 {
		t.Fatalf("expected first marker at sample 3 got %d", out.OTMIndex)
	}
}

func TestDecodeOTMInvertedSense(t *testing.T) {
	// With otmPolarity true the marker is the first word with bit 15 clear.
	words := testWords(8, false, 0x0800, 0x0800)
	for k := range words {
		words[k] |= otmFlag
	}
	words[8] &^= otmFlag // sample index 4

	out, err := Decode(packWords(words), false, true, 1e-6)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.OTMIndex != 4 {
		t.Fatalf("expected marker at sample 4 got %d", out.OTMIndex)
	}

	// All words flagged means no marker in the inverted sense.
	for k := range words {
		words[k] |= otmFlag
	}
	out, err = Decode(packWords(words), false, true, 1e-6)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.OTMIndex != -1 {
		t.Fatalf("expected no marker got %d", out.OTMIndex)
	}
}

func TestDecodeEmptyBuffer(t *testing.T) {
	out, err := Decode(nil, false, false, 1e-6)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(out.Samples) != 0 || out.OTMIndex != -1 {
		t.Fatalf("unexpected result for empty buffer: %+v", out)
	}
}
