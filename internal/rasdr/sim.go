package rasdr

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"sync"
)

var errSourceClosed = errors.New("simulated frame source is closed")

// SimSettings controls the built-in frame source used in simulation mode.
type SimSettings struct {
	ToneOffset float64 // Hz, tone frequency relative to center
	Amplitude  float64 // 0..1 of full scale, defaults to 0.5
	NoiseLevel float64 // 0..1 of full scale

	// EmitOTM marks the OTMSample-th sample of every frame with the
	// on-time flag.
	EmitOTM   bool
	OTMSample int

	// InvertPolarity swaps which channel carries the bit-12 flag, for
	// exercising the decoder's polarity rejection.
	InvertPolarity bool
}

// SimSource synthesizes bit-exact packed frames: a tone sampled at the
// channel's current rate, packed into 12-bit offset-encoded words with the
// correct channel-flag parity and an optional on-time marker. It emulates
// the transport layer well enough to exercise the decode path end to end; it
// makes no claim of waveform fidelity.
type SimSource struct {
	mu       sync.Mutex
	state    *OperatingState
	settings SimSettings
	phase    float64
	closed   bool
}

// NewSimSource builds a simulated source driven by the channel state's
// current sample rate.
func NewSimSource(state *OperatingState, settings SimSettings) *SimSource {
	if settings.Amplitude == 0 {
		settings.Amplitude = 0.5
	}
	if settings.ToneOffset == 0 {
		settings.ToneOffset = 200e3
	}
	return &SimSource{state: state, settings: settings}
}

// ReadFrame produces one packed frame of numSamples complex samples. The
// tone phase is continuous across frames.
func (s *SimSource) ReadFrame(numSamples int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errSourceClosed
	}
	if numSamples <= 0 {
		numSamples = DefaultSamples
	}

	rate := s.state.SampleRate()
	if rate <= 0 {
		rate = DefaultRate
	}
	step := 2 * math.Pi * s.settings.ToneOffset / rate

	buf := make([]byte, numSamples*4)
	for i := 0; i < numSamples; i++ {
		iVal := s.settings.Amplitude * math.Cos(s.phase)
		qVal := s.settings.Amplitude * math.Sin(s.phase)
		s.phase += step
		if s.settings.NoiseLevel > 0 {
			iVal += rand.NormFloat64() * s.settings.NoiseLevel
			qVal += rand.NormFloat64() * s.settings.NoiseLevel
		}

		iWord := packSample(iVal)
		qWord := packSample(qVal) | channelFlagBit
		if s.settings.InvertPolarity {
			iWord |= channelFlagBit
			qWord &^= channelFlagBit
		}
		if s.settings.EmitOTM && i == s.settings.OTMSample {
			iWord |= otmFlagBit
			qWord |= otmFlagBit
		}

		binary.LittleEndian.PutUint16(buf[4*i:], iWord)
		binary.LittleEndian.PutUint16(buf[4*i+2:], qWord)
	}
	return buf, nil
}

func (s *SimSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

const (
	otmFlagBit     = 0x8000
	channelFlagBit = 0x1000
	sampleMaskBits = 0x0FFF
)

// packSample converts a value in [-1, 1] to the 12-bit offset encoding.
func packSample(v float64) uint16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return uint16(math.Round((v+1)*4095.0/2.0)) & sampleMaskBits
}
