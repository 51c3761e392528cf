package rasdr

import (
	"fmt"
	"math"
	"sync"
)

// Hardware limits and factory defaults for the RASDR receive path.
const (
	ReferenceFreq = 30.72e6 // TCXO feeding the synthesizer, Hz

	DefaultGain    = 34.0  // dB
	DefaultFreq    = 400e6 // Hz
	DefaultRate    = 2e6   // Hz
	DefaultBW      = 1.5e6 // Hz
	DefaultSamples = 2048  // samples per frame

	MinSampleRate = 1e6
	MaxSampleRate = 32e6
	MinBandwidth  = 0.75e6
	MaxBandwidth  = 28e6
	MaxTotalGain  = 61.17

	minDividerR = 10
	maxDividerR = 130 // exclusive
	minDividerN = 1
	maxDividerN = 32 // exclusive
)

// Divider is the synthesizer's integer divider pair. The tuned frequency is
// reference * R / N.
type Divider struct {
	R int
	N int
}

// GainStages is the committed per-stage gain split in dB, upstream first.
type GainStages struct {
	LNA  float64
	VGA1 float64
	VGA2 float64
}

// Sum returns the total gain realized by the three stages.
func (g GainStages) Sum() float64 { return g.LNA + g.VGA1 + g.VGA2 }

// OperatingState holds the commanded and derived receive-path parameters for
// one channel. Setters validate first and commit under an exclusive lock;
// getters take a shared lock. A rejected request never mutates the state.
type OperatingState struct {
	mu sync.RWMutex

	referenceFreq    float64 // immutable after construction
	centerFreq       float64
	divider          Divider
	sampleRate       float64
	secondsPerSample float64
	bandwidth        float64
	gains            GainStages
	totalGain        float64
	numSamples       int
	open             bool
}

// NewOperatingState creates a state record for a channel driven by the given
// reference clock. Defaults are applied by Receiver.Open through the
// validated setters so every derived field stays consistent.
func NewOperatingState(referenceHz float64) *OperatingState {
	return &OperatingState{
		referenceFreq: referenceHz,
		divider:       Divider{R: minDividerR, N: minDividerN},
		numSamples:    DefaultSamples,
	}
}

// Reference returns the fixed reference clock frequency in Hz.
func (s *OperatingState) Reference() float64 { return s.referenceFreq }

// CenterFreq returns the frequency the synthesizer actually realizes, which
// may differ from the last requested value.
func (s *OperatingState) CenterFreq() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.centerFreq
}

// Divider returns the committed synthesizer divider pair.
func (s *OperatingState) Divider() Divider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.divider
}

// SampleRate returns the committed sample rate in Hz.
func (s *OperatingState) SampleRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sampleRate
}

// SecondsPerSample returns the reciprocal of the committed sample rate.
func (s *OperatingState) SecondsPerSample() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secondsPerSample
}

// Bandwidth returns the committed analog bandwidth in Hz.
func (s *OperatingState) Bandwidth() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bandwidth
}

// Gains returns the committed per-stage gain split.
func (s *OperatingState) Gains() GainStages {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gains
}

// TotalGain returns the sum of the committed gain stages. Near the top of the
// range this can be less than the last request due to VGA2 quantization.
func (s *OperatingState) TotalGain() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalGain
}

// NumSamples returns the configured frame length in samples.
func (s *OperatingState) NumSamples() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.numSamples
}

// SetNumSamples sets the frame length used by the streaming layer.
func (s *OperatingState) SetNumSamples(n int) error {
	if n <= 0 {
		return paramErr("frame length", float64(n), 1, math.MaxInt32)
	}
	s.mu.Lock()
	s.numSamples = n
	s.mu.Unlock()
	return nil
}

// IsOpen reports whether the owning channel is open.
func (s *OperatingState) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

func (s *OperatingState) setOpen(open bool) {
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
}

// Describe renders a one-line diagnostic summary of the current state.
func (s *OperatingState) Describe() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf(
		"fc=%.0f Hz (r=%d n=%d ref=%.0f Hz) sr=%.0f Hz bw=%.0f Hz gain=%.2f dB (lna=%.0f vga1=%.2f vga2=%.0f) frame=%d open=%v",
		s.centerFreq, s.divider.R, s.divider.N, s.referenceFreq,
		s.sampleRate, s.bandwidth,
		s.totalGain, s.gains.LNA, s.gains.VGA1, s.gains.VGA2,
		s.numSamples, s.open,
	)
}
