package rasdr

import "math"

// SetSampleRate commits a new sample rate. The rate and its reciprocal are
// updated together under the lock so a concurrent reader never observes a
// mismatched pair.
func (s *OperatingState) SetSampleRate(hz float64) error {
	if math.IsNaN(hz) || hz < MinSampleRate || hz > MaxSampleRate {
		return paramErr("sample rate", hz, MinSampleRate, MaxSampleRate)
	}
	s.mu.Lock()
	s.sampleRate = hz
	s.secondsPerSample = 1 / hz
	s.mu.Unlock()
	return nil
}

// SetBandwidth commits a new analog bandwidth.
func (s *OperatingState) SetBandwidth(hz float64) error {
	if math.IsNaN(hz) || hz < MinBandwidth || hz > MaxBandwidth {
		return paramErr("bandwidth", hz, MinBandwidth, MaxBandwidth)
	}
	s.mu.Lock()
	s.bandwidth = hz
	s.mu.Unlock()
	return nil
}
