package rasdr

import "math"

// MinTunableFreq and MaxTunableFreq bound the synthesizer's achievable
// envelope for a given reference clock.
func MinTunableFreq(referenceHz float64) float64 {
	return referenceHz * minDividerR / float64(maxDividerN-1)
}

func MaxTunableFreq(referenceHz float64) float64 {
	return referenceHz * float64(maxDividerR-1) / minDividerN
}

// SetCenterFreq tunes the synthesizer to the realizable frequency closest to
// hz. Every divider pair (r, n) with r in [10,130) and n in [1,32) is tried
// and the pair minimizing the squared frequency error wins; ties keep the
// first candidate in ascending (r, n) order, so the search is deterministic.
// The committed frequency usually differs from the request; CenterFreq
// returns the authoritative value.
func (s *OperatingState) SetCenterFreq(hz float64) error {
	if math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
		return paramErr("center frequency", hz,
			MinTunableFreq(s.referenceFreq), MaxTunableFreq(s.referenceFreq))
	}

	best := Divider{}
	bestErr := math.Inf(1)
	for r := minDividerR; r < maxDividerR; r++ {
		for n := minDividerN; n < maxDividerN; n++ {
			f := s.referenceFreq * float64(r) / float64(n)
			d := f - hz
			if e := d * d; e < bestErr {
				bestErr = e
				best = Divider{R: r, N: n}
			}
		}
	}

	s.mu.Lock()
	s.divider = best
	s.centerFreq = s.referenceFreq * float64(best.R) / float64(best.N)
	s.mu.Unlock()
	return nil
}
