// Package dsp provides the spectrum diagnostic used to sanity-check decoded
// frames.
package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTShift returns the FFT output shifted so that DC is centered.
func FFTShift(data []complex128) []complex128 {
	n := len(data)
	if n == 0 {
		return []complex128{}
	}
	half := n / 2
	shifted := append(data[half:], data[:half]...)
	return shifted
}

// SpectrumDBFS performs an FFT on a decoded frame, applies a Hamming window,
// normalizes by the window sum, and converts the magnitude to dBFS. Decoded
// samples are already normalized to unit full scale, so 0 dBFS is a
// full-scale tone.
func SpectrumDBFS(samples []complex128) ([]complex128, []float64) {
	if len(samples) == 0 {
		return []complex128{}, []float64{}
	}
	win := Hamming(len(samples))
	windowed := ApplyWindow(samples, win)
	fft := fourier.NewCmplxFFT(len(samples)).Coefficients(nil, windowed)
	sumWin := 0.0
	for _, v := range win {
		sumWin += v
	}
	for i := range fft {
		fft[i] /= complex(sumWin, 0)
	}
	shifted := FFTShift(fft)
	dbfs := make([]float64, len(shifted))
	for i, v := range shifted {
		mag := cmplx.Abs(v)
		if mag == 0 {
			dbfs[i] = -math.Inf(1)
			continue
		}
		dbfs[i] = 20 * math.Log10(mag)
	}
	return shifted, dbfs
}

// PeakBin returns the index and level of the strongest bin, with the index
// expressed as an offset from the centered DC bin.
func PeakBin(dbfs []float64, sampleRate float64) (freqHz, level float64) {
	if len(dbfs) == 0 {
		return 0, math.Inf(-1)
	}
	peak := 0
	for i, v := range dbfs {
		if v > dbfs[peak] {
			peak = i
		}
	}
	binWidth := sampleRate / float64(len(dbfs))
	return float64(peak-len(dbfs)/2) * binWidth, dbfs[peak]
}
