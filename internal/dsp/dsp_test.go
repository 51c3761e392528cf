package dsp

import (
	"math"
	"testing"
)

func TestHamming(t *testing.T) {
	win := Hamming(4)
	expected := []float64{0.08, 0.77, 0.77, 0.08}
	if len(win) != len(expected) {
		t.Fatalf("unexpected length: %d", len(win))
	}
	for i := range expected {
		if math.Abs(win[i]-expected[i]) > 1e-6 {
			t.Fatalf("index %d expected %.2f got %.6f", i, expected[i], win[i])
		}
	}
	if len(Hamming(0)) != 0 {
		t.Fatal("expected empty window for n=0")
	}
}

func TestApplyWindow(t *testing.T) {
	samples := []complex128{1 + 1i, 2 + 0i}
	win := []float64{0.5, 0.25}
	out := ApplyWindow(samples, win)
	if len(out) != 2 {
		t.Fatalf("length mismatch")
	}
	if real(out[0]) != 0.5 || imag(out[0]) != 0.5 {
		t.Fatalf("unexpected first value %v", out[0])
	}
	if len(ApplyWindow(samples, []float64{1})) != 0 {
		t.Fatalf("expected empty slice when lengths differ")
	}
}

func TestFFTShift(t *testing.T) {
	in := []complex128{0, 1, 2, 3}
	out := FFTShift(in)
	want := []complex128{2, 3, 0, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d got %v want %v", i, out[i], want[i])
		}
	}
}

func TestSpectrumFindsTone(t *testing.T) {
	const (
		n          = 1024
		sampleRate = 2e6
		tone       = 250e3
	)
	samples := make([]complex128, n)
	for i := range samples {
		phase := 2 * math.Pi * tone * float64(i) / sampleRate
		samples[i] = complex(math.Cos(phase), math.Sin(phase))
	}

	_, dbfs := SpectrumDBFS(samples)
	freq, level := PeakBin(dbfs, sampleRate)

	binWidth := sampleRate / n
	if math.Abs(freq-tone) > binWidth {
		t.Fatalf("peak at %g Hz want %g Hz", freq, tone)
	}
	// Unit-amplitude tone through a normalized Hamming window sits near
	// 0 dBFS.
	if level < -1 || level > 1 {
		t.Fatalf("peak level %g dBFS not near full scale", level)
	}
}

func TestSpectrumEmptyInput(t *testing.T) {
	fft, dbfs := SpectrumDBFS(nil)
	if len(fft) != 0 || len(dbfs) != 0 {
		t.Fatal("expected empty output for empty input")
	}
	if _, level := PeakBin(nil, 2e6); !math.IsInf(level, -1) {
		t.Fatalf("expected -Inf level for empty spectrum, got %g", level)
	}
}
