package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasdr/gorasdr/internal/rasdr"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
tuning:
  center_freq: 1420.4e6
  sample_rate: 10e6
  bandwidth: 8e6
  gain: 56
stream:
  frame_samples: 4096
  iq_polarity: true
remote:
  host: rasdr.local
  port: 2200
`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1420.4e6, p.Tuning.CenterFreq)
	assert.Equal(t, 10e6, p.Tuning.SampleRate)
	assert.Equal(t, 8e6, p.Tuning.Bandwidth)
	assert.Equal(t, 56.0, p.Tuning.Gain)
	assert.Equal(t, 4096, p.Stream.FrameSamples)
	assert.True(t, p.Stream.IQPolarity)
	assert.False(t, p.Stream.OTMPolarity)
	assert.Equal(t, "rasdr.local", p.Remote.Host)
	assert.Equal(t, 2200, p.Remote.Port)
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := writeProfile(t, "tuning: [not a map")
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyGoesThroughValidatedSetters(t *testing.T) {
	rx, err := rasdr.Open(rasdr.Config{Simulation: true})
	require.NoError(t, err)
	defer rx.Close()

	p, err := Load(writeProfile(t, `
tuning:
  center_freq: 1420.4e6
  sample_rate: 10e6
  bandwidth: 8e6
  gain: 56
`))
	require.NoError(t, err)
	require.NoError(t, p.Apply(rx))

	assert.Equal(t, 10e6, rx.SampleRate())
	assert.Equal(t, 8e6, rx.Bandwidth())
	// The tuned frequency is the grid value closest to the request
	// (46/1 on a 30.72 MHz reference), not the request itself.
	assert.InDelta(t, 1413.12e6, rx.CenterFreq(), 1.0)
	assert.LessOrEqual(t, rx.TotalGain(), 56.0)
}

func TestApplyRejectsOutOfRangeProfile(t *testing.T) {
	rx, err := rasdr.Open(rasdr.Config{Simulation: true})
	require.NoError(t, err)
	defer rx.Close()

	before := rx.SampleRate()

	p, err := Load(writeProfile(t, `
tuning:
  sample_rate: 40e6
`))
	require.NoError(t, err)

	applyErr := p.Apply(rx)
	require.Error(t, applyErr)
	var perr *rasdr.ParameterError
	assert.ErrorAs(t, applyErr, &perr)
	assert.Equal(t, before, rx.SampleRate())
}
