// Package config loads YAML receiver profiles. A profile is a baseline
// configuration applied through the validated setters, so an out-of-range
// profile is rejected with the same errors as a live request.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rasdr/gorasdr/internal/rasdr"
)

// Profile is the on-disk receiver configuration.
type Profile struct {
	Tuning struct {
		CenterFreq float64 `yaml:"center_freq"`
		SampleRate float64 `yaml:"sample_rate"`
		Bandwidth  float64 `yaml:"bandwidth"`
		Gain       float64 `yaml:"gain"`
	} `yaml:"tuning"`

	Stream struct {
		FrameSamples int  `yaml:"frame_samples"`
		IQPolarity   bool `yaml:"iq_polarity"`
		OTMPolarity  bool `yaml:"otm_polarity"`
	} `yaml:"stream"`

	Remote struct {
		Host      string `yaml:"host"`
		User      string `yaml:"user"`
		Password  string `yaml:"password"`
		KeyPath   string `yaml:"key_path"`
		Port      int    `yaml:"port"`
		SysfsRoot string `yaml:"sysfs_root"`
	} `yaml:"remote"`
}

// Load reads and parses a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

// Apply pushes the profile's tuning section through the receiver's validated
// setters. Zero-valued fields are left at the receiver's current settings.
// The first rejected value aborts the apply and is returned unchanged, so
// callers see the same ParameterError a live request would produce.
func (p *Profile) Apply(r *rasdr.Receiver) error {
	if sr := p.Tuning.SampleRate; sr != 0 {
		if err := r.SetSampleRate(sr); err != nil {
			return err
		}
	}
	if bw := p.Tuning.Bandwidth; bw != 0 {
		if err := r.SetBandwidth(bw); err != nil {
			return err
		}
	}
	if fc := p.Tuning.CenterFreq; fc != 0 {
		if err := r.SetCenterFreq(fc); err != nil {
			return err
		}
	}
	if g := p.Tuning.Gain; g != 0 {
		if err := r.SetTotalGain(g); err != nil {
			return err
		}
	}
	return nil
}
