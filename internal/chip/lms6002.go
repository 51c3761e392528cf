package chip

import (
	"fmt"
	"strconv"
)

// lpfBandwidths lists the LMS6002 channel filter bandwidths in Hz, indexed
// by bandwidth code. Code 0 is the widest setting.
var lpfBandwidths = []float64{
	28e6, 20e6, 14e6, 12e6, 10e6, 8.75e6, 7e6, 6e6,
	5.5e6, 5e6, 3.84e6, 3e6, 2.75e6, 2.5e6, 1.75e6, 1.5e6,
}

// LMS6002 programs the transceiver's receive chain: the three gain stages
// and the channel filter bandwidth code.
type LMS6002 struct {
	bus    RegisterBus
	device string
}

func NewLMS6002(bus RegisterBus, device string) *LMS6002 {
	if device == "" {
		device = "lms6002"
	}
	return &LMS6002{bus: bus, device: device}
}

// ProgramGains writes the committed stage values. The LNA register takes a
// switch code (0/1/2 for 0/3/6 dB), VGA1 centi-dB, VGA2 the 3 dB step count.
func (c *LMS6002) ProgramGains(lna, vga1, vga2 float64) error {
	lnaCode := 0
	switch {
	case lna >= 6:
		lnaCode = 2
	case lna >= 3:
		lnaCode = 1
	}
	if err := c.bus.WriteAttr(c.device, "lna_gain", strconv.Itoa(lnaCode)); err != nil {
		return fmt.Errorf("lms6002: program lna: %w", err)
	}
	if err := c.bus.WriteAttr(c.device, "rxvga1_gain", strconv.Itoa(int(vga1*100+0.5))); err != nil {
		return fmt.Errorf("lms6002: program vga1: %w", err)
	}
	if err := c.bus.WriteAttr(c.device, "rxvga2_gain", strconv.Itoa(int(vga2/3+0.5))); err != nil {
		return fmt.Errorf("lms6002: program vga2: %w", err)
	}
	return nil
}

// BandwidthCode maps a requested bandwidth onto the narrowest LPF setting
// that still covers it. Requests below the narrowest filter get the
// narrowest code.
func BandwidthCode(hz float64) int {
	code := 0
	for i, bw := range lpfBandwidths {
		if bw >= hz {
			code = i
		}
	}
	return code
}

// ProgramBandwidth writes the LPF bandwidth code for the committed analog
// bandwidth.
func (c *LMS6002) ProgramBandwidth(hz float64) error {
	code := BandwidthCode(hz)
	if err := c.bus.WriteAttr(c.device, "lpf_bw", strconv.Itoa(code)); err != nil {
		return fmt.Errorf("lms6002: program lpf: %w", err)
	}
	return nil
}
