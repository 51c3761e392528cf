package chip

import (
	"fmt"
	"math"
	"strconv"
)

const (
	si5351PLLLow  = 600e6
	si5351PLLHigh = 900e6
)

// Si5351 programs the clock generator that derives the ADC sample clock from
// the reference oscillator. The PLL runs at a fixed multiple of the
// reference inside its 600-900 MHz lock range and an integer multisynth
// divider produces the output clock.
type Si5351 struct {
	bus       RegisterBus
	device    string
	reference float64
}

func NewSi5351(bus RegisterBus, device string, referenceHz float64) *Si5351 {
	if device == "" {
		device = "si5351"
	}
	return &Si5351{bus: bus, device: device, reference: referenceHz}
}

// ProgramSampleClock configures the PLL and output divider for the committed
// sample rate. The divider is integer, so the generated clock can deviate
// slightly from the request; the realized rate is returned.
func (c *Si5351) ProgramSampleClock(hz float64) (float64, error) {
	if hz <= 0 {
		return 0, fmt.Errorf("si5351: invalid sample clock %g Hz", hz)
	}

	// Highest in-range PLL that is an integer multiple of the reference
	// gives the finest divider granularity.
	mult := int(si5351PLLHigh / c.reference)
	pll := c.reference * float64(mult)
	if pll < si5351PLLLow {
		return 0, fmt.Errorf("si5351: reference %g Hz cannot reach PLL lock range", c.reference)
	}

	div := int(math.Round(pll / hz))
	if div < 1 {
		div = 1
	}
	realized := pll / float64(div)

	if err := c.bus.WriteAttr(c.device, "pll_mult", strconv.Itoa(mult)); err != nil {
		return 0, fmt.Errorf("si5351: program pll: %w", err)
	}
	if err := c.bus.WriteAttr(c.device, "ms_div", strconv.Itoa(div)); err != nil {
		return 0, fmt.Errorf("si5351: program multisynth: %w", err)
	}
	return realized, nil
}
